package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/freshcart/storefront/internal/models"
	"github.com/freshcart/storefront/internal/repo"
)

func TestPlaceOrderEmptyCart(t *testing.T) {
	r := newTestRepo(t)
	svc := &OrderService{Repo: r}

	_, err := svc.PlaceOrder(context.Background(), 1)
	require.ErrorIs(t, err, ErrEmptyCart)

	var count int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestPlaceOrderSuccess(t *testing.T) {
	r := newTestRepo(t)
	carts := &CartService{Repo: r}
	svc := &OrderService{Repo: r}

	apples := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 100})
	grapes := seedProduct(t, r, productSpec{Name: "grapes", Price: "20.00", SalePrice: "15.00", Stock: 10})

	_, err := carts.AddToCart(context.Background(), 1, apples.ID, 2)
	require.NoError(t, err)
	_, err = carts.AddToCart(context.Background(), 1, grapes.ID, 1)
	require.NoError(t, err)

	order, err := svc.PlaceOrder(context.Background(), 1)
	require.NoError(t, err)

	// 2 x 10.00 + 1 x 15.00 (sale) = 35.00, tax 2.80, shipping 10.00
	require.True(t, dec("35.00").Equal(order.Subtotal), "subtotal %s", order.Subtotal)
	require.True(t, dec("2.80").Equal(order.Tax), "tax %s", order.Tax)
	require.True(t, dec("10.00").Equal(order.Shipping), "shipping %s", order.Shipping)
	require.True(t, dec("47.80").Equal(order.Total), "total %s", order.Total)
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.NotEqual(t, uuid.Nil, order.Reference)
	require.Len(t, order.Items, 2)

	require.Equal(t, uint(98), productStock(t, r, apples.ID))
	require.Equal(t, uint(9), productStock(t, r, grapes.ID))
	require.Equal(t, 0, cartSize(t, r, 1))
}

func TestPlaceOrderFreeShipping(t *testing.T) {
	r := newTestRepo(t)
	carts := &CartService{Repo: r}
	svc := &OrderService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "55.00", Stock: 5})

	_, err := carts.AddToCart(context.Background(), 1, p.ID, 1)
	require.NoError(t, err)

	order, err := svc.PlaceOrder(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, order.Shipping.IsZero())
	require.True(t, dec("59.40").Equal(order.Total), "total %s", order.Total)
}

func TestPlaceOrderInactiveProductAborts(t *testing.T) {
	r := newTestRepo(t)
	carts := &CartService{Repo: r}
	svc := &OrderService{Repo: r}

	apples := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 10})
	mangoes := seedProduct(t, r, productSpec{Name: "mangoes", Price: "5.00", Stock: 10})

	_, err := carts.AddToCart(context.Background(), 1, apples.ID, 1)
	require.NoError(t, err)
	_, err = carts.AddToCart(context.Background(), 1, mangoes.ID, 1)
	require.NoError(t, err)

	require.NoError(t, r.DB.Model(mangoes).Update("is_active", false).Error)

	_, err = svc.PlaceOrder(context.Background(), 1)
	require.ErrorIs(t, err, ErrCartInvalid)

	var invalid *CartInvalidError
	require.ErrorAs(t, err, &invalid)
	require.Len(t, invalid.Issues, 1)

	// nothing moved: stock intact, cart intact, no order rows
	require.Equal(t, uint(10), productStock(t, r, apples.ID))
	require.Equal(t, 2, cartSize(t, r, 1))
	var count int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestPlaceOrderInsufficientStockAborts(t *testing.T) {
	r := newTestRepo(t)
	carts := &CartService{Repo: r}
	svc := &OrderService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 5})

	_, err := carts.AddToCart(context.Background(), 1, p.ID, 3)
	require.NoError(t, err)
	require.NoError(t, r.SetStock(context.Background(), p.ID, 2))

	_, err = svc.PlaceOrder(context.Background(), 1)
	require.ErrorIs(t, err, ErrCartInvalid)
	require.Equal(t, uint(2), productStock(t, r, p.ID))
	require.Equal(t, 1, cartSize(t, r, 1))
}

func TestPlaceOrderCompetingCarts(t *testing.T) {
	r := newTestRepo(t)
	carts := &CartService{Repo: r}
	svc := &OrderService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 3})

	_, err := carts.AddToCart(context.Background(), 1, p.ID, 2)
	require.NoError(t, err)
	_, err = carts.AddToCart(context.Background(), 2, p.ID, 2)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(context.Background(), 1)
	require.NoError(t, err)

	_, err = svc.PlaceOrder(context.Background(), 2)
	require.ErrorIs(t, err, ErrCartInvalid)

	// only the winner decremented; the loser's cart survives
	require.Equal(t, uint(1), productStock(t, r, p.ID))
	require.Equal(t, 1, cartSize(t, r, 2))
}

// Drives the decrement guard directly, past the service-level validation,
// the way a racing order would hit it.
func TestStockGuardRollsBackWholeOrder(t *testing.T) {
	r := newTestRepo(t)
	carts := &CartService{Repo: r}

	apples := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 10})
	mangoes := seedProduct(t, r, productSpec{Name: "mangoes", Price: "5.00", Stock: 1})

	_, err := carts.AddToCart(context.Background(), 1, apples.ID, 2)
	require.NoError(t, err)

	order := &models.Order{
		UserID: 1,
		Items: []models.OrderItem{
			{ProductID: apples.ID, Quantity: 2, UnitPrice: dec("10.00"), LineTotal: dec("20.00")},
			{ProductID: mangoes.ID, Quantity: 5, UnitPrice: dec("5.00"), LineTotal: dec("25.00")},
		},
		Subtotal: dec("45.00"),
		Tax:      dec("3.60"),
		Shipping: dec("10.00"),
		Total:    dec("58.60"),
		Status:   models.OrderStatusPending,
	}
	err = r.CreateOrderFromCart(context.Background(), order)
	require.ErrorIs(t, err, repo.ErrStockConflict)

	// the apples decrement that ran first must be rolled back too
	require.Equal(t, uint(10), productStock(t, r, apples.ID))
	require.Equal(t, uint(1), productStock(t, r, mangoes.ID))
	require.Equal(t, 1, cartSize(t, r, 1))

	var count int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestListOrders(t *testing.T) {
	r := newTestRepo(t)
	carts := &CartService{Repo: r}
	svc := &OrderService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 100})

	for i := 0; i < 3; i++ {
		_, err := carts.AddToCart(context.Background(), 1, p.ID, 1)
		require.NoError(t, err)
		_, err = svc.PlaceOrder(context.Background(), 1)
		require.NoError(t, err)
	}

	orders, err := svc.ListOrders(context.Background(), 1, 0, 10)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	require.Len(t, orders[0].Items, 1)

	orders, err = svc.ListOrders(context.Background(), 2, 0, 10)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestGetOrderScopedToUser(t *testing.T) {
	r := newTestRepo(t)
	carts := &CartService{Repo: r}
	svc := &OrderService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 10})

	_, err := carts.AddToCart(context.Background(), 1, p.ID, 1)
	require.NoError(t, err)
	placed, err := svc.PlaceOrder(context.Background(), 1)
	require.NoError(t, err)

	got, err := svc.GetOrder(context.Background(), 1, placed.ID)
	require.NoError(t, err)
	require.Equal(t, placed.Reference, got.Reference)

	_, err = svc.GetOrder(context.Background(), 2, placed.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
