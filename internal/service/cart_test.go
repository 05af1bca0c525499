package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAddToCartCreatesLineItem(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 100})

	item, err := svc.AddToCart(context.Background(), 1, p.ID, 2)
	require.NoError(t, err)
	require.Equal(t, uint(2), item.Quantity)
	require.Equal(t, uint(1), item.UserID)
	require.Equal(t, p.ID, item.ProductID)
}

func TestAddToCartAccumulates(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 100})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 2)
	require.NoError(t, err)
	item, err := svc.AddToCart(context.Background(), 1, p.ID, 3)
	require.NoError(t, err)
	require.Equal(t, uint(5), item.Quantity)
	require.Equal(t, 1, cartSize(t, r, 1))
}

func TestAddToCartInsufficientStock(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "mangoes", Price: "4.00", Stock: 1})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 2)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, 0, cartSize(t, r, 1))
}

func TestAddToCartUnknownProduct(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}

	_, err := svc.AddToCart(context.Background(), 1, 999, 1)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddToCartZeroQuantity(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 10})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 0)
	require.ErrorIs(t, err, ErrValidation)
}

func TestUpdateCartItemSetsQuantity(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 10})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 2)
	require.NoError(t, err)

	item, removed, err := svc.UpdateCartItem(context.Background(), 1, p.ID, 7)
	require.NoError(t, err)
	require.False(t, removed)
	require.Equal(t, uint(7), item.Quantity)
}

func TestUpdateCartItemZeroRemoves(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 10})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 2)
	require.NoError(t, err)

	// removal, then removal of the now-absent item: both succeed
	_, removed, err := svc.UpdateCartItem(context.Background(), 1, p.ID, 0)
	require.NoError(t, err)
	require.True(t, removed)

	_, removed, err = svc.UpdateCartItem(context.Background(), 1, p.ID, -3)
	require.NoError(t, err)
	require.True(t, removed)
	require.Equal(t, 0, cartSize(t, r, 1))
}

func TestUpdateCartItemNotInCart(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 10})

	_, _, err := svc.UpdateCartItem(context.Background(), 1, p.ID, 3)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestUpdateCartItemInsufficientStock(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 5})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 2)
	require.NoError(t, err)

	_, _, err = svc.UpdateCartItem(context.Background(), 1, p.ID, 6)
	require.ErrorIs(t, err, ErrInsufficientStock)

	item, err := r.GetCartItem(context.Background(), 1, p.ID)
	require.NoError(t, err)
	require.Equal(t, uint(2), item.Quantity)
}

func TestRemoveFromCart(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 10})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 1)
	require.NoError(t, err)

	deleted, err := svc.RemoveFromCart(context.Background(), 1, p.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = svc.RemoveFromCart(context.Background(), 1, p.ID)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestSummaryUnderFreeShipping(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 100})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 2)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, uint(2), summary.ItemCount)
	require.True(t, dec("20.00").Equal(summary.Subtotal), "subtotal %s", summary.Subtotal)
	require.True(t, dec("1.60").Equal(summary.Tax), "tax %s", summary.Tax)
	require.True(t, dec("10.00").Equal(summary.Shipping), "shipping %s", summary.Shipping)
	require.True(t, dec("31.60").Equal(summary.Total), "total %s", summary.Total)
}

func TestSummaryFreeShippingBoundary(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "25.00", Stock: 100})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 2)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, dec("50.00").Equal(summary.Subtotal))
	require.True(t, decimal.Zero.Equal(summary.Shipping))
}

func TestSummaryUsesSalePrice(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "grapes", Price: "10.00", SalePrice: "7.50", Stock: 100})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 2)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	require.True(t, dec("7.50").Equal(summary.Items[0].UnitPrice))
	require.True(t, dec("15.00").Equal(summary.Subtotal))
}

func TestSummaryIsLiveNotCached(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 100})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 2)
	require.NoError(t, err)
	_, err = svc.Summary(context.Background(), 1)
	require.NoError(t, err)

	_, _, err = svc.UpdateCartItem(context.Background(), 1, p.ID, 5)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, dec("50.00").Equal(summary.Subtotal))
}

func TestClearCart(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	a := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 10})
	b := seedProduct(t, r, productSpec{Name: "bananas", Price: "3.00", Stock: 10})

	_, err := svc.AddToCart(context.Background(), 1, a.ID, 1)
	require.NoError(t, err)
	_, err = svc.AddToCart(context.Background(), 1, b.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(context.Background(), 1))
	require.Equal(t, 0, cartSize(t, r, 1))
}

func TestCartsAreIndependentPerUser(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 100})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 2)
	require.NoError(t, err)
	_, err = svc.AddToCart(context.Background(), 2, p.ID, 5)
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(context.Background(), 1))
	require.Equal(t, 0, cartSize(t, r, 1))
	require.Equal(t, 1, cartSize(t, r, 2))
}

func TestValidateCartClampsQuantity(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 5})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 3)
	require.NoError(t, err)

	// stock dropped behind the cart's back
	require.NoError(t, r.SetStock(context.Background(), p.ID, 1))

	result, err := svc.ValidateCart(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Len(t, result.Issues, 1)
	require.Len(t, result.Adjustments, 1)

	item, err := r.GetCartItem(context.Background(), 1, p.ID)
	require.NoError(t, err)
	require.Equal(t, uint(1), item.Quantity)
}

func TestValidateCartOutOfStockKeepsQuantity(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 5})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 3)
	require.NoError(t, err)
	require.NoError(t, r.SetStock(context.Background(), p.ID, 0))

	result, err := svc.ValidateCart(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Len(t, result.Issues, 1)
	require.Empty(t, result.Adjustments)

	item, err := r.GetCartItem(context.Background(), 1, p.ID)
	require.NoError(t, err)
	require.Equal(t, uint(3), item.Quantity)
}

func TestValidateCartInactiveProduct(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 5})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 2)
	require.NoError(t, err)
	require.NoError(t, r.DB.Model(p).Update("is_active", false).Error)

	result, err := svc.ValidateCart(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Len(t, result.Issues, 1)
	require.Empty(t, result.Adjustments)
}

func TestValidateCartClean(t *testing.T) {
	r := newTestRepo(t)
	svc := &CartService{Repo: r}
	p := seedProduct(t, r, productSpec{Name: "apples", Price: "10.00", Stock: 5})

	_, err := svc.AddToCart(context.Background(), 1, p.ID, 2)
	require.NoError(t, err)

	result, err := svc.ValidateCart(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Empty(t, result.Issues)
	require.Empty(t, result.Adjustments)
}
