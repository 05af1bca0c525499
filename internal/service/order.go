package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/freshcart/storefront/internal/models"
	"github.com/freshcart/storefront/internal/pricing"
	"github.com/freshcart/storefront/internal/repo"
)

// OrderService converts validated carts into orders. Checkout is a hard
// gate: unlike CartService.ValidateCart it never clamps, it aborts.
type OrderService struct {
	Repo *repo.GormRepo
}

// PlaceOrder validates the cart against live product state, prices it and
// commits order creation, stock decrements and cart clearing as one
// transaction. A concurrent order that drains stock first makes the
// decrement guard fail, which rolls everything back and surfaces as a
// CartInvalidError.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint) (*models.Order, error) {
	items, err := s.Repo.GetCartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no items in cart: %w", ErrEmptyCart)
	}

	var issues []string
	subtotal := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(items))

	for _, item := range items {
		product, err := s.Repo.GetProduct(ctx, item.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			issues = append(issues, fmt.Sprintf("product %d is no longer available", item.ProductID))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load product %d: %w", item.ProductID, err)
		}

		if !product.IsActive {
			issues = append(issues, fmt.Sprintf("%s is no longer available", product.Name))
			continue
		}
		if product.Stock < item.Quantity {
			issues = append(issues, fmt.Sprintf("only %d %s available", product.Stock, product.Name))
			continue
		}

		unitPrice := pricing.EffectivePrice(product)
		lineTotal := pricing.LineTotal(product, item.Quantity)
		subtotal = subtotal.Add(lineTotal)
		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
		})
	}

	if len(issues) > 0 {
		return nil, &CartInvalidError{Issues: issues}
	}

	order := &models.Order{
		UserID:   userID,
		Items:    orderItems,
		Subtotal: subtotal,
		Tax:      pricing.Tax(subtotal),
		Shipping: pricing.Shipping(subtotal),
		Total:    pricing.GrandTotal(subtotal),
		Status:   models.OrderStatusPending,
	}

	if err := s.Repo.CreateOrderFromCart(ctx, order); err != nil {
		if errors.Is(err, repo.ErrStockConflict) {
			return nil, &CartInvalidError{Issues: []string{err.Error()}}
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, userID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint, offset, limit int) ([]models.Order, error) {
	orders, err := s.Repo.ListOrders(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
