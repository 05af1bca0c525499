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

// CartService owns a user's cart: quantity mutations, stock validation and
// live totals. Every user's cart is independent; the only shared state is
// product stock, which is only hard-checked at order time.
type CartService struct {
	Repo *repo.GormRepo
}

// CartLine is one priced line item of a cart summary.
type CartLine struct {
	Item      models.CartItem
	Product   models.Product
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// CartSummary is computed from the stored line items on every call, never
// cached, so it always reflects current quantities and prices.
type CartSummary struct {
	Items     []CartLine
	ItemCount uint
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Shipping  decimal.Decimal
	Total     decimal.Decimal
}

// CartValidation reports stock/availability problems and any quantity
// clamps that were applied while checking.
type CartValidation struct {
	Valid       bool
	Issues      []string
	Adjustments []string
}

func (s *CartService) lookupProduct(ctx context.Context, productID uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", productID, err)
	}
	return p, nil
}

// GetCart returns the user's line items. The cart itself is implicit in the
// line items, so first access of a new user is simply an empty cart.
func (s *CartService) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.Repo.GetCartItems(ctx, userID)
}

// AddToCart adds quantity units of a product, accumulating onto an existing
// line item. The requested quantity alone is checked against stock here; the
// accumulated total is reconciled by ValidateCart and at order time.
func (s *CartService) AddToCart(ctx context.Context, userID, productID, quantity uint) (*models.CartItem, error) {
	if quantity == 0 {
		return nil, fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
	}

	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, fmt.Errorf("only %d items available in stock: %w", product.Stock, ErrInsufficientStock)
	}

	item, err := s.Repo.UpsertCartItem(ctx, userID, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	return item, nil
}

// UpdateCartItem sets a line item's quantity. Zero or negative removes the
// item; removal of an absent item is a no-op. The removed return is true
// when the quantity asked for a removal.
func (s *CartService) UpdateCartItem(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, bool, error) {
	if quantity <= 0 {
		if _, err := s.Repo.DeleteCartItem(ctx, userID, productID); err != nil {
			return nil, false, fmt.Errorf("remove cart item: %w", err)
		}
		return nil, true, nil
	}

	product, err := s.lookupProduct(ctx, productID)
	if err != nil {
		return nil, false, err
	}
	if uint(quantity) > product.Stock {
		return nil, false, fmt.Errorf("only %d items available in stock: %w", product.Stock, ErrInsufficientStock)
	}

	updated, err := s.Repo.SetCartItemQuantity(ctx, userID, productID, uint(quantity))
	if err != nil {
		return nil, false, fmt.Errorf("update cart item: %w", err)
	}
	if !updated {
		return nil, false, fmt.Errorf("product %d: %w", productID, ErrItemNotFound)
	}

	item, err := s.Repo.GetCartItem(ctx, userID, productID)
	if err != nil {
		return nil, false, fmt.Errorf("reload cart item: %w", err)
	}
	return item, false, nil
}

// RemoveFromCart deletes a line item and reports whether one existed.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID uint) (bool, error) {
	return s.Repo.DeleteCartItem(ctx, userID, productID)
}

func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	return s.Repo.ClearCart(ctx, userID)
}

// Summary prices the cart with the live product state. Line items whose
// product has vanished are skipped here; ValidateCart and PlaceOrder are
// where they surface as issues.
func (s *CartService) Summary(ctx context.Context, userID uint) (*CartSummary, error) {
	items, err := s.Repo.GetCartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	summary := &CartSummary{
		Items:    make([]CartLine, 0, len(items)),
		Subtotal: decimal.Zero,
	}
	for _, item := range items {
		product, err := s.Repo.GetProduct(ctx, item.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load product %d: %w", item.ProductID, err)
		}

		line := CartLine{
			Item:      item,
			Product:   *product,
			UnitPrice: pricing.EffectivePrice(product),
			LineTotal: pricing.LineTotal(product, item.Quantity),
		}
		summary.Items = append(summary.Items, line)
		summary.ItemCount += item.Quantity
		summary.Subtotal = summary.Subtotal.Add(line.LineTotal)
	}

	summary.Tax = pricing.Tax(summary.Subtotal)
	summary.Shipping = pricing.Shipping(summary.Subtotal)
	summary.Total = pricing.GrandTotal(summary.Subtotal)
	return summary, nil
}

// ValidateCart checks every line item against live product state. Inactive
// and out-of-stock products are reported without touching the cart; a line
// wanting more than the remaining stock is clamped down to it and recorded
// as an adjustment. Any issue, clamps included, marks the cart invalid.
func (s *CartService) ValidateCart(ctx context.Context, userID uint) (*CartValidation, error) {
	items, err := s.Repo.GetCartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	result := &CartValidation{Valid: true}
	for _, item := range items {
		product, err := s.Repo.GetProduct(ctx, item.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result.Valid = false
			result.Issues = append(result.Issues, fmt.Sprintf("product %d is no longer available", item.ProductID))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load product %d: %w", item.ProductID, err)
		}

		if !product.IsActive {
			result.Valid = false
			result.Issues = append(result.Issues, fmt.Sprintf("%s is no longer available", product.Name))
			continue
		}

		if product.Stock < item.Quantity {
			result.Valid = false
			if product.Stock == 0 {
				result.Issues = append(result.Issues, fmt.Sprintf("%s is out of stock", product.Name))
				continue
			}
			result.Issues = append(result.Issues, fmt.Sprintf(
				"%s quantity reduced from %d to %d (insufficient stock)",
				product.Name, item.Quantity, product.Stock,
			))
			if _, err := s.Repo.SetCartItemQuantity(ctx, userID, item.ProductID, product.Stock); err != nil {
				return nil, fmt.Errorf("clamp cart item %d: %w", item.ProductID, err)
			}
			result.Adjustments = append(result.Adjustments, fmt.Sprintf(
				"%s quantity updated to %d", product.Name, product.Stock,
			))
		}
	}
	return result, nil
}
