// Package pricing holds the pure money rules of the storefront: effective
// unit prices, line totals and the order-level tax/shipping/total math.
// Everything works on decimal values and nothing here touches storage.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/freshcart/storefront/internal/models"
)

var (
	taxRate          = decimal.RequireFromString("0.08")
	freeShippingFrom = decimal.RequireFromString("50.00")
	standardShipping = decimal.RequireFromString("10.00")
	hundred          = decimal.NewFromInt(100)
)

// EffectivePrice returns the price charged for one unit: the sale price when
// one is set and positive, otherwise the base price. A positive sale price
// wins even if it exceeds the base price; DiscountPercentage is the only
// place that compares the two. Missing data degrades to zero, never an error.
func EffectivePrice(p *models.Product) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	if p.SalePrice.Valid && p.SalePrice.Decimal.IsPositive() {
		return p.SalePrice.Decimal
	}
	if p.Price.IsNegative() {
		return decimal.Zero
	}
	return p.Price
}

// DiscountPercentage returns the discount as a truncated integer percentage,
// and only when the base price actually exceeds the sale price. Returns 0 in
// every other case, including a zero base price.
func DiscountPercentage(p *models.Product) int {
	if p == nil || !p.SalePrice.Valid {
		return 0
	}
	sale := p.SalePrice.Decimal
	if !sale.IsPositive() || !p.Price.GreaterThan(sale) || !p.Price.IsPositive() {
		return 0
	}
	return int(p.Price.Sub(sale).Mul(hundred).Div(p.Price).IntPart())
}

func LineTotal(p *models.Product, quantity uint) decimal.Decimal {
	return EffectivePrice(p).Mul(decimal.NewFromInt(int64(quantity)))
}

// Tax is a flat 8% of the subtotal.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxRate)
}

// Shipping is free from 50.00 up (inclusive), 10.00 below.
func Shipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(freeShippingFrom) {
		return decimal.Zero
	}
	return standardShipping
}

func GrandTotal(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(Tax(subtotal)).Add(Shipping(subtotal))
}
