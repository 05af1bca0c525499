// Package transport holds the request/response shapes of the HTTP API.
// Money leaves the system rounded to two decimals here and nowhere else.
package transport

import (
	"github.com/shopspring/decimal"

	"github.com/freshcart/storefront/internal/models"
	"github.com/freshcart/storefront/internal/pricing"
	"github.com/freshcart/storefront/internal/service"
)

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartLineResponse struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  uint   `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type CartSummaryResponse struct {
	Items     []CartLineResponse `json:"items"`
	ItemCount uint               `json:"item_count"`
	Subtotal  string             `json:"subtotal"`
	Tax       string             `json:"tax"`
	Shipping  string             `json:"shipping"`
	Total     string             `json:"total"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func NewCartSummaryResponse(s *service.CartSummary) CartSummaryResponse {
	resp := CartSummaryResponse{
		Items:     make([]CartLineResponse, 0, len(s.Items)),
		ItemCount: s.ItemCount,
		Subtotal:  money(s.Subtotal),
		Tax:       money(s.Tax),
		Shipping:  money(s.Shipping),
		Total:     money(s.Total),
	}
	for _, line := range s.Items {
		resp.Items = append(resp.Items, CartLineResponse{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			Quantity:  line.Item.Quantity,
			UnitPrice: money(line.UnitPrice),
			LineTotal: money(line.LineTotal),
		})
	}
	return resp
}

type CartValidationResponse struct {
	Valid       bool     `json:"valid"`
	Issues      []string `json:"issues"`
	Adjustments []string `json:"adjustments"`
}

type OrderItemResponse struct {
	ProductID uint   `json:"product_id"`
	Quantity  uint   `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type OrderResponse struct {
	OrderID   uint                `json:"order_id"`
	Reference string              `json:"reference"`
	Status    string              `json:"status"`
	Items     []OrderItemResponse `json:"items"`
	Subtotal  string              `json:"subtotal"`
	Tax       string              `json:"tax"`
	Shipping  string              `json:"shipping"`
	Total     string              `json:"total"`
}

func NewOrderResponse(o *models.Order) OrderResponse {
	resp := OrderResponse{
		OrderID:   o.ID,
		Reference: o.Reference.String(),
		Status:    o.Status,
		Items:     make([]OrderItemResponse, 0, len(o.Items)),
		Subtotal:  money(o.Subtotal),
		Tax:       money(o.Tax),
		Shipping:  money(o.Shipping),
		Total:     money(o.Total),
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: money(item.UnitPrice),
			LineTotal: money(item.LineTotal),
		})
	}
	return resp
}

type PaymentRequest struct {
	CardNumber     string `json:"card_number"`
	ExpiryDate     string `json:"expiry_date"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholder_name"`
}

type ProductRequest struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	CategoryID  uint    `json:"category_id"`
	Description string  `json:"description"`
	Price       string  `json:"price"`
	SalePrice   *string `json:"sale_price"`
	Stock       uint    `json:"stock"`
	IsFeatured  bool    `json:"is_featured"`
	IsActive    *bool   `json:"is_active"`
}

type ProductResponse struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	Slug               string  `json:"slug"`
	CategoryID         uint    `json:"category_id"`
	Description        string  `json:"description"`
	Price              string  `json:"price"`
	SalePrice          *string `json:"sale_price,omitempty"`
	EffectivePrice     string  `json:"effective_price"`
	DiscountPercentage int     `json:"discount_percentage"`
	Stock              uint    `json:"stock"`
	IsFeatured         bool    `json:"is_featured"`
	IsActive           bool    `json:"is_active"`
}

func NewProductResponse(p *models.Product) ProductResponse {
	resp := ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Slug:               p.Slug,
		CategoryID:         p.CategoryID,
		Description:        p.Description,
		Price:              money(p.Price),
		EffectivePrice:     money(pricing.EffectivePrice(p)),
		DiscountPercentage: pricing.DiscountPercentage(p),
		Stock:              p.Stock,
		IsFeatured:         p.IsFeatured,
		IsActive:           p.IsActive,
	}
	if p.SalePrice.Valid {
		sale := money(p.SalePrice.Decimal)
		resp.SalePrice = &sale
	}
	return resp
}

type ReviewRequest struct {
	Rating  uint   `json:"rating"`
	Comment string `json:"comment"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta"`
}
