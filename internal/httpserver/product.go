package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/freshcart/storefront/internal/event"
	"github.com/freshcart/storefront/internal/models"
	"github.com/freshcart/storefront/internal/repo"
	"github.com/freshcart/storefront/internal/service"
	"github.com/freshcart/storefront/internal/service/search"
	"github.com/freshcart/storefront/internal/transport"
	"github.com/freshcart/storefront/internal/util"
)

type ProductHandler struct {
	Catalog   *service.CatalogService
	Producer  *event.Producer
	Indexer   *search.Indexer
	JWTSecret []byte
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHandler) publish(c echo.Context, e map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, event.TopicProduct, fmt.Sprint(e["productID"]), e); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *ProductHandler) index(c echo.Context, p *models.Product) {
	if h.Indexer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Indexer.IndexProduct(ctx, p); err != nil {
		c.Logger().Errorf("search index error: %v", err)
	}
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	product, err := h.Catalog.GetProduct(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.NewProductResponse(product))
}

func (h *ProductHandler) GetProductBySlug(c echo.Context) error {
	slug := c.Param("slug")
	if slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product slug")
	}

	product, err := h.Catalog.GetProductBySlug(c.Request().Context(), slug)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.NewProductResponse(product))
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	filter := repo.ProductFilter{
		CategoryID:  uint(parseIntDefault(c.QueryParam("category_id"), 0)),
		InStockOnly: c.QueryParam("in_stock") == "true",
		SortBy:      c.QueryParam("sort"),
	}
	if slug := c.QueryParam("category"); slug != "" {
		category, err := h.Catalog.CategoryBySlug(c.Request().Context(), slug)
		if err != nil {
			return httpError(err)
		}
		filter.CategoryID = category.ID
	}

	products, total, err := h.Catalog.ListProducts(c.Request().Context(), filter, offset, limit)
	if err != nil {
		return httpError(err)
	}

	items := make([]transport.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, transport.NewProductResponse(&products[i]))
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) GetFeatured(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), 6)

	products, err := h.Catalog.FeaturedProducts(c.Request().Context(), limit)
	if err != nil {
		return httpError(err)
	}

	items := make([]transport.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, transport.NewProductResponse(&products[i]))
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) GetCategories(c echo.Context) error {
	categories, err := h.Catalog.ListCategories(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, categories)
}

func productFromRequest(req transport.ProductRequest) (*models.Product, error) {
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	p := &models.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
		IsFeatured:  req.IsFeatured,
		IsActive:    true,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.SalePrice != nil {
		sale, err := decimal.NewFromString(*req.SalePrice)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid sale price")
		}
		p.SalePrice = decimal.NullDecimal{Decimal: sale, Valid: true}
	}
	return p, nil
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	product, err := productFromRequest(req)
	if err != nil {
		return err
	}
	if err := h.Catalog.CreateProduct(c.Request().Context(), product); err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})
	h.index(c, product)
	return c.JSON(http.StatusCreated, transport.NewProductResponse(product))
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	update := service.ProductUpdate{}
	if req.Name != "" {
		update.Name = &req.Name
	}
	if req.Description != "" {
		update.Description = &req.Description
	}
	if req.CategoryID != 0 {
		update.CategoryID = &req.CategoryID
	}
	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
		}
		update.Price = &price
	}
	if req.SalePrice != nil {
		sale := decimal.NullDecimal{}
		if *req.SalePrice != "" {
			d, err := decimal.NewFromString(*req.SalePrice)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid sale price")
			}
			sale = decimal.NullDecimal{Decimal: d, Valid: true}
		}
		update.SalePrice = &sale
	}
	if req.IsActive != nil {
		update.IsActive = req.IsActive
	}

	product, err := h.Catalog.UpdateProduct(c.Request().Context(), uint(id), update)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})
	h.index(c, product)
	return c.JSON(http.StatusOK, transport.NewProductResponse(product))
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := h.Catalog.DeleteProduct(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) AdjustStock(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req transport.AdjustStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	product, err := h.Catalog.AdjustStock(c.Request().Context(), uint(id), req.Delta)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":      "stock_adjusted",
		"productID": product.ID,
		"stock":     product.Stock,
	})
	return c.JSON(http.StatusOK, transport.NewProductResponse(product))
}

func (h *ProductHandler) AddReview(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req transport.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	review, err := h.Catalog.AddReview(c.Request().Context(), uint(id), userID, req.Rating, req.Comment)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *ProductHandler) GetReviews(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	reviews, err := h.Catalog.ProductReviews(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}
	avg, count, err := h.Catalog.ProductRating(c.Request().Context(), uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"reviews":      reviews,
		"rating":       avg,
		"review_count": count,
	})
}
