package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/freshcart/storefront/internal/event"
	"github.com/freshcart/storefront/internal/service"
	"github.com/freshcart/storefront/internal/transport"
)

type CartHandler struct {
	Carts     *service.CartService
	Producer  *event.Producer
	JWTSecret []byte
}

func (h *CartHandler) publish(c echo.Context, e map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, event.TopicCart, fmt.Sprint(e["userID"]), e); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func productIDParam(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("product_id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	return uint(id), nil
}

func (h *CartHandler) GetCartSummary(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	summary, err := h.Carts.Summary(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.NewCartSummaryResponse(summary))
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	item, err := h.Carts.AddToCart(c.Request().Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": req.ProductID,
		"quantity":  item.Quantity,
	})
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}
	productID, err := productIDParam(c)
	if err != nil {
		return err
	}

	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	item, removed, err := h.Carts.UpdateCartItem(c.Request().Context(), userID, productID, req.Quantity)
	if err != nil {
		return httpError(err)
	}
	if removed {
		h.publish(c, map[string]any{
			"type":      "cart_item_removed",
			"userID":    userID,
			"productID": productID,
		})
		return c.JSON(http.StatusOK, map[string]any{"removed": true, "product_id": productID})
	}

	h.publish(c, map[string]any{
		"type":      "cart_item_updated",
		"userID":    userID,
		"productID": productID,
		"quantity":  item.Quantity,
	})
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}
	productID, err := productIDParam(c)
	if err != nil {
		return err
	}

	deleted, err := h.Carts.RemoveFromCart(c.Request().Context(), userID, productID)
	if err != nil {
		return httpError(err)
	}

	if deleted {
		h.publish(c, map[string]any{
			"type":      "cart_item_removed",
			"userID":    userID,
			"productID": productID,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"removed": deleted, "product_id": productID})
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	if err := h.Carts.ClearCart(c.Request().Context(), userID); err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) ValidateCart(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	result, err := h.Carts.ValidateCart(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.CartValidationResponse{
		Valid:       result.Valid,
		Issues:      result.Issues,
		Adjustments: result.Adjustments,
	})
}
