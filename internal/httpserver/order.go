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
	"github.com/freshcart/storefront/internal/util"
)

type OrderHandler struct {
	Orders    *service.OrderService
	Producer  *event.Producer
	JWTSecret []byte
}

func (h *OrderHandler) publish(c echo.Context, e map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, event.TopicOrder, fmt.Sprint(e["userID"]), e); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	order, err := h.Orders.PlaceOrder(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}

	h.publish(c, map[string]any{
		"type":      "order_created",
		"userID":    userID,
		"orderID":   order.ID,
		"reference": order.Reference.String(),
		"total":     order.Total.StringFixed(2),
	})
	return c.JSON(http.StatusCreated, transport.NewOrderResponse(order))
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.Orders.GetOrder(c.Request().Context(), userID, uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderResponse(order))
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	userID, err := GetID(c, h.JWTSecret)
	if err != nil {
		return err
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, err := h.Orders.ListOrders(c.Request().Context(), userID, offset, limit)
	if err != nil {
		return httpError(err)
	}

	resp := make([]transport.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, transport.NewOrderResponse(&orders[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

// ValidatePayment is a syntactic pre-check for the checkout form; no
// gateway call happens here.
func (h *OrderHandler) ValidatePayment(c echo.Context) error {
	if _, err := GetID(c, h.JWTSecret); err != nil {
		return err
	}

	var req transport.PaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := service.ValidatePayment(service.PaymentInfo{
		CardNumber:     req.CardNumber,
		ExpiryDate:     req.ExpiryDate,
		CVV:            req.CVV,
		CardholderName: req.CardholderName,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"valid": true})
}
