package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/freshcart/storefront/internal/service"
)

// httpError maps the service error taxonomy onto status codes. Unrecognized
// errors become a generic 500 so storage detail never crosses the boundary.
func httpError(err error) *echo.HTTPError {
	var cartInvalid *service.CartInvalidError
	if errors.As(err, &cartInvalid) {
		return echo.NewHTTPError(http.StatusConflict, map[string]any{
			"error":  "cart invalid",
			"issues": cartInvalid.Issues,
		})
	}
	var payment *service.PaymentError
	if errors.As(err, &payment) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]any{
			"error":  "payment validation failed",
			"issues": payment.Issues,
		})
	}

	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrCartInvalid):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPaymentValidation):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
