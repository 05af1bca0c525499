package service

import (
	"errors"
	"strings"
)

// One sentinel per recoverable failure mode. Handlers translate these into
// status codes; anything not matching is a wrapped storage fault and maps to
// a generic 500 without leaking driver detail.
var (
	ErrValidation        = errors.New("validation")         // 400
	ErrNotFound          = errors.New("not found")          // 404
	ErrProductNotFound   = errors.New("product not found")  // 404
	ErrItemNotFound      = errors.New("item not in cart")   // 404
	ErrInsufficientStock = errors.New("insufficient stock") // 409
	ErrEmptyCart         = errors.New("cart is empty")      // 400
	ErrCartInvalid       = errors.New("cart invalid")       // 409
	ErrPaymentValidation = errors.New("payment validation") // 422
)

// CartInvalidError carries the per-item problems that blocked checkout.
type CartInvalidError struct {
	Issues []string
}

func (e *CartInvalidError) Error() string {
	return "cart validation failed: " + strings.Join(e.Issues, "; ")
}

func (e *CartInvalidError) Unwrap() error {
	return ErrCartInvalid
}

// PaymentError carries the individual payment field problems.
type PaymentError struct {
	Issues []string
}

func (e *PaymentError) Error() string {
	return "payment validation failed: " + strings.Join(e.Issues, "; ")
}

func (e *PaymentError) Unwrap() error {
	return ErrPaymentValidation
}
