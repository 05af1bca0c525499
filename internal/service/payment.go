package service

import (
	"fmt"
	"strings"
)

// PaymentInfo enumerates the fields the checkout form collects. Validation
// is syntactic only; no gateway is involved.
type PaymentInfo struct {
	CardNumber     string
	ExpiryDate     string
	CVV            string
	CardholderName string
}

const minCardDigits = 13

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidatePayment checks field presence and that the card number, with
// spaces and dashes stripped, is all digits and at least 13 long. Returns a
// PaymentError listing every problem found.
func ValidatePayment(info PaymentInfo) error {
	var issues []string

	required := []struct {
		name  string
		value string
	}{
		{"card_number", info.CardNumber},
		{"expiry_date", info.ExpiryDate},
		{"cvv", info.CVV},
		{"cardholder_name", info.CardholderName},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			issues = append(issues, fmt.Sprintf("%s is required", field.name))
		}
	}

	if info.CardNumber != "" {
		cardNumber := strings.NewReplacer(" ", "", "-", "").Replace(info.CardNumber)
		if !isAllDigits(cardNumber) || len(cardNumber) < minCardDigits {
			issues = append(issues, "invalid card number")
		}
	}

	if len(issues) > 0 {
		return &PaymentError{Issues: issues}
	}
	return nil
}
