package composer

import (
	"fmt"
	"strings"

	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/pkg/apperror"
)

// Validate runs the submit checks on a sale: customer name, at least one
// line, positive quantity and price on every line, and pricing in range.
// An empty result means the sale may be persisted.
func Validate(s *entity.Sale) []apperror.FieldError {
	var errs []apperror.FieldError
	add := func(field, msg string) {
		errs = append(errs, apperror.FieldError{Field: field, Message: msg})
	}

	if strings.TrimSpace(s.CustomerName) == "" {
		add("customerName", "customer name is required")
	}
	if len(s.Items) == 0 {
		add("items", "add at least one item")
	}
	for i, it := range s.Items {
		if it.Quantity <= 0 {
			add(fmt.Sprintf("items[%d].quantity", i), "quantity must be greater than zero")
		}
		if !it.UnitPrice.IsPositive() {
			add(fmt.Sprintf("items[%d].unitPrice", i), "unit price must be greater than zero")
		}
	}
	if s.DiscountAmount.IsNegative() {
		add("discountAmount", "discount cannot be negative")
	} else if s.DiscountAmount.GreaterThan(s.SubTotal) {
		add("discountAmount", "discount cannot exceed the subtotal")
	}
	if s.TaxRate.IsNegative() || s.TaxRate.GreaterThan(hundred) {
		add("taxRate", "tax rate must be between 0 and 100")
	}
	if s.Payment.PaidAmount.IsNegative() {
		add("payment.paidAmount", "paid amount cannot be negative")
	}
	return errs
}
