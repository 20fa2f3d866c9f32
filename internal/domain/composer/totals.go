// Package composer holds the sales order composer: the line-item ledger, the
// totals recalculator and the draft that aggregates every tab of a sale
// before it is submitted.
package composer

import (
	"math"

	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Pricing holds the two scalar adjustments of a sale.
type Pricing struct {
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxRate        decimal.Decimal `json:"taxRate"`
}

// PricingInput is pricing as received from a client. Nil or non-finite
// values are replaced during Sanitize.
type PricingInput struct {
	DiscountAmount *float64
	TaxRate        *float64
}

// Totals are the derived amounts of a ledger.
type Totals struct {
	SubTotal       decimal.Decimal `json:"subTotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

// SanitizeMoney converts a client number to a decimal rounded to cents.
// NaN and infinities become zero.
func SanitizeMoney(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f).Round(2)
}

// Sanitize is the single coercion step run before any arithmetic: a missing
// or non-finite discount becomes 0 and a missing or non-finite tax rate
// becomes defaultTaxRate. Both are rounded to the two places their columns
// keep, so a reloaded sale recalculates to the same totals.
func Sanitize(in PricingInput, defaultTaxRate decimal.Decimal) Pricing {
	p := Pricing{DiscountAmount: decimal.Zero, TaxRate: defaultTaxRate.Round(2)}
	if in.DiscountAmount != nil {
		p.DiscountAmount = SanitizeMoney(*in.DiscountAmount)
	}
	if in.TaxRate != nil && !math.IsNaN(*in.TaxRate) && !math.IsInf(*in.TaxRate, 0) {
		p.TaxRate = decimal.NewFromFloat(*in.TaxRate).Round(2)
	}
	return p
}

// Recalculate recomputes every line total in place and derives the sale
// totals:
//
//	subTotal    = Σ unitPrice × quantity
//	base        = max(subTotal − discount, 0)
//	taxAmount   = base × taxRate / 100
//	totalAmount = base + taxAmount
//
// Amounts are rounded to two places, half away from zero.
func Recalculate(items []entity.SaleItem, p Pricing) Totals {
	sub := decimal.Zero
	for i := range items {
		qty := items[i].Quantity
		if qty < 0 {
			qty = 0
		}
		items[i].TotalPrice = items[i].UnitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2)
		sub = sub.Add(items[i].TotalPrice)
	}

	base := sub.Sub(p.DiscountAmount)
	if base.IsNegative() {
		base = decimal.Zero
	}
	tax := base.Mul(p.TaxRate).Div(hundred).Round(2)
	total := base.Add(tax).Round(2)

	return Totals{
		SubTotal:       sub,
		DiscountAmount: p.DiscountAmount,
		TaxRate:        p.TaxRate,
		TaxAmount:      tax,
		TotalAmount:    total,
	}
}

// Apply copies the totals onto a sale.
func (t Totals) Apply(s *entity.Sale) {
	s.SubTotal = t.SubTotal
	s.DiscountAmount = t.DiscountAmount
	s.TaxRate = t.TaxRate
	s.TaxAmount = t.TaxAmount
	s.TotalAmount = t.TotalAmount
}
