package entity

import "github.com/shopspring/decimal"

func init() {
	// Amounts travel over JSON as numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}
