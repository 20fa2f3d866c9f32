package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyProfitRow is one day of sales aggregated in the database
type DailyProfitRow struct {
	Date      time.Time
	SaleCount int
	Revenue   decimal.Decimal // sub total less discount
	Tax       decimal.Decimal
	Cost      decimal.Decimal // Σ unit cost × quantity
}

// TopProductRow represents a product's sales performance
type TopProductRow struct {
	ProductID    uuid.UUID
	ProductName  string
	QuantitySold int
	Revenue      decimal.Decimal
	Cost         decimal.Decimal
}

// AnalyticsRepository defines interface for analytics/aggregation queries.
// Ranges are half-open: [start, end).
type AnalyticsRepository interface {
	DailyProfit(ctx context.Context, start, end time.Time) ([]DailyProfitRow, error)
	TopProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProductRow, error)
}
