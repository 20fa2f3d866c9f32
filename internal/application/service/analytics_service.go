package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

const (
	maxProfitRangeDays = 366
	defaultProfitDays  = 30
	topProductLimit    = 5
)

// AnalyticsService computes profit reports from persisted sales
type AnalyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo, now: time.Now}
}

// ProfitFigures are the money columns shared by a day and the report total
type ProfitFigures struct {
	SaleCount int             `json:"saleCount"`
	Revenue   decimal.Decimal `json:"revenue"`
	Tax       decimal.Decimal `json:"tax"`
	Cost      decimal.Decimal `json:"cost"`
	Profit    decimal.Decimal `json:"profit"`
	Margin    decimal.Decimal `json:"margin"`
}

// DailyProfit is one calendar day of the report
type DailyProfit struct {
	Date string `json:"date"`
	ProfitFigures
}

// ProductProfit ranks a product by the revenue it brought in
type ProductProfit struct {
	ProductID    uuid.UUID       `json:"productId"`
	ProductName  string          `json:"productName"`
	QuantitySold int             `json:"quantitySold"`
	Revenue      decimal.Decimal `json:"revenue"`
	Profit       decimal.Decimal `json:"profit"`
}

// ProfitReport covers the inclusive range StartDate..EndDate
type ProfitReport struct {
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	Days        []DailyProfit   `json:"days"`
	Totals      ProfitFigures   `json:"totals"`
	TopProducts []ProductProfit `json:"topProducts"`
}

// Profit reports revenue, cost and margin per day between start and end,
// both inclusive. Zero dates default to the last 30 days.
func (s *AnalyticsService) Profit(ctx context.Context, start, end time.Time) (*ProfitReport, error) {
	if end.IsZero() {
		end = s.now()
	}
	end = truncateDay(end)
	if start.IsZero() {
		start = end.AddDate(0, 0, -(defaultProfitDays - 1))
	}
	start = truncateDay(start)

	if start.After(end) {
		return nil, apperror.NewBadRequestError("start must not be after end")
	}
	if end.Sub(start) >= maxProfitRangeDays*24*time.Hour {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("range cannot exceed %d days", maxProfitRangeDays))
	}

	until := end.AddDate(0, 0, 1)
	rows, err := s.analyticsRepo.DailyProfit(ctx, start, until)
	if err != nil {
		return nil, fmt.Errorf("daily profit: %w", err)
	}
	top, err := s.analyticsRepo.TopProducts(ctx, start, until, topProductLimit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	byDay := make(map[string]repository.DailyProfitRow, len(rows))
	for _, r := range rows {
		byDay[r.Date.Format(time.DateOnly)] = r
	}

	report := &ProfitReport{
		StartDate:   start.Format(time.DateOnly),
		EndDate:     end.Format(time.DateOnly),
		Days:        []DailyProfit{},
		TopProducts: make([]ProductProfit, 0, len(top)),
	}

	total := repository.DailyProfitRow{}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(time.DateOnly)
		r, ok := byDay[key]
		if !ok {
			r = repository.DailyProfitRow{Revenue: decimal.Zero, Tax: decimal.Zero, Cost: decimal.Zero}
		}
		report.Days = append(report.Days, DailyProfit{Date: key, ProfitFigures: figures(r)})

		total.SaleCount += r.SaleCount
		total.Revenue = total.Revenue.Add(r.Revenue)
		total.Tax = total.Tax.Add(r.Tax)
		total.Cost = total.Cost.Add(r.Cost)
	}
	report.Totals = figures(total)

	for _, p := range top {
		report.TopProducts = append(report.TopProducts, ProductProfit{
			ProductID:    p.ProductID,
			ProductName:  p.ProductName,
			QuantitySold: p.QuantitySold,
			Revenue:      p.Revenue.Round(2),
			Profit:       p.Revenue.Sub(p.Cost).Round(2),
		})
	}
	return report, nil
}

// figures derives profit and margin. Margin is 0 when there is no revenue.
func figures(r repository.DailyProfitRow) ProfitFigures {
	profit := r.Revenue.Sub(r.Cost)
	margin := decimal.Zero
	if !r.Revenue.IsZero() {
		margin = profit.Div(r.Revenue).Mul(decimal.NewFromInt(100))
	}
	return ProfitFigures{
		SaleCount: r.SaleCount,
		Revenue:   r.Revenue.Round(2),
		Tax:       r.Tax.Round(2),
		Cost:      r.Cost.Round(2),
		Profit:    profit.Round(2),
		Margin:    margin.Round(2),
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
