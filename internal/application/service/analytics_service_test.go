package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestProfitFillsMissingDays(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		days: []repository.DailyProfitRow{
			{Date: day("2026-03-01"), SaleCount: 2, Revenue: money("1000"), Tax: money("180"), Cost: money("600")},
			{Date: day("2026-03-03"), SaleCount: 1, Revenue: money("500"), Tax: money("90"), Cost: money("500")},
		},
		top: []repository.TopProductRow{
			{ProductID: uuid.New(), ProductName: "Gold Ring", QuantitySold: 3, Revenue: money("900"), Cost: money("540")},
		},
	}
	svc := NewAnalyticsService(repo)

	report, err := svc.Profit(context.Background(), day("2026-03-01"), day("2026-03-03"))
	require.NoError(t, err)

	assert.Equal(t, day("2026-03-04"), repo.end)
	require.Len(t, report.Days, 3)
	assert.Equal(t, "2026-03-02", report.Days[1].Date)
	assert.True(t, report.Days[1].Revenue.IsZero())
	assert.True(t, report.Days[1].Margin.IsZero())

	assert.True(t, money("400").Equal(report.Days[0].Profit))
	assert.True(t, money("40").Equal(report.Days[0].Margin))
	assert.True(t, report.Days[2].Profit.IsZero())

	assert.Equal(t, 3, report.Totals.SaleCount)
	assert.True(t, money("1500").Equal(report.Totals.Revenue))
	assert.True(t, money("400").Equal(report.Totals.Profit))
	assert.True(t, money("26.67").Equal(report.Totals.Margin))

	require.Len(t, report.TopProducts, 1)
	assert.True(t, money("360").Equal(report.TopProducts[0].Profit))
}

func TestProfitDefaultsToLastThirtyDays(t *testing.T) {
	repo := &fakeAnalyticsRepo{}
	svc := NewAnalyticsService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 31, 15, 4, 0, 0, time.UTC) }

	report, err := svc.Profit(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", report.StartDate)
	assert.Equal(t, "2026-03-31", report.EndDate)
	assert.Len(t, report.Days, 30)
	assert.NotNil(t, report.TopProducts)
}

func TestProfitRejectsBadRanges(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsRepo{})

	_, err := svc.Profit(context.Background(), day("2026-03-05"), day("2026-03-01"))
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))

	_, err = svc.Profit(context.Background(), day("2024-01-01"), day("2026-01-01"))
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
}
