package repository

import (
	"context"
	"time"

	domainRepo "github.com/sangkips/atelier-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) DailyProfit(ctx context.Context, start, end time.Time) ([]domainRepo.DailyProfitRow, error) {
	var rows []domainRepo.DailyProfitRow

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			DATE(s.sale_date) AS date,
			COUNT(s.id) AS sale_count,
			COALESCE(SUM(s.sub_total - s.discount_amount), 0) AS revenue,
			COALESCE(SUM(s.tax_amount), 0) AS tax,
			COALESCE(SUM(c.cost), 0) AS cost
		FROM sales s
		LEFT JOIN (
			SELECT sale_id, SUM(unit_cost * quantity) AS cost
			FROM sale_items
			GROUP BY sale_id
		) c ON c.sale_id = s.id
		WHERE s.deleted_at IS NULL
			AND s.sale_date >= ? AND s.sale_date < ?
		GROUP BY DATE(s.sale_date)
		ORDER BY date ASC
	`, start, end).Scan(&rows).Error

	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) TopProducts(ctx context.Context, start, end time.Time, limit int) ([]domainRepo.TopProductRow, error) {
	var rows []domainRepo.TopProductRow

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			si.product_id AS product_id,
			MAX(si.product_name) AS product_name,
			COALESCE(SUM(si.quantity), 0) AS quantity_sold,
			COALESCE(SUM(si.total_price), 0) AS revenue,
			COALESCE(SUM(si.unit_cost * si.quantity), 0) AS cost
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.deleted_at IS NULL
			AND s.sale_date >= ? AND s.sale_date < ?
		GROUP BY si.product_id
		ORDER BY revenue DESC
		LIMIT ?
	`, start, end, limit).Scan(&rows).Error

	if err != nil {
		return nil, err
	}
	return rows, nil
}
