package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/enum"
	"github.com/sangkips/atelier-api/pkg/pagination"
)

// SaleRepository defines the interface for sale data operations. Writes
// touching items are transactional.
type SaleRepository interface {
	// Create inserts the sale and its items.
	Create(ctx context.Context, sale *entity.Sale) error
	// Replace overwrites the sale row and re-creates all of its items.
	Replace(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetBySaleNo(ctx context.Context, saleNo string) (*entity.Sale, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination    *pagination.Params
	Search        string
	PaymentStatus *enum.PaymentStatus
	CustomerID    *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
}
