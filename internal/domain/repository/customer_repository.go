package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/enum"
	"github.com/sangkips/atelier-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByEmail(ctx context.Context, email string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.Params, search string) ([]entity.Customer, int64, error)
	// All returns every customer ordered by name, for contact resolution.
	All(ctx context.Context) ([]entity.Customer, error)
}

// SubscriberRepository defines the interface for subscriber data operations
type SubscriberRepository interface {
	Create(ctx context.Context, subscriber *entity.Subscriber) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Subscriber, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*entity.Subscriber, error)
	Update(ctx context.Context, subscriber *entity.Subscriber) error
	List(ctx context.Context, params *SubscriberFilterParams) ([]entity.Subscriber, int64, error)
	// ListActive returns active subscribers; a non-empty ids restricts the set.
	ListActive(ctx context.Context, ids []uuid.UUID) ([]entity.Subscriber, error)
}

// SubscriberFilterParams contains filtering parameters for subscriber queries
type SubscriberFilterParams struct {
	Pagination *pagination.Params
	Search     string
	Source     *enum.SubscriberSource
	Active     *bool
}
