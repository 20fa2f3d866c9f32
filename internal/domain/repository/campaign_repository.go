package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/pkg/pagination"
)

// CampaignRepository defines the interface for campaign data operations
type CampaignRepository interface {
	Create(ctx context.Context, campaign *entity.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Campaign, error)
	Update(ctx context.Context, campaign *entity.Campaign) error
	// MarkSending moves a draft or failed campaign to sending and records the
	// recipient count. It reports false when the campaign is in any other state.
	MarkSending(ctx context.Context, id uuid.UUID, recipients int) (bool, error)
	List(ctx context.Context, params *pagination.Params) ([]entity.Campaign, int64, error)
}
