package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/enum"
	domainRepo "github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/pkg/pagination"
	"gorm.io/gorm"
)

type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *gorm.DB) domainRepo.CampaignRepository {
	return &campaignRepository{db: db}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *entity.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

func (r *campaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Campaign, error) {
	var campaign entity.Campaign
	err := r.db.WithContext(ctx).First(&campaign, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &campaign, err
}

func (r *campaignRepository) Update(ctx context.Context, campaign *entity.Campaign) error {
	return r.db.WithContext(ctx).Save(campaign).Error
}

func (r *campaignRepository) MarkSending(ctx context.Context, id uuid.UUID, recipients int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.Campaign{}).
		Where("id = ? AND status IN ?", id, []int{int(enum.CampaignStatusDraft), int(enum.CampaignStatusFailed)}).
		Updates(map[string]interface{}{
			"status":          enum.CampaignStatusSending,
			"recipient_count": recipients,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *campaignRepository) List(ctx context.Context, params *pagination.Params) ([]entity.Campaign, int64, error) {
	var campaigns []entity.Campaign
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Campaign{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Scopes(Paginate(params)).
		Order("created_at DESC").
		Find(&campaigns).Error

	return campaigns, total, err
}
