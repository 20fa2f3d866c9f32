package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Campaign is an email newsletter sent to active subscribers
type Campaign struct {
	ID             uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Title          string              `gorm:"size:255;not null" json:"title"`
	Subject        string              `gorm:"size:255;not null" json:"subject"`
	Body           string              `gorm:"type:text;not null" json:"body"`
	Status         enum.CampaignStatus `gorm:"default:0;index" json:"status"`
	RecipientCount int                 `gorm:"default:0" json:"recipientCount"`
	SentCount      int                 `gorm:"default:0" json:"sentCount"`
	FailedCount    int                 `gorm:"default:0" json:"failedCount"`
	SentAt         *time.Time          `json:"sentAt,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt      `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new campaign
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Campaign model
func (Campaign) TableName() string {
	return "campaigns"
}
