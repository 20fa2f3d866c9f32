package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Subscriber is a newsletter or WhatsApp audience member. The address is kept
// in discrete parts as collected by the storefront form.
type Subscriber struct {
	ID             uuid.UUID             `gorm:"type:uuid;primary_key" json:"id"`
	Name           string                `gorm:"size:255" json:"name"`
	Phone          *string               `gorm:"size:50;index" json:"phone,omitempty"`
	Email          *string               `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	City           string                `gorm:"size:100" json:"city"`
	District       string                `gorm:"size:100" json:"district"`
	Street         string                `gorm:"size:255" json:"street"`
	BuildingNo     string                `gorm:"size:50" json:"buildingNo"`
	Source         enum.SubscriberSource `gorm:"default:0" json:"source"`
	IsActive       bool                  `gorm:"not null;index" json:"isActive"`
	SubscribedAt   time.Time             `json:"subscribedAt"`
	UnsubscribedAt *time.Time            `json:"unsubscribedAt,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt        `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new subscriber
func (s *Subscriber) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Subscriber model
func (Subscriber) TableName() string {
	return "subscribers"
}

// Unsubscribe marks the subscriber inactive as of now.
func (s *Subscriber) Unsubscribe(now time.Time) {
	s.IsActive = false
	s.UnsubscribedAt = &now
}

// Resubscribe reactivates a previously unsubscribed member.
func (s *Subscriber) Resubscribe(now time.Time) {
	s.IsActive = true
	s.SubscribedAt = now
	s.UnsubscribedAt = nil
}
