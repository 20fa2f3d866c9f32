package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a piece in the catalog
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	Slug          string          `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Code          string          `gorm:"size:100;uniqueIndex;not null" json:"code"`
	Category      string          `gorm:"size:100;index" json:"category"`
	Material      string          `gorm:"size:100" json:"material"`
	Karat         *int            `json:"karat,omitempty"`
	WeightGrams   decimal.Decimal `gorm:"type:numeric(10,3);default:0" json:"weightGrams"`
	PurchasePrice decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"purchasePrice"`
	SalePrice     decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"salePrice"`
	Stock         int             `gorm:"default:0" json:"stock"`
	ImageURL      *string         `gorm:"size:500" json:"imageUrl,omitempty"`
	IsActive      bool            `gorm:"not null" json:"isActive"`
	Description   *string         `gorm:"type:text" json:"description,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// Sellable reports whether the product can be put on a sale line.
func (p *Product) Sellable() bool {
	return p.SalePrice.IsPositive()
}
