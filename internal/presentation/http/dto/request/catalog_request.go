package request

import (
	"github.com/sangkips/atelier-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// ProductRequest is the create/update product body. On update omitted
// fields are left unchanged.
type ProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=2,max=255"`
	Code          *string          `json:"code" binding:"omitempty,max=100"`
	Category      *string          `json:"category" binding:"omitempty,max=100"`
	Material      *string          `json:"material" binding:"omitempty,max=100"`
	Karat         *int             `json:"karat" binding:"omitempty,min=1,max=24"`
	WeightGrams   *decimal.Decimal `json:"weightGrams"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice"`
	SalePrice     *decimal.Decimal `json:"salePrice"`
	Stock         *int             `json:"stock" binding:"omitempty,min=0"`
	ImageURL      *string          `json:"imageUrl" binding:"omitempty,url"`
	IsActive      *bool            `json:"isActive"`
	Description   *string          `json:"description"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}

// CustomerRequest is the create/update customer body
type CustomerRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=255"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone" binding:"omitempty,phone"`
	Address   *string `json:"address"`
	City      *string `json:"city" binding:"omitempty,max=100"`
	District  *string `json:"district" binding:"omitempty,max=100"`
	TaxNumber *string `json:"taxNumber" binding:"omitempty,max=50"`
	TaxOffice *string `json:"taxOffice" binding:"omitempty,max=255"`
	Notes     *string `json:"notes"`
}

// SubscriberRequest is the create/update subscriber body
type SubscriberRequest struct {
	Name       *string                `json:"name" binding:"omitempty,max=255"`
	Email      *string                `json:"email" binding:"omitempty,email"`
	Phone      *string                `json:"phone" binding:"omitempty,phone"`
	City       *string                `json:"city" binding:"omitempty,max=100"`
	District   *string                `json:"district" binding:"omitempty,max=100"`
	Street     *string                `json:"street" binding:"omitempty,max=255"`
	BuildingNo *string                `json:"buildingNo" binding:"omitempty,max=50"`
	Source     *enum.SubscriberSource `json:"source"`
}

// SubscriberFilterRequest represents subscriber filter parameters
type SubscriberFilterRequest struct {
	Search  string `form:"search"`
	Source  string `form:"source"`
	Active  *bool  `form:"active"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// NewsletterRequest is the public storefront subscribe form
type NewsletterRequest struct {
	Name  string `json:"name" binding:"max=255"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,phone"`
	City  string `json:"city" binding:"max=100"`
}

// UnsubscribeRequest is the public unsubscribe form
type UnsubscribeRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}
