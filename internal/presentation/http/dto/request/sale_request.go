package request

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/enum"
)

// SaleItemRequest is one submitted line. unitPrice defaults to the
// product's sale price.
type SaleItemRequest struct {
	ProductID uuid.UUID `json:"product" binding:"required"`
	Quantity  int       `json:"quantity"`
	UnitPrice *float64  `json:"unitPrice"`
}

// PaymentRequest is the payment block. Status may be omitted to derive it
// from paidAmount.
type PaymentRequest struct {
	Method     enum.PaymentMethod  `json:"method"`
	Status     *enum.PaymentStatus `json:"status"`
	PaidAmount float64             `json:"paidAmount"`
	DueDate    *time.Time          `json:"dueDate"`
}

// SaleRequest is a complete sale record for create and full update
type SaleRequest struct {
	SaleDate       *time.Time          `json:"saleDate"`
	CustomerName   string              `json:"customerName"`
	CustomerPhone  string              `json:"customerPhone"`
	CustomerEmail  string              `json:"customerEmail" binding:"omitempty,email"`
	CustomerID     *uuid.UUID          `json:"customerId"`
	SubscriberID   *uuid.UUID          `json:"subscriberId"`
	Items          []SaleItemRequest   `json:"items" binding:"dive"`
	DiscountAmount *float64            `json:"discountAmount"`
	TaxRate        *float64            `json:"taxRate"`
	Notes          string              `json:"notes"`
	Invoice        entity.InvoiceInfo  `json:"invoice"`
	Delivery       entity.DeliveryInfo `json:"delivery"`
	Payment        PaymentRequest      `json:"payment"`
}

// SaleFilterRequest represents sale filter parameters
type SaleFilterRequest struct {
	Search        string `form:"search"`
	PaymentStatus string `form:"payment_status"`
	CustomerID    string `form:"customer_id"`
	StartDate     string `form:"start_date"`
	EndDate       string `form:"end_date"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}

// CreateDraftRequest opens a draft, optionally from an existing sale
type CreateDraftRequest struct {
	SaleID *uuid.UUID `json:"saleId"`
}

// TabRequest switches the active tab
type TabRequest struct {
	Tab string `json:"tab" binding:"required"`
}

// BasicRequest is the basic tab
type BasicRequest struct {
	CustomerName  string     `json:"customerName" binding:"max=255"`
	CustomerPhone string     `json:"customerPhone" binding:"max=50"`
	CustomerEmail string     `json:"customerEmail" binding:"omitempty,email"`
	SaleDate      *time.Time `json:"saleDate"`
	Notes         string     `json:"notes"`
}

// AddItemRequest adds the selected product. Validation of both fields
// happens in the composer so failures carry its messages.
type AddItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// PricingRequest sets discount and tax rate
type PricingRequest struct {
	DiscountAmount *float64 `json:"discountAmount"`
	TaxRate        *float64 `json:"taxRate"`
}

// SelectCustomerRequest picks a contact by its key
type SelectCustomerRequest struct {
	Key string `json:"key" binding:"required"`
}
