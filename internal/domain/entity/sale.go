package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AddressBlock is a two-line postal address
type AddressBlock struct {
	Line1    string `gorm:"size:255" json:"line1"`
	Line2    string `gorm:"size:255" json:"line2"`
	City     string `gorm:"size:100" json:"city"`
	District string `gorm:"size:100" json:"district"`
}

// InvoiceInfo holds the billing details of a sale
type InvoiceInfo struct {
	Type        enum.InvoiceType `gorm:"default:0" json:"type"`
	Title       string           `gorm:"size:255" json:"title"`
	TaxNumber   string           `gorm:"size:50" json:"taxNumber"`
	TaxOffice   string           `gorm:"size:255" json:"taxOffice"`
	Address     AddressBlock     `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	InvoiceNo   string           `gorm:"size:100" json:"invoiceNo"`
	InvoiceDate *time.Time       `json:"invoiceDate,omitempty"`
}

// DeliveryInfo holds the shipping details of a sale
type DeliveryInfo struct {
	Method         enum.DeliveryMethod `gorm:"default:0" json:"method"`
	RecipientName  string              `gorm:"size:255" json:"recipientName"`
	RecipientPhone string              `gorm:"size:50" json:"recipientPhone"`
	Address        AddressBlock        `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	SameAsInvoice  bool                `gorm:"default:false" json:"sameAsInvoice"`
	TrackingNumber string              `gorm:"size:100" json:"trackingNumber"`
	DeliveryDate   *time.Time          `json:"deliveryDate,omitempty"`
}

// PaymentInfo holds how and how much of a sale has been paid
type PaymentInfo struct {
	Method     enum.PaymentMethod `gorm:"default:0" json:"method"`
	Status     enum.PaymentStatus `gorm:"default:0;index" json:"status"`
	PaidAmount decimal.Decimal    `gorm:"type:numeric(14,2);default:0" json:"paidAmount"`
	DueDate    *time.Time         `json:"dueDate,omitempty"`
}

// Sale represents a submitted sales order
type Sale struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleNo         string          `gorm:"size:50;uniqueIndex;not null" json:"saleNo"`
	SaleDate       time.Time       `gorm:"not null;index" json:"saleDate"`
	CustomerName   string          `gorm:"size:255;not null" json:"customerName"`
	CustomerPhone  *string         `gorm:"size:50" json:"customerPhone,omitempty"`
	CustomerEmail  *string         `gorm:"size:255" json:"customerEmail,omitempty"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index" json:"customerId,omitempty"`
	SubscriberID   *uuid.UUID      `gorm:"type:uuid;index" json:"subscriberId,omitempty"`
	SubTotal       decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"subTotal"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"discountAmount"`
	TaxRate        decimal.Decimal `gorm:"type:numeric(5,2);default:0" json:"taxRate"`
	TaxAmount      decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"taxAmount"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"totalAmount"`
	Notes          *string         `gorm:"type:text" json:"notes,omitempty"`
	Invoice        InvoiceInfo     `gorm:"embedded;embeddedPrefix:invoice_" json:"invoice"`
	Delivery       DeliveryInfo    `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery"`
	Payment        PaymentInfo     `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"-"`
	Items    []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one line of a sale. ProductName and UnitCost are snapshots
// taken when the line was added.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"-"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product"`
	ProductName string          `gorm:"size:255;not null" json:"productName"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unitPrice"`
	UnitCost    decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"unitCost"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"totalPrice"`
	Position    int             `gorm:"not null" json:"position"`
	CreatedAt   time.Time       `json:"createdAt"`

	// Relationships
	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new sale item
func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
