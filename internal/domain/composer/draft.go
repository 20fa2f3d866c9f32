package composer

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/contact"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Tab is one section of the sale form.
type Tab string

const (
	TabBasic    Tab = "basic"
	TabItems    Tab = "items"
	TabInvoice  Tab = "invoice"
	TabDelivery Tab = "delivery"
	TabPayment  Tab = "payment"
)

var ErrUnknownTab = errors.New("unknown tab")

// ParseTab validates a tab name.
func ParseTab(name string) (Tab, error) {
	switch t := Tab(name); t {
	case TabBasic, TabItems, TabInvoice, TabDelivery, TabPayment:
		return t, nil
	}
	return "", ErrUnknownTab
}

// Basic is the customer identity and metadata of a sale.
type Basic struct {
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	CustomerEmail string    `json:"customerEmail"`
	SaleDate      time.Time `json:"saleDate"`
	Notes         string    `json:"notes"`
}

// Draft is the form state of a sale being composed. Every tab reads and
// writes this one record; switching tabs never resets it.
type Draft struct {
	ID        string     `json:"id"`
	SaleID    *uuid.UUID `json:"saleId,omitempty"`
	ActiveTab Tab        `json:"activeTab"`

	Basic           Basic   `json:"basic"`
	Items           Ledger  `json:"items"`
	PendingProduct  string  `json:"pendingProduct"`
	PendingQuantity int     `json:"pendingQuantity"`
	Pricing         Pricing `json:"pricing"`
	Totals          Totals  `json:"totals"`

	Invoice               entity.InvoiceInfo  `json:"invoice"`
	Delivery              entity.DeliveryInfo `json:"delivery"`
	Payment               entity.PaymentInfo  `json:"payment"`
	PaymentStatusExplicit bool                `json:"paymentStatusExplicit"`

	CustomerKey  string     `json:"customerKey,omitempty"`
	CustomerID   *uuid.UUID `json:"customerId,omitempty"`
	SubscriberID *uuid.UUID `json:"subscriberId,omitempty"`

	Submitting bool      `json:"submitting"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewDraft returns an empty draft on the basic tab.
func NewDraft(id string, defaultTaxRate decimal.Decimal, now time.Time) *Draft {
	d := &Draft{
		ID:              id,
		ActiveTab:       TabBasic,
		Basic:           Basic{SaleDate: now},
		Items:           Ledger{},
		PendingQuantity: 1,
		Pricing:         Pricing{DiscountAmount: decimal.Zero, TaxRate: defaultTaxRate},
		Payment:         entity.PaymentInfo{PaidAmount: decimal.Zero},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	d.Recalculate()
	return d
}

// DraftFromSale opens an existing sale for re-editing.
func DraftFromSale(id string, s *entity.Sale, now time.Time) *Draft {
	items := make(Ledger, len(s.Items))
	copy(items, s.Items)

	saleID := s.ID
	d := &Draft{
		ID:        id,
		SaleID:    &saleID,
		ActiveTab: TabBasic,
		Basic: Basic{
			CustomerName:  s.CustomerName,
			CustomerPhone: deref(s.CustomerPhone),
			CustomerEmail: deref(s.CustomerEmail),
			SaleDate:      s.SaleDate,
			Notes:         deref(s.Notes),
		},
		Items:                 items,
		PendingQuantity:       1,
		Pricing:               Pricing{DiscountAmount: s.DiscountAmount, TaxRate: s.TaxRate},
		Invoice:               s.Invoice,
		Delivery:              s.Delivery,
		Payment:               s.Payment,
		PaymentStatusExplicit: true,
		CustomerID:            s.CustomerID,
		SubscriberID:          s.SubscriberID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	switch {
	case s.CustomerID != nil:
		d.CustomerKey = contact.KeyFor(contact.KindCustomer, *s.CustomerID)
	case s.SubscriberID != nil:
		d.CustomerKey = contact.KeyFor(contact.KindSubscriber, *s.SubscriberID)
	}
	d.Recalculate()
	return d
}

// SwitchTab changes the visible section only.
func (d *Draft) SwitchTab(t Tab) {
	d.ActiveTab = t
}

// SelectPending records the product selector state before an add.
func (d *Draft) SelectPending(productID string, quantity int) {
	d.PendingProduct = productID
	d.PendingQuantity = quantity
}

// AddItem appends a line, resets the product selector and recalculates.
func (d *Draft) AddItem(product *entity.Product, quantity int) error {
	if err := d.Items.Add(product, quantity); err != nil {
		return err
	}
	d.PendingProduct = ""
	d.PendingQuantity = 1
	d.Recalculate()
	return nil
}

// RemoveItem drops a line and recalculates.
func (d *Draft) RemoveItem(index int) error {
	if err := d.Items.Remove(index); err != nil {
		return err
	}
	d.Recalculate()
	return nil
}

// SetPricing replaces discount and tax rate and recalculates.
func (d *Draft) SetPricing(p Pricing) {
	d.Pricing = p
	d.Recalculate()
}

// SetBasic replaces the basic tab.
func (d *Draft) SetBasic(b Basic) {
	if b.SaleDate.IsZero() {
		b.SaleDate = d.Basic.SaleDate
	}
	d.Basic = b
}

// SetInvoice replaces the invoice tab. A delivery address copied earlier
// through sameAsInvoice is not updated.
func (d *Draft) SetInvoice(inv entity.InvoiceInfo) {
	d.Invoice = inv
}

// SetDelivery replaces the delivery tab. Turning sameAsInvoice on copies the
// current invoice address once.
func (d *Draft) SetDelivery(del entity.DeliveryInfo) {
	if del.SameAsInvoice && !d.Delivery.SameAsInvoice {
		del.Address = d.Invoice.Address
	}
	d.Delivery = del
}

// SetPayment replaces the payment tab. When explicitStatus is false the
// status is derived from the paid amount at submit.
func (d *Draft) SetPayment(p entity.PaymentInfo, explicitStatus bool) {
	d.Payment = p
	d.PaymentStatusExplicit = explicitStatus
}

// ApplyContact fills the customer fields from a resolved contact and copies
// its address into both the invoice and the delivery blocks.
func (d *Draft) ApplyContact(c contact.Contact) {
	d.Basic.CustomerName = c.Name
	d.Basic.CustomerPhone = c.Phone
	d.Basic.CustomerEmail = c.Email
	d.CustomerKey = c.Key
	d.CustomerID, d.SubscriberID = nil, nil

	id := c.ID
	if c.Origin == contact.KindCustomer {
		d.CustomerID = &id
	} else {
		d.SubscriberID = &id
	}

	line1, line2 := contact.SplitAddress(c.Address)
	addr := entity.AddressBlock{Line1: line1, Line2: line2, City: c.City, District: c.District}

	d.Invoice.Address = addr
	d.Invoice.TaxNumber = c.TaxNumber
	d.Invoice.TaxOffice = c.TaxOffice
	if d.Invoice.Title == "" {
		d.Invoice.Title = c.Name
	}
	d.Delivery.Address = addr
	d.Delivery.RecipientName = c.Name
	d.Delivery.RecipientPhone = c.Phone
}

// Recalculate refreshes line and sale totals.
func (d *Draft) Recalculate() {
	d.Totals = Recalculate(d.Items, d.Pricing)
}

// ToSale builds the sale this draft would submit. Persisted ids on the lines
// are cleared so they are written afresh.
func (d *Draft) ToSale() *entity.Sale {
	d.Recalculate()

	items := make([]entity.SaleItem, len(d.Items))
	for i, it := range d.Items {
		it.ID = uuid.Nil
		it.SaleID = uuid.Nil
		it.Position = i
		items[i] = it
	}

	s := &entity.Sale{
		SaleDate:      d.Basic.SaleDate,
		CustomerName:  strings.TrimSpace(d.Basic.CustomerName),
		CustomerPhone: optional(d.Basic.CustomerPhone),
		CustomerEmail: optional(d.Basic.CustomerEmail),
		CustomerID:    d.CustomerID,
		SubscriberID:  d.SubscriberID,
		Notes:         optional(d.Basic.Notes),
		Invoice:       d.Invoice,
		Delivery:      d.Delivery,
		Payment:       d.Payment,
		Items:         items,
	}
	d.Totals.Apply(s)
	if !d.PaymentStatusExplicit {
		s.Payment.Status = DerivePaymentStatus(s.Payment.PaidAmount, s.TotalAmount)
	}
	return s
}

// DerivePaymentStatus infers a status from the amount collected so far.
func DerivePaymentStatus(paid, total decimal.Decimal) enum.PaymentStatus {
	switch {
	case paid.IsPositive() && paid.GreaterThanOrEqual(total):
		return enum.PaymentStatusPaid
	case paid.IsPositive():
		return enum.PaymentStatusPartial
	}
	return enum.PaymentStatusPending
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
