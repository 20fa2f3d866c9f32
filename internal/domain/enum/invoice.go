package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceType distinguishes personal invoices from company invoices
type InvoiceType int

const (
	InvoiceTypeIndividual InvoiceType = 0
	InvoiceTypeCorporate  InvoiceType = 1
)

var invoiceTypeNames = []string{"individual", "corporate"}

func (t InvoiceType) String() string { return nameOf(invoiceTypeNames, int(t)) }

func (t InvoiceType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *InvoiceType) UnmarshalJSON(data []byte) error {
	i, err := parse(invoiceTypeNames, "invoice type", data)
	if err != nil {
		return err
	}
	*t = InvoiceType(i)
	return nil
}

func (t InvoiceType) Value() (driver.Value, error) { return intValue(int(t)) }

func (t *InvoiceType) Scan(v interface{}) error {
	*t = InvoiceType(scanInt(v))
	return nil
}

// DeliveryMethod is how the goods reach the customer
type DeliveryMethod int

const (
	DeliveryMethodStorePickup  DeliveryMethod = 0
	DeliveryMethodCourier      DeliveryMethod = 1
	DeliveryMethodHandDelivery DeliveryMethod = 2
)

var deliveryMethodNames = []string{"store_pickup", "courier", "hand_delivery"}

func (m DeliveryMethod) String() string { return nameOf(deliveryMethodNames, int(m)) }

func (m DeliveryMethod) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }

func (m *DeliveryMethod) UnmarshalJSON(data []byte) error {
	i, err := parse(deliveryMethodNames, "delivery method", data)
	if err != nil {
		return err
	}
	*m = DeliveryMethod(i)
	return nil
}

func (m DeliveryMethod) Value() (driver.Value, error) { return intValue(int(m)) }

func (m *DeliveryMethod) Scan(v interface{}) error {
	*m = DeliveryMethod(scanInt(v))
	return nil
}
