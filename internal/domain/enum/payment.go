package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod is how a sale is paid
type PaymentMethod int

const (
	PaymentMethodCash         PaymentMethod = 0
	PaymentMethodCreditCard   PaymentMethod = 1
	PaymentMethodBankTransfer PaymentMethod = 2
	PaymentMethodInstallment  PaymentMethod = 3
)

var paymentMethodNames = []string{"cash", "credit_card", "bank_transfer", "installment"}

func (m PaymentMethod) String() string { return nameOf(paymentMethodNames, int(m)) }

func (m PaymentMethod) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	i, err := parse(paymentMethodNames, "payment method", data)
	if err != nil {
		return err
	}
	*m = PaymentMethod(i)
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) { return intValue(int(m)) }

func (m *PaymentMethod) Scan(v interface{}) error {
	*m = PaymentMethod(scanInt(v))
	return nil
}

// PaymentStatus tracks how much of a sale has been collected
type PaymentStatus int

const (
	PaymentStatusPending PaymentStatus = 0
	PaymentStatusPartial PaymentStatus = 1
	PaymentStatusPaid    PaymentStatus = 2
)

var paymentStatusNames = []string{"pending", "partial", "paid"}

func (s PaymentStatus) String() string { return nameOf(paymentStatusNames, int(s)) }

func (s PaymentStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	i, err := parse(paymentStatusNames, "payment status", data)
	if err != nil {
		return err
	}
	*s = PaymentStatus(i)
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) { return intValue(int(s)) }

func (s *PaymentStatus) Scan(v interface{}) error {
	*s = PaymentStatus(scanInt(v))
	return nil
}

// ParsePaymentStatus maps a query-string name to a status.
func ParsePaymentStatus(name string) (PaymentStatus, bool) {
	i, ok := lookup(paymentStatusNames, name)
	return PaymentStatus(i), ok
}
