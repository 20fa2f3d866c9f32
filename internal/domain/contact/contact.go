// Package contact resolves registered customers and subscribers into one
// searchable list of contacts.
package contact

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/entity"
)

// Kind names the record a contact was built from.
type Kind string

const (
	KindCustomer   Kind = "customer"
	KindSubscriber Kind = "subscriber"
)

// Origin is the source record of a contact. Only CustomerOrigin and
// SubscriberOrigin implement it.
type Origin interface {
	kind() Kind
}

// CustomerOrigin wraps a registered customer.
type CustomerOrigin struct {
	Customer entity.Customer
}

func (CustomerOrigin) kind() Kind { return KindCustomer }

// SubscriberOrigin wraps a newsletter or WhatsApp subscriber.
type SubscriberOrigin struct {
	Subscriber entity.Subscriber
}

func (SubscriberOrigin) kind() Kind { return KindSubscriber }

// Contact is the canonical shape offered to the sales composer.
type Contact struct {
	Key          string    `json:"key"`
	Origin       Kind      `json:"origin"`
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	District     string    `json:"district"`
	TaxNumber    string    `json:"taxNumber,omitempty"`
	TaxOffice    string    `json:"taxOffice,omitempty"`
	IsSubscriber bool      `json:"isSubscriber"`
}

// KeyFor builds the stable lookup key of a record.
func KeyFor(kind Kind, id uuid.UUID) string {
	return string(kind) + ":" + id.String()
}

// ParseKey splits a key produced by KeyFor.
func ParseKey(key string) (Kind, uuid.UUID, bool) {
	kind, raw, ok := strings.Cut(key, ":")
	if !ok {
		return "", uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", uuid.Nil, false
	}
	switch Kind(kind) {
	case KindCustomer, KindSubscriber:
		return Kind(kind), id, true
	}
	return "", uuid.Nil, false
}

// Normalize converts either origin into a Contact.
func Normalize(o Origin) Contact {
	switch v := o.(type) {
	case CustomerOrigin:
		c := v.Customer
		return Contact{
			Key:       KeyFor(KindCustomer, c.ID),
			Origin:    KindCustomer,
			ID:        c.ID,
			Name:      c.Name,
			Phone:     deref(c.Phone),
			Email:     deref(c.Email),
			Address:   deref(c.Address),
			City:      c.City,
			District:  c.District,
			TaxNumber: deref(c.TaxNumber),
			TaxOffice: deref(c.TaxOffice),
		}
	case SubscriberOrigin:
		s := v.Subscriber
		return Contact{
			Key:          KeyFor(KindSubscriber, s.ID),
			Origin:       KindSubscriber,
			ID:           s.ID,
			Name:         s.Name,
			Phone:        deref(s.Phone),
			Email:        deref(s.Email),
			Address:      SubscriberAddress(s.City, s.District, s.Street, s.BuildingNo),
			City:         s.City,
			District:     s.District,
			IsSubscriber: true,
		}
	}
	return Contact{}
}

// SubscriberAddress joins the discrete address parts of a subscriber as
// "city, district, street No: building", skipping the empty ones.
func SubscriberAddress(city, district, street, buildingNo string) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{city, district, street} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if b := strings.TrimSpace(buildingNo); b != "" {
		no := "No: " + b
		if len(parts) == 3 {
			parts[2] += " " + no
		} else {
			parts = append(parts, no)
		}
	}
	return strings.Join(parts, ", ")
}

// SplitAddress splits an address on its first comma into two lines.
func SplitAddress(address string) (line1, line2 string) {
	head, tail, found := strings.Cut(address, ",")
	if !found {
		return strings.TrimSpace(address), ""
	}
	return strings.TrimSpace(head), strings.TrimSpace(tail)
}

// Merge builds the contact list: every customer first, then every subscriber
// whose email does not belong to a customer.
func Merge(customers []entity.Customer, subscribers []entity.Subscriber) []Contact {
	contacts := make([]Contact, 0, len(customers)+len(subscribers))
	known := make(map[string]struct{}, len(customers))

	for _, c := range customers {
		contact := Normalize(CustomerOrigin{Customer: c})
		if key := emailKey(contact.Email); key != "" {
			known[key] = struct{}{}
		}
		contacts = append(contacts, contact)
	}
	for _, s := range subscribers {
		contact := Normalize(SubscriberOrigin{Subscriber: s})
		if key := emailKey(contact.Email); key != "" {
			if _, dup := known[key]; dup {
				continue
			}
		}
		contacts = append(contacts, contact)
	}
	return contacts
}

// Search returns up to limit contacts whose name, phone or email contains
// term, ignoring case. A blank term matches nothing.
func Search(contacts []Contact, term string, limit int) []Contact {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || limit <= 0 {
		return []Contact{}
	}

	matches := make([]Contact, 0, limit)
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.Phone), term) ||
			strings.Contains(strings.ToLower(c.Email), term) {
			matches = append(matches, c)
			if len(matches) == limit {
				break
			}
		}
	}
	return matches
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
