package service

import (
	"context"
	"fmt"

	"github.com/sangkips/atelier-api/internal/domain/contact"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/pkg/apperror"
	"go.uber.org/zap"
)

// ContactService resolves customers and subscribers into one contact list
type ContactService struct {
	customerRepo   repository.CustomerRepository
	subscriberRepo repository.SubscriberRepository
	limit          int
	log            *zap.Logger
}

// NewContactService creates a new contact service. limit caps search results.
func NewContactService(
	customerRepo repository.CustomerRepository,
	subscriberRepo repository.SubscriberRepository,
	limit int,
	log *zap.Logger,
) *ContactService {
	return &ContactService{
		customerRepo:   customerRepo,
		subscriberRepo: subscriberRepo,
		limit:          limit,
		log:            log,
	}
}

// LoadContacts reads customers, then active subscribers. A subscriber read
// failure only drops that source.
func (s *ContactService) LoadContacts(ctx context.Context) ([]contact.Contact, error) {
	customers, err := s.customerRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	subscribers, err := s.subscriberRepo.ListActive(ctx, nil)
	if err != nil {
		s.log.Warn("subscriber source skipped", zap.Error(err))
		subscribers = nil
	}

	return contact.Merge(customers, subscribers), nil
}

// Search loads the contacts and returns the best matches for term.
func (s *ContactService) Search(ctx context.Context, term string) ([]contact.Contact, error) {
	contacts, err := s.LoadContacts(ctx)
	if err != nil {
		return nil, err
	}
	return s.Match(contacts, term), nil
}

// Match searches an already loaded list.
func (s *ContactService) Match(contacts []contact.Contact, term string) []contact.Contact {
	return contact.Search(contacts, term, s.limit)
}

// Resolve fetches the record behind a contact key.
func (s *ContactService) Resolve(ctx context.Context, key string) (*contact.Contact, error) {
	kind, id, ok := contact.ParseKey(key)
	if !ok {
		return nil, apperror.NewBadRequestError("Invalid contact key")
	}

	var c contact.Contact
	switch kind {
	case contact.KindCustomer:
		customer, err := s.customerRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Contact")
		}
		c = contact.Normalize(contact.CustomerOrigin{Customer: *customer})
	case contact.KindSubscriber:
		sub, err := s.subscriberRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return nil, apperror.NewNotFoundError("Contact")
		}
		c = contact.Normalize(contact.SubscriberOrigin{Subscriber: *sub})
	}
	return &c, nil
}
