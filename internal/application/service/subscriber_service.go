package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/enum"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/pkg/apperror"
	"github.com/sangkips/atelier-api/pkg/pagination"
	"go.uber.org/zap"
)

// SubscriberService manages the newsletter and WhatsApp audience
type SubscriberService struct {
	subscriberRepo repository.SubscriberRepository
	log            *zap.Logger
	now            func() time.Time
}

// NewSubscriberService creates a new subscriber service
func NewSubscriberService(subscriberRepo repository.SubscriberRepository, log *zap.Logger) *SubscriberService {
	return &SubscriberService{subscriberRepo: subscriberRepo, log: log, now: time.Now}
}

// SubscriberInput represents the create/update subscriber input. On update
// nil fields are left unchanged.
type SubscriberInput struct {
	Name       *string
	Email      *string
	Phone      *string
	City       *string
	District   *string
	Street     *string
	BuildingNo *string
	Source     *enum.SubscriberSource
}

// ListSubscribers lists subscribers
func (s *SubscriberService) ListSubscribers(ctx context.Context, params *repository.SubscriberFilterParams) (*pagination.Result[entity.Subscriber], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.Default()
	}
	params.Pagination.Validate()

	subscribers, total, err := s.subscriberRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.New(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewResult(subscribers, pag), nil
}

// GetSubscriber retrieves a subscriber by ID
func (s *SubscriberService) GetSubscriber(ctx context.Context, id uuid.UUID) (*entity.Subscriber, error) {
	sub, err := s.subscriberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NewNotFoundError("Subscriber")
	}
	return sub, nil
}

// CreateSubscriber adds an active subscriber from the admin console
func (s *SubscriberService) CreateSubscriber(ctx context.Context, input *SubscriberInput) (*entity.Subscriber, error) {
	sub := &entity.Subscriber{IsActive: true, SubscribedAt: s.now()}
	if err := s.apply(ctx, sub, input); err != nil {
		return nil, err
	}

	if err := s.subscriberRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// UpdateSubscriber updates a subscriber
func (s *SubscriberService) UpdateSubscriber(ctx context.Context, id uuid.UUID, input *SubscriberInput) (*entity.Subscriber, error) {
	sub, err := s.GetSubscriber(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, sub, input); err != nil {
		return nil, err
	}

	if err := s.subscriberRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// DeactivateSubscriber stops all messaging to a subscriber. The record is
// kept so a later subscribe reactivates it.
func (s *SubscriberService) DeactivateSubscriber(ctx context.Context, id uuid.UUID) error {
	sub, err := s.GetSubscriber(ctx, id)
	if err != nil {
		return err
	}
	if !sub.IsActive {
		return nil
	}
	sub.Unsubscribe(s.now())
	return s.subscriberRepo.Update(ctx, sub)
}

// Subscribe handles the public storefront form. Subscribing again with a
// known email reactivates and refreshes that record.
func (s *SubscriberService) Subscribe(ctx context.Context, input *SubscriberInput) (*entity.Subscriber, error) {
	if input.Email == nil || normalizeEmail(*input.Email) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "email", Message: "email is required"}})
	}

	existing, err := s.subscriberRepo.GetByEmail(ctx, normalizeEmail(*input.Email))
	if err != nil {
		return nil, err
	}
	if existing == nil {
		if input.Source == nil {
			src := enum.SubscriberSourceStorefront
			input.Source = &src
		}
		return s.CreateSubscriber(ctx, input)
	}

	wasActive := existing.IsActive
	if err := s.apply(ctx, existing, input); err != nil {
		return nil, err
	}
	if !wasActive {
		existing.Resubscribe(s.now())
		s.log.Info("subscriber reactivated", zap.String("subscriber_id", existing.ID.String()))
	}
	if err := s.subscriberRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Unsubscribe handles the public unsubscribe link.
func (s *SubscriberService) Unsubscribe(ctx context.Context, email string) error {
	sub, err := s.subscriberRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if sub == nil {
		return apperror.NewNotFoundError("Subscriber")
	}
	if !sub.IsActive {
		return nil
	}
	sub.Unsubscribe(s.now())
	return s.subscriberRepo.Update(ctx, sub)
}

func (s *SubscriberService) apply(ctx context.Context, sub *entity.Subscriber, in *SubscriberInput) error {
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != "" {
			existing, err := s.subscriberRepo.GetByEmail(ctx, email)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != sub.ID {
				return apperror.NewConflictError("Subscriber email already exists")
			}
		}
		sub.Email = optionalString(email)
	}
	if in.Phone != nil {
		p, err := normalizePhone(*in.Phone)
		if err != nil {
			return err
		}
		sub.Phone = p
	}
	if sub.Email == nil && sub.Phone == nil {
		return apperror.NewValidationError([]apperror.FieldError{{Field: "email", Message: "email or phone is required"}})
	}

	if in.Name != nil {
		sub.Name = strings.TrimSpace(*in.Name)
	}
	if in.City != nil {
		sub.City = strings.TrimSpace(*in.City)
	}
	if in.District != nil {
		sub.District = strings.TrimSpace(*in.District)
	}
	if in.Street != nil {
		sub.Street = strings.TrimSpace(*in.Street)
	}
	if in.BuildingNo != nil {
		sub.BuildingNo = strings.TrimSpace(*in.BuildingNo)
	}
	if in.Source != nil {
		sub.Source = *in.Source
	}
	return nil
}
