package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/pkg/apperror"
	"github.com/sangkips/atelier-api/pkg/phone"
	"github.com/sangkips/atelier-api/pkg/whatsapp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// namePlaceholder in a body parameter is replaced with the subscriber name.
const namePlaceholder = "{{name}}"

// TemplateSender sends one WhatsApp template message
type TemplateSender interface {
	Configured() bool
	SendTemplate(ctx context.Context, msg whatsapp.TemplateMessage) (string, error)
}

// WhatsAppService sends template messages to subscribers in bulk
type WhatsAppService struct {
	subscriberRepo repository.SubscriberRepository
	sender         TemplateSender
	concurrency    int
	limiter        *rate.Limiter
	log            *zap.Logger
}

// NewWhatsAppService creates a new WhatsApp service. Sends run at most
// concurrency at a time and no faster than perSecond.
func NewWhatsAppService(subscriberRepo repository.SubscriberRepository, sender TemplateSender, concurrency int, perSecond float64, log *zap.Logger) *WhatsAppService {
	if concurrency < 1 {
		concurrency = 1
	}
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &WhatsAppService{
		subscriberRepo: subscriberRepo,
		sender:         sender,
		concurrency:    concurrency,
		limiter:        rate.NewLimiter(limit, concurrency),
		log:            log,
	}
}

// BulkSendInput selects a template and its audience. Empty SubscriberIDs
// targets every active subscriber.
type BulkSendInput struct {
	Template      string
	Language      string
	Params        []string
	SubscriberIDs []uuid.UUID
}

// SendFailure is one recipient that could not be messaged
type SendFailure struct {
	SubscriberID uuid.UUID `json:"subscriberId"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Error        string    `json:"error"`
}

// BulkSendResult summarizes a bulk send
type BulkSendResult struct {
	Requested int           `json:"requested"`
	Sent      int           `json:"sent"`
	Skipped   int           `json:"skipped"`
	Failed    []SendFailure `json:"failed"`
}

type waRecipient struct {
	id    uuid.UUID
	name  string
	phone string
}

// BulkSend messages the selected subscribers. Subscribers without a usable
// phone number are skipped; a number shared by several subscribers is sent
// once.
func (s *WhatsAppService) BulkSend(ctx context.Context, in *BulkSendInput) (*BulkSendResult, error) {
	if strings.TrimSpace(in.Template) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "template", Message: "template is required"}})
	}
	if !s.sender.Configured() {
		return nil, apperror.NewAppError(http.StatusServiceUnavailable, "WhatsApp delivery is not configured")
	}
	language := in.Language
	if language == "" {
		language = "tr"
	}

	subs, err := s.subscriberRepo.ListActive(ctx, in.SubscriberIDs)
	if err != nil {
		return nil, fmt.Errorf("load subscribers: %w", err)
	}

	result := &BulkSendResult{Requested: len(subs), Failed: []SendFailure{}}
	recipients := make([]waRecipient, 0, len(subs))
	seen := make(map[string]struct{}, len(subs))
	for _, sub := range subs {
		if sub.Phone == nil {
			result.Skipped++
			continue
		}
		number, err := phone.Normalize(*sub.Phone)
		if err != nil {
			result.Skipped++
			continue
		}
		if _, dup := seen[number]; dup {
			result.Skipped++
			continue
		}
		seen[number] = struct{}{}
		recipients = append(recipients, waRecipient{id: sub.ID, name: sub.Name, phone: number})
	}
	if len(recipients) == 0 {
		return nil, apperror.NewAppError(http.StatusUnprocessableEntity, "No subscribers with a valid phone number")
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, r := range recipients {
		g.Go(func() error {
			err := s.limiter.Wait(gctx)
			if err == nil {
				_, err = s.sender.SendTemplate(gctx, whatsapp.TemplateMessage{
					To:         r.phone,
					Template:   in.Template,
					Language:   language,
					BodyParams: personalize(in.Params, r.name),
				})
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failed = append(result.Failed, SendFailure{
					SubscriberID: r.id,
					Name:         r.name,
					Phone:        r.phone,
					Error:        err.Error(),
				})
				return nil
			}
			result.Sent++
			return nil
		})
	}
	_ = g.Wait()

	s.log.Info("whatsapp bulk send",
		zap.String("template", in.Template),
		zap.Int("sent", result.Sent),
		zap.Int("failed", len(result.Failed)),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func personalize(params []string, name string) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = strings.ReplaceAll(p, namePlaceholder, name)
	}
	return out
}
