package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/enum"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/pkg/apperror"
	"github.com/sangkips/atelier-api/pkg/mailer"
	"github.com/sangkips/atelier-api/pkg/pagination"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const campaignSendConcurrency = 4

// MailSender delivers one HTML email
type MailSender interface {
	Configured() bool
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// CampaignService manages newsletter campaigns
type CampaignService struct {
	campaignRepo   repository.CampaignRepository
	subscriberRepo repository.SubscriberRepository
	mail           MailSender
	publicURL      string
	log            *zap.Logger
	now            func() time.Time
}

// NewCampaignService creates a new campaign service. publicURL is the
// storefront base used to build unsubscribe links.
func NewCampaignService(
	campaignRepo repository.CampaignRepository,
	subscriberRepo repository.SubscriberRepository,
	mail MailSender,
	publicURL string,
	log *zap.Logger,
) *CampaignService {
	return &CampaignService{
		campaignRepo:   campaignRepo,
		subscriberRepo: subscriberRepo,
		mail:           mail,
		publicURL:      strings.TrimRight(publicURL, "/"),
		log:            log,
		now:            time.Now,
	}
}

// CampaignInput represents the create campaign input
type CampaignInput struct {
	Title   string
	Subject string
	Body    string
}

// CreateCampaign stores a draft campaign after checking its body parses
func (s *CampaignService) CreateCampaign(ctx context.Context, input *CampaignInput) (*entity.Campaign, error) {
	var errs []apperror.FieldError
	if strings.TrimSpace(input.Title) == "" {
		errs = append(errs, apperror.FieldError{Field: "title", Message: "title is required"})
	}
	if strings.TrimSpace(input.Subject) == "" {
		errs = append(errs, apperror.FieldError{Field: "subject", Message: "subject is required"})
	}
	if strings.TrimSpace(input.Body) == "" {
		errs = append(errs, apperror.FieldError{Field: "body", Message: "body is required"})
	} else if _, err := mailer.Parse("campaign", input.Body); err != nil {
		errs = append(errs, apperror.FieldError{Field: "body", Message: err.Error()})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	campaign := &entity.Campaign{
		Title:   strings.TrimSpace(input.Title),
		Subject: strings.TrimSpace(input.Subject),
		Body:    input.Body,
		Status:  enum.CampaignStatusDraft,
	}
	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// GetCampaign retrieves a campaign by ID
func (s *CampaignService) GetCampaign(ctx context.Context, id uuid.UUID) (*entity.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperror.NewNotFoundError("Campaign")
	}
	return campaign, nil
}

// ListCampaigns lists campaigns
func (s *CampaignService) ListCampaigns(ctx context.Context, params *pagination.Params) (*pagination.Result[entity.Campaign], error) {
	params.Validate()
	campaigns, total, err := s.campaignRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.New(params.Page, params.PerPage, total)
	return pagination.NewResult(campaigns, pag), nil
}

// SendCampaign emails the campaign to every active subscriber with an email
// address. Individual delivery failures are counted, not returned.
func (s *CampaignService) SendCampaign(ctx context.Context, id uuid.UUID) (*entity.Campaign, error) {
	campaign, err := s.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	switch campaign.Status {
	case enum.CampaignStatusSent:
		return nil, apperror.NewConflictError("Campaign has already been sent")
	case enum.CampaignStatusSending:
		return nil, apperror.NewConflictError("Campaign is being sent")
	}
	if !s.mail.Configured() {
		return nil, apperror.NewAppError(http.StatusServiceUnavailable, "Email delivery is not configured")
	}

	tmpl, err := mailer.Parse(campaign.ID.String(), campaign.Body)
	if err != nil {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "body", Message: err.Error()}})
	}

	subscribers, err := s.subscriberRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load subscribers: %w", err)
	}
	recipients := make([]mailer.Recipient, 0, len(subscribers))
	seen := make(map[string]struct{}, len(subscribers))
	for _, sub := range subscribers {
		if sub.Email == nil || strings.TrimSpace(*sub.Email) == "" {
			continue
		}
		email := strings.TrimSpace(*sub.Email)
		if _, dup := seen[strings.ToLower(email)]; dup {
			continue
		}
		seen[strings.ToLower(email)] = struct{}{}
		recipients = append(recipients, mailer.Recipient{
			Name:           sub.Name,
			Email:          email,
			UnsubscribeURL: s.unsubscribeURL(email),
		})
	}
	if len(recipients) == 0 {
		return nil, apperror.NewAppError(http.StatusUnprocessableEntity, "No active subscribers with an email address")
	}

	// Concurrent sends race here; only one caller wins the transition.
	marked, err := s.campaignRepo.MarkSending(ctx, campaign.ID, len(recipients))
	if err != nil {
		return nil, err
	}
	if !marked {
		return nil, apperror.NewConflictError("Campaign is being sent")
	}
	campaign.Status = enum.CampaignStatusSending
	campaign.RecipientCount = len(recipients)

	var sent, failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(campaignSendConcurrency)
	for _, r := range recipients {
		g.Go(func() error {
			body, err := tmpl.Render(r)
			if err == nil {
				err = s.mail.Send(gctx, r.Email, campaign.Subject, body)
			}
			if err != nil {
				failed.Add(1)
				s.log.Warn("campaign delivery failed",
					zap.String("campaign_id", campaign.ID.String()),
					zap.String("email", r.Email),
					zap.Error(err),
				)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	now := s.now()
	campaign.SentCount = int(sent.Load())
	campaign.FailedCount = int(failed.Load())
	campaign.SentAt = &now
	campaign.Status = enum.CampaignStatusSent
	if campaign.SentCount == 0 {
		campaign.Status = enum.CampaignStatusFailed
	}
	if err := s.campaignRepo.Update(context.WithoutCancel(ctx), campaign); err != nil {
		return nil, err
	}

	s.log.Info("campaign sent",
		zap.String("campaign_id", campaign.ID.String()),
		zap.Int("sent", campaign.SentCount),
		zap.Int("failed", campaign.FailedCount),
	)
	return campaign, nil
}

func (s *CampaignService) unsubscribeURL(email string) string {
	return s.publicURL + "/unsubscribe?email=" + url.QueryEscape(email)
}
