package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/composer"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var errDraftSubmitting = apperror.NewConflictError("Draft is being submitted")

// DraftService drives the sale composer. Each call loads the draft, applies
// one change, recalculates and saves it back.
type DraftService struct {
	draftRepo      repository.DraftRepository
	productRepo    repository.ProductRepository
	contacts       *ContactService
	sales          *SaleService
	defaultTaxRate decimal.Decimal
	log            *zap.Logger
	now            func() time.Time
}

// NewDraftService creates a new draft service
func NewDraftService(
	draftRepo repository.DraftRepository,
	productRepo repository.ProductRepository,
	contacts *ContactService,
	sales *SaleService,
	defaultTaxRate float64,
	log *zap.Logger,
) *DraftService {
	return &DraftService{
		draftRepo:      draftRepo,
		productRepo:    productRepo,
		contacts:       contacts,
		sales:          sales,
		defaultTaxRate: decimal.NewFromFloat(defaultTaxRate),
		log:            log,
		now:            time.Now,
	}
}

// CreateDraft starts a draft. With saleID the draft is loaded from that sale
// and submitting it updates the sale instead of creating one.
func (s *DraftService) CreateDraft(ctx context.Context, saleID *uuid.UUID) (*composer.Draft, error) {
	id := uuid.NewString()
	now := s.now()

	var d *composer.Draft
	if saleID != nil {
		sale, err := s.sales.GetSale(ctx, *saleID)
		if err != nil {
			return nil, err
		}
		d = composer.DraftFromSale(id, sale, now)
	} else {
		d = composer.NewDraft(id, s.defaultTaxRate, now)
	}

	if err := s.draftRepo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return d, nil
}

// GetDraft returns a draft
func (s *DraftService) GetDraft(ctx context.Context, id string) (*composer.Draft, error) {
	d, err := s.draftRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if d == nil {
		return nil, apperror.NewNotFoundError("Draft")
	}
	return d, nil
}

// DiscardDraft drops a draft without persisting anything.
func (s *DraftService) DiscardDraft(ctx context.Context, id string) error {
	d, err := s.GetDraft(ctx, id)
	if err != nil {
		return err
	}
	if d.Submitting {
		return errDraftSubmitting
	}
	return s.draftRepo.Delete(ctx, id)
}

// SwitchTab changes the active tab
func (s *DraftService) SwitchTab(ctx context.Context, id, tab string) (*composer.Draft, error) {
	t, err := composer.ParseTab(tab)
	if err != nil {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown tab %q", tab))
	}
	return s.mutate(ctx, id, func(d *composer.Draft) error {
		d.SwitchTab(t)
		return nil
	})
}

// UpdateBasic writes the basic tab
func (s *DraftService) UpdateBasic(ctx context.Context, id string, basic composer.Basic) (*composer.Draft, error) {
	return s.mutate(ctx, id, func(d *composer.Draft) error {
		d.SetBasic(basic)
		return nil
	})
}

// UpdateInvoice writes the invoice tab
func (s *DraftService) UpdateInvoice(ctx context.Context, id string, inv entity.InvoiceInfo) (*composer.Draft, error) {
	return s.mutate(ctx, id, func(d *composer.Draft) error {
		d.SetInvoice(inv)
		return nil
	})
}

// UpdateDelivery writes the delivery tab
func (s *DraftService) UpdateDelivery(ctx context.Context, id string, del entity.DeliveryInfo) (*composer.Draft, error) {
	return s.mutate(ctx, id, func(d *composer.Draft) error {
		d.SetDelivery(del)
		return nil
	})
}

// UpdatePayment writes the payment tab. explicit reports whether the client
// chose the status itself.
func (s *DraftService) UpdatePayment(ctx context.Context, id string, p entity.PaymentInfo, explicit bool) (*composer.Draft, error) {
	if p.PaidAmount.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "paidAmount", Message: "paid amount cannot be negative"},
		})
	}
	return s.mutate(ctx, id, func(d *composer.Draft) error {
		d.SetPayment(p, explicit)
		return nil
	})
}

// UpdatePricing sets discount and tax rate. Missing or non-finite values
// fall back to zero discount and the default rate.
func (s *DraftService) UpdatePricing(ctx context.Context, id string, in composer.PricingInput) (*composer.Draft, error) {
	p := composer.Sanitize(in, s.defaultTaxRate)

	var errs []apperror.FieldError
	if p.DiscountAmount.IsNegative() {
		errs = append(errs, apperror.FieldError{Field: "discountAmount", Message: "discount cannot be negative"})
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, apperror.FieldError{Field: "taxRate", Message: "tax rate must be between 0 and 100"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	return s.mutate(ctx, id, func(d *composer.Draft) error {
		d.SetPricing(p)
		return nil
	})
}

// AddItem appends a line for productID. On failure the draft is not saved,
// so the ledger stays as it was.
func (s *DraftService) AddItem(ctx context.Context, id, productID string, quantity int) (*composer.Draft, error) {
	return s.mutate(ctx, id, func(d *composer.Draft) error {
		d.SelectPending(productID, quantity)

		productID = strings.TrimSpace(productID)
		if productID == "" {
			return LedgerError(composer.ErrProductRequired)
		}
		if quantity <= 0 {
			return LedgerError(composer.ErrInvalidQuantity)
		}

		var product *entity.Product
		if pid, err := uuid.Parse(productID); err == nil {
			product, err = s.productRepo.GetByID(ctx, pid)
			if err != nil {
				return err
			}
		}
		if product != nil && !product.IsActive {
			product = nil
		}

		if err := d.AddItem(product, quantity); err != nil {
			return LedgerError(err)
		}
		return nil
	})
}

// RemoveItem drops the line at index
func (s *DraftService) RemoveItem(ctx context.Context, id string, index int) (*composer.Draft, error) {
	return s.mutate(ctx, id, func(d *composer.Draft) error {
		if err := d.RemoveItem(index); err != nil {
			return LedgerError(err)
		}
		return nil
	})
}

// SelectCustomer fills the customer, invoice and delivery fields from the
// contact behind key.
func (s *DraftService) SelectCustomer(ctx context.Context, id, key string) (*composer.Draft, error) {
	c, err := s.contacts.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(d *composer.Draft) error {
		d.ApplyContact(*c)
		return nil
	})
}

// Submit validates the draft and persists it as a sale. Only one submit per
// draft runs at a time. On failure the draft is kept so the user can retry.
func (s *DraftService) Submit(ctx context.Context, id string) (*entity.Sale, error) {
	acquired, err := s.draftRepo.AcquireSubmit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("acquire submit: %w", err)
	}
	if !acquired {
		return nil, errDraftSubmitting
	}
	defer func() {
		if err := s.draftRepo.ReleaseSubmit(context.WithoutCancel(ctx), id); err != nil {
			s.log.Warn("release submit guard", zap.String("draft_id", id), zap.Error(err))
		}
	}()

	// Loaded under the guard: a draft submitted by a concurrent call is gone.
	d, err := s.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}

	d.Submitting = true
	if err := s.draftRepo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}

	sale := d.ToSale()
	if d.SaleID != nil {
		sale, err = s.sales.Replace(ctx, *d.SaleID, sale)
	} else {
		sale, err = s.sales.Insert(ctx, sale)
	}
	if err != nil {
		d.Submitting = false
		d.UpdatedAt = s.now()
		if saveErr := s.draftRepo.Save(context.WithoutCancel(ctx), d); saveErr != nil {
			s.log.Error("restore draft after failed submit", zap.String("draft_id", id), zap.Error(saveErr))
		}
		if apperror.StatusOf(err) >= http.StatusInternalServerError {
			s.log.Error("submit draft", zap.String("draft_id", id), zap.Error(err))
		}
		return nil, err
	}

	if err := s.draftRepo.Delete(ctx, id); err != nil {
		s.log.Warn("delete submitted draft", zap.String("draft_id", id), zap.Error(err))
	}
	return sale, nil
}

func (s *DraftService) mutate(ctx context.Context, id string, fn func(d *composer.Draft) error) (*composer.Draft, error) {
	d, err := s.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Submitting {
		return nil, errDraftSubmitting
	}

	if err := fn(d); err != nil {
		return nil, err
	}

	d.UpdatedAt = s.now()
	switch err := s.draftRepo.Update(ctx, d); {
	case errors.Is(err, repository.ErrDraftSubmitting):
		return nil, errDraftSubmitting
	case errors.Is(err, repository.ErrDraftNotFound):
		return nil, apperror.NewNotFoundError("Draft")
	case err != nil:
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return d, nil
}
