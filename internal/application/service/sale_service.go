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
	"github.com/sangkips/atelier-api/internal/domain/enum"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/pkg/apperror"
	"github.com/sangkips/atelier-api/pkg/pagination"
	"github.com/sangkips/atelier-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService persists sales. Every write recomputes totals through the
// composer before validation, so stored amounts always follow one formula.
type SaleService struct {
	saleRepo       repository.SaleRepository
	productRepo    repository.ProductRepository
	defaultTaxRate decimal.Decimal
	numberPrefix   string
	log            *zap.Logger
	now            func() time.Time
}

// NewSaleService creates a new sale service
func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	defaultTaxRate float64,
	numberPrefix string,
	log *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo:       saleRepo,
		productRepo:    productRepo,
		defaultTaxRate: decimal.NewFromFloat(defaultTaxRate),
		numberPrefix:   numberPrefix,
		log:            log,
		now:            time.Now,
	}
}

// SaleItemInput is one submitted line. A nil UnitPrice takes the product's
// sale price.
type SaleItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice *float64
}

// SaleInput is a full sale record as submitted by a client
type SaleInput struct {
	SaleDate      *time.Time
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	CustomerID    *uuid.UUID
	SubscriberID  *uuid.UUID
	Items         []SaleItemInput
	Pricing       composer.PricingInput
	Notes         string
	Invoice       entity.InvoiceInfo
	Delivery      entity.DeliveryInfo
	Payment       entity.PaymentInfo
	// PaymentStatus nil derives the status from the paid amount.
	PaymentStatus *enum.PaymentStatus
}

// CreateSale validates and stores a new sale
func (s *SaleService) CreateSale(ctx context.Context, input *SaleInput) (*entity.Sale, error) {
	sale, err := s.build(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.Insert(ctx, sale)
}

// UpdateSale replaces an existing sale with the submitted record
func (s *SaleService) UpdateSale(ctx context.Context, id uuid.UUID, input *SaleInput) (*entity.Sale, error) {
	sale, err := s.build(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.Replace(ctx, id, sale)
}

// Insert stores a composed sale under a fresh sale number.
func (s *SaleService) Insert(ctx context.Context, sale *entity.Sale) (*entity.Sale, error) {
	if err := s.finalize(sale); err != nil {
		return nil, err
	}

	sale.ID = uuid.Nil
	sale.SaleNo = utils.GenerateReferenceNo(s.numberPrefix)
	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}

	s.log.Info("sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("sale_no", sale.SaleNo),
		zap.String("total", sale.TotalAmount.StringFixed(2)),
	)
	return sale, nil
}

// Replace overwrites the sale with id, keeping its number and creation time.
func (s *SaleService) Replace(ctx context.Context, id uuid.UUID, sale *entity.Sale) (*entity.Sale, error) {
	existing, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.finalize(sale); err != nil {
		return nil, err
	}

	sale.ID = existing.ID
	sale.SaleNo = existing.SaleNo
	sale.CreatedAt = existing.CreatedAt
	if err := s.saleRepo.Replace(ctx, sale); err != nil {
		return nil, fmt.Errorf("replace sale: %w", err)
	}

	s.log.Info("sale updated", zap.String("sale_id", sale.ID.String()), zap.String("sale_no", sale.SaleNo))
	return sale, nil
}

// GetSale retrieves a sale with its items
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.Result[entity.Sale], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.Default()
	}
	params.Pagination.Validate()

	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.New(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewResult(sales, pag), nil
}

// DeleteSale removes a sale. This cannot be undone through the API.
func (s *SaleService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSale(ctx, id); err != nil {
		return err
	}
	if err := s.saleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	s.log.Info("sale deleted", zap.String("sale_id", id.String()))
	return nil
}

// RemoveItem drops one line of a stored sale. The last line cannot be
// removed.
func (s *SaleService) RemoveItem(ctx context.Context, id uuid.UUID, index int) (*entity.Sale, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	ledger := composer.Ledger(sale.Items)
	if err := ledger.RemoveKeepingOne(index); err != nil {
		return nil, LedgerError(err)
	}
	sale.Items = ledger

	composer.Recalculate(sale.Items, composer.Pricing{
		DiscountAmount: sale.DiscountAmount,
		TaxRate:        sale.TaxRate,
	}).Apply(sale)
	if errs := composer.Validate(sale); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	if err := s.saleRepo.Replace(ctx, sale); err != nil {
		return nil, fmt.Errorf("replace sale: %w", err)
	}
	return sale, nil
}

// build turns a client record into a sale with product snapshots.
func (s *SaleService) build(ctx context.Context, in *SaleInput) (*entity.Sale, error) {
	ids := make([]uuid.UUID, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	items := make([]entity.SaleItem, 0, len(in.Items))
	for i, it := range in.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", it.ProductID))
		}
		price := p.SalePrice
		if it.UnitPrice != nil {
			price = composer.SanitizeMoney(*it.UnitPrice)
		}
		items = append(items, entity.SaleItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			UnitPrice:   price,
			UnitCost:    p.PurchasePrice,
			Position:    i,
		})
	}

	pricing := composer.Sanitize(in.Pricing, s.defaultTaxRate)
	sale := &entity.Sale{
		CustomerName:   strings.TrimSpace(in.CustomerName),
		CustomerPhone:  optionalString(in.CustomerPhone),
		CustomerEmail:  optionalString(in.CustomerEmail),
		CustomerID:     in.CustomerID,
		SubscriberID:   in.SubscriberID,
		Items:          items,
		DiscountAmount: pricing.DiscountAmount,
		TaxRate:        pricing.TaxRate,
		Notes:          optionalString(in.Notes),
		Invoice:        in.Invoice,
		Delivery:       in.Delivery,
		Payment:        in.Payment,
	}
	if in.SaleDate != nil {
		sale.SaleDate = *in.SaleDate
	}

	totals := composer.Recalculate(sale.Items, pricing)
	totals.Apply(sale)
	if in.PaymentStatus != nil {
		sale.Payment.Status = *in.PaymentStatus
	} else {
		sale.Payment.Status = composer.DerivePaymentStatus(sale.Payment.PaidAmount, sale.TotalAmount)
	}
	return sale, nil
}

// finalize recomputes totals and runs the submit checks.
func (s *SaleService) finalize(sale *entity.Sale) error {
	composer.Recalculate(sale.Items, composer.Pricing{
		DiscountAmount: sale.DiscountAmount,
		TaxRate:        sale.TaxRate,
	}).Apply(sale)

	if errs := composer.Validate(sale); len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	if sale.SaleDate.IsZero() {
		sale.SaleDate = s.now()
	}
	sale.Payment.PaidAmount = sale.Payment.PaidAmount.Round(2)
	return nil
}

// LedgerError maps composer ledger failures onto API errors.
func LedgerError(err error) error {
	switch {
	case errors.Is(err, composer.ErrProductNotFound):
		return apperror.NewNotFoundError("Product")
	case errors.Is(err, composer.ErrLastItem):
		return apperror.NewAppError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, composer.ErrProductRequired),
		errors.Is(err, composer.ErrInvalidQuantity),
		errors.Is(err, composer.ErrInvalidPrice),
		errors.Is(err, composer.ErrItemIndex):
		return apperror.NewBadRequestError(err.Error())
	}
	return err
}
