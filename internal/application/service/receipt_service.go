package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/pkg/apperror"
	"github.com/sangkips/atelier-api/pkg/printer"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceiptService prints counter slips for submitted sales
type ReceiptService struct {
	saleRepo  repository.SaleRepository
	printer   printer.Printer
	width     int
	storeName string
	footer    string
	log       *zap.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(saleRepo repository.SaleRepository, p printer.Printer, width int, storeName, footer string, log *zap.Logger) *ReceiptService {
	return &ReceiptService{
		saleRepo:  saleRepo,
		printer:   p,
		width:     width,
		storeName: storeName,
		footer:    footer,
		log:       log,
	}
}

// PrinterStatus reports whether a printer is attached and answering
type PrinterStatus struct {
	Configured bool `json:"configured"`
	Ready      bool `json:"ready"`
	Width      int  `json:"width"`
}

// ReceiptResult describes a printed slip
type ReceiptResult struct {
	SaleNo string `json:"saleNo"`
	Bytes  int    `json:"bytes"`
}

// Status checks whether the printer is reachable.
func (s *ReceiptService) Status(ctx context.Context) *PrinterStatus {
	_, discard := s.printer.(printer.Discard)
	return &PrinterStatus{
		Configured: !discard,
		Ready:      s.printer.Ready(ctx),
		Width:      s.width,
	}
}

// PrintSale renders the sale and sends it to the printer.
func (s *ReceiptService) PrintSale(ctx context.Context, id uuid.UUID) (*ReceiptResult, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	data := s.Render(sale)
	if err := s.printer.Print(ctx, data); err != nil {
		if errors.Is(err, printer.ErrNotConfigured) {
			return nil, apperror.NewAppError(http.StatusServiceUnavailable, "Receipt printer is not configured")
		}
		s.log.Error("receipt print failed", zap.String("sale_no", sale.SaleNo), zap.Error(err))
		return nil, apperror.NewAppError(http.StatusBadGateway, "Receipt printer did not accept the job")
	}

	s.log.Info("receipt printed", zap.String("sale_no", sale.SaleNo), zap.Int("bytes", len(data)))
	return &ReceiptResult{SaleNo: sale.SaleNo, Bytes: len(data)}, nil
}

// Render lays out a sale as an ESC/POS slip.
func (s *ReceiptService) Render(sale *entity.Sale) []byte {
	slip := printer.NewSlip(s.width)
	slip.Title(s.storeName).
		Center(sale.SaleNo).
		Center(sale.SaleDate.Format("02.01.2006 15:04")).
		Rule().
		Line(sale.CustomerName)
	if sale.CustomerPhone != nil && *sale.CustomerPhone != "" {
		slip.Line(*sale.CustomerPhone)
	}
	slip.Rule()

	for _, item := range sale.Items {
		slip.Row(item.ProductName, lira(item.TotalPrice))
		if item.Quantity > 1 {
			slip.Line(fmt.Sprintf("  %d x %s", item.Quantity, lira(item.UnitPrice)))
		}
	}

	slip.Rule().Row("Ara toplam", lira(sale.SubTotal))
	if sale.DiscountAmount.IsPositive() {
		slip.Row("Indirim", "-"+lira(sale.DiscountAmount))
	}
	slip.Row(fmt.Sprintf("KDV %%%s", sale.TaxRate.String()), lira(sale.TaxAmount)).
		Strong("TOPLAM", lira(sale.TotalAmount)).
		Row("Odeme", sale.Payment.Method.String()).
		Row("Odenen", lira(sale.Payment.PaidAmount))

	if s.footer != "" {
		slip.Feed(1).Center(s.footer)
	}
	return slip.Cut().Bytes()
}

func lira(d decimal.Decimal) string {
	return d.StringFixed(2) + " TL"
}
