package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/atelier-api/internal/application/service"
	"github.com/sangkips/atelier-api/internal/domain/composer"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/domain/enum"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/internal/presentation/http/dto/request"
	"github.com/sangkips/atelier-api/internal/presentation/http/dto/response"
	"github.com/sangkips/atelier-api/pkg/pagination"
)

// SaleHandler handles sale-related HTTP requests
type SaleHandler struct {
	saleService *service.SaleService
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// List handles listing sales
func (h *SaleHandler) List(c *gin.Context) {
	var filter request.SaleFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SaleFilterParams{
		Pagination: &pagination.Params{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
	}
	if filter.PaymentStatus != "" {
		st, ok := enum.ParsePaymentStatus(filter.PaymentStatus)
		if !ok {
			response.BadRequest(c, "Invalid payment_status")
			return
		}
		params.PaymentStatus = &st
	}
	if filter.CustomerID != "" {
		id, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer_id")
			return
		}
		params.CustomerID = &id
	}

	var ok bool
	if params.StartDate, ok = dateQuery(c, "start_date"); !ok {
		return
	}
	if params.EndDate, ok = dateQuery(c, "end_date"); !ok {
		return
	}
	if params.EndDate != nil {
		// inclusive end day
		end := params.EndDate.AddDate(0, 0, 1)
		params.EndDate = &end
	}

	result, err := h.saleService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Sales retrieved successfully", result)
}

// Get handles getting a sale by ID
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// Create handles creating a sale from a complete record
func (h *SaleHandler) Create(c *gin.Context) {
	var req request.SaleRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), saleInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale created successfully", sale)
}

// Update handles replacing a sale
func (h *SaleHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req request.SaleRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.UpdateSale(c.Request.Context(), id, saleInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale updated successfully", sale)
}

// Delete handles deleting a sale
func (h *SaleHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.saleService.DeleteSale(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale deleted successfully", nil)
}

// RemoveItem handles removing one row of a stored sale
func (h *SaleHandler) RemoveItem(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	index, ok := intParam(c, "index")
	if !ok {
		return
	}

	sale, err := h.saleService.RemoveItem(c.Request.Context(), id, index)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed successfully", sale)
}

func saleInput(req *request.SaleRequest) *service.SaleInput {
	items := make([]service.SaleItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.SaleItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	return &service.SaleInput{
		SaleDate:      req.SaleDate,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		CustomerID:    req.CustomerID,
		SubscriberID:  req.SubscriberID,
		Items:         items,
		Pricing: composer.PricingInput{
			DiscountAmount: req.DiscountAmount,
			TaxRate:        req.TaxRate,
		},
		Notes:    req.Notes,
		Invoice:  req.Invoice,
		Delivery: req.Delivery,
		Payment: entity.PaymentInfo{
			Method:     req.Payment.Method,
			PaidAmount: composer.SanitizeMoney(req.Payment.PaidAmount),
			DueDate:    req.Payment.DueDate,
		},
		PaymentStatus: req.Payment.Status,
	}
}
