package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/atelier-api/internal/application/service"
	"github.com/sangkips/atelier-api/internal/domain/composer"
	"github.com/sangkips/atelier-api/internal/domain/entity"
	"github.com/sangkips/atelier-api/internal/presentation/http/dto/request"
	"github.com/sangkips/atelier-api/internal/presentation/http/dto/response"
)

// DraftHandler exposes the sale composer. Every write answers with the
// whole draft so the client can re-render any tab.
type DraftHandler struct {
	draftService *service.DraftService
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(draftService *service.DraftService) *DraftHandler {
	return &DraftHandler{draftService: draftService}
}

// Create handles opening a draft
func (h *DraftHandler) Create(c *gin.Context) {
	var req request.CreateDraftRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	d, err := h.draftService.CreateDraft(c.Request.Context(), req.SaleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Draft created successfully", d)
}

// Get handles reading a draft
func (h *DraftHandler) Get(c *gin.Context) {
	d, err := h.draftService.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Draft retrieved successfully", d)
}

// Discard handles dropping a draft
func (h *DraftHandler) Discard(c *gin.Context) {
	if err := h.draftService.DiscardDraft(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Draft discarded", nil)
}

// SwitchTab handles changing the active tab
func (h *DraftHandler) SwitchTab(c *gin.Context) {
	var req request.TabRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.draftService.SwitchTab(c.Request.Context(), c.Param("id"), req.Tab)
	h.reply(c, d, err)
}

// UpdateBasic handles the basic tab
func (h *DraftHandler) UpdateBasic(c *gin.Context) {
	var req request.BasicRequest
	if !bindJSON(c, &req) {
		return
	}

	basic := composer.Basic{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Notes:         req.Notes,
	}
	if req.SaleDate != nil {
		basic.SaleDate = *req.SaleDate
	}

	d, err := h.draftService.UpdateBasic(c.Request.Context(), c.Param("id"), basic)
	h.reply(c, d, err)
}

// UpdateInvoice handles the invoice tab
func (h *DraftHandler) UpdateInvoice(c *gin.Context) {
	var req entity.InvoiceInfo
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.draftService.UpdateInvoice(c.Request.Context(), c.Param("id"), req)
	h.reply(c, d, err)
}

// UpdateDelivery handles the delivery tab
func (h *DraftHandler) UpdateDelivery(c *gin.Context) {
	var req entity.DeliveryInfo
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.draftService.UpdateDelivery(c.Request.Context(), c.Param("id"), req)
	h.reply(c, d, err)
}

// UpdatePayment handles the payment tab
func (h *DraftHandler) UpdatePayment(c *gin.Context) {
	var req request.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	p := entity.PaymentInfo{
		Method:     req.Method,
		PaidAmount: composer.SanitizeMoney(req.PaidAmount),
		DueDate:    req.DueDate,
	}
	if req.Status != nil {
		p.Status = *req.Status
	}

	d, err := h.draftService.UpdatePayment(c.Request.Context(), c.Param("id"), p, req.Status != nil)
	h.reply(c, d, err)
}

// UpdatePricing handles discount and tax rate changes
func (h *DraftHandler) UpdatePricing(c *gin.Context) {
	var req request.PricingRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.draftService.UpdatePricing(c.Request.Context(), c.Param("id"), composer.PricingInput{
		DiscountAmount: req.DiscountAmount,
		TaxRate:        req.TaxRate,
	})
	h.reply(c, d, err)
}

// AddItem handles adding the selected product as a line
func (h *DraftHandler) AddItem(c *gin.Context) {
	var req request.AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.draftService.AddItem(c.Request.Context(), c.Param("id"), req.ProductID, req.Quantity)
	h.reply(c, d, err)
}

// RemoveItem handles removing a line
func (h *DraftHandler) RemoveItem(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}

	d, err := h.draftService.RemoveItem(c.Request.Context(), c.Param("id"), index)
	h.reply(c, d, err)
}

// SelectCustomer handles picking a contact
func (h *DraftHandler) SelectCustomer(c *gin.Context) {
	var req request.SelectCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.draftService.SelectCustomer(c.Request.Context(), c.Param("id"), req.Key)
	h.reply(c, d, err)
}

// Submit handles validating and persisting the draft
func (h *DraftHandler) Submit(c *gin.Context) {
	sale, err := h.draftService.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale saved successfully", sale)
}

func (h *DraftHandler) reply(c *gin.Context, d *composer.Draft, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Draft updated", d)
}
