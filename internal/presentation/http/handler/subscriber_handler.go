package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/atelier-api/internal/application/service"
	"github.com/sangkips/atelier-api/internal/domain/enum"
	"github.com/sangkips/atelier-api/internal/domain/repository"
	"github.com/sangkips/atelier-api/internal/presentation/http/dto/request"
	"github.com/sangkips/atelier-api/internal/presentation/http/dto/response"
	"github.com/sangkips/atelier-api/pkg/pagination"
)

// SubscriberHandler serves the subscriber admin endpoints, the WhatsApp bulk
// send and the public newsletter forms.
type SubscriberHandler struct {
	subscriberService *service.SubscriberService
	whatsappService   *service.WhatsAppService
}

// NewSubscriberHandler creates a new subscriber handler
func NewSubscriberHandler(subscriberService *service.SubscriberService, whatsappService *service.WhatsAppService) *SubscriberHandler {
	return &SubscriberHandler{subscriberService: subscriberService, whatsappService: whatsappService}
}

// List handles listing subscribers
func (h *SubscriberHandler) List(c *gin.Context) {
	var filter request.SubscriberFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.SubscriberFilterParams{
		Pagination: &pagination.Params{Page: filter.Page, PerPage: filter.PerPage},
		Search:     filter.Search,
		Active:     filter.Active,
	}
	if filter.Source != "" {
		src, ok := enum.ParseSubscriberSource(filter.Source)
		if !ok {
			response.BadRequest(c, "Invalid source")
			return
		}
		params.Source = &src
	}

	result, err := h.subscriberService.ListSubscribers(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Subscribers retrieved successfully", result)
}

// Create handles adding a subscriber from the admin console
func (h *SubscriberHandler) Create(c *gin.Context) {
	var req request.SubscriberRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.subscriberService.CreateSubscriber(c.Request.Context(), subscriberInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Subscriber created successfully", sub)
}

// Update handles updating a subscriber
func (h *SubscriberHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req request.SubscriberRequest
	if !bindJSON(c, &req) {
		return
	}

	sub, err := h.subscriberService.UpdateSubscriber(c.Request.Context(), id, subscriberInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Subscriber updated successfully", sub)
}

// Deactivate handles DELETE on a subscriber. The record is kept inactive.
func (h *SubscriberHandler) Deactivate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.subscriberService.DeactivateSubscriber(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Subscriber deactivated successfully", nil)
}

// SendTemplate handles a bulk WhatsApp template send
func (h *SubscriberHandler) SendTemplate(c *gin.Context) {
	var req request.BulkSendRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.whatsappService.BulkSend(c.Request.Context(), &service.BulkSendInput{
		Template:      req.Template,
		Language:      req.Language,
		Params:        req.Params,
		SubscriberIDs: req.SubscriberIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Template messages sent", result)
}

// Subscribe handles the public newsletter form
func (h *SubscriberHandler) Subscribe(c *gin.Context) {
	var req request.NewsletterRequest
	if !bindJSON(c, &req) {
		return
	}

	src := enum.SubscriberSourceNewsletter
	in := &service.SubscriberInput{Email: &req.Email, Source: &src}
	if req.Name != "" {
		in.Name = &req.Name
	}
	if req.Phone != "" {
		in.Phone = &req.Phone
	}
	if req.City != "" {
		in.City = &req.City
	}

	if _, err := h.subscriberService.Subscribe(c.Request.Context(), in); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Subscribed successfully", nil)
}

// Unsubscribe handles the public unsubscribe form
func (h *SubscriberHandler) Unsubscribe(c *gin.Context) {
	var req request.UnsubscribeRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.subscriberService.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Unsubscribed successfully", nil)
}

func subscriberInput(req *request.SubscriberRequest) *service.SubscriberInput {
	return &service.SubscriberInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		City:       req.City,
		District:   req.District,
		Street:     req.Street,
		BuildingNo: req.BuildingNo,
		Source:     req.Source,
	}
}
