package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/atelier-api/internal/application/service"
	"github.com/sangkips/atelier-api/internal/presentation/http/dto/request"
	"github.com/sangkips/atelier-api/internal/presentation/http/dto/response"
)

// CampaignHandler handles newsletter campaign requests
type CampaignHandler struct {
	campaignService *service.CampaignService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// List handles listing campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	result, err := h.campaignService.ListCampaigns(c.Request.Context(), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, "Campaigns retrieved successfully", result)
}

// Get handles getting a campaign by ID
func (h *CampaignHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	campaign, err := h.campaignService.GetCampaign(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Campaign retrieved successfully", campaign)
}

// Create handles creating a campaign
func (h *CampaignHandler) Create(c *gin.Context) {
	var req request.CampaignRequest
	if !bindJSON(c, &req) {
		return
	}

	campaign, err := h.campaignService.CreateCampaign(c.Request.Context(), &service.CampaignInput{
		Title:   req.Title,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Campaign created successfully", campaign)
}

// Send handles emailing a campaign to the active subscribers
func (h *CampaignHandler) Send(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	campaign, err := h.campaignService.SendCampaign(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Campaign sent", campaign)
}
