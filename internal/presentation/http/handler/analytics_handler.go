package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/atelier-api/internal/application/service"
	"github.com/sangkips/atelier-api/internal/presentation/http/dto/response"
)

// AnalyticsHandler serves the profit report
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Profit handles GET /analytics/profit?start=&end=
func (h *AnalyticsHandler) Profit(c *gin.Context) {
	start, ok := dateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		return
	}

	var from, to time.Time
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}

	report, err := h.analyticsService.Profit(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profit report generated", report)
}
