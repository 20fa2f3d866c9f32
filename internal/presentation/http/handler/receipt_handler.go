package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/atelier-api/internal/application/service"
	"github.com/sangkips/atelier-api/internal/presentation/http/dto/response"
)

// ReceiptHandler prints counter slips
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Print handles POST /sales/:id/receipt
func (h *ReceiptHandler) Print(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.receiptService.PrintSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt sent to printer", result)
}

// Status handles GET /printer/status
func (h *ReceiptHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status", h.receiptService.Status(c.Request.Context()))
}
