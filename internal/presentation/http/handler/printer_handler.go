package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stall-pos/internal/application/service"
	"github.com/sangkips/stall-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/stall-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/stall-pos/pkg/apperror"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
	register       *service.Register
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService, register *service.Register) *PrinterHandler {
	return &PrinterHandler{printerService: printerService, register: register}
}

// GetStatus returns the current printer connection status.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus()
	response.OK(c, "Printer status retrieved", status)
}

// PrintReceipt prints the receipt of a recorded sale.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	id, ok := saleIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.PrintReceiptRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request: "+err.Error())
			return
		}
	}

	view, ok := h.register.Sale(id)
	if !ok {
		response.Error(c, apperror.NewNotFoundError("Sale"))
		return
	}

	taxEnabled := h.register.Prefs().TaxEnabled
	if req.TaxEnabled != nil {
		taxEnabled = *req.TaxEnabled
	}

	receipt, err := h.printerService.PrintSale(view.Sale, taxEnabled)
	if err != nil {
		// The receipt is still useful when the printer is off or disabled
		response.OK(c, "Receipt generated but printing failed", gin.H{
			"receipt": receipt,
			"warning": err.Error(),
		})
		return
	}

	response.OK(c, "Receipt printed successfully", gin.H{
		"receipt": receipt,
	})
}
