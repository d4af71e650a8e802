package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stall-pos/internal/application/service"
	"github.com/sangkips/stall-pos/internal/domain/enum"
	"github.com/sangkips/stall-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/stall-pos/internal/presentation/http/dto/response"
)

// PaymentHandler drives the pay modal
type PaymentHandler struct {
	register *service.Register
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(register *service.Register) *PaymentHandler {
	return &PaymentHandler{register: register}
}

// Open opens the pay modal for the cart total
func (h *PaymentHandler) Open(c *gin.Context) {
	h.respond(c, "Payment opened", "Cart is empty")(h.register.OpenPayment())
}

// AddDenomination adds a bill or coin to the tender
func (h *PaymentHandler) AddDenomination(c *gin.Context) {
	var req request.DenominationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	h.respond(c, "Tender updated", "Payment is not open")(h.register.AddDenomination(req.Value))
}

// EnterDigit presses a keypad key
func (h *PaymentHandler) EnterDigit(c *gin.Context) {
	var req request.DigitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	h.respond(c, "Tender updated", "Payment is not open")(h.register.EnterDigit(req.Key))
}

// SetExact tenders exactly the cart total
func (h *PaymentHandler) SetExact(c *gin.Context) {
	h.respond(c, "Tender updated", "Payment is not open")(h.register.SetExact())
}

// ClearTendered zeroes the tender
func (h *PaymentHandler) ClearTendered(c *gin.Context) {
	h.respond(c, "Tender cleared", "Payment is not open")(h.register.ClearTendered())
}

// SetPaymentType switches between cash and card
func (h *PaymentHandler) SetPaymentType(c *gin.Context) {
	var req request.PaymentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	pt := enum.ParsePaymentType(req.PaymentType)
	h.respond(c, "Payment type updated", "Payment is not open")(h.register.SetPaymentType(pt))
}

// Cancel closes the pay modal and keeps the cart
func (h *PaymentHandler) Cancel(c *gin.Context) {
	h.respond(c, "Payment cancelled", "Payment is not open")(h.register.CancelPayment())
}

// Complete records the sale once enough has been tendered
func (h *PaymentHandler) Complete(c *gin.Context) {
	sale, ok := h.register.CompletePayment()
	if !ok {
		response.Conflict(c, "Payment cannot be completed")
		return
	}
	response.Created(c, "Sale completed", sale)
}

func (h *PaymentHandler) respond(c *gin.Context, message, rejected string) func(service.PaymentView, bool) {
	return func(view service.PaymentView, ok bool) {
		if !ok {
			response.Conflict(c, rejected)
			return
		}
		response.OK(c, message, view)
	}
}
