package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stall-pos/internal/application/service"
	"github.com/sangkips/stall-pos/internal/domain/enum"
	"github.com/sangkips/stall-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/stall-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/stall-pos/pkg/apperror"
	"github.com/sangkips/stall-pos/pkg/pagination"
)

// SalesHandler handles the sales history
type SalesHandler struct {
	register *service.Register
	confirm  *ConfirmPolicy
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(register *service.Register, confirm *ConfirmPolicy) *SalesHandler {
	return &SalesHandler{register: register, confirm: confirm}
}

// List returns sales most recent first
func (h *SalesHandler) List(c *gin.Context) {
	var filter request.SalesFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result := h.register.Sales(&pagination.PaginationParams{
		Page:    filter.Page,
		PerPage: filter.PerPage,
	})
	response.SuccessWithPagination(c, 200, "Sales retrieved", result)
}

// Get returns one sale
func (h *SalesHandler) Get(c *gin.Context) {
	id, ok := saleIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, ok := h.register.Sale(id)
	if !ok {
		response.Error(c, apperror.NewNotFoundError("Sale"))
		return
	}

	response.OK(c, "Sale retrieved", sale)
}

// Create records the cart as a sale in one step, skipping the pay modal
func (h *SalesHandler) Create(c *gin.Context) {
	var req request.CompleteSaleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	sale, ok := h.register.CompleteSale(enum.ParsePaymentType(req.PaymentType))
	if !ok {
		response.Conflict(c, "Cart is empty")
		return
	}

	response.Created(c, "Sale completed", sale)
}

// Refund removes a sale from the ledger
func (h *SalesHandler) Refund(c *gin.Context) {
	id, ok := saleIDParam(c)
	if !ok {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	confirmer, err := h.confirm.Confirmer(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	sale, found, err := h.register.Refund(c.Request.Context(), confirmer, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.Error(c, apperror.NewNotFoundError("Sale"))
		return
	}

	response.OK(c, "Sale refunded", sale)
}

// ClearToday removes today's sales
func (h *SalesHandler) ClearToday(c *gin.Context) {
	confirmer, err := h.confirm.Confirmer(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	n, err := h.register.ClearToday(c.Request.Context(), confirmer)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Today's sales cleared", gin.H{"removed": n})
}

// ClearAll removes every sale
func (h *SalesHandler) ClearAll(c *gin.Context) {
	confirmer, err := h.confirm.Confirmer(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	n, err := h.register.ClearAll(c.Request.Context(), confirmer)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sales history cleared", gin.H{"removed": n})
}
