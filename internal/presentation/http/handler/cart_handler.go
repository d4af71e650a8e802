package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stall-pos/internal/application/service"
	"github.com/sangkips/stall-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/stall-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/stall-pos/pkg/money"
)

// CartHandler handles cart HTTP requests. Every success returns the
// updated register state.
type CartHandler struct {
	register *service.Register
}

// NewCartHandler creates a new cart handler
func NewCartHandler(register *service.Register) *CartHandler {
	return &CartHandler{register: register}
}

// AddItem sells one unit of an item of the active category
func (h *CartHandler) AddItem(c *gin.Context) {
	if !h.register.AddFixedItem(c.Param("id")) {
		response.Conflict(c, "Item is not available")
		return
	}
	response.OK(c, "Item added", h.register.State())
}

// AddQuickPrice adds a quick price, times the current multiplier
func (h *CartHandler) AddQuickPrice(c *gin.Context) {
	var req request.QuickPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if !h.register.AddQuickPrice(req.Amount) {
		response.Conflict(c, "Quick price not offered by the active category")
		return
	}
	response.OK(c, "Quick price added", h.register.State())
}

// AddCustomPrice adds a typed amount
func (h *CartHandler) AddCustomPrice(c *gin.Context) {
	var req request.CustomPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if !h.register.AddCustomPrice(money.ParseAmount(req.Amount)) {
		response.Conflict(c, "Custom price rejected")
		return
	}
	response.OK(c, "Custom price added", h.register.State())
}

// Undo removes the last unit added
func (h *CartHandler) Undo(c *gin.Context) {
	if _, ok := h.register.UndoLast(); !ok {
		response.Conflict(c, "Cart is empty")
		return
	}
	response.OK(c, "Last item removed", h.register.State())
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	h.register.ClearCart()
	response.OK(c, "Cart cleared", h.register.State())
}
