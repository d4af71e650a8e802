package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stall-pos/internal/application/service"
	"github.com/sangkips/stall-pos/internal/domain/entity"
	"github.com/sangkips/stall-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/stall-pos/internal/presentation/http/dto/response"
)

// RegisterHandler serves the till screen and its preferences
type RegisterHandler struct {
	register *service.Register
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(register *service.Register) *RegisterHandler {
	return &RegisterHandler{register: register}
}

// GetState returns the full till screen
func (h *RegisterHandler) GetState(c *gin.Context) {
	response.OK(c, "Register state retrieved", h.register.State())
}

// ListCategories returns the configured categories in tab order
func (h *RegisterHandler) ListCategories(c *gin.Context) {
	response.OK(c, "Categories retrieved", h.register.Categories())
}

// SetCategory switches the active category
func (h *RegisterHandler) SetCategory(c *gin.Context) {
	var req request.SetCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if !h.register.SetActiveCategory(entity.Category(req.Category)) {
		response.NotFound(c, "Category not found")
		return
	}

	response.OK(c, "Category selected", h.register.State())
}

// SetTax toggles tax display
func (h *RegisterHandler) SetTax(c *gin.Context) {
	var req request.SetTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	h.register.SetTaxEnabled(*req.Enabled)
	response.OK(c, "Tax preference updated", h.register.State())
}

// SetSearch filters the active category's items
func (h *RegisterHandler) SetSearch(c *gin.Context) {
	var req request.SetSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	h.register.SetSearch(req.Query)
	response.OK(c, "Search updated", h.register.State())
}

// SetMultiplier sets the quantity of the next quick price
func (h *RegisterHandler) SetMultiplier(c *gin.Context) {
	var req request.SetMultiplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if !h.register.SetMultiplier(req.Multiplier) {
		response.BadRequest(c, "Multiplier out of range")
		return
	}

	response.OK(c, "Multiplier updated", h.register.State())
}
