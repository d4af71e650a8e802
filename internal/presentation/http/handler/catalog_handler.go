package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stall-pos/internal/application/service"
	"github.com/sangkips/stall-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/stall-pos/internal/presentation/http/dto/response"
)

// CatalogHandler handles inventory HTTP requests
type CatalogHandler struct {
	register *service.Register
	confirm  *ConfirmPolicy
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(register *service.Register, confirm *ConfirmPolicy) *CatalogHandler {
	return &CatalogHandler{register: register, confirm: confirm}
}

// ListItems lists the items of a category, optionally filtered by name
func (h *CatalogHandler) ListItems(c *gin.Context) {
	var filter request.ItemFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	items, ok := h.register.ItemsForCategory(categoryParam(c), filter.Search)
	if !ok {
		response.NotFound(c, "Category not found")
		return
	}

	response.OK(c, "Items retrieved", items)
}

// CreateItem adds an item to a stock-tracked category
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req request.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, ok := h.register.AddInventoryItem(categoryParam(c), req.Name, req.Price, req.Stock)
	if !ok {
		response.Conflict(c, "Category does not accept inventory items")
		return
	}

	response.Created(c, "Item created", item)
}

// UpdateItemField edits the name, price or stock of an item
func (h *CatalogHandler) UpdateItemField(c *gin.Context) {
	var req request.UpdateItemFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, ok := h.register.SetItemField(categoryParam(c), c.Param("id"), req.Field, req.Value)
	if !ok {
		response.NotFound(c, "Item not found")
		return
	}

	response.OK(c, "Item updated", item)
}

// AdjustStock adds a positive or negative delta to an item's stock
func (h *CatalogHandler) AdjustStock(c *gin.Context) {
	var req request.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, ok := h.register.AdjustStock(categoryParam(c), c.Param("id"), req.Delta)
	if !ok {
		response.NotFound(c, "Item not found")
		return
	}

	response.OK(c, "Stock adjusted", item)
}

// LowStock lists items at or below the low stock threshold
func (h *CatalogHandler) LowStock(c *gin.Context) {
	response.OK(c, "Low stock items retrieved", h.register.LowStock())
}

// Reset restores the seed catalog
func (h *CatalogHandler) Reset(c *gin.Context) {
	confirmer, err := h.confirm.Confirmer(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.register.ResetCatalog(c.Request.Context(), confirmer); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Catalog reset to defaults", h.register.Categories())
}
