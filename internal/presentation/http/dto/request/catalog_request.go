package request

// ItemFilterRequest represents item grid query parameters
type ItemFilterRequest struct {
	Search string `form:"search"`
}

// CreateItemRequest adds an item to a stock-tracked category
type CreateItemRequest struct {
	Name  string  `json:"name" binding:"required,max=255"`
	Price float64 `json:"price" binding:"required,gt=0"`
	Stock int     `json:"stock" binding:"min=0"`
}

// UpdateItemFieldRequest edits one field of an inventory item. Value is the
// raw text from the edit box; invalid prices and counts become zero.
type UpdateItemFieldRequest struct {
	Field string `json:"field" binding:"required,oneof=name price stock"`
	Value string `json:"value"`
}

// AdjustStockRequest adds delta to an item's stock, clamped at zero.
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}
