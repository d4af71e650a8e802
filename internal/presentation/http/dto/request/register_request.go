package request

// SetCategoryRequest switches the active category tab.
type SetCategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

// SetTaxRequest toggles tax display.
type SetTaxRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetSearchRequest filters the item grid of the active category.
type SetSearchRequest struct {
	Query string `json:"query" binding:"max=100"`
}

// SetMultiplierRequest sets the quantity applied to the next quick price.
type SetMultiplierRequest struct {
	Multiplier int `json:"multiplier" binding:"required,min=1,max=10"`
}
