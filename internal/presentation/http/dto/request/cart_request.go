package request

// QuickPriceRequest adds a quick-price line to the cart.
type QuickPriceRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// CustomPriceRequest adds a free-form price. Amount is the raw keypad text.
type CustomPriceRequest struct {
	Amount string `json:"amount" binding:"required"`
}
