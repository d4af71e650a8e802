package request

// DenominationRequest adds a bill or coin to the tendered amount.
type DenominationRequest struct {
	Value float64 `json:"value" binding:"required,gt=0"`
}

// DigitRequest presses one keypad key: "0".."9", "00" or "backspace".
type DigitRequest struct {
	Key string `json:"key" binding:"required,oneof=0 1 2 3 4 5 6 7 8 9 00 backspace"`
}

// PaymentTypeRequest selects cash or card.
type PaymentTypeRequest struct {
	PaymentType string `json:"payment_type" binding:"required,oneof=cash card"`
}

// CompleteSaleRequest records the cart as a sale without the pay modal.
type CompleteSaleRequest struct {
	PaymentType string `json:"payment_type" binding:"omitempty,oneof=cash card"`
}

// SalesFilterRequest represents sales list query parameters
type SalesFilterRequest struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}
