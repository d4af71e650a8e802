package request

// PrintReceiptRequest is the optional body of a receipt reprint.
type PrintReceiptRequest struct {
	// TaxEnabled overrides the till's current tax toggle for this receipt.
	TaxEnabled *bool `json:"tax_enabled"`
}
