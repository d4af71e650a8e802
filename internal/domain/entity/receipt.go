package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
}

// ReceiptItem represents a single line on a receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Receipt is a printable view of a completed sale. It is built at print time
// and never persisted.
type Receipt struct {
	Header      ReceiptHeader `json:"header"`
	SaleNo      string        `json:"sale_no"`
	Date        string        `json:"date"`
	PaymentType string        `json:"payment_type"`
	Items       []ReceiptItem `json:"items"`
	SubTotal    float64       `json:"sub_total"`
	Tax         float64       `json:"tax"`
	TaxLabel    string        `json:"tax_label,omitempty"`
	Total       float64       `json:"total"`
}
