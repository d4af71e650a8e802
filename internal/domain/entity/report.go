package entity

// PaymentTotals sums sales by payment type.
type PaymentTotals struct {
	Cash float64 `json:"cash"`
	Card float64 `json:"card"`
}

// CategoryTotal is the revenue of one category.
type CategoryTotal struct {
	Category Category `json:"category"`
	Total    float64  `json:"total"`
}

// ItemCount is one row of the top-sellers view.
type ItemCount struct {
	Category   Category `json:"category"`
	Label      string   `json:"label"`
	UnitAmount float64  `json:"unitAmount"`
	Qty        int      `json:"qty"`
	Revenue    float64  `json:"revenue"`
}

// CloseRegisterSummary is the headline of the end-of-day report.
type CloseRegisterSummary struct {
	Date         string  `json:"date"`
	Transactions int     `json:"transactions"`
	Total        float64 `json:"total"`
	Cash         float64 `json:"cash"`
	Card         float64 `json:"card"`
	Average      float64 `json:"average"`
}

// ReportTable is an ordered, flat dataset handed to an export writer.
type ReportTable struct {
	Name    string          `json:"name"`
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}
