package entity

// TaxBreakdown splits a tax-inclusive total.
type TaxBreakdown struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// UIPrefs are the cashier's persisted screen preferences.
type UIPrefs struct {
	TaxEnabled     bool     `json:"taxEnabled"`
	ActiveCategory Category `json:"activeCategory"`
}

// Snapshot keys used with the snapshot repository.
const (
	SnapshotInventory = "inventory"
	SnapshotSales     = "sales"
	SnapshotUIPrefs   = "ui_prefs"
)
