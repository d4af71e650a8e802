package entity

// Category is a top-level product grouping such as "Candy" or "Books".
type Category string

// CategoryConfig decides which pricing controls a category offers.
type CategoryConfig struct {
	Name        Category  `json:"name"`
	QuickPrices []float64 `json:"quickPrices"`
	AllowCustom bool      `json:"allowCustom"`
	TrackStock  bool      `json:"trackStock"`
}

// HasQuickPrice reports whether amount is one of the category's tiles.
func (c CategoryConfig) HasQuickPrice(amount float64, equal func(a, b float64) bool) bool {
	for _, p := range c.QuickPrices {
		if equal(p, amount) {
			return true
		}
	}
	return false
}

// Item is a stocked product in a stock-tracked category.
type Item struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// Inventory maps each stock-tracked category to its item list. It is the
// shape persisted under the inventory snapshot key.
type Inventory map[Category][]Item

// Clone returns a deep copy.
func (inv Inventory) Clone() Inventory {
	out := make(Inventory, len(inv))
	for cat, items := range inv {
		cp := make([]Item, len(items))
		copy(cp, items)
		out[cat] = cp
	}
	return out
}
