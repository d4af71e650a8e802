package service

import (
	"strings"

	"github.com/sangkips/stall-pos/internal/config"
	"github.com/sangkips/stall-pos/internal/domain/entity"
	"github.com/sangkips/stall-pos/pkg/money"
	"github.com/sangkips/stall-pos/pkg/utils"
)

// Editable item fields accepted by SetItemField.
const (
	ItemFieldName  = "name"
	ItemFieldPrice = "price"
	ItemFieldStock = "stock"
)

// LowStockItem is an item at or below the low-stock threshold.
type LowStockItem struct {
	Category entity.Category `json:"category"`
	Item     entity.Item     `json:"item"`
}

// CatalogService holds the category set and the stocked items of each
// stock-tracked category. It is not safe for concurrent use; the Register
// serialises access.
type CatalogService struct {
	configs []entity.CategoryConfig
	index   map[entity.Category]int
	seed    entity.Inventory
	items   entity.Inventory
	newID   func() string
}

// NewCatalogService builds the catalog from its seed. Items without an id get one.
func NewCatalogService(cat *config.CatalogConfig, newID func() string) *CatalogService {
	if cat == nil {
		cat = config.DefaultCatalog()
	}
	if newID == nil {
		newID = utils.NewItemID
	}

	s := &CatalogService{
		index: make(map[entity.Category]int, len(cat.Categories)),
		seed:  make(entity.Inventory),
		newID: newID,
	}
	for _, c := range cat.Categories {
		name := entity.Category(c.Name)
		if _, dup := s.index[name]; dup {
			continue
		}
		s.index[name] = len(s.configs)
		s.configs = append(s.configs, entity.CategoryConfig{
			Name:        name,
			QuickPrices: append([]float64(nil), c.QuickPrices...),
			AllowCustom: c.AllowCustom,
			TrackStock:  c.TrackStock,
		})
		if !c.TrackStock {
			continue
		}
		items := make([]entity.Item, 0, len(c.Items))
		for _, it := range c.Items {
			id := it.ID
			if id == "" {
				id = newID()
			}
			items = append(items, entity.Item{ID: id, Name: it.Name, Price: it.Price, Stock: clampStock(it.Stock)})
		}
		s.seed[name] = items
	}
	s.items = s.seed.Clone()
	return s
}

// Categories returns the configured categories in display order.
func (s *CatalogService) Categories() []entity.CategoryConfig {
	out := make([]entity.CategoryConfig, len(s.configs))
	for i, c := range s.configs {
		c.QuickPrices = append([]float64(nil), c.QuickPrices...)
		out[i] = c
	}
	return out
}

// Config returns the configuration of one category.
func (s *CatalogService) Config(category entity.Category) (entity.CategoryConfig, bool) {
	i, ok := s.index[category]
	if !ok {
		return entity.CategoryConfig{}, false
	}
	return s.configs[i], true
}

// DefaultCategory is the first configured category.
func (s *CatalogService) DefaultCategory() entity.Category {
	if len(s.configs) == 0 {
		return ""
	}
	return s.configs[0].Name
}

func (s *CatalogService) tracksStock(category entity.Category) bool {
	c, ok := s.Config(category)
	return ok && c.TrackStock
}

// ItemsForCategory lists the items whose name contains query, ignoring case.
// Categories that do not track stock always yield an empty list.
func (s *CatalogService) ItemsForCategory(category entity.Category, query string) []entity.Item {
	if !s.tracksStock(category) {
		return []entity.Item{}
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]entity.Item, 0, len(s.items[category]))
	for _, it := range s.items[category] {
		if q == "" || strings.Contains(strings.ToLower(it.Name), q) {
			out = append(out, it)
		}
	}
	return out
}

// Item looks up one item.
func (s *CatalogService) Item(category entity.Category, itemID string) (entity.Item, bool) {
	if i := s.find(category, itemID); i >= 0 {
		return s.items[category][i], true
	}
	return entity.Item{}, false
}

func (s *CatalogService) find(category entity.Category, itemID string) int {
	if !s.tracksStock(category) {
		return -1
	}
	for i, it := range s.items[category] {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

// DecrementStock takes one unit off the shelf, stopping at zero.
func (s *CatalogService) DecrementStock(category entity.Category, itemID string) bool {
	return s.AdjustStock(category, itemID, -1)
}

// AdjustStock adds delta to the stock, clamping the result to [0, money.MaxCount].
func (s *CatalogService) AdjustStock(category entity.Category, itemID string, delta int) bool {
	i := s.find(category, itemID)
	if i < 0 {
		return false
	}
	it := &s.items[category][i]
	it.Stock = clampStock(it.Stock + money.ClampCount(delta))
	return true
}

// SetItemField edits name, price or stock. Numbers that do not parse become 0.
func (s *CatalogService) SetItemField(category entity.Category, itemID, field, value string) bool {
	i := s.find(category, itemID)
	if i < 0 {
		return false
	}
	it := &s.items[category][i]
	switch field {
	case ItemFieldName:
		it.Name = strings.TrimSpace(value)
	case ItemFieldPrice:
		price := money.ParseAmount(value)
		if !money.Positive(price) {
			price = 0
		}
		it.Price = price
	case ItemFieldStock:
		it.Stock = clampStock(money.ParseCount(value))
	default:
		return false
	}
	return true
}

// AddItem appends a new item to a stock-tracked category.
func (s *CatalogService) AddItem(category entity.Category, name string, price float64, stock int) (entity.Item, bool) {
	name = strings.TrimSpace(name)
	if !s.tracksStock(category) || name == "" || !money.Positive(price) {
		return entity.Item{}, false
	}
	it := entity.Item{ID: s.newID(), Name: name, Price: price, Stock: clampStock(stock)}
	s.items[category] = append(s.items[category], it)
	return it, true
}

// ResetToDefaults replaces every item list with the seed.
func (s *CatalogService) ResetToDefaults() {
	s.items = s.seed.Clone()
}

// LowStock lists items with stock at or below threshold, in category order.
func (s *CatalogService) LowStock(threshold int) []LowStockItem {
	out := []LowStockItem{}
	for _, c := range s.configs {
		for _, it := range s.items[c.Name] {
			if it.Stock <= threshold {
				out = append(out, LowStockItem{Category: c.Name, Item: it})
			}
		}
	}
	return out
}

// Snapshot returns a copy of the stocked items for persistence.
func (s *CatalogService) Snapshot() entity.Inventory {
	return s.items.Clone()
}

// Restore loads persisted items. Unknown or untracked categories are dropped,
// tracked categories missing from inv keep their seed, and bad values are
// repaired rather than rejected.
func (s *CatalogService) Restore(inv entity.Inventory) {
	items := s.seed.Clone()
	for cat, list := range inv {
		if !s.tracksStock(cat) {
			continue
		}
		clean := make([]entity.Item, 0, len(list))
		seen := make(map[string]bool, len(list))
		for _, it := range list {
			if it.ID == "" || seen[it.ID] {
				it.ID = s.newID()
			}
			seen[it.ID] = true
			if !money.Positive(it.Price) {
				it.Price = 0
			}
			it.Stock = clampStock(it.Stock)
			clean = append(clean, it)
		}
		items[cat] = clean
	}
	s.items = items
}

func clampStock(n int) int {
	return min(max(n, 0), money.MaxCount)
}
