package service

import (
	"github.com/sangkips/stall-pos/internal/domain/entity"
	"github.com/sangkips/stall-pos/pkg/money"
)

// CartService is the sale in progress. It is not safe for concurrent use.
type CartService struct {
	lines []entity.LineItem
}

// NewCartService creates an empty cart.
func NewCartService() *CartService {
	return &CartService{}
}

// AddLine adds one unit. A line of the same kind directly before it absorbs
// the unit; anything else appends a new line. Kind is category, label and
// unit amount only, so an absorbed unit keeps the first line's ItemID.
func (c *CartService) AddLine(category entity.Category, label string, amount float64) bool {
	return c.add(entity.LineItem{Category: category, Label: label, UnitAmount: amount})
}

// AddItemLine adds one unit of a stocked item.
func (c *CartService) AddItemLine(category entity.Category, item entity.Item) bool {
	return c.add(entity.LineItem{Category: category, Label: item.Name, UnitAmount: item.Price, ItemID: item.ID})
}

func (c *CartService) add(line entity.LineItem) bool {
	if !money.Positive(line.UnitAmount) {
		return false
	}
	if n := len(c.lines); n > 0 {
		last := &c.lines[n-1]
		if last.SameKind(line) {
			last.Qty++
			return true
		}
	}
	line.Qty = 1
	c.lines = append(c.lines, line)
	return true
}

// UndoLast takes one unit off the last line and returns it with Qty 1.
func (c *CartService) UndoLast() (entity.LineItem, bool) {
	n := len(c.lines)
	if n == 0 {
		return entity.LineItem{}, false
	}
	removed := c.lines[n-1]
	removed.Qty = 1
	if c.lines[n-1].Qty > 1 {
		c.lines[n-1].Qty--
	} else {
		c.lines = c.lines[:n-1]
	}
	return removed, true
}

// Clear empties the cart and returns what was in it.
func (c *CartService) Clear() []entity.LineItem {
	old := c.lines
	c.lines = nil
	return old
}

// Lines returns a copy of the lines.
func (c *CartService) Lines() []entity.LineItem {
	return entity.CloneLines(c.lines)
}

// Len is the number of lines.
func (c *CartService) Len() int {
	return len(c.lines)
}

// Total sums UnitAmount * Qty over every line.
func (c *CartService) Total() float64 {
	return LinesTotal(c.lines)
}

// LinesTotal sums UnitAmount * Qty without float drift.
func LinesTotal(lines []entity.LineItem) float64 {
	totals := make([]float64, len(lines))
	for i, l := range lines {
		totals[i] = l.Total()
	}
	return money.Sum(totals...)
}
