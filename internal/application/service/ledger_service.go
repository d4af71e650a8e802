package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/stall-pos/internal/domain/entity"
	"github.com/sangkips/stall-pos/internal/domain/enum"
	"github.com/sangkips/stall-pos/pkg/money"
	"github.com/sangkips/stall-pos/pkg/pagination"
	"github.com/sangkips/stall-pos/pkg/utils"
)

// SaleView is a ledger row with its derived history columns.
type SaleView struct {
	entity.Sale
	RunningTotal float64 `json:"runningTotal"`
	Summary      string  `json:"summary"`
}

// LedgerService keeps completed sales, most recent first. It is not safe for
// concurrent use.
type LedgerService struct {
	sales []entity.Sale
	ids   utils.SaleIDGenerator
}

// NewLedgerService creates an empty ledger.
func NewLedgerService(ids utils.SaleIDGenerator) *LedgerService {
	return &LedgerService{ids: ids}
}

// Complete records a sale of lines and puts it at the head of the ledger.
// A total of zero or less records nothing.
func (l *LedgerService) Complete(lines []entity.LineItem, total float64, pt enum.PaymentType, now time.Time) (entity.Sale, bool) {
	if !money.Positive(total) {
		return entity.Sale{}, false
	}
	sale := entity.Sale{
		ID:          entity.SaleID(l.ids.Next()),
		Timestamp:   now,
		Total:       total,
		PaymentType: pt,
		Lines:       entity.CloneLines(lines),
	}
	l.sales = append([]entity.Sale{sale}, l.sales...)
	return sale.Clone(), true
}

func (l *LedgerService) indexOf(id entity.SaleID) int {
	for i := range l.sales {
		if l.sales[i].ID == id {
			return i
		}
	}
	return -1
}

// Refund deletes the sale outright and returns it.
func (l *LedgerService) Refund(id entity.SaleID) (entity.Sale, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return entity.Sale{}, false
	}
	sale := l.sales[i]
	l.sales = append(l.sales[:i:i], l.sales[i+1:]...)
	return sale, true
}

// ClearToday removes the sales made on now's calendar day and returns how many.
func (l *LedgerService) ClearToday(now time.Time) int {
	kept := make([]entity.Sale, 0, len(l.sales))
	for _, s := range l.sales {
		if !s.OnDay(now) {
			kept = append(kept, s)
		}
	}
	removed := len(l.sales) - len(kept)
	l.sales = kept
	return removed
}

// ClearAll empties the ledger and returns how many sales it held.
func (l *LedgerService) ClearAll() int {
	n := len(l.sales)
	l.sales = nil
	return n
}

// Get finds a sale by id.
func (l *LedgerService) Get(id entity.SaleID) (entity.Sale, bool) {
	if i := l.indexOf(id); i >= 0 {
		return l.sales[i].Clone(), true
	}
	return entity.Sale{}, false
}

// List returns a copy of the ledger, most recent first.
func (l *LedgerService) List() []entity.Sale {
	out := make([]entity.Sale, len(l.sales))
	for i, s := range l.sales {
		out[i] = s.Clone()
	}
	return out
}

// Len is the number of recorded sales.
func (l *LedgerService) Len() int {
	return len(l.sales)
}

// RunningTotal sums every sale from the oldest up to and including id.
func (l *LedgerService) RunningTotal(id entity.SaleID) (float64, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return 0, false
	}
	totals := make([]float64, 0, len(l.sales)-i)
	for _, s := range l.sales[i:] {
		totals = append(totals, s.Total)
	}
	return money.Sum(totals...), true
}

// Views pairs every sale with its running total and category summary.
func (l *LedgerService) Views() []SaleView {
	out := make([]SaleView, len(l.sales))
	running := money.Dec(0)
	for i := len(l.sales) - 1; i >= 0; i-- {
		s := l.sales[i]
		running = running.Add(money.Dec(s.Total))
		out[i] = SaleView{Sale: s.Clone(), RunningTotal: money.Float(running), Summary: CategorySummary(s)}
	}
	return out
}

// Page returns one page of Views.
func (l *LedgerService) Page(params *pagination.PaginationParams) *pagination.PaginatedResult[SaleView] {
	return pagination.Slice(l.Views(), params)
}

// Restore replaces the ledger with persisted sales. Sales with no id or an
// unusable total are dropped.
func (l *LedgerService) Restore(sales []entity.Sale) int {
	kept := make([]entity.Sale, 0, len(sales))
	seen := make(map[entity.SaleID]bool, len(sales))
	for _, s := range sales {
		if s.ID == 0 || seen[s.ID] || !money.Valid(s.Total) {
			continue
		}
		seen[s.ID] = true
		if s.Lines == nil {
			s.Lines = []entity.LineItem{}
		}
		kept = append(kept, s.Clone())
	}
	l.sales = kept
	return len(sales) - len(kept)
}

// CategorySummary reads "Candy x3 • Pet x1": quantities per category in the
// order the categories first appear in the sale.
func CategorySummary(s entity.Sale) string {
	var order []entity.Category
	qty := make(map[entity.Category]int)
	for _, line := range s.Lines {
		if _, ok := qty[line.Category]; !ok {
			order = append(order, line.Category)
		}
		qty[line.Category] += line.Qty
	}
	parts := make([]string, len(order))
	for i, c := range order {
		parts[i] = fmt.Sprintf("%s x%d", c, qty[c])
	}
	return strings.Join(parts, " • ")
}
