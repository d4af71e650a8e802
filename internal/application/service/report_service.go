package service

import (
	"sort"
	"time"

	"github.com/sangkips/stall-pos/internal/domain/entity"
	"github.com/sangkips/stall-pos/internal/domain/enum"
	"github.com/sangkips/stall-pos/pkg/money"
	"github.com/shopspring/decimal"
)

// Report table names, in export order.
const (
	TableSummary        = "Summary"
	TableCategoryTotals = "Category Totals"
	TableItemCounts     = "Item Counts"
	TableSales          = "Sales"
	TableSaleLines      = "Sale Lines"
)

// TodayReport is everything the close-register screen shows.
type TodayReport struct {
	Summary        entity.CloseRegisterSummary `json:"summary"`
	Payments       entity.PaymentTotals        `json:"payments"`
	CategoryTotals []entity.CategoryTotal      `json:"categoryTotals"`
	ItemCounts     []entity.ItemCount          `json:"itemCounts"`
}

// ReportService derives today's figures from a ledger snapshot. Every method
// is a pure read.
type ReportService struct {
	categories []entity.Category
}

// NewReportService creates a report service for the configured categories.
func NewReportService(categories []entity.Category) *ReportService {
	return &ReportService{categories: append([]entity.Category(nil), categories...)}
}

// TodaySales keeps the sales made on now's calendar day, ledger order preserved.
func (s *ReportService) TodaySales(sales []entity.Sale, now time.Time) []entity.Sale {
	out := []entity.Sale{}
	for _, sale := range sales {
		if sale.OnDay(now) {
			out = append(out, sale)
		}
	}
	return out
}

// TodayTotal sums today's sale totals.
func (s *ReportService) TodayTotal(sales []entity.Sale, now time.Time) float64 {
	total := decimal.Zero
	for _, sale := range s.TodaySales(sales, now) {
		total = total.Add(money.Dec(sale.Total))
	}
	return money.Float(total)
}

// TodayPaymentTotals sums today's totals by payment type. Anything that is
// not card counts as cash.
func (s *ReportService) TodayPaymentTotals(sales []entity.Sale, now time.Time) entity.PaymentTotals {
	cash, card := decimal.Zero, decimal.Zero
	for _, sale := range s.TodaySales(sales, now) {
		if sale.PaymentType == enum.PaymentTypeCard {
			card = card.Add(money.Dec(sale.Total))
		} else {
			cash = cash.Add(money.Dec(sale.Total))
		}
	}
	return entity.PaymentTotals{Cash: money.Float(cash), Card: money.Float(card)}
}

// TodayCategoryTotals sums line revenue per category. Every configured
// category is present, at zero when it sold nothing.
func (s *ReportService) TodayCategoryTotals(sales []entity.Sale, now time.Time) map[entity.Category]float64 {
	acc := make(map[entity.Category]decimal.Decimal, len(s.categories))
	for _, c := range s.categories {
		acc[c] = decimal.Zero
	}
	for _, sale := range s.TodaySales(sales, now) {
		for _, line := range sale.Lines {
			acc[line.Category] = acc[line.Category].Add(money.Dec(line.Total()))
		}
	}
	out := make(map[entity.Category]float64, len(acc))
	for c, v := range acc {
		out[c] = money.Float(v)
	}
	return out
}

// CategoryTotalsForDisplay drops zero categories and orders the rest as
// configured, with categories no longer configured last by name.
func (s *ReportService) CategoryTotalsForDisplay(totals map[entity.Category]float64) []entity.CategoryTotal {
	out := []entity.CategoryTotal{}
	known := make(map[entity.Category]bool, len(s.categories))
	for _, c := range s.categories {
		known[c] = true
		if v := totals[c]; !money.Equal(v, 0) {
			out = append(out, entity.CategoryTotal{Category: c, Total: v})
		}
	}
	var extra []entity.CategoryTotal
	for c, v := range totals {
		if !known[c] && !money.Equal(v, 0) {
			extra = append(extra, entity.CategoryTotal{Category: c, Total: v})
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Category < extra[j].Category })
	return append(out, extra...)
}

type itemKey struct {
	category entity.Category
	label    string
	cents    string
}

// TodayItemCounts groups today's lines by category, label and unit amount,
// sorted by revenue (highest first, ties by label).
func (s *ReportService) TodayItemCounts(sales []entity.Sale, now time.Time) []entity.ItemCount {
	type group struct {
		count   entity.ItemCount
		revenue decimal.Decimal
	}
	groups := make(map[itemKey]*group)
	var order []itemKey
	for _, sale := range s.TodaySales(sales, now) {
		for _, line := range sale.Lines {
			k := itemKey{line.Category, line.Label, money.FormatFixed(line.UnitAmount)}
			g, ok := groups[k]
			if !ok {
				g = &group{count: entity.ItemCount{Category: line.Category, Label: line.Label, UnitAmount: line.UnitAmount}}
				groups[k] = g
				order = append(order, k)
			}
			g.count.Qty += line.Qty
			g.revenue = g.revenue.Add(money.Dec(line.Total()))
		}
	}

	out := make([]entity.ItemCount, 0, len(order))
	for _, k := range order {
		g := groups[k]
		g.count.Revenue = money.Float(g.revenue)
		out = append(out, g.count)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !money.Equal(out[i].Revenue, out[j].Revenue) {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// CloseRegisterSummary is the headline row of the end-of-day report.
func (s *ReportService) CloseRegisterSummary(sales []entity.Sale, now time.Time) entity.CloseRegisterSummary {
	today := s.TodaySales(sales, now)
	total := s.TodayTotal(sales, now)
	pay := s.TodayPaymentTotals(sales, now)

	avg := 0.0
	if len(today) > 0 {
		avg = money.Float(money.Dec(total).Div(decimal.NewFromInt(int64(len(today)))).Round(2))
	}
	return entity.CloseRegisterSummary{
		Date:         now.Format("2006-01-02"),
		Transactions: len(today),
		Total:        total,
		Cash:         pay.Cash,
		Card:         pay.Card,
		Average:      avg,
	}
}

// Today assembles the close-register screen.
func (s *ReportService) Today(sales []entity.Sale, now time.Time) TodayReport {
	return TodayReport{
		Summary:        s.CloseRegisterSummary(sales, now),
		Payments:       s.TodayPaymentTotals(sales, now),
		CategoryTotals: s.CategoryTotalsForDisplay(s.TodayCategoryTotals(sales, now)),
		ItemCounts:     s.TodayItemCounts(sales, now),
	}
}

// CloseRegisterTables flattens today's figures into the export tables:
// summary, category totals, item counts, then one row per sale and per line.
func (s *ReportService) CloseRegisterTables(sales []entity.Sale, now time.Time) []entity.ReportTable {
	sum := s.CloseRegisterSummary(sales, now)
	summary := entity.ReportTable{
		Name:    TableSummary,
		Columns: []string{"Date", "Transactions", "Total", "Cash", "Card", "Average Sale"},
		Rows: [][]interface{}{
			{sum.Date, sum.Transactions, money.Round(sum.Total), money.Round(sum.Cash), money.Round(sum.Card), sum.Average},
		},
	}

	cats := entity.ReportTable{Name: TableCategoryTotals, Columns: []string{"Category", "Total"}, Rows: [][]interface{}{}}
	for _, ct := range s.CategoryTotalsForDisplay(s.TodayCategoryTotals(sales, now)) {
		cats.Rows = append(cats.Rows, []interface{}{string(ct.Category), money.Round(ct.Total)})
	}

	items := entity.ReportTable{Name: TableItemCounts, Columns: []string{"Category", "Item", "Unit Price", "Qty", "Revenue"}, Rows: [][]interface{}{}}
	for _, ic := range s.TodayItemCounts(sales, now) {
		items.Rows = append(items.Rows, []interface{}{string(ic.Category), ic.Label, ic.UnitAmount, ic.Qty, money.Round(ic.Revenue)})
	}

	today := s.TodaySales(sales, now)
	saleRows := entity.ReportTable{Name: TableSales, Columns: []string{"Sale ID", "Time", "Payment", "Items", "Total"}, Rows: [][]interface{}{}}
	lineRows := entity.ReportTable{Name: TableSaleLines, Columns: []string{"Sale ID", "Category", "Item", "Unit Price", "Qty", "Line Total"}, Rows: [][]interface{}{}}
	for i := len(today) - 1; i >= 0; i-- {
		sale := today[i]
		id := sale.ID.String()
		saleRows.Rows = append(saleRows.Rows, []interface{}{
			id, sale.Timestamp.In(now.Location()).Format("15:04:05"), sale.PaymentType.String(), CategorySummary(sale), money.Round(sale.Total),
		})
		for _, line := range sale.Lines {
			lineRows.Rows = append(lineRows.Rows, []interface{}{
				id, string(line.Category), line.Label, line.UnitAmount, line.Qty, money.Round(line.Total()),
			})
		}
	}

	return []entity.ReportTable{summary, cats, items, saleRows, lineRows}
}
