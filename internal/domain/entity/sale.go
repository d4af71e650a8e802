package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sangkips/stall-pos/internal/domain/enum"
	"github.com/sangkips/stall-pos/pkg/money"
)

// LineItem is one row of the cart or of a completed sale.
type LineItem struct {
	Category   Category `json:"category"`
	Label      string   `json:"label"`
	UnitAmount float64  `json:"unitAmount"`
	Qty        int      `json:"qty"`
	// ItemID is set when the line came from a stocked item.
	ItemID string `json:"itemId,omitempty"`
}

// Total is UnitAmount * Qty.
func (l LineItem) Total() float64 {
	return money.Mul(l.UnitAmount, l.Qty)
}

// SameKind reports whether other would coalesce into l.
func (l LineItem) SameKind(other LineItem) bool {
	return l.Category == other.Category &&
		l.Label == other.Label &&
		money.Equal(l.UnitAmount, other.UnitAmount)
}

// CloneLines returns a copy of lines that shares no memory with it.
func CloneLines(lines []LineItem) []LineItem {
	out := make([]LineItem, len(lines))
	copy(out, lines)
	return out
}

// SaleID is a time-derived sale identifier. It is written to JSON as a
// string so browser clients keep every digit, and read from either form.
type SaleID int64

func (id SaleID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id SaleID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *SaleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseSaleID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("sale id: %w", err)
	}
	i, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return fmt.Errorf("sale id: %w", err)
		}
		i = int64(f)
	}
	*id = SaleID(i)
	return nil
}

// ParseSaleID parses the decimal form of a SaleID.
func ParseSaleID(s string) (SaleID, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid sale id %q: %w", s, err)
	}
	return SaleID(i), nil
}

// Sale is an immutable record of a completed transaction.
type Sale struct {
	ID          SaleID           `json:"id"`
	Timestamp   time.Time        `json:"timestamp"`
	Total       float64          `json:"total"`
	PaymentType enum.PaymentType `json:"paymentType"`
	Lines       []LineItem       `json:"lines"`
}

// Clone returns a deep copy of the sale.
func (s Sale) Clone() Sale {
	s.Lines = CloneLines(s.Lines)
	return s
}

// OnDay reports whether the sale falls on the calendar day of day, in
// day's location.
func (s Sale) OnDay(day time.Time) bool {
	return SameDay(s.Timestamp, day)
}

// SameDay compares year, month and day of a and b in b's location.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
