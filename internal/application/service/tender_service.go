package service

import (
	"github.com/sangkips/stall-pos/internal/domain/enum"
	"github.com/sangkips/stall-pos/pkg/money"
	"github.com/shopspring/decimal"
)

// Numpad keys accepted by EnterDigit besides "0" to "9".
const (
	KeyDoubleZero = "00"
	KeyBackspace  = "backspace"
)

// maxTender caps numpad entry at $999,999.99.
var maxTender = decimal.New(99999999, -2)

// PaymentView is the pay modal as the cashier sees it. Change is nil until
// something has been tendered.
type PaymentView struct {
	Status       enum.PaymentStatus `json:"status"`
	PaymentType  enum.PaymentType   `json:"paymentType"`
	Tendered     float64            `json:"tendered"`
	TenderedText string             `json:"tenderedText"`
	Change       *float64           `json:"change"`
	CanComplete  bool               `json:"canComplete"`
}

// PaymentModal is the tender state machine:
//
//	Closed -> Open -> Ready | Insufficient -> Completed | Cancelled
//
// It never holds the sale total; every read takes the live cart total so the
// change due cannot go stale.
type PaymentModal struct {
	status      enum.PaymentStatus
	paymentType enum.PaymentType
	tendered    decimal.Decimal
	// entered is false until the first tender action; change is undefined before.
	entered bool
}

// NewPaymentModal returns a closed modal.
func NewPaymentModal() *PaymentModal {
	return &PaymentModal{status: enum.PaymentStatusClosed}
}

// Open starts a payment for total. Nothing happens unless total > 0.
func (m *PaymentModal) Open(total float64) bool {
	if !money.Positive(total) {
		return false
	}
	m.reset()
	m.status = enum.PaymentStatusOpen
	return true
}

// IsOpen reports whether the modal accepts tender.
func (m *PaymentModal) IsOpen() bool {
	return m.status.IsOpen()
}

// AddDenomination adds a bill or coin to the tendered amount.
func (m *PaymentModal) AddDenomination(value float64) bool {
	if !m.IsOpen() || !money.Positive(value) {
		return false
	}
	m.tendered = m.tendered.Add(money.Dec(value))
	m.entered = true
	return true
}

// EnterDigit types on the numpad. Digits shift in from the cents column, so
// "7", "0", "0" reads 7.00; backspace shifts the last digit out.
func (m *PaymentModal) EnterDigit(key string) bool {
	if !m.IsOpen() {
		return false
	}
	cents := m.tendered.Shift(2).Truncate(0)
	switch {
	case key == KeyBackspace:
		cents = cents.Div(decimal.NewFromInt(10)).Truncate(0)
	case key == KeyDoubleZero:
		cents = cents.Mul(decimal.NewFromInt(100))
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		cents = cents.Mul(decimal.NewFromInt(10)).Add(decimal.NewFromInt(int64(key[0] - '0')))
	default:
		return false
	}
	next := cents.Shift(-2)
	if next.GreaterThan(maxTender) {
		return false
	}
	m.tendered = next
	m.entered = true
	return true
}

// SetExact tenders exactly the total.
func (m *PaymentModal) SetExact(total float64) bool {
	if !m.IsOpen() {
		return false
	}
	m.tendered = money.Dec(total)
	m.entered = true
	return true
}

// ClearTendered zeroes the tendered amount. The change due becomes the
// negated total rather than undefined.
func (m *PaymentModal) ClearTendered() bool {
	if !m.IsOpen() {
		return false
	}
	m.tendered = decimal.Zero
	m.entered = true
	return true
}

// SetPaymentType switches between cash and card. Card ignores tender.
func (m *PaymentModal) SetPaymentType(pt enum.PaymentType) bool {
	if !m.IsOpen() {
		return false
	}
	m.paymentType = pt
	return true
}

// PaymentType is the selected payment type.
func (m *PaymentModal) PaymentType() enum.PaymentType {
	return m.paymentType
}

// Tendered is the amount handed over so far.
func (m *PaymentModal) Tendered() float64 {
	return money.Float(m.tendered)
}

// Change is tendered minus total, or nil before any tender.
func (m *PaymentModal) Change(total float64) *float64 {
	if !m.entered {
		return nil
	}
	c := money.Float(m.tendered.Sub(money.Dec(total)))
	return &c
}

// CanComplete gates the complete button. Cash needs a defined, non-negative
// change within half a cent; card only needs something to charge.
func (m *PaymentModal) CanComplete(total float64) bool {
	if !m.IsOpen() || !money.Positive(total) {
		return false
	}
	if m.paymentType == enum.PaymentTypeCard {
		return true
	}
	change := m.Change(total)
	return change != nil && money.AtLeastZero(*change)
}

// Status derives the modal state for total.
func (m *PaymentModal) Status(total float64) enum.PaymentStatus {
	if !m.IsOpen() {
		return m.status
	}
	if m.paymentType == enum.PaymentTypeCard {
		return enum.PaymentStatusReady
	}
	change := m.Change(total)
	switch {
	case change == nil:
		return enum.PaymentStatusOpen
	case money.AtLeastZero(*change):
		return enum.PaymentStatusReady
	default:
		return enum.PaymentStatusInsufficient
	}
}

// Cancel discards the payment in progress.
func (m *PaymentModal) Cancel() bool {
	if !m.IsOpen() {
		return false
	}
	m.reset()
	m.status = enum.PaymentStatusCancelled
	return true
}

// MarkCompleted ends the modal after the sale was recorded.
func (m *PaymentModal) MarkCompleted() {
	m.reset()
	m.status = enum.PaymentStatusCompleted
}

// Close returns the modal to Closed from any state.
func (m *PaymentModal) Close() {
	m.reset()
	m.status = enum.PaymentStatusClosed
}

func (m *PaymentModal) reset() {
	m.paymentType = enum.PaymentTypeCash
	m.tendered = decimal.Zero
	m.entered = false
}

// View renders the modal for total.
func (m *PaymentModal) View(total float64) PaymentView {
	return PaymentView{
		Status:       m.Status(total),
		PaymentType:  m.paymentType,
		Tendered:     m.Tendered(),
		TenderedText: m.tendered.StringFixed(2),
		Change:       m.Change(total),
		CanComplete:  m.CanComplete(total),
	}
}
