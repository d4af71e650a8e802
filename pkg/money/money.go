// Package money holds the amount helpers shared by the POS services.
//
// Amounts travel as float64 (the persisted format is plain JSON numbers) but every
// sum, product and split goes through decimal so repeated additions of cents do not
// drift.
package money

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Epsilon is half a cent. Comparisons that gate the cashier (change >= 0, coalescing
// of equal amounts) treat differences below it as equal.
const Epsilon = 0.005

// MaxCount bounds every quantity and stock level.
const MaxCount = 1_000_000

// Symbol is prefixed by Format.
var Symbol = "$"

// Dec converts an amount to a decimal using its shortest float representation.
func Dec(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// Float converts back to float64.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// Valid reports whether v is a usable finite amount.
func Valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Positive reports whether v is a finite amount greater than zero.
func Positive(v float64) bool {
	return Valid(v) && v > 0
}

// Round rounds to whole cents.
func Round(v float64) float64 {
	return Float(Dec(v).Round(2))
}

// Sum adds amounts without float drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(Dec(v))
	}
	return Float(total)
}

// Add returns a + b.
func Add(a, b float64) float64 {
	return Float(Dec(a).Add(Dec(b)))
}

// Sub returns a - b.
func Sub(a, b float64) float64 {
	return Float(Dec(a).Sub(Dec(b)))
}

// Mul returns amount * qty.
func Mul(amount float64, qty int) float64 {
	return Float(Dec(amount).Mul(decimal.NewFromInt(int64(qty))))
}

// Equal compares two amounts within Epsilon.
func Equal(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// AtLeastZero reports v >= 0 within Epsilon.
func AtLeastZero(v float64) bool {
	return v > -Epsilon
}

// ParseAmount reads user text ("12.50", "$1,200", " 3 ") and returns 0 for anything
// that is not a finite number.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, Symbol)
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return Float(d)
}

// ParseCount reads a whole quantity. Fractions are truncated, invalid input is 0
// and magnitudes beyond MaxCount are clamped to it.
func ParseCount(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return ClampCount(n)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	limit := decimal.NewFromInt(MaxCount)
	switch {
	case d.GreaterThan(limit):
		return MaxCount
	case d.LessThan(limit.Neg()):
		return -MaxCount
	}
	return int(d.IntPart())
}

// ClampCount bounds n to [-MaxCount, MaxCount].
func ClampCount(n int) int {
	return min(max(n, -MaxCount), MaxCount)
}

// Format renders an amount the way the till shows it: whole amounts without cents
// ("$20"), everything else with two decimals ("$0.50", "$1,234.56").
func Format(v float64) string {
	d := Dec(v).Round(2)
	neg := d.IsNegative()
	d = d.Abs()

	var body string
	if d.Equal(d.Truncate(0)) {
		body = group(d.StringFixed(0))
	} else {
		fixed := d.StringFixed(2)
		dot := strings.IndexByte(fixed, '.')
		body = group(fixed[:dot]) + fixed[dot:]
	}
	if neg {
		return "-" + Symbol + body
	}
	return Symbol + body
}

// FormatFixed always renders two decimals without the currency symbol ("7.00").
func FormatFixed(v float64) string {
	return Dec(v).StringFixed(2)
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
