package enum

import (
	"encoding/json"
	"strings"
)

// PaymentType is how a sale was settled.
type PaymentType int

const (
	PaymentTypeCash PaymentType = 0
	PaymentTypeCard PaymentType = 1
)

func (p PaymentType) String() string {
	if p == PaymentTypeCard {
		return "card"
	}
	return "cash"
}

func (p PaymentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON never fails on content: anything that is not "card" is cash.
func (p *PaymentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			*p = PaymentTypeCash
			return nil
		}
		*p = PaymentType(i)
		if *p != PaymentTypeCard {
			*p = PaymentTypeCash
		}
		return nil
	}
	*p = ParsePaymentType(str)
	return nil
}

// ParsePaymentType maps free text to a PaymentType; unknown values are cash.
func ParsePaymentType(s string) PaymentType {
	if strings.EqualFold(strings.TrimSpace(s), "card") {
		return PaymentTypeCard
	}
	return PaymentTypeCash
}

// IsValidPaymentType reports whether s names a payment type exactly.
func IsValidPaymentType(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "cash" || s == "card"
}
