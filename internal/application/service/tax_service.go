package service

import (
	"github.com/sangkips/stall-pos/internal/domain/entity"
	"github.com/sangkips/stall-pos/pkg/money"
	"github.com/shopspring/decimal"
)

// CalculateTaxBreakdown splits a tax-inclusive total at rate. With tax
// disabled the whole total is subtotal. Subtotal and tax always add back up
// to total.
func CalculateTaxBreakdown(total float64, enabled bool, rate float64) entity.TaxBreakdown {
	if !enabled || !money.Valid(total) || !money.Valid(rate) || rate <= 0 {
		return entity.TaxBreakdown{Subtotal: total, Tax: 0, Total: total}
	}

	t := money.Dec(total)
	subtotal := t.Div(decimal.NewFromInt(1).Add(money.Dec(rate)))
	tax := t.Sub(subtotal)
	return entity.TaxBreakdown{
		Subtotal: money.Float(subtotal),
		Tax:      money.Float(tax),
		Total:    total,
	}
}

// TaxService applies the configured sales tax.
type TaxService struct {
	rate  float64
	label string
}

// NewTaxService creates a tax service for rate (0.14 for 14%).
func NewTaxService(rate float64, label string) *TaxService {
	return &TaxService{rate: rate, label: label}
}

// Breakdown splits total at the configured rate.
func (s *TaxService) Breakdown(total float64, enabled bool) entity.TaxBreakdown {
	return CalculateTaxBreakdown(total, enabled, s.rate)
}

func (s *TaxService) Rate() float64 { return s.rate }

func (s *TaxService) Label() string { return s.label }
