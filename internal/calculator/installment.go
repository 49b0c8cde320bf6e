package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/segyhp/renegotiation-engine/pkg/utils"
)

// ComputeInstallment returns the fixed payment that amortizes principal over term
// installments at monthlyRate (Price system), rounded up to a whole currency unit.
//
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate splits the principal evenly. A non-positive term yields zero.
func ComputeInstallment(principal, monthlyRate decimal.Decimal, term int) decimal.Decimal {
	if term <= 0 {
		return decimal.Zero
	}

	n := decimal.NewFromInt(int64(term))

	var payment decimal.Decimal
	if monthlyRate.IsZero() {
		payment = principal.Div(n)
	} else {
		factor := decimal.NewFromInt(1).Add(monthlyRate).Pow(n)
		payment = principal.Mul(monthlyRate).Mul(factor).Div(factor.Sub(decimal.NewFromInt(1)))
	}

	return utils.CeilToUnit(payment)
}
