package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/segyhp/renegotiation-engine/internal/domain"
	"github.com/segyhp/renegotiation-engine/pkg/utils"
)

// DiscountTiers is the settlement discount table, ordered by remaining installments.
// The longer the remaining schedule, the larger the discount offered for an early payoff.
var DiscountTiers = []domain.DiscountTier{
	{MinRemaining: 1, MaxRemaining: 20, Fraction: decimal.RequireFromString("0.35")},
	{MinRemaining: 21, MaxRemaining: 40, Fraction: decimal.RequireFromString("0.40")},
	{MinRemaining: 41, MaxRemaining: 60, Fraction: decimal.RequireFromString("0.45")},
	{MinRemaining: 61, MaxRemaining: 80, Fraction: decimal.RequireFromString("0.50")},
	{MinRemaining: 81, MaxRemaining: 100, Fraction: decimal.RequireFromString("0.55")},
	{MinRemaining: 101, MaxRemaining: 120, Fraction: decimal.RequireFromString("0.60")},
}

// DiscountFor returns the tier covering remaining, or a zero-discount tier when none does
func DiscountFor(remaining int) domain.DiscountTier {
	for _, tier := range DiscountTiers {
		if tier.Contains(remaining) {
			return tier
		}
	}
	return domain.DiscountTier{Fraction: decimal.Zero}
}

// ProposeSettlement computes the discounted payoff of an outstanding balance.
// It never fails: balances are not validated and remaining counts outside
// every tier simply get no discount.
func ProposeSettlement(outstanding decimal.Decimal, remaining int) domain.SettlementProposal {
	tier := DiscountFor(remaining)

	discount := outstanding.Mul(tier.Fraction)
	payoff := outstanding.Sub(discount)

	return domain.SettlementProposal{
		OriginalBalance:       utils.RoundMoney(outstanding),
		RemainingInstallments: remaining,
		DiscountPercent:       tier.Percent(),
		DiscountAmount:        utils.RoundMoney(discount),
		FinalPayoff:           utils.RoundMoney(payoff),
	}
}
