package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountTier maps an inclusive range of remaining installments to a discount fraction
type DiscountTier struct {
	MinRemaining int             `json:"min_remaining"`
	MaxRemaining int             `json:"max_remaining"`
	Fraction     decimal.Decimal `json:"fraction"`
}

// Contains reports whether remaining falls inside the tier
func (t DiscountTier) Contains(remaining int) bool {
	return remaining >= t.MinRemaining && remaining <= t.MaxRemaining
}

// Percent returns the discount as an integer percentage
func (t DiscountTier) Percent() int {
	return int(t.Fraction.Mul(decimal.NewFromInt(100)).IntPart())
}

// SettlementProposal is a discounted payoff offer for the outstanding balance of a loan
type SettlementProposal struct {
	LoanID                *uuid.UUID      `json:"loan_id,omitempty"`
	OriginalBalance       decimal.Decimal `json:"original_balance"`
	RemainingInstallments int             `json:"remaining_installments"`
	DiscountPercent       int             `json:"discount_percent"`
	DiscountAmount        decimal.Decimal `json:"discount_amount"`
	FinalPayoff           decimal.Decimal `json:"final_payoff"`
}

// InstallmentOption is the fixed payment that amortizes a balance over Term installments
type InstallmentOption struct {
	Term   int             `json:"term"`
	Amount decimal.Decimal `json:"amount"`
}

type RenegotiationRequest struct {
	LoanIDs       []string `json:"loan_ids" validate:"required,min=1,dive,uuid"`
	ReferenceDate string   `json:"reference_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// SkippedLoan is a loan left out of a renegotiation because its status could not be computed
type SkippedLoan struct {
	LoanID uuid.UUID `json:"loan_id"`
	Error  string    `json:"error"`
}

type RenegotiationResult struct {
	LoanIDs           []uuid.UUID          `json:"loan_ids"`
	ReferenceDate     Date                 `json:"reference_date"`
	TotalOutstanding  decimal.Decimal      `json:"total_outstanding"`
	InterestRate      decimal.Decimal      `json:"interest_rate"`
	InterestRateLabel string               `json:"interest_rate_label"`
	Options           []*InstallmentOption `json:"options"`
	Skipped           []*SkippedLoan       `json:"skipped,omitempty"`
	Message           string               `json:"message,omitempty"`
}
