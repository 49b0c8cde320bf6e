package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanContract represents the contractual terms of a loan as read from the loan store
type LoanContract struct {
	ID                   uuid.UUID       `json:"id" db:"id"`
	CustomerID           uuid.UUID       `json:"customer_id" db:"customer_id"`
	InstallmentCount     int             `json:"installment_count" db:"installment_count"`
	InstallmentAmount    decimal.Decimal `json:"installment_amount" db:"installment_amount"`
	FinalInstallmentDate *string         `json:"final_installment_date" db:"final_installment_date"` // YYYY-MM-DD, nil when missing
	Principal            decimal.Decimal `json:"principal" db:"principal"`
	CreatedAt            time.Time       `json:"created_at" db:"created_at"`
}

// AmortizationStatus is the standing of a loan at a reference date
type AmortizationStatus struct {
	FirstInstallmentDate  Date            `json:"first_installment_date"`
	InstallmentsPaid      int             `json:"installments_paid"`
	InstallmentsRemaining int             `json:"installments_remaining"`
	AmountPaid            decimal.Decimal `json:"amount_paid"`
	AmountOutstanding     decimal.Decimal `json:"amount_outstanding"`
	NextDueDate           *Date           `json:"next_due_date"`
	Settled               bool            `json:"settled"`
}

// LoanAnalysis merges a contract with its computed status.
// Exactly one of Status and Error is set.
type LoanAnalysis struct {
	*LoanContract
	Status *AmortizationStatus `json:"status,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// DTOs for requests and responses

type CustomerAnalysis struct {
	CustomerID       uuid.UUID       `json:"customer_id"`
	ReferenceDate    Date            `json:"reference_date"`
	TotalBorrowed    decimal.Decimal `json:"total_borrowed"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	Loans            []*LoanAnalysis `json:"loans"`
	Message          string          `json:"message,omitempty"`
}
