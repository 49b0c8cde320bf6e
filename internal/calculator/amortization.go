package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/renegotiation-engine/internal/domain"
	customError "github.com/segyhp/renegotiation-engine/pkg/errors"
	"github.com/segyhp/renegotiation-engine/pkg/utils"
)

// ComputeStatus derives how much of a loan's schedule has elapsed at referenceDate.
//
// The first installment falls (InstallmentCount - 1) months before the final one.
// An installment counts as paid once the reference date reaches its day of month,
// so a loan whose installments fall on the 15th has paid June's on June 15th and
// not on June 14th. Paid installments are clamped to [0, InstallmentCount].
func ComputeStatus(contract domain.LoanContract, referenceDate time.Time) (domain.AmortizationStatus, error) {
	if contract.FinalInstallmentDate == nil || *contract.FinalInstallmentDate == "" {
		return domain.AmortizationStatus{}, customError.WrapMissingFinalDate(contract.ID.String())
	}

	finalDate, err := utils.ParseDate(*contract.FinalInstallmentDate)
	if err != nil {
		return domain.AmortizationStatus{}, customError.WrapInvalidDateFormat(*contract.FinalInstallmentDate, err)
	}

	ref := utils.DateOnly(referenceDate)
	total := contract.InstallmentCount
	firstDate := utils.AddMonths(finalDate, -(total - 1))

	paid := utils.MonthsBetween(firstDate, ref)
	if ref.Day() >= firstDate.Day() {
		paid++
	}
	paid = max(0, min(paid, total))
	remaining := total - paid

	status := domain.AmortizationStatus{
		FirstInstallmentDate:  domain.NewDate(firstDate),
		InstallmentsPaid:      paid,
		InstallmentsRemaining: remaining,
		AmountPaid:            utils.RoundMoney(contract.InstallmentAmount.Mul(decimal.NewFromInt(int64(paid)))),
		AmountOutstanding:     utils.RoundMoney(contract.InstallmentAmount.Mul(decimal.NewFromInt(int64(remaining)))),
	}

	if remaining > 0 {
		next := domain.NewDate(utils.AddMonths(firstDate, paid))
		status.NextDueDate = &next
	} else {
		status.Settled = true
	}

	return status, nil
}
