package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrMissingFinalDate  = errors.New("loan has no final installment date")
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrNoLoansSelected   = errors.New("no loans selected")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeMissingFinalDate  = "MISSING_FINAL_DATE"
	ErrCodeInvalidDateFormat = "INVALID_DATE_FORMAT"
	ErrCodeLoanNotFound      = "LOAN_NOT_FOUND"
	ErrCodeNoLoansSelected   = "NO_LOANS_SELECTED"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
	ErrCodeCacheError        = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapMissingFinalDate(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeMissingFinalDate,
		fmt.Sprintf("Loan with ID %s has no final installment date", loanID),
		ErrMissingFinalDate,
	)
}

func WrapInvalidDateFormat(value string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDateFormat,
		fmt.Sprintf("Date %q is not a valid YYYY-MM-DD date", value),
		fmt.Errorf("%w: %v", ErrInvalidDateFormat, err),
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapNoLoansSelected() *BusinessError {
	return NewBusinessError(
		ErrCodeNoLoansSelected,
		"No loans selected",
		ErrNoLoansSelected,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

// CodeOf returns the code of the first BusinessError in err's chain, or "" if there is none
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
