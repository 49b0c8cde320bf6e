package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/segyhp/renegotiation-engine/internal/domain"
)

// final_installment_date is a DATE column; it is read back as YYYY-MM-DD text
// so the calculator sees the same representation the API accepts.
const loanColumns = `
	id, customer_id, installment_count, installment_amount,
	to_char(final_installment_date, 'YYYY-MM-DD') AS final_installment_date,
	principal, created_at
`

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanContract, error) {
	query := `SELECT ` + loanColumns + `
		FROM loans
		WHERE id = $1
	`

	var loan domain.LoanContract
	err := r.db.GetContext(ctx, &loan, query, id)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.LoanContract, error) {
	if len(ids) == 0 {
		return []*domain.LoanContract{}, nil
	}

	query := `SELECT ` + loanColumns + `
		FROM loans
		WHERE id = ANY($1::uuid[])
		ORDER BY created_at, id
	`

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}

	loans := []*domain.LoanContract{}
	err := r.db.SelectContext(ctx, &loans, query, pq.Array(strIDs))
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.LoanContract, error) {
	query := `SELECT ` + loanColumns + `
		FROM loans
		WHERE customer_id = $1
		ORDER BY created_at, id
	`

	loans := []*domain.LoanContract{}
	err := r.db.SelectContext(ctx, &loans, query, customerID)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) ListCustomerIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT customer_id
		FROM loans
		ORDER BY customer_id
	`

	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query)
	if err != nil {
		return nil, err
	}

	return ids, nil
}
