package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/segyhp/renegotiation-engine/internal/domain"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// GetByID retrieves a loan by its ID, returning sql.ErrNoRows when it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanContract, error)

	// GetByIDs retrieves the loans among ids that exist, ordered by creation
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.LoanContract, error)

	// GetByCustomerID retrieves all loans of a customer, ordered by creation
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.LoanContract, error)

	// ListCustomerIDs returns every customer holding at least one loan
	ListCustomerIDs(ctx context.Context) ([]uuid.UUID, error)
}

// AnalysisCache stores computed customer analyses per reference date
type AnalysisCache interface {
	// GetAnalysis returns the cached analysis, with ok=false on a miss
	GetAnalysis(ctx context.Context, customerID uuid.UUID, referenceDate time.Time) (analysis *domain.CustomerAnalysis, ok bool, err error)

	// SetAnalysis caches an analysis under its customer and reference date
	SetAnalysis(ctx context.Context, analysis *domain.CustomerAnalysis, ttl time.Duration) error
}
