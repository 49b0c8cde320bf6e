package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/renegotiation-engine/internal/domain"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LoanContract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanContract), args.Error(1)
}

func (m *MockLoanRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.LoanContract, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanContract), args.Error(1)
}

func (m *MockLoanRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]*domain.LoanContract, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanContract), args.Error(1)
}

func (m *MockLoanRepository) ListCustomerIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockAnalysisCache struct {
	mock.Mock
}

func (m *MockAnalysisCache) GetAnalysis(ctx context.Context, customerID uuid.UUID, referenceDate time.Time) (*domain.CustomerAnalysis, bool, error) {
	args := m.Called(ctx, customerID, referenceDate)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.CustomerAnalysis), args.Bool(1), args.Error(2)
}

func (m *MockAnalysisCache) SetAnalysis(ctx context.Context, analysis *domain.CustomerAnalysis, ttl time.Duration) error {
	args := m.Called(ctx, analysis, ttl)
	return args.Error(0)
}
