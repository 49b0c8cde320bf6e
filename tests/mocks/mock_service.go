package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/renegotiation-engine/internal/domain"
)

type MockRenegotiationService struct {
	mock.Mock
}

func NewMockRenegotiationService() *MockRenegotiationService {
	return &MockRenegotiationService{}
}

func (m *MockRenegotiationService) Today() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

func (m *MockRenegotiationService) AnalyzeCustomer(ctx context.Context, customerID uuid.UUID, referenceDate time.Time) (*domain.CustomerAnalysis, error) {
	args := m.Called(ctx, customerID, referenceDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CustomerAnalysis), args.Error(1)
}

func (m *MockRenegotiationService) ProposeSettlement(ctx context.Context, loanID uuid.UUID, referenceDate time.Time) (*domain.SettlementProposal, error) {
	args := m.Called(ctx, loanID, referenceDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementProposal), args.Error(1)
}

func (m *MockRenegotiationService) RenegotiateLoans(ctx context.Context, loanIDs []uuid.UUID, referenceDate time.Time) (*domain.RenegotiationResult, error) {
	args := m.Called(ctx, loanIDs, referenceDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RenegotiationResult), args.Error(1)
}
