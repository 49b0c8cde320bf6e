package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/segyhp/renegotiation-engine/internal/domain"
	"github.com/segyhp/renegotiation-engine/internal/handler"
	customError "github.com/segyhp/renegotiation-engine/pkg/errors"
	"github.com/segyhp/renegotiation-engine/tests/mocks"
)

var today = time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)

type okPinger struct{ err error }

func (p okPinger) PingContext(ctx context.Context) error { return p.err }

type redisPinger struct{ err error }

func (p redisPinger) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", p.err)
}

func newRouter(svc *mocks.MockRenegotiationService) http.Handler {
	return handler.NewRouter(
		handler.NewRenegotiationHandler(svc, zap.NewNop()),
		handler.NewHealthHandler(okPinger{}, redisPinger{}, time.Second),
		[]string{"http://localhost:5173"},
		zap.NewNop(),
	)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRenegotiationHandler_AnalyzeCustomer(t *testing.T) {
	customerID := uuid.New()

	tests := []struct {
		name           string
		path           string
		setupMock      func(*mocks.MockRenegotiationService)
		expectedStatus int
		checkResponse  func(*testing.T, envelope)
	}{
		{
			name: "defaults to today",
			path: "/api/v1/customers/" + customerID.String() + "/analysis",
			setupMock: func(m *mocks.MockRenegotiationService) {
				m.On("Today").Return(today).Once()
				m.On("AnalyzeCustomer", mock.Anything, customerID, today).Return(&domain.CustomerAnalysis{
					CustomerID:       customerID,
					ReferenceDate:    domain.NewDate(today),
					TotalBorrowed:    decimal.NewFromInt(7550),
					TotalPaid:        decimal.NewFromInt(3600),
					TotalOutstanding: decimal.NewFromInt(3000),
					Loans:            []*domain.LoanAnalysis{},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body envelope) {
				var analysis domain.CustomerAnalysis
				require.NoError(t, json.Unmarshal(body.Data, &analysis))
				assert.Equal(t, customerID, analysis.CustomerID)
				assert.Equal(t, "2024-06-14", analysis.ReferenceDate.String())
				assert.True(t, analysis.TotalOutstanding.Equal(decimal.NewFromInt(3000)))
			},
		},
		{
			name: "explicit reference date",
			path: "/api/v1/customers/" + customerID.String() + "/analysis?reference_date=2024-12-15",
			setupMock: func(m *mocks.MockRenegotiationService) {
				ref := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
				m.On("AnalyzeCustomer", mock.Anything, customerID, ref).Return(&domain.CustomerAnalysis{
					CustomerID:    customerID,
					ReferenceDate: domain.NewDate(ref),
					Loans:         []*domain.LoanAnalysis{},
					Message:       "No loans found",
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body envelope) {
				assert.True(t, body.Success)
				assert.Equal(t, "No loans found", body.Message)
			},
		},
		{
			name:           "invalid reference date",
			path:           "/api/v1/customers/" + customerID.String() + "/analysis?reference_date=15/12/2024",
			setupMock:      func(m *mocks.MockRenegotiationService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, body envelope) {
				assert.False(t, body.Success)
				assert.Contains(t, body.Error, customError.ErrCodeInvalidDateFormat)
			},
		},
		{
			name:           "invalid customer id",
			path:           "/api/v1/customers/not-a-uuid/analysis",
			setupMock:      func(m *mocks.MockRenegotiationService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, body envelope) {
				assert.Equal(t, "Invalid customer ID", body.Message)
			},
		},
		{
			name: "database failure",
			path: "/api/v1/customers/" + customerID.String() + "/analysis?reference_date=2024-12-15",
			setupMock: func(m *mocks.MockRenegotiationService) {
				m.On("AnalyzeCustomer", mock.Anything, customerID, mock.Anything).
					Return(nil, customError.WrapDatabaseError(errors.New("connection refused"))).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, body envelope) {
				assert.Equal(t, "Internal server error", body.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockRenegotiationService()
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.checkResponse(t, decode(t, w))
			svc.AssertExpectations(t)
		})
	}
}

func TestRenegotiationHandler_ProposeSettlement(t *testing.T) {
	loanID := uuid.New()
	path := "/api/v1/loans/" + loanID.String() + "/settlement"

	tests := []struct {
		name           string
		setupMock      func(*mocks.MockRenegotiationService)
		expectedStatus int
		checkResponse  func(*testing.T, envelope)
	}{
		{
			name: "proposal",
			setupMock: func(m *mocks.MockRenegotiationService) {
				m.On("Today").Return(today)
				m.On("ProposeSettlement", mock.Anything, loanID, today).Return(&domain.SettlementProposal{
					LoanID:                &loanID,
					OriginalBalance:       decimal.NewFromInt(3000),
					RemainingInstallments: 6,
					DiscountPercent:       35,
					DiscountAmount:        decimal.NewFromInt(1050),
					FinalPayoff:           decimal.NewFromInt(1950),
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body envelope) {
				var proposal domain.SettlementProposal
				require.NoError(t, json.Unmarshal(body.Data, &proposal))
				assert.Equal(t, 35, proposal.DiscountPercent)
				assert.True(t, proposal.FinalPayoff.Equal(decimal.NewFromInt(1950)))
			},
		},
		{
			name: "loan not found",
			setupMock: func(m *mocks.MockRenegotiationService) {
				m.On("Today").Return(today)
				m.On("ProposeSettlement", mock.Anything, loanID, today).
					Return(nil, customError.WrapLoanNotFound(loanID.String())).Once()
			},
			expectedStatus: http.StatusNotFound,
			checkResponse: func(t *testing.T, body envelope) {
				assert.Contains(t, body.Message, loanID.String())
			},
		},
		{
			name: "missing final date",
			setupMock: func(m *mocks.MockRenegotiationService) {
				m.On("Today").Return(today)
				m.On("ProposeSettlement", mock.Anything, loanID, today).
					Return(nil, customError.WrapMissingFinalDate(loanID.String())).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, body envelope) {
				assert.Contains(t, body.Error, customError.ErrCodeMissingFinalDate)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockRenegotiationService()
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.checkResponse(t, decode(t, w))
			svc.AssertExpectations(t)
		})
	}
}

func TestRenegotiationHandler_Renegotiate(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	ref := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		body           string
		setupMock      func(*mocks.MockRenegotiationService)
		expectedStatus int
		checkResponse  func(*testing.T, envelope)
	}{
		{
			name: "consolidates selected loans",
			body: `{"loan_ids":["` + first.String() + `","` + second.String() + `"],"reference_date":"2024-12-15"}`,
			setupMock: func(m *mocks.MockRenegotiationService) {
				m.On("RenegotiateLoans", mock.Anything, []uuid.UUID{first, second}, ref).Return(&domain.RenegotiationResult{
					LoanIDs:           []uuid.UUID{first, second},
					ReferenceDate:     domain.NewDate(ref),
					TotalOutstanding:  decimal.NewFromInt(7750),
					InterestRate:      decimal.RequireFromString("0.005"),
					InterestRateLabel: "0.5% a.m.",
					Options: []*domain.InstallmentOption{
						{Term: 12, Amount: decimal.NewFromInt(668)},
					},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body envelope) {
				var result domain.RenegotiationResult
				require.NoError(t, json.Unmarshal(body.Data, &result))
				assert.True(t, result.TotalOutstanding.Equal(decimal.NewFromInt(7750)))
				require.Len(t, result.Options, 1)
				assert.True(t, result.Options[0].Amount.Equal(decimal.NewFromInt(668)))
			},
		},
		{
			name: "defaults reference date to today",
			body: `{"loan_ids":["` + first.String() + `"]}`,
			setupMock: func(m *mocks.MockRenegotiationService) {
				m.On("Today").Return(today).Once()
				m.On("RenegotiateLoans", mock.Anything, []uuid.UUID{first}, today).Return(&domain.RenegotiationResult{
					ReferenceDate: domain.NewDate(today),
					Options:       []*domain.InstallmentOption{},
					Message:       "No loans found",
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, body envelope) {
				assert.Equal(t, "No loans found", body.Message)
			},
		},
		{
			name:           "empty selection",
			body:           `{"loan_ids":[]}`,
			setupMock:      func(m *mocks.MockRenegotiationService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, body envelope) {
				assert.Equal(t, "Validation failed", body.Message)
			},
		},
		{
			name:           "malformed loan id",
			body:           `{"loan_ids":["loan-1"]}`,
			setupMock:      func(m *mocks.MockRenegotiationService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, body envelope) {
				assert.Equal(t, "Validation failed", body.Message)
			},
		},
		{
			name:           "malformed reference date",
			body:           `{"loan_ids":["` + first.String() + `"],"reference_date":"2024-13-01"}`,
			setupMock:      func(m *mocks.MockRenegotiationService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, body envelope) {
				assert.False(t, body.Success)
			},
		},
		{
			name:           "invalid json",
			body:           `{"loan_ids":`,
			setupMock:      func(m *mocks.MockRenegotiationService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, body envelope) {
				assert.Equal(t, "Invalid JSON payload", body.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockRenegotiationService()
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/renegotiations", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.checkResponse(t, decode(t, w))
			svc.AssertExpectations(t)
		})
	}
}

func TestRouter_Preflight(t *testing.T) {
	svc := mocks.NewMockRenegotiationService()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/renegotiations", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	svc.AssertExpectations(t)
}
