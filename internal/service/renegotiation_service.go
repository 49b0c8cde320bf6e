package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/segyhp/renegotiation-engine/internal/calculator"
	"github.com/segyhp/renegotiation-engine/internal/config"
	"github.com/segyhp/renegotiation-engine/internal/domain"
	"github.com/segyhp/renegotiation-engine/internal/repository"
	customError "github.com/segyhp/renegotiation-engine/pkg/errors"
	"github.com/segyhp/renegotiation-engine/pkg/utils"
)

const (
	MessageNoLoansFound = "No loans found"
)

type RenegotiationService struct {
	LoanRepo repository.LoanRepository
	cache    repository.AnalysisCache
	config   *config.Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewRenegotiationService wires the service. cache may be nil to disable caching.
func NewRenegotiationService(
	loanRepo repository.LoanRepository,
	cache repository.AnalysisCache,
	config *config.Config,
	logger *zap.Logger,
) *RenegotiationService {
	return &RenegotiationService{
		LoanRepo: loanRepo,
		cache:    cache,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock replaces the clock used to derive today's reference date
func (s *RenegotiationService) SetClock(now func() time.Time) {
	s.now = now
}

// Today returns the current calendar date in the business timezone
func (s *RenegotiationService) Today() time.Time {
	return utils.DateOnly(s.now().In(s.config.GetLocation()))
}

// AnalyzeCustomer computes the standing of every loan of a customer at referenceDate.
// A loan whose status cannot be computed carries its error and is left out of the
// paid/outstanding totals; it never fails the whole analysis.
func (s *RenegotiationService) AnalyzeCustomer(ctx context.Context, customerID uuid.UUID, referenceDate time.Time) (*domain.CustomerAnalysis, error) {
	ref := utils.DateOnly(referenceDate)

	if s.cache != nil {
		cached, ok, err := s.cache.GetAnalysis(ctx, customerID, ref)
		if err != nil {
			s.logger.Warn("analysis cache read failed",
				zap.String("customer_id", customerID.String()),
				zap.Error(customError.WrapCacheError(err)))
		} else if ok {
			return cached, nil
		}
	}

	analysis, err := s.analyze(ctx, customerID, ref)
	if err != nil {
		return nil, err
	}

	s.storeAnalysis(ctx, analysis)

	return analysis, nil
}

func (s *RenegotiationService) analyze(ctx context.Context, customerID uuid.UUID, ref time.Time) (*domain.CustomerAnalysis, error) {
	loans, err := s.LoanRepo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	analysis := &domain.CustomerAnalysis{
		CustomerID:       customerID,
		ReferenceDate:    domain.NewDate(ref),
		TotalBorrowed:    decimal.Zero,
		TotalPaid:        decimal.Zero,
		TotalOutstanding: decimal.Zero,
		Loans:            make([]*domain.LoanAnalysis, 0, len(loans)),
	}

	if len(loans) == 0 {
		analysis.Message = MessageNoLoansFound
		return analysis, nil
	}

	for _, loan := range loans {
		analysis.TotalBorrowed = analysis.TotalBorrowed.Add(loan.Principal)

		entry := &domain.LoanAnalysis{LoanContract: loan}
		status, err := calculator.ComputeStatus(*loan, ref)
		if err != nil {
			s.logger.Warn("skipping loan status",
				zap.String("customer_id", customerID.String()),
				zap.String("loan_id", loan.ID.String()),
				zap.Error(err))
			entry.Error = err.Error()
		} else {
			entry.Status = &status
			analysis.TotalPaid = analysis.TotalPaid.Add(status.AmountPaid)
			analysis.TotalOutstanding = analysis.TotalOutstanding.Add(status.AmountOutstanding)
		}
		analysis.Loans = append(analysis.Loans, entry)
	}

	analysis.TotalBorrowed = utils.RoundMoney(analysis.TotalBorrowed)
	analysis.TotalPaid = utils.RoundMoney(analysis.TotalPaid)
	analysis.TotalOutstanding = utils.RoundMoney(analysis.TotalOutstanding)

	return analysis, nil
}

func (s *RenegotiationService) storeAnalysis(ctx context.Context, analysis *domain.CustomerAnalysis) {
	if s.cache == nil {
		return
	}

	if err := s.cache.SetAnalysis(ctx, analysis, s.config.Redis.CacheTTL); err != nil {
		s.logger.Warn("analysis cache write failed",
			zap.String("customer_id", analysis.CustomerID.String()),
			zap.Error(customError.WrapCacheError(err)))
	}
}

// ProposeSettlement offers a discounted payoff of a single loan's outstanding balance
func (s *RenegotiationService) ProposeSettlement(ctx context.Context, loanID uuid.UUID, referenceDate time.Time) (*domain.SettlementProposal, error) {
	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapLoanNotFound(loanID.String())
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	status, err := calculator.ComputeStatus(*loan, utils.DateOnly(referenceDate))
	if err != nil {
		return nil, err
	}

	proposal := calculator.ProposeSettlement(status.AmountOutstanding, status.InstallmentsRemaining)
	proposal.LoanID = &loan.ID

	s.logger.Info("settlement proposed",
		zap.String("loan_id", loan.ID.String()),
		zap.Int("remaining_installments", proposal.RemainingInstallments),
		zap.Int("discount_percent", proposal.DiscountPercent),
		zap.String("final_payoff", proposal.FinalPayoff.StringFixed(2)))

	return &proposal, nil
}

// RenegotiateLoans consolidates the outstanding balance of the selected loans and
// prices it over every configured term at the renegotiation rate.
// Loans that are not found are ignored; loans whose status cannot be computed are
// reported in Skipped and contribute nothing to the balance.
func (s *RenegotiationService) RenegotiateLoans(ctx context.Context, loanIDs []uuid.UUID, referenceDate time.Time) (*domain.RenegotiationResult, error) {
	ids := dedupe(loanIDs)
	if len(ids) == 0 {
		return nil, customError.WrapNoLoansSelected()
	}

	loans, err := s.LoanRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	ref := utils.DateOnly(referenceDate)
	rate := s.config.GetRenegotiationRate()
	result := &domain.RenegotiationResult{
		LoanIDs:           make([]uuid.UUID, 0, len(loans)),
		ReferenceDate:     domain.NewDate(ref),
		TotalOutstanding:  decimal.Zero,
		InterestRate:      rate,
		InterestRateLabel: s.config.Business.RenegotiationRateLabel,
		Options:           []*domain.InstallmentOption{},
	}

	if len(loans) == 0 {
		result.Message = MessageNoLoansFound
		return result, nil
	}

	total := decimal.Zero
	for _, loan := range loans {
		result.LoanIDs = append(result.LoanIDs, loan.ID)

		status, err := calculator.ComputeStatus(*loan, ref)
		if err != nil {
			s.logger.Warn("loan left out of renegotiation",
				zap.String("loan_id", loan.ID.String()),
				zap.Error(err))
			result.Skipped = append(result.Skipped, &domain.SkippedLoan{LoanID: loan.ID, Error: err.Error()})
			continue
		}
		total = total.Add(status.AmountOutstanding)
	}

	result.TotalOutstanding = utils.RoundMoney(total)

	for _, term := range s.config.Terms() {
		result.Options = append(result.Options, &domain.InstallmentOption{
			Term:   term,
			Amount: calculator.ComputeInstallment(total, rate, term),
		})
	}

	return result, nil
}

// WarmAnalysisCache precomputes the analysis of every customer at referenceDate.
// It returns how many analyses were cached; a failing customer is logged and skipped.
func (s *RenegotiationService) WarmAnalysisCache(ctx context.Context, referenceDate time.Time) (int, error) {
	if s.cache == nil {
		return 0, nil
	}

	customerIDs, err := s.LoanRepo.ListCustomerIDs(ctx)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	ref := utils.DateOnly(referenceDate)
	warmed := 0
	for _, customerID := range customerIDs {
		if err := ctx.Err(); err != nil {
			return warmed, err
		}

		analysis, err := s.analyze(ctx, customerID, ref)
		if err != nil {
			s.logger.Error("warming analysis failed",
				zap.String("customer_id", customerID.String()),
				zap.Error(err))
			continue
		}

		if err := s.cache.SetAnalysis(ctx, analysis, s.config.Redis.CacheTTL); err != nil {
			s.logger.Error("warming analysis cache write failed",
				zap.String("customer_id", customerID.String()),
				zap.Error(customError.WrapCacheError(err)))
			continue
		}
		warmed++
	}

	return warmed, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
