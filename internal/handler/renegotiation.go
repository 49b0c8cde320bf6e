package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/segyhp/renegotiation-engine/internal/domain"
	customError "github.com/segyhp/renegotiation-engine/pkg/errors"
	"github.com/segyhp/renegotiation-engine/pkg/response"
	"github.com/segyhp/renegotiation-engine/pkg/utils"
)

// RenegotiationService is the part of the service layer the handlers depend on
type RenegotiationService interface {
	Today() time.Time
	AnalyzeCustomer(ctx context.Context, customerID uuid.UUID, referenceDate time.Time) (*domain.CustomerAnalysis, error)
	ProposeSettlement(ctx context.Context, loanID uuid.UUID, referenceDate time.Time) (*domain.SettlementProposal, error)
	RenegotiateLoans(ctx context.Context, loanIDs []uuid.UUID, referenceDate time.Time) (*domain.RenegotiationResult, error)
}

type RenegotiationHandler struct {
	service   RenegotiationService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewRenegotiationHandler(service RenegotiationService, logger *zap.Logger) *RenegotiationHandler {
	return &RenegotiationHandler{
		service:   service,
		validator: validator.New(),
		logger:    logger,
	}
}

// AnalyzeCustomer handles GET /customers/{customerId}/analysis
func (h *RenegotiationHandler) AnalyzeCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(mux.Vars(r)["customerId"])
	if err != nil {
		response.BadRequest(w, "Invalid customer ID", err)
		return
	}

	ref, err := h.referenceDate(r.URL.Query().Get("reference_date"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	analysis, err := h.service.AnalyzeCustomer(r.Context(), customerID, ref)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if analysis.Message != "" {
		response.SuccessWithMessage(w, analysis, analysis.Message)
		return
	}
	response.Success(w, analysis)
}

// ProposeSettlement handles GET /loans/{loanId}/settlement
func (h *RenegotiationHandler) ProposeSettlement(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(mux.Vars(r)["loanId"])
	if err != nil {
		response.BadRequest(w, "Invalid loan ID", err)
		return
	}

	ref, err := h.referenceDate(r.URL.Query().Get("reference_date"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	proposal, err := h.service.ProposeSettlement(r.Context(), loanID, ref)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.Success(w, proposal)
}

// Renegotiate handles POST /renegotiations
func (h *RenegotiationHandler) Renegotiate(w http.ResponseWriter, r *http.Request) {
	var req domain.RenegotiationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON payload", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	ids := make([]uuid.UUID, 0, len(req.LoanIDs))
	for _, raw := range req.LoanIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Validation failed", err)
			return
		}
		ids = append(ids, id)
	}

	ref, err := h.referenceDate(req.ReferenceDate)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	result, err := h.service.RenegotiateLoans(r.Context(), ids, ref)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if result.Message != "" {
		response.SuccessWithMessage(w, result, result.Message)
		return
	}
	response.Success(w, result)
}

// referenceDate parses an optional YYYY-MM-DD override, defaulting to today
func (h *RenegotiationHandler) referenceDate(raw string) (time.Time, error) {
	if raw == "" {
		return h.service.Today(), nil
	}

	ref, err := utils.ParseDate(raw)
	if err != nil {
		return time.Time{}, customError.WrapInvalidDateFormat(raw, err)
	}
	return ref, nil
}

func (h *RenegotiationHandler) writeServiceError(w http.ResponseWriter, err error) {
	var message string
	var be *customError.BusinessError
	if errors.As(err, &be) {
		message = be.Message
	}

	switch customError.CodeOf(err) {
	case customError.ErrCodeLoanNotFound:
		response.NotFound(w, message)
	case customError.ErrCodeInvalidDateFormat, customError.ErrCodeNoLoansSelected:
		response.BadRequest(w, message, err)
	case customError.ErrCodeMissingFinalDate:
		response.UnprocessableEntity(w, message, err)
	default:
		h.logger.Error("request failed", zap.Error(err))
		response.InternalServerError(w, "Internal server error", err)
	}
}
