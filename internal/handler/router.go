package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/segyhp/renegotiation-engine/pkg/response"
)

// NewRouter mounts the health checks and the versioned API
func NewRouter(renegotiationHandler *RenegotiationHandler, healthHandler *HealthHandler, allowedOrigins []string, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods(http.MethodGet)

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(response.LoggingMiddleware(logger))
	api.Use(response.CORSMiddleware(allowedOrigins))

	api.HandleFunc("/customers/{customerId}/analysis", renegotiationHandler.AnalyzeCustomer).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/loans/{loanId}/settlement", renegotiationHandler.ProposeSettlement).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/renegotiations", renegotiationHandler.Renegotiate).Methods(http.MethodPost, http.MethodOptions)

	return router
}
