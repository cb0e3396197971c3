// Package server wires the HTTP API exposed by splitledger.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rowin21/splitledger/internal/auth"
	"github.com/rowin21/splitledger/internal/middleware"
)

// NewRouter builds the full HTTP handler: public auth/health/metrics
// routes plus the JWT-protected API.
func NewRouter(h *Handlers, jwtManager *auth.JWTManager) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)

	api := http.NewServeMux()
	api.HandleFunc("POST /api/groups", h.handleCreateGroup)
	api.HandleFunc("GET /api/groups", h.handleListGroups)
	api.HandleFunc("GET /api/groups/{id}", h.handleGetGroup)
	api.HandleFunc("DELETE /api/groups/{id}", h.handleDeactivateGroup)
	api.HandleFunc("POST /api/groups/{id}/members", h.handleAddMembers)

	api.HandleFunc("POST /api/groups/{id}/expenses", h.handleAddExpense)
	api.HandleFunc("GET /api/groups/{id}/expenses", h.handleListExpenses)
	api.HandleFunc("PATCH /api/expenses/{id}", h.handleUpdateExpense)
	api.HandleFunc("DELETE /api/expenses/{id}", h.handleDeleteExpense)

	api.HandleFunc("GET /api/groups/{id}/settlements", h.handleListSettlements)
	api.HandleFunc("POST /api/settlements/{id}/initiate", h.handleInitiateSettlement)
	api.HandleFunc("POST /api/settlements/{id}/cancel", h.handleCancelSettlement)
	api.HandleFunc("POST /api/settlements/{id}/status", h.handleResolveSettlement)

	mux.Handle("/api/", middleware.RequireAuth(jwtManager)(api))

	return middleware.Logging(middleware.CORS(mux))
}
