// Package httpapi wires the HTTP surface of the bank ledger service.
// It keeps handlers thin, delegating business rules to the service layer.
package httpapi

import (
	"log/slog"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/artyom-lobachev/bankledger/internal/service/bank"
)

// Server wires handlers and middleware using Chi.
type Server struct {
	svc bank.Service
	gw  bank.Gateway
	log *slog.Logger
	rt  *chi.Mux
}

// New constructs the HTTP server with routes and middleware.
// The logger is used by basic request/response logging and panic recovery.
func New(svc bank.Service, gw bank.Gateway, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{svc: svc, gw: gw, log: logger, rt: r}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints.
func (s *Server) routes() {
	// Accounts
	s.rt.Post("/accounts", s.postAccount)
	s.rt.Get("/accounts", s.listAccounts)
	s.rt.Get("/accounts/{id}", s.getAccount)
	s.rt.Post("/accounts/{id}/deposit", s.postDeposit)
	s.rt.Post("/accounts/{id}/withdraw", s.postWithdraw)
	s.rt.Get("/accounts/{id}/transactions", s.listTransactions)
	s.rt.Get("/accounts/{id}/export", s.exportCSV)
	// Persistence
	s.rt.Post("/save", s.postSave)
	// Health
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Get("/metrics", metricsHandler().ServeHTTP)
}
