// Package httpapi wires the HTTP surface of the bookkeeping service. Handlers
// stay thin and delegate the rules to the service layer.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/rfarias/partida/internal/service/account"
	"github.com/rfarias/partida/internal/service/journal"
	"github.com/rfarias/partida/internal/statement"
)

// Server wires handlers and middleware using Chi.
type Server struct {
	accounts *account.Service
	entries  *journal.Service
	settings SettingsStore
	budgets  BudgetStore
	ready    ReadyChecker
	currency string
	opts     statement.Options
	clock    func() time.Time
	newID    func() uuid.UUID
	log      *slog.Logger
	rt       *chi.Mux
}

// New constructs the HTTP server with routes and middleware.
func New(accounts *account.Service, entries *journal.Service, settings SettingsStore, budgets BudgetStore, ready ReadyChecker, currency string, opts statement.Options, logger *slog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))
	r.Use(metricsMiddleware)

	s := &Server{
		accounts: accounts,
		entries:  entries,
		settings: settings,
		budgets:  budgets,
		ready:    ready,
		currency: currency,
		opts:     opts,
		clock:    time.Now,
		newID:    uuid.New,
		log:      logger,
		rt:       r,
	}
	s.routes()
	return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

func (s *Server) routes() {
	// Chart of accounts
	s.rt.Get("/v1/accounts", s.getTree)
	s.rt.Post("/v1/accounts", s.postAccount)
	s.rt.Get("/v1/accounts/next-code", s.getNextCode)
	s.rt.Get("/v1/accounts/leaves", s.getLeaves)
	s.rt.Patch("/v1/accounts/{id}", s.patchAccount)
	s.rt.Delete("/v1/accounts/{id}", s.deleteAccount)

	// Journal entries
	s.rt.Get("/v1/entries", s.listEntries)
	s.rt.Post("/v1/entries", s.postEntry)
	s.rt.Get("/v1/entries/{id}", s.getEntry)
	s.rt.Put("/v1/entries/{id}", s.putEntry)
	s.rt.Delete("/v1/entries/{id}", s.deleteEntry)
	s.rt.Get("/v1/entries/{id}/pattern", s.getEntryPattern)

	// Statement import
	s.rt.Post("/v1/import/preview", s.postImportPreview)
	s.rt.Post("/v1/import", s.postImport)

	// Budgets
	s.rt.Get("/v1/budgets", s.listBudgets)
	s.rt.Get("/v1/budgets/{id}", s.getBudget)
	s.rt.Put("/v1/budgets/{id}", s.putBudget)
	s.rt.Delete("/v1/budgets/{id}", s.deleteBudget)
	s.rt.Post("/v1/budgets/{id}/derive", s.deriveBudget)

	// Settings
	s.rt.Get("/v1/settings", s.getSettings)
	s.rt.Put("/v1/settings", s.putSettings)

	// Health and metrics (unversioned)
	s.rt.Get("/healthz", s.healthz)
	s.rt.Get("/readyz", s.readyz)
	s.rt.Method(http.MethodGet, "/metrics", metricsHandler())
}
