// Package http exposes the tracker as a JSON API. Handlers read and
// write records through the store ports and delegate every derived value
// to the core calculations.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"budgetbook/internal/auth"
	"budgetbook/internal/cache"
	"budgetbook/internal/services"
	"budgetbook/internal/store"
)

// Stores groups the persistence ports the server reads from.
type Stores struct {
	Profiles  store.ProfileStore
	Budgets   store.BudgetStore
	Purchases store.PurchaseStore
	Summaries store.SummaryStore
}

type Server struct {
	http.Server
	stores    Stores
	purchases *services.PurchaseService

	rateLimiter *rateLimiter
	reportCache *cache.LRU[summaryResponse]

	// now is swappable so period boundaries are deterministic in tests.
	now func() time.Time

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, verifier *auth.Verifier, st Stores, purchaseSvc *services.PurchaseService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		stores:           st,
		purchases:        purchaseSvc,
		rateLimiter:      newRateLimiter(),
		reportCache:      cache.NewLRU[summaryResponse](500, 2*time.Minute),
		now:              time.Now,
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	// Everything under /api requires a verified token.
	api := func(h http.HandlerFunc) http.HandlerFunc {
		return s.withMiddleware(verifier.Middleware(h))
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/profile", api(s.handleGetProfile))
	mux.HandleFunc("PUT /api/profile", api(s.handlePutProfile))

	mux.HandleFunc("GET /api/budgets", api(s.handleListBudgets))
	mux.HandleFunc("POST /api/budgets", api(s.handleCreateBudget))
	mux.HandleFunc("PUT /api/budgets/{id}", api(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", api(s.handleDeleteBudget))

	mux.HandleFunc("GET /api/purchases", api(s.handleListPurchases))
	mux.HandleFunc("POST /api/purchases", api(s.handleCreatePurchase))
	mux.HandleFunc("DELETE /api/purchases/{id}", api(s.handleDeletePurchase))

	mux.HandleFunc("GET /api/summary", api(s.handleCurrentSummary))
	mux.HandleFunc("GET /api/summaries", api(s.handleListSummaries))

	return s
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.reportCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Report cache cleanup", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the background routines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) invalidateReport(userID string) {
	s.reportCache.Delete(userID)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
