package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/kabu-app/kabu/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Portfolio
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/portfolio/soldlots", s.handleSoldLots)

	// Transactions
	mux.HandleFunc("/api/transactions/", s.routeTransaction)
	mux.HandleFunc("/api/transactions", s.handleTransactions)

	// Signals
	mux.HandleFunc("/api/signals/", s.handleSignal)

	// Watchlist
	mux.HandleFunc("/api/watchlist/", s.handleWatchlistRemove)
	mux.HandleFunc("/api/watchlist", s.handleWatchlist)
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.app.StartupTime).String(),
		"version": common.GetVersion(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"commit":     common.GetGitCommit(),
		"go_version": runtime.Version(),
	})
}
