package server

import (
	"net/http"

	"github.com/kabu-app/kabu/internal/models"
)

// handlePortfolio handles GET /api/portfolio.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	portfolio, err := s.app.PortfolioService.ComputePortfolio(r.Context(), s.accountID(r))
	if err != nil {
		s.logger.Error().Err(err).Msg("Portfolio computation failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, portfolio)
}

// handleSoldLots handles GET /api/portfolio/soldlots.
func (s *Server) handleSoldLots(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	lots, err := s.app.PortfolioService.ComputeSoldLots(r.Context(), s.accountID(r))
	if err != nil {
		s.logger.Error().Err(err).Msg("Sold lot computation failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if lots == nil {
		lots = []models.SoldLot{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sold_lots": lots,
		"count":     len(lots),
	})
}

// handleSignal handles GET /api/signals/{ticker}.
func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := PathParam(r, "/api/signals/", "")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	result, err := s.app.SignalService.ClassifyLatestSignal(r.Context(), ticker)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", ticker).Msg("Signal classification failed")
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
