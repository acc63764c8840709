package server

import (
	"net/http"

	"github.com/kabu-app/kabu/internal/models"
)

// watchlistRequest is the payload for adding a watchlist entry.
type watchlistRequest struct {
	Ticker string `json:"ticker" validate:"required"`
	Note   string `json:"note,omitempty"`
}

// handleWatchlist handles GET and POST /api/watchlist.
func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries, err := s.app.WatchlistService.List(r.Context(), s.accountID(r))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if entries == nil {
			entries = []*models.WatchlistEntry{}
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"watchlist": entries,
			"count":     len(entries),
		})

	case http.MethodPost:
		var req watchlistRequest
		if !DecodeJSON(w, r, &req) {
			return
		}
		if err := s.validate.Struct(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid watchlist entry: "+err.Error())
			return
		}
		entry, err := s.app.WatchlistService.Add(r.Context(), s.accountID(r), req.Ticker, req.Note)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, entry)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleWatchlistRemove handles DELETE /api/watchlist/{ticker}.
func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	ticker := PathParam(r, "/api/watchlist/", "")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	if err := s.app.WatchlistService.Remove(r.Context(), s.accountID(r), ticker); err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"removed": models.NormalizeTicker(ticker)})
}
