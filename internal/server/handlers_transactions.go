package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kabu-app/kabu/internal/ledger"
	"github.com/kabu-app/kabu/internal/models"
)

// transactionRequest is the payload for creating or editing a transaction.
type transactionRequest struct {
	Ticker    string  `json:"ticker" validate:"required"`
	Kind      string  `json:"kind" validate:"required,oneof=buy sell"`
	Quantity  int64   `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	Date      string  `json:"date" validate:"required"` // 2006-01-02
	Note      string  `json:"note,omitempty"`
}

func (s *Server) transactionFromRequest(req *transactionRequest, accountID string) (*models.Transaction, string) {
	if err := s.validate.Struct(req); err != nil {
		return nil, "Invalid transaction: " + err.Error()
	}
	occurredOn, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, "Invalid date, expected YYYY-MM-DD: " + err.Error()
	}
	return &models.Transaction{
		AccountID:  accountID,
		Ticker:     req.Ticker,
		Kind:       models.TransactionKind(req.Kind),
		Quantity:   req.Quantity,
		UnitPrice:  decimal.NewFromFloat(req.UnitPrice),
		OccurredOn: occurredOn,
		Note:       req.Note,
	}, ""
}

// handleTransactions handles GET and POST /api/transactions.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleTransactionList(w, r)
	case http.MethodPost:
		s.handleTransactionCreate(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	txs, err := s.app.PortfolioService.ListTransactions(r.Context(), s.accountID(r), r.URL.Query().Get("ticker"))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
		"count":        len(txs),
	})
}

func (s *Server) handleTransactionCreate(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	tx, msg := s.transactionFromRequest(&req, s.accountID(r))
	if msg != "" {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.app.PortfolioService.AddTransaction(r.Context(), tx); err != nil {
		writeTransactionError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, tx)
}

// routeTransaction handles PUT and DELETE /api/transactions/{id}.
func (s *Server) routeTransaction(w http.ResponseWriter, r *http.Request) {
	id := PathParam(r, "/api/transactions/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Transaction id is required")
		return
	}

	switch r.Method {
	case http.MethodPut:
		s.handleTransactionUpdate(w, r, id)
	case http.MethodDelete:
		s.handleTransactionDelete(w, r, id)
	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

func (s *Server) handleTransactionUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req transactionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	tx, msg := s.transactionFromRequest(&req, s.accountID(r))
	if msg != "" {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}
	tx.ID = id

	if err := s.app.PortfolioService.UpdateTransaction(r.Context(), tx); err != nil {
		writeTransactionError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, tx)
}

func (s *Server) handleTransactionDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.app.PortfolioService.DeleteTransaction(r.Context(), s.accountID(r), id); err != nil {
		writeTransactionError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// writeTransactionError maps rejected inputs to 422 and everything else to 500.
func writeTransactionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrOversell),
		errors.Is(err, models.ErrInvalidKind),
		errors.Is(err, models.ErrNonPositiveQty),
		errors.Is(err, models.ErrNegativePrice),
		errors.Is(err, models.ErrMissingDate),
		errors.Is(err, models.ErrMissingTicker):
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
