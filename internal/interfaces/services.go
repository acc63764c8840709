package interfaces

import (
	"context"

	"github.com/kabu-app/kabu/internal/models"
)

// PortfolioService derives the portfolio view from transaction history.
type PortfolioService interface {
	// ComputePortfolio replays transactions into open holdings joined with
	// current quotes, plus the aggregate summary.
	ComputePortfolio(ctx context.Context, accountID string) (*models.Portfolio, error)

	// ComputeSoldLots returns the closed episodes for an account, enriched
	// with hypothetical valuations where quotes are available.
	ComputeSoldLots(ctx context.Context, accountID string) ([]models.SoldLot, error)

	// Transaction boundary: structural validation plus oversell rejection
	// against the replayed history.
	AddTransaction(ctx context.Context, tx *models.Transaction) error
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, accountID, id string) error
	ListTransactions(ctx context.Context, accountID, ticker string) ([]*models.Transaction, error)
}

// SignalService classifies candlestick signals for a ticker.
type SignalService interface {
	ClassifyLatestSignal(ctx context.Context, ticker string) (*models.SignalResult, error)
}

// WatchlistService manages tracked tickers.
type WatchlistService interface {
	Add(ctx context.Context, accountID, ticker, note string) (*models.WatchlistEntry, error)
	Remove(ctx context.Context, accountID, ticker string) error
	List(ctx context.Context, accountID string) ([]*models.WatchlistEntry, error)
}
