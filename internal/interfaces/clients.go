// Package interfaces defines service contracts for Kabu
package interfaces

import (
	"context"

	"github.com/kabu-app/kabu/internal/models"
)

// QuoteClient is the price/data layer contract. Implementations must return
// one entry per requested ticker — a symbol that cannot be fetched degrades
// to an explicit stale quote rather than failing the batch.
type QuoteClient interface {
	// FetchQuotes returns the latest quote per normalized ticker. The map
	// always contains every requested ticker.
	FetchQuotes(ctx context.Context, tickers []string) map[string]*models.Quote

	// FetchDailyBars returns up to lookback daily bars, ordered oldest to
	// newest. An unobtainable symbol returns an error; callers treat it as
	// data unavailability, not a batch failure.
	FetchDailyBars(ctx context.Context, ticker string, lookback int) ([]models.OHLCBar, error)
}
