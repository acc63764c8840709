package app

import (
	"context"
	"time"

	"github.com/kabu-app/kabu/internal/common"
	"github.com/kabu-app/kabu/internal/interfaces"
)

// lastRefreshKey records when the scheduler last completed a quote refresh.
const lastRefreshKey = "scheduler.last_quote_refresh"

// startQuoteScheduler re-polls quotes on a fixed interval by recomputing the
// default account's portfolio. The core has no caching discipline of its own
// — the refresh cadence lives here, in the caller. On startup a refresh runs
// immediately unless the persisted timestamp is still within the quote TTL.
func startQuoteScheduler(ctx context.Context, portfolioService interfaces.PortfolioService, kv interfaces.KeyValueStore, accountID string, logger *common.Logger, interval time.Duration) {
	if !lastRefreshFresh(ctx, kv) {
		refreshQuotes(ctx, portfolioService, kv, accountID, logger)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Quote scheduler: stopped")
			return
		case <-ticker.C:
			refreshQuotes(ctx, portfolioService, kv, accountID, logger)
		}
	}
}

// lastRefreshFresh reports whether the persisted refresh timestamp is still
// within the quote TTL. A missing or unparseable value counts as stale.
func lastRefreshFresh(ctx context.Context, kv interfaces.KeyValueStore) bool {
	raw, err := kv.Get(ctx, lastRefreshKey)
	if err != nil {
		return false
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return false
	}
	return common.IsFresh(ts, common.FreshnessQuote)
}

func refreshQuotes(ctx context.Context, portfolioService interfaces.PortfolioService, kv interfaces.KeyValueStore, accountID string, logger *common.Logger) {
	if accountID == "" {
		return
	}
	start := time.Now()

	pf, err := portfolioService.ComputePortfolio(ctx, accountID)
	if err != nil {
		logger.Warn().Err(err).Str("account", accountID).Msg("Quote refresh failed")
		return
	}

	if err := kv.Set(ctx, lastRefreshKey, time.Now().Format(time.RFC3339)); err != nil {
		logger.Warn().Err(err).Msg("Failed to record refresh timestamp")
	}

	logger.Info().
		Str("account", accountID).
		Int("holdings", pf.Summary.HoldingCount).
		Int("stale", len(pf.Summary.StaleTickers)).
		Dur("elapsed", time.Since(start)).
		Msg("Quote refresh complete")
}
