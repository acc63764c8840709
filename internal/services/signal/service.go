// Package signal classifies candlestick signals for a ticker.
package signal

import (
	"context"
	"fmt"
	"sync"

	"github.com/kabu-app/kabu/internal/common"
	"github.com/kabu-app/kabu/internal/interfaces"
	"github.com/kabu-app/kabu/internal/models"
	"github.com/kabu-app/kabu/internal/signals"
)

// barLookback covers the classification window with slack for non-trading days.
const barLookback = 10

// Service implements SignalService
type Service struct {
	quotes interfaces.QuoteClient
	logger *common.Logger

	mu    sync.Mutex
	cache map[string]*models.SignalResult
}

// NewService creates a new signal service
func NewService(quotes interfaces.QuoteClient, logger *common.Logger) *Service {
	return &Service{
		quotes: quotes,
		logger: logger,
		cache:  make(map[string]*models.SignalResult),
	}
}

// ClassifyLatestSignal fetches recent daily bars and classifies the latest
// one plus the trailing window tally. Results are cached per ticker for the
// signal freshness window so repeated requests don't re-fetch bars.
func (s *Service) ClassifyLatestSignal(ctx context.Context, ticker string) (*models.SignalResult, error) {
	normalized := models.NormalizeTicker(ticker)

	if cached := s.cachedResult(normalized); cached != nil {
		return cached, nil
	}

	bars, err := s.quotes.FetchDailyBars(ctx, normalized, barLookback)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bars for %s: %w", normalized, err)
	}

	result := signals.ClassifyWindow(normalized, bars)

	s.mu.Lock()
	s.cache[normalized] = result
	s.mu.Unlock()

	s.logger.Debug().
		Str("ticker", normalized).
		Str("signal", string(result.Latest.Signal)).
		Int("strength", result.Latest.Strength).
		Msg("Signal classified")

	return result, nil
}

func (s *Service) cachedResult(ticker string) *models.SignalResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	cached, ok := s.cache[ticker]
	if !ok || !common.IsFresh(cached.ComputeTimestamp, common.FreshnessSignals) {
		return nil
	}
	return cached
}

// Ensure Service implements SignalService
var _ interfaces.SignalService = (*Service)(nil)
