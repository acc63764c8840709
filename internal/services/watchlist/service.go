// Package watchlist manages tracked tickers per account.
package watchlist

import (
	"context"
	"fmt"

	"github.com/kabu-app/kabu/internal/common"
	"github.com/kabu-app/kabu/internal/interfaces"
	"github.com/kabu-app/kabu/internal/models"
)

// Service implements WatchlistService
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new watchlist service
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{storage: storage, logger: logger}
}

// Add tracks a ticker. Matching is duplicate-insensitive on the bare code,
// so "7203" and "7203.T" are the same entry.
func (s *Service) Add(ctx context.Context, accountID, ticker, note string) (*models.WatchlistEntry, error) {
	normalized := models.NormalizeTicker(ticker)
	if normalized == "" {
		return nil, fmt.Errorf("ticker is required")
	}

	existing, err := s.storage.WatchlistStore().List(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to check watchlist: %w", err)
	}
	for _, entry := range existing {
		if models.StripSuffix(entry.Ticker) == models.StripSuffix(normalized) {
			return entry, nil // already tracked
		}
	}

	entry := &models.WatchlistEntry{
		AccountID: accountID,
		Ticker:    normalized,
		Note:      note,
	}
	if err := s.storage.WatchlistStore().Add(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info().Str("account", accountID).Str("ticker", normalized).Msg("Watchlist entry added")
	return entry, nil
}

// Remove stops tracking a ticker.
func (s *Service) Remove(ctx context.Context, accountID, ticker string) error {
	return s.storage.WatchlistStore().Remove(ctx, accountID, ticker)
}

// List returns all tracked tickers for the account.
func (s *Service) List(ctx context.Context, accountID string) ([]*models.WatchlistEntry, error) {
	return s.storage.WatchlistStore().List(ctx, accountID)
}

// Ensure Service implements WatchlistService
var _ interfaces.WatchlistService = (*Service)(nil)
