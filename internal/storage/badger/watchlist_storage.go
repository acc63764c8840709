package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"

	"github.com/kabu-app/kabu/internal/common"
	"github.com/kabu-app/kabu/internal/models"
)

type watchlistStorage struct {
	store  *Store
	logger *common.Logger
}

// NewWatchlistStorage creates a new WatchlistStore backed by BadgerHold.
func NewWatchlistStorage(store *Store, logger *common.Logger) *watchlistStorage {
	return &watchlistStorage{store: store, logger: logger}
}

func (s *watchlistStorage) Add(_ context.Context, entry *models.WatchlistEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.Ticker = models.NormalizeTicker(entry.Ticker)
	entry.CreatedAt = time.Now()

	if err := s.store.db.Upsert(entry.ID, entry); err != nil {
		return fmt.Errorf("failed to add watchlist entry: %w", err)
	}
	s.logger.Debug().Str("ticker", entry.Ticker).Msg("Watchlist entry added")
	return nil
}

func (s *watchlistStorage) Remove(_ context.Context, accountID, ticker string) error {
	normalized := models.NormalizeTicker(ticker)
	query := badgerhold.Where("AccountID").Eq(accountID).Index("AccountID").
		And("Ticker").Eq(normalized)
	if err := s.store.db.DeleteMatching(models.WatchlistEntry{}, query); err != nil {
		return fmt.Errorf("failed to remove watchlist entry '%s': %w", normalized, err)
	}
	s.logger.Debug().Str("ticker", normalized).Msg("Watchlist entry removed")
	return nil
}

func (s *watchlistStorage) List(_ context.Context, accountID string) ([]*models.WatchlistEntry, error) {
	var entries []*models.WatchlistEntry
	if err := s.store.db.Find(&entries, badgerhold.Where("AccountID").Eq(accountID).Index("AccountID")); err != nil {
		return nil, fmt.Errorf("failed to list watchlist for account '%s': %w", accountID, err)
	}
	return entries, nil
}
