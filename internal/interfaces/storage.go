package interfaces

import (
	"context"

	"github.com/kabu-app/kabu/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	TransactionStore() TransactionStore
	WatchlistStore() WatchlistStore
	KeyValueStore() KeyValueStore

	// Lifecycle
	Close() error
}

// TransactionStore persists the append-only transaction facts. Ordered
// retrieval is by occurred-on date with insertion-order tiebreak, the order
// the ledger replays in.
type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, accountID, id string) error
	Get(ctx context.Context, accountID, id string) (*models.Transaction, error)
	ListByAccount(ctx context.Context, accountID string) ([]*models.Transaction, error)
	ListByTicker(ctx context.Context, accountID, ticker string) ([]*models.Transaction, error)
}

// WatchlistStore persists watchlist entries per account.
type WatchlistStore interface {
	Add(ctx context.Context, entry *models.WatchlistEntry) error
	Remove(ctx context.Context, accountID, ticker string) error
	List(ctx context.Context, accountID string) ([]*models.WatchlistEntry, error)
}

// KeyValueStore is the system KV area (schema version, runtime settings).
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
