package badger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabu-app/kabu/internal/common"
	"github.com/kabu-app/kabu/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testTransaction(id, ticker string, d time.Time) *models.Transaction {
	return &models.Transaction{
		ID:         id,
		AccountID:  "default",
		Ticker:     ticker,
		Kind:       models.TransactionBuy,
		Quantity:   100,
		UnitPrice:  decimal.NewFromInt(1000),
		OccurredOn: d,
	}
}

func TestTransactionStorageCRUD(t *testing.T) {
	storage := NewTransactionStorage(newTestStore(t), common.NewSilentLogger())
	ctx := context.Background()
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	tx := testTransaction("tx-1", "7203.T", day)
	require.NoError(t, storage.Create(ctx, tx))
	assert.NotZero(t, tx.Seq, "seq assigned on create")
	assert.False(t, tx.CreatedAt.IsZero())

	// Duplicate id rejected
	assert.Error(t, storage.Create(ctx, testTransaction("tx-1", "7203.T", day)))

	got, err := storage.Get(ctx, "default", "tx-1")
	require.NoError(t, err)
	assert.Equal(t, "7203.T", got.Ticker)
	assert.True(t, got.UnitPrice.Equal(decimal.NewFromInt(1000)))

	// Update replaces fields but preserves Seq and CreatedAt
	updated := testTransaction("tx-1", "7203.T", day)
	updated.Quantity = 200
	require.NoError(t, storage.Update(ctx, updated))
	assert.Equal(t, tx.Seq, updated.Seq)
	assert.Equal(t, tx.CreatedAt.Unix(), updated.CreatedAt.Unix())

	got, err = storage.Get(ctx, "default", "tx-1")
	require.NoError(t, err)
	assert.Equal(t, int64(200), got.Quantity)

	require.NoError(t, storage.Delete(ctx, "default", "tx-1"))
	_, err = storage.Get(ctx, "default", "tx-1")
	assert.Error(t, err)
}

func TestTransactionStorageAccountScoping(t *testing.T) {
	storage := NewTransactionStorage(newTestStore(t), common.NewSilentLogger())
	ctx := context.Background()
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, storage.Create(ctx, testTransaction("tx-1", "7203.T", day)))

	_, err := storage.Get(ctx, "other-account", "tx-1")
	assert.Error(t, err, "cross-account reads must look like not-found")
	assert.Error(t, storage.Delete(ctx, "other-account", "tx-1"))

	// Still present for the owning account
	_, err = storage.Get(ctx, "default", "tx-1")
	assert.NoError(t, err)
}

func TestTransactionStorageListOrdering(t *testing.T) {
	storage := NewTransactionStorage(newTestStore(t), common.NewSilentLogger())
	ctx := context.Background()

	// Inserted out of date order
	require.NoError(t, storage.Create(ctx, testTransaction("tx-b", "7203.T", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, storage.Create(ctx, testTransaction("tx-a", "7203.T", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, storage.Create(ctx, testTransaction("tx-c", "9984.T", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))))

	txs, err := storage.ListByAccount(ctx, "default")
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, "tx-a", txs[0].ID)
	assert.Equal(t, "tx-c", txs[1].ID)
	assert.Equal(t, "tx-b", txs[2].ID)

	byTicker, err := storage.ListByTicker(ctx, "default", "7203")
	require.NoError(t, err)
	require.Len(t, byTicker, 2)
	assert.Equal(t, "tx-a", byTicker[0].ID)
	assert.Equal(t, "tx-b", byTicker[1].ID)
}

func TestTransactionStorageSameDaySeqOrder(t *testing.T) {
	storage := NewTransactionStorage(newTestStore(t), common.NewSilentLogger())
	ctx := context.Background()
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, storage.Create(ctx, testTransaction("tx-first", "7203.T", day)))
	require.NoError(t, storage.Create(ctx, testTransaction("tx-second", "7203.T", day)))

	txs, err := storage.ListByTicker(ctx, "default", "7203.T")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "tx-first", txs[0].ID, "insertion order preserved for same-day transactions")
	assert.Equal(t, "tx-second", txs[1].ID)
}

func TestWatchlistStorage(t *testing.T) {
	storage := NewWatchlistStorage(newTestStore(t), common.NewSilentLogger())
	ctx := context.Background()

	entry := &models.WatchlistEntry{AccountID: "default", Ticker: "7203", Note: "watching"}
	require.NoError(t, storage.Add(ctx, entry))
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "7203.T", entry.Ticker, "ticker normalized on add")

	entries, err := storage.List(ctx, "default")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Unnormalized removal input still matches
	require.NoError(t, storage.Remove(ctx, "default", "7203"))
	entries, err = storage.List(ctx, "default")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestKVStorage(t *testing.T) {
	storage := NewKVStorage(newTestStore(t), common.NewSilentLogger())
	ctx := context.Background()

	_, err := storage.Get(ctx, "missing")
	assert.Error(t, err)

	require.NoError(t, storage.Set(ctx, "last_refresh", "2025-06-02T15:00:00Z"))
	v, err := storage.Get(ctx, "last_refresh")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02T15:00:00Z", v)

	// Overwrite
	require.NoError(t, storage.Set(ctx, "last_refresh", "2025-06-03T15:00:00Z"))
	v, err = storage.Get(ctx, "last_refresh")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-03T15:00:00Z", v)

	require.NoError(t, storage.Delete(ctx, "last_refresh"))
	_, err = storage.Get(ctx, "last_refresh")
	assert.Error(t, err)

	// Deleting a missing key is not an error
	assert.NoError(t, storage.Delete(ctx, "never-existed"))
}
