// Package storage wires the storage areas behind the StorageManager contract.
package storage

import (
	"fmt"

	"github.com/kabu-app/kabu/internal/common"
	"github.com/kabu-app/kabu/internal/interfaces"
	"github.com/kabu-app/kabu/internal/storage/badger"
)

// Manager coordinates the internal (system KV) and user (transactions,
// watchlist) storage areas, each its own BadgerHold database.
type Manager struct {
	internalStore *badger.Store
	userStore     *badger.Store

	transactions interfaces.TransactionStore
	watchlist    interfaces.WatchlistStore
	kv           interfaces.KeyValueStore

	logger *common.Logger
}

// NewManager opens both storage areas from config.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	internalStore, err := badger.NewStore(logger, config.Storage.Internal.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open internal store: %w", err)
	}

	userStore, err := badger.NewStore(logger, config.Storage.User.Path)
	if err != nil {
		internalStore.Close()
		return nil, fmt.Errorf("failed to open user store: %w", err)
	}

	return &Manager{
		internalStore: internalStore,
		userStore:     userStore,
		transactions:  badger.NewTransactionStorage(userStore, logger),
		watchlist:     badger.NewWatchlistStorage(userStore, logger),
		kv:            badger.NewKVStorage(internalStore, logger),
		logger:        logger,
	}, nil
}

func (m *Manager) TransactionStore() interfaces.TransactionStore {
	return m.transactions
}

func (m *Manager) WatchlistStore() interfaces.WatchlistStore {
	return m.watchlist
}

func (m *Manager) KeyValueStore() interfaces.KeyValueStore {
	return m.kv
}

// Close closes all storage areas, returning the first error encountered.
func (m *Manager) Close() error {
	var firstErr error
	if err := m.userStore.Close(); err != nil {
		firstErr = err
	}
	if err := m.internalStore.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Ensure Manager implements StorageManager
var _ interfaces.StorageManager = (*Manager)(nil)
