package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/kabu-app/kabu/internal/common"
	"github.com/kabu-app/kabu/internal/models"
)

type transactionStorage struct {
	store  *Store
	logger *common.Logger
}

// NewTransactionStorage creates a new TransactionStore backed by BadgerHold.
func NewTransactionStorage(store *Store, logger *common.Logger) *transactionStorage {
	return &transactionStorage{store: store, logger: logger}
}

func (s *transactionStorage) Create(_ context.Context, tx *models.Transaction) error {
	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	if tx.Seq == 0 {
		// Insertion-order tiebreak for same-day transactions. Unix nanos are
		// monotonic enough for a single-user write path.
		tx.Seq = now.UnixNano()
	}

	if err := s.store.db.Insert(tx.ID, tx); err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("transaction '%s' already exists", tx.ID)
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	s.logger.Debug().Str("id", tx.ID).Str("ticker", tx.Ticker).Msg("Transaction created")
	return nil
}

func (s *transactionStorage) Update(_ context.Context, tx *models.Transaction) error {
	var existing models.Transaction
	if err := s.store.db.Get(tx.ID, &existing); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("transaction '%s' not found", tx.ID)
		}
		return fmt.Errorf("failed to get transaction '%s': %w", tx.ID, err)
	}

	// Edits replace quantity/price/date/note for the same id. Seq and
	// CreatedAt carry over so replay order stays stable.
	tx.Seq = existing.Seq
	tx.CreatedAt = existing.CreatedAt
	tx.UpdatedAt = time.Now()

	if err := s.store.db.Update(tx.ID, tx); err != nil {
		return fmt.Errorf("failed to update transaction '%s': %w", tx.ID, err)
	}
	s.logger.Debug().Str("id", tx.ID).Msg("Transaction updated")
	return nil
}

func (s *transactionStorage) Delete(_ context.Context, accountID, id string) error {
	var existing models.Transaction
	if err := s.store.db.Get(id, &existing); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("transaction '%s' not found", id)
		}
		return fmt.Errorf("failed to get transaction '%s': %w", id, err)
	}
	if existing.AccountID != accountID {
		return fmt.Errorf("transaction '%s' not found", id)
	}

	if err := s.store.db.Delete(id, models.Transaction{}); err != nil {
		return fmt.Errorf("failed to delete transaction '%s': %w", id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Transaction deleted")
	return nil
}

func (s *transactionStorage) Get(_ context.Context, accountID, id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.store.db.Get(id, &tx); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("transaction '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get transaction '%s': %w", id, err)
	}
	if tx.AccountID != accountID {
		return nil, fmt.Errorf("transaction '%s' not found", id)
	}
	return &tx, nil
}

func (s *transactionStorage) ListByAccount(_ context.Context, accountID string) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	if err := s.store.db.Find(&txs, badgerhold.Where("AccountID").Eq(accountID).Index("AccountID")); err != nil {
		return nil, fmt.Errorf("failed to list transactions for account '%s': %w", accountID, err)
	}
	models.SortTransactions(txs)
	return txs, nil
}

func (s *transactionStorage) ListByTicker(_ context.Context, accountID, ticker string) ([]*models.Transaction, error) {
	normalized := models.NormalizeTicker(ticker)
	var txs []*models.Transaction
	query := badgerhold.Where("AccountID").Eq(accountID).Index("AccountID").
		And("Ticker").Eq(normalized)
	if err := s.store.db.Find(&txs, query); err != nil {
		return nil, fmt.Errorf("failed to list transactions for '%s': %w", normalized, err)
	}
	models.SortTransactions(txs)
	return txs, nil
}
