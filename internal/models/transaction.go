package models

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind discriminates buy and sell transactions.
type TransactionKind string

const (
	TransactionBuy  TransactionKind = "buy"
	TransactionSell TransactionKind = "sell"
)

// Transaction validation errors, surfaced at the input boundary.
var (
	ErrInvalidKind    = errors.New("transaction kind must be buy or sell")
	ErrNonPositiveQty = errors.New("transaction quantity must be positive")
	ErrNegativePrice  = errors.New("transaction unit price must not be negative")
	ErrMissingDate    = errors.New("transaction date is required")
	ErrMissingTicker  = errors.New("transaction ticker is required")
)

// Transaction is an immutable buy/sell fact for one instrument in one account.
// Edits replace quantity/price/date for the same id; Seq preserves insertion
// order so same-day transactions replay deterministically.
type Transaction struct {
	ID         string          `json:"id" badgerhold:"key"`
	AccountID  string          `json:"account_id" badgerhold:"index"`
	Ticker     string          `json:"ticker" badgerhold:"index"` // normalized, exchange-qualified
	Kind       TransactionKind `json:"kind"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	OccurredOn time.Time       `json:"occurred_on"`
	Note       string          `json:"note,omitempty"`
	Seq        int64           `json:"seq"` // insertion order, tiebreak for same-day replays
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Validate checks structural validity. Oversell checks need the full history
// and happen in the portfolio service before the transaction is accepted.
func (t *Transaction) Validate() error {
	if t.Kind != TransactionBuy && t.Kind != TransactionSell {
		return fmt.Errorf("%w: %q", ErrInvalidKind, t.Kind)
	}
	if t.Quantity <= 0 {
		return fmt.Errorf("%w: %d", ErrNonPositiveQty, t.Quantity)
	}
	if t.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativePrice, t.UnitPrice)
	}
	if t.OccurredOn.IsZero() {
		return ErrMissingDate
	}
	if t.Ticker == "" {
		return ErrMissingTicker
	}
	return nil
}

// Amount returns quantity * unit price.
func (t *Transaction) Amount() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(t.Quantity))
}

// SortTransactions orders transactions chronologically by OccurredOn,
// breaking ties by insertion order. The ledger fold depends on this ordering.
func SortTransactions(txs []*Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].OccurredOn.Equal(txs[j].OccurredOn) {
			return txs[i].Seq < txs[j].Seq
		}
		return txs[i].OccurredOn.Before(txs[j].OccurredOn)
	})
}

// GroupByTicker buckets transactions by normalized ticker, preserving order.
func GroupByTicker(txs []*Transaction) map[string][]*Transaction {
	grouped := make(map[string][]*Transaction)
	for _, tx := range txs {
		ticker := NormalizeTicker(tx.Ticker)
		grouped[ticker] = append(grouped[ticker], tx)
	}
	return grouped
}
