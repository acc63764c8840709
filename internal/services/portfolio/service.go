// Package portfolio derives the portfolio view from transaction history.
package portfolio

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kabu-app/kabu/internal/common"
	"github.com/kabu-app/kabu/internal/interfaces"
	"github.com/kabu-app/kabu/internal/ledger"
	"github.com/kabu-app/kabu/internal/models"
)

// Service implements PortfolioService
type Service struct {
	storage interfaces.StorageManager
	quotes  interfaces.QuoteClient
	logger  *common.Logger
}

// NewService creates a new portfolio service
func NewService(storage interfaces.StorageManager, quotes interfaces.QuoteClient, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		quotes:  quotes,
		logger:  logger,
	}
}

// ComputePortfolio replays all transactions for the account into open
// holdings, joins them with current quotes, and aggregates the summary.
// Holdings with stale quotes are still listed — their valuation fields stay
// unset and the summary reports the partial inputs.
func (s *Service) ComputePortfolio(ctx context.Context, accountID string) (*models.Portfolio, error) {
	txs, err := s.storage.TransactionStore().ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	grouped := models.GroupByTicker(txs)

	openPositions := make([]*models.PositionState, 0, len(grouped))
	var allClosed []models.SoldLot
	for ticker, tickerTxs := range grouped {
		open, closed, err := ledger.Partition(tickerTxs)
		if err != nil {
			return nil, fmt.Errorf("failed to replay %s: %w", ticker, err)
		}
		allClosed = append(allClosed, closed...)
		if open.Quantity > 0 {
			openPositions = append(openPositions, open)
		}
	}

	tickers := make([]string, 0, len(openPositions))
	for _, pos := range openPositions {
		tickers = append(tickers, pos.Ticker)
	}
	quotes := s.quotes.FetchQuotes(ctx, tickers)

	holdings := make([]models.Holding, 0, len(openPositions))
	for _, pos := range openPositions {
		holdings = append(holdings, ledger.ValuePosition(pos, quotes[pos.Ticker]))
	}
	holdings = ledger.ComputeWeights(holdings)

	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].Ticker < holdings[j].Ticker
	})

	summary := ledger.Summarize(accountID, holdings, allClosed)

	s.logger.Info().
		Str("account", accountID).
		Int("holdings", len(holdings)).
		Int("closed_lots", len(allClosed)).
		Bool("partial", summary.Partial).
		Msg("Portfolio computed")

	return &models.Portfolio{
		AccountID: accountID,
		Holdings:  holdings,
		Summary:   summary,
	}, nil
}

// ComputeSoldLots returns the closed episodes for the account, newest close
// first, enriched with the hypothetical "never sold" valuation where a live
// quote is available.
func (s *Service) ComputeSoldLots(ctx context.Context, accountID string) ([]models.SoldLot, error) {
	txs, err := s.storage.TransactionStore().ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	grouped := models.GroupByTicker(txs)

	var lots []models.SoldLot
	tickerSet := make(map[string]bool)
	for ticker, tickerTxs := range grouped {
		_, closed, err := ledger.Partition(tickerTxs)
		if err != nil {
			return nil, fmt.Errorf("failed to replay %s: %w", ticker, err)
		}
		if len(closed) > 0 {
			tickerSet[ticker] = true
			lots = append(lots, closed...)
		}
	}

	if len(lots) > 0 {
		tickers := make([]string, 0, len(tickerSet))
		for ticker := range tickerSet {
			tickers = append(tickers, ticker)
		}
		quotes := s.quotes.FetchQuotes(ctx, tickers)
		for i := range lots {
			ledger.EnrichSoldLot(&lots[i], quotes[lots[i].Ticker])
		}
	}

	sort.Slice(lots, func(i, j int) bool {
		return lots[i].LastSellDate.After(lots[j].LastSellDate)
	})

	return lots, nil
}

// AddTransaction validates and stores a new transaction. Sells are checked
// against the replayed history so an oversell is rejected here, at the
// boundary — the ledger itself never clamps.
func (s *Service) AddTransaction(ctx context.Context, tx *models.Transaction) error {
	tx.Ticker = models.NormalizeTicker(tx.Ticker)
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if err := tx.Validate(); err != nil {
		return err
	}

	if err := s.checkReplay(ctx, tx.AccountID, tx.Ticker, tx, ""); err != nil {
		return err
	}

	if err := s.storage.TransactionStore().Create(ctx, tx); err != nil {
		return fmt.Errorf("failed to store transaction: %w", err)
	}

	s.logger.Info().
		Str("account", tx.AccountID).
		Str("ticker", tx.Ticker).
		Str("kind", string(tx.Kind)).
		Int64("quantity", tx.Quantity).
		Msg("Transaction added")
	return nil
}

// UpdateTransaction replaces quantity/price/date/note for an existing id,
// re-validating the whole ticker history with the edit applied. An edit that
// would drive any point of the sequence negative is rejected.
func (s *Service) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	tx.Ticker = models.NormalizeTicker(tx.Ticker)
	if err := tx.Validate(); err != nil {
		return err
	}

	existing, err := s.storage.TransactionStore().Get(ctx, tx.AccountID, tx.ID)
	if err != nil {
		return err
	}
	tx.Seq = existing.Seq

	// An edit can move the transaction to a different ticker. Both histories
	// must replay cleanly: the old one without this transaction, the new one
	// with it.
	if existing.Ticker != tx.Ticker {
		if err := s.checkReplay(ctx, tx.AccountID, existing.Ticker, nil, tx.ID); err != nil {
			return fmt.Errorf("cannot move transaction off %s: %w", existing.Ticker, err)
		}
	}
	if err := s.checkReplay(ctx, tx.AccountID, tx.Ticker, tx, tx.ID); err != nil {
		return err
	}

	if err := s.storage.TransactionStore().Update(ctx, tx); err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	s.logger.Info().Str("id", tx.ID).Str("ticker", tx.Ticker).Msg("Transaction updated")
	return nil
}

// DeleteTransaction removes a transaction. Deleting a buy that later sells
// depend on is rejected for the same reason an oversell is.
func (s *Service) DeleteTransaction(ctx context.Context, accountID, id string) error {
	existing, err := s.storage.TransactionStore().Get(ctx, accountID, id)
	if err != nil {
		return err
	}

	if err := s.checkReplay(ctx, accountID, existing.Ticker, nil, id); err != nil {
		return fmt.Errorf("cannot delete transaction: %w", err)
	}

	if err := s.storage.TransactionStore().Delete(ctx, accountID, id); err != nil {
		return err
	}

	s.logger.Info().Str("id", id).Str("ticker", existing.Ticker).Msg("Transaction deleted")
	return nil
}

// ListTransactions returns the ordered history, optionally for one ticker.
func (s *Service) ListTransactions(ctx context.Context, accountID, ticker string) ([]*models.Transaction, error) {
	if ticker != "" {
		return s.storage.TransactionStore().ListByTicker(ctx, accountID, ticker)
	}
	return s.storage.TransactionStore().ListByAccount(ctx, accountID)
}

// checkReplay replays the ticker's history with the pending change applied:
// replace is the transaction to add or substitute (nil for pure deletion),
// excludeID is an existing id to drop. Partition surfaces ErrOversell when
// any point of the resulting sequence would go negative.
func (s *Service) checkReplay(ctx context.Context, accountID, ticker string, replace *models.Transaction, excludeID string) error {
	history, err := s.storage.TransactionStore().ListByTicker(ctx, accountID, ticker)
	if err != nil {
		return fmt.Errorf("failed to load history for %s: %w", ticker, err)
	}

	replay := make([]*models.Transaction, 0, len(history)+1)
	for _, tx := range history {
		if excludeID != "" && tx.ID == excludeID {
			continue
		}
		replay = append(replay, tx)
	}
	if replace != nil {
		candidate := *replace
		if candidate.Seq == 0 {
			candidate.Seq = time.Now().UnixNano()
		}
		replay = append(replay, &candidate)
	}

	if _, _, err := ledger.Partition(replay); err != nil {
		return err
	}
	return nil
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
