// Package ledger derives positions, sold lots, and valuations from raw
// transaction history. Everything here is a pure fold over ordered
// transactions — there is no persisted derived state that could drift from
// the transactions themselves. Money arithmetic stays in decimal end to end;
// rounding to float happens only at the presentation edge (see valuation.go).
package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kabu-app/kabu/internal/models"
)

// ErrOversell is returned when a sell exceeds the quantity held at that point
// in the sequence. The ledger never clamps to zero — the caller must reject
// the transaction at the boundary.
var ErrOversell = errors.New("sell quantity exceeds held quantity")

// episode accumulates one buy→zero cycle. The exported PositionState carries
// the open-position fields; sell proceeds and the last sell date are only
// needed once the episode closes into a SoldLot.
type episode struct {
	state           models.PositionState
	totalSellAmount decimal.Decimal
}

// Fold replays transactions for one instrument in chronological order
// (ties broken by insertion order) and returns the current open episode's
// position state. Closed episodes are discarded; use Partition to keep them.
func Fold(txs []*models.Transaction) (*models.PositionState, error) {
	open, _, err := Partition(txs)
	return open, err
}

// Partition replays the full history and splits it into zero or more closed
// SoldLots plus the single currently-open position state. A new episode
// begins with the transaction following a zero-quantity point; an episode
// closes at the first transaction driving quantity back to exactly zero.
//
// The input slice is not mutated; ordering is applied to a copy.
func Partition(txs []*models.Transaction) (*models.PositionState, []models.SoldLot, error) {
	sorted := make([]*models.Transaction, len(txs))
	copy(sorted, txs)
	models.SortTransactions(sorted)

	ticker := ""
	if len(sorted) > 0 {
		ticker = models.NormalizeTicker(sorted[0].Ticker)
	}

	open := newEpisode(ticker)
	var lots []models.SoldLot

	for _, tx := range sorted {
		if err := tx.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid transaction %s: %w", tx.ID, err)
		}

		switch tx.Kind {
		case models.TransactionBuy:
			applyBuy(open, tx)

		case models.TransactionSell:
			if tx.Quantity > open.state.Quantity {
				return nil, nil, fmt.Errorf("%w: ticker %s, sell %d, held %d",
					ErrOversell, ticker, tx.Quantity, open.state.Quantity)
			}
			applySell(open, tx)

			if open.state.Quantity == 0 {
				lots = append(lots, closeLot(open, tx))
				open = newEpisode(ticker)
			}
		}
	}

	state := open.state
	return &state, lots, nil
}

func newEpisode(ticker string) *episode {
	return &episode{
		state: models.PositionState{
			Ticker:       ticker,
			AverageCost:  decimal.Zero,
			RealizedGain: decimal.Zero,
			TotalBuyCost: decimal.Zero,
		},
		totalSellAmount: decimal.Zero,
	}
}

// applyBuy adds the purchase and recomputes the weighted-average cost:
// total cost of all buys this episode divided by total bought quantity.
func applyBuy(ep *episode, tx *models.Transaction) {
	if ep.state.TotalBuyQuantity == 0 {
		ep.state.FirstPurchase = tx.OccurredOn
	}
	ep.state.TotalBuyCost = ep.state.TotalBuyCost.Add(tx.Amount())
	ep.state.TotalBuyQuantity += tx.Quantity
	ep.state.Quantity += tx.Quantity
	if ep.state.TotalBuyQuantity > 0 {
		ep.state.AverageCost = ep.state.TotalBuyCost.Div(decimal.NewFromInt(ep.state.TotalBuyQuantity))
	} else {
		ep.state.AverageCost = decimal.Zero
	}
	ep.state.Transactions = append(ep.state.Transactions, tx)
}

// applySell reduces quantity and accrues realized gain against the average
// cost at the time of sale. Average cost itself never changes on a sell.
func applySell(ep *episode, tx *models.Transaction) {
	ep.state.Quantity -= tx.Quantity
	gain := tx.UnitPrice.Sub(ep.state.AverageCost).Mul(decimal.NewFromInt(tx.Quantity))
	ep.state.RealizedGain = ep.state.RealizedGain.Add(gain)
	ep.totalSellAmount = ep.totalSellAmount.Add(tx.Amount())
	ep.state.Transactions = append(ep.state.Transactions, tx)
}

// closeLot freezes a finished episode into an immutable SoldLot. Realized
// profit for a closed lot is total sell proceeds minus total buy cost — for
// a fully-exited position the two accounting views coincide.
func closeLot(ep *episode, closing *models.Transaction) models.SoldLot {
	lot := models.SoldLot{
		Ticker:            ep.state.Ticker,
		FirstPurchaseDate: ep.state.FirstPurchase,
		LastSellDate:      closing.OccurredOn,
		TotalBuyQuantity:  ep.state.TotalBuyQuantity,
		TotalBuyAmount:    ep.state.TotalBuyCost,
		TotalSellAmount:   ep.totalSellAmount,
		RealizedProfit:    ep.totalSellAmount.Sub(ep.state.TotalBuyCost),
		Transactions:      ep.state.Transactions,
	}
	if ep.state.TotalBuyCost.IsPositive() {
		pct, _ := lot.RealizedProfit.
			Div(ep.state.TotalBuyCost).
			Mul(decimal.NewFromInt(100)).
			Float64()
		lot.RealizedProfitPercent = &pct
	}
	return lot
}
