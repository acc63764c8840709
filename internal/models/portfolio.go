package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionState is the current open episode for one instrument, derived by
// replaying transactions. It is a pure projection — never persisted as an
// independently-mutable record.
type PositionState struct {
	Ticker           string          `json:"ticker"`
	Quantity         int64           `json:"quantity"`
	AverageCost      decimal.Decimal `json:"average_cost"`       // changes only on Buy
	RealizedGain     decimal.Decimal `json:"realized_gain"`      // accrued on Sell at avg cost, this episode
	TotalBuyQuantity int64           `json:"total_buy_quantity"` // this episode
	TotalBuyCost     decimal.Decimal `json:"total_buy_cost"`     // this episode
	FirstPurchase    time.Time       `json:"first_purchase,omitempty"`
	Transactions     []*Transaction  `json:"transactions,omitempty"`
}

// CostBasis returns average cost * remaining quantity.
func (p *PositionState) CostBasis() decimal.Decimal {
	return p.AverageCost.Mul(decimal.NewFromInt(p.Quantity))
}

// SoldLot is one fully-closed episode: bought, then sold back to exactly zero.
// Immutable once derived; multiple lots exist when the user re-enters later.
type SoldLot struct {
	Ticker                string          `json:"ticker"`
	FirstPurchaseDate     time.Time       `json:"first_purchase_date"`
	LastSellDate          time.Time       `json:"last_sell_date"`
	TotalBuyQuantity      int64           `json:"total_buy_quantity"`
	TotalBuyAmount        decimal.Decimal `json:"total_buy_amount"`
	TotalSellAmount       decimal.Decimal `json:"total_sell_amount"`
	RealizedProfit        decimal.Decimal `json:"realized_profit"`
	RealizedProfitPercent *float64        `json:"realized_profit_percent,omitempty"` // nil when total buy amount is zero
	Transactions          []*Transaction  `json:"transactions,omitempty"`

	// "What if I had never sold" framing — populated only when a current
	// quote is available, never mixed into realized totals.
	HypotheticalValue  *float64 `json:"hypothetical_value,omitempty"`
	HypotheticalProfit *float64 `json:"hypothetical_profit,omitempty"`
}

// Holding is the valued form of an open position for presentation. Money is
// rounded to float64 here, at the edge — the ledger itself stays decimal.
type Holding struct {
	Ticker       string  `json:"ticker"`
	DisplayCode  string  `json:"display_code"` // ticker without exchange suffix
	Quantity     int64   `json:"quantity"`
	AverageCost  float64 `json:"average_cost"`
	CostBasis    float64 `json:"cost_basis"`
	RealizedGain float64 `json:"realized_gain"` // current episode

	// Quote-dependent figures. Nil when the quote is stale: "don't know" is
	// distinct from zero.
	CurrentPrice      *float64 `json:"current_price,omitempty"`
	MarketValue       *float64 `json:"market_value,omitempty"`
	UnrealizedGain    *float64 `json:"unrealized_gain,omitempty"`
	UnrealizedGainPct *float64 `json:"unrealized_gain_pct,omitempty"`
	WeightPct         *float64 `json:"weight_pct,omitempty"`

	PriceStale     bool      `json:"price_stale"`
	PriceAsOf      time.Time `json:"price_as_of,omitempty"`
	LastKnownPrice *float64  `json:"last_known_price,omitempty"` // frozen final price for stale/delisted symbols
}

// PortfolioSummary aggregates open holdings and closed lots.
type PortfolioSummary struct {
	AccountID           string    `json:"account_id"`
	ComputedAt          time.Time `json:"computed_at"`
	HoldingCount        int       `json:"holding_count"`
	ClosedLotCount      int       `json:"closed_lot_count"`
	TotalMarketValue    float64   `json:"total_market_value"`    // valued holdings only
	TotalCostBasis      float64   `json:"total_cost_basis"`      // all open holdings
	TotalUnrealizedGain float64   `json:"total_unrealized_gain"` // valued holdings only
	TotalRealizedProfit float64   `json:"total_realized_profit"` // closed lots only; open-episode sells stay per-holding
	TotalGain           float64   `json:"total_gain"`

	WinCount      int      `json:"win_count"`
	LoseCount     int      `json:"lose_count"`
	WinRate       *float64 `json:"win_rate,omitempty"`       // nil when no closed lots
	AverageReturn *float64 `json:"average_return,omitempty"` // mean realized profit %, nil when no closed lots

	// Degradation reporting: aggregates computed from partial inputs list
	// the symbols whose quotes were stale.
	Partial      bool     `json:"partial"`
	StaleTickers []string `json:"stale_tickers,omitempty"`
}

// Portfolio is the full computed view returned to the presentation layer.
type Portfolio struct {
	AccountID string           `json:"account_id"`
	Holdings  []Holding        `json:"holdings"`
	Summary   PortfolioSummary `json:"summary"`
}

// WatchlistEntry is a ticker the user tracks without necessarily holding it.
type WatchlistEntry struct {
	ID        string    `json:"id" badgerhold:"key"`
	AccountID string    `json:"account_id" badgerhold:"index"`
	Ticker    string    `json:"ticker"` // normalized
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
