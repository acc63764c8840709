package models

import (
	"time"
)

// Quote holds the latest price for a ticker, or an explicit stale marker.
// A stale quote means "could not fetch" — distinct from a zero price. Quotes
// are advisory and time-bounded; they are never persisted as ground truth.
type Quote struct {
	Ticker string    `json:"ticker"`
	Price  float64   `json:"price"`
	AsOf   time.Time `json:"as_of"`
	Stale  bool      `json:"stale"`
	Source string    `json:"source,omitempty"`
}

// StaleQuote returns the explicit stale marker for a ticker.
func StaleQuote(ticker string) *Quote {
	return &Quote{Ticker: ticker, Stale: true}
}

// OHLCBar represents a single day's price bar.
type OHLCBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// SignalType classifies a candlestick reading.
type SignalType string

const (
	SignalBuy     SignalType = "buy"
	SignalSell    SignalType = "sell"
	SignalNeutral SignalType = "neutral"
)

// CandleSignal is the classification of a single bar.
type CandleSignal struct {
	Description string     `json:"description"`
	Signal      SignalType `json:"signal"`
	Strength    int        `json:"strength"` // 0-100
}

// SignalResult is the latest bar's classification plus a short-window tally.
type SignalResult struct {
	Ticker            string       `json:"ticker"`
	Date              time.Time    `json:"date"`
	Latest            CandleSignal `json:"latest"`
	RecentBuySignals  int          `json:"recent_buy_signals"`  // strength >= 60 over last 5 bars
	RecentSellSignals int          `json:"recent_sell_signals"` // strength >= 60 over last 5 bars
	ComputeTimestamp  time.Time    `json:"compute_timestamp"`
}
