package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabu-app/kabu/internal/models"
)

func openPosition(qty int64, avgCost float64) *models.PositionState {
	return &models.PositionState{
		Ticker:      "7203.T",
		Quantity:    qty,
		AverageCost: decimal.NewFromFloat(avgCost),
	}
}

func TestValuePositionLiveQuote(t *testing.T) {
	pos := openPosition(50, 1100)
	quote := &models.Quote{Ticker: "7203.T", Price: 1250, AsOf: time.Now()}

	h := ValuePosition(pos, quote)

	assert.Equal(t, "7203", h.DisplayCode)
	assert.False(t, h.PriceStale)
	require.NotNil(t, h.CurrentPrice)
	require.NotNil(t, h.MarketValue)
	require.NotNil(t, h.UnrealizedGain)
	require.NotNil(t, h.UnrealizedGainPct)
	assert.Equal(t, 1250.0, *h.CurrentPrice)
	assert.Equal(t, 62500.0, *h.MarketValue)
	assert.Equal(t, 7500.0, *h.UnrealizedGain)
	assert.InDelta(t, 13.636, *h.UnrealizedGainPct, 0.001)
}

func TestValuePositionStaleQuote(t *testing.T) {
	pos := openPosition(50, 1100)

	h := ValuePosition(pos, models.StaleQuote("7203.T"))

	assert.True(t, h.PriceStale)
	// "don't know" — not zero
	assert.Nil(t, h.CurrentPrice)
	assert.Nil(t, h.MarketValue)
	assert.Nil(t, h.UnrealizedGain)
	assert.Nil(t, h.UnrealizedGainPct)
	// Cost-derived figures survive without a quote
	assert.Equal(t, 55000.0, h.CostBasis)
}

func TestValuePositionNilQuote(t *testing.T) {
	h := ValuePosition(openPosition(10, 100), nil)
	assert.True(t, h.PriceStale)
	assert.Nil(t, h.MarketValue)
}

func TestValuePositionStaleWithLastKnownPrice(t *testing.T) {
	asOf := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	quote := &models.Quote{Ticker: "7203.T", Price: 980, AsOf: asOf, Stale: true}

	h := ValuePosition(openPosition(10, 1000), quote)

	assert.True(t, h.PriceStale)
	assert.Nil(t, h.MarketValue)
	require.NotNil(t, h.LastKnownPrice)
	assert.Equal(t, 980.0, *h.LastKnownPrice)
	assert.Equal(t, asOf, h.PriceAsOf)
}

func TestEnrichSoldLot(t *testing.T) {
	lot := &models.SoldLot{
		Ticker:           "7203.T",
		TotalBuyQuantity: 200,
		TotalBuyAmount:   decimal.NewFromInt(220000),
	}

	EnrichSoldLot(lot, &models.Quote{Ticker: "7203.T", Price: 1500})

	require.NotNil(t, lot.HypotheticalValue)
	require.NotNil(t, lot.HypotheticalProfit)
	assert.Equal(t, 300000.0, *lot.HypotheticalValue)
	assert.Equal(t, 80000.0, *lot.HypotheticalProfit)
}

func TestEnrichSoldLotStaleQuote(t *testing.T) {
	lot := &models.SoldLot{Ticker: "7203.T", TotalBuyQuantity: 200}

	EnrichSoldLot(lot, models.StaleQuote("7203.T"))
	EnrichSoldLot(lot, nil)

	assert.Nil(t, lot.HypotheticalValue)
	assert.Nil(t, lot.HypotheticalProfit)
}

func lotWithProfit(profit float64) models.SoldLot {
	buyAmount := decimal.NewFromInt(100000)
	p := decimal.NewFromFloat(profit)
	pct, _ := p.Div(buyAmount).Mul(decimal.NewFromInt(100)).Float64()
	return models.SoldLot{
		Ticker:                "7203.T",
		TotalBuyAmount:        buyAmount,
		RealizedProfit:        p,
		RealizedProfitPercent: &pct,
	}
}

func TestSummarizeTotals(t *testing.T) {
	mv1, ug1 := 62500.0, 7500.0
	mv2, ug2 := 30000.0, -2000.0
	holdings := []models.Holding{
		{Ticker: "7203.T", CostBasis: 55000, MarketValue: &mv1, UnrealizedGain: &ug1},
		{Ticker: "9984.T", CostBasis: 32000, MarketValue: &mv2, UnrealizedGain: &ug2},
	}
	lots := []models.SoldLot{lotWithProfit(20000)}

	s := Summarize("default", holdings, lots)

	assert.Equal(t, "default", s.AccountID)
	assert.Equal(t, 2, s.HoldingCount)
	assert.Equal(t, 1, s.ClosedLotCount)
	assert.Equal(t, 92500.0, s.TotalMarketValue)
	assert.Equal(t, 87000.0, s.TotalCostBasis)
	assert.Equal(t, 5500.0, s.TotalUnrealizedGain)
	assert.Equal(t, 20000.0, s.TotalRealizedProfit)
	assert.Equal(t, 25500.0, s.TotalGain)
	assert.False(t, s.Partial)
}

func TestSummarizePartialOnStaleQuote(t *testing.T) {
	mv, ug := 62500.0, 7500.0
	holdings := []models.Holding{
		{Ticker: "7203.T", CostBasis: 55000, MarketValue: &mv, UnrealizedGain: &ug},
		{Ticker: "9984.T", CostBasis: 32000, PriceStale: true},
	}

	s := Summarize("default", holdings, nil)

	assert.True(t, s.Partial)
	assert.Equal(t, []string{"9984.T"}, s.StaleTickers)
	// Stale holding still contributes cost basis, never market value
	assert.Equal(t, 87000.0, s.TotalCostBasis)
	assert.Equal(t, 62500.0, s.TotalMarketValue)
	assert.Equal(t, 7500.0, s.TotalUnrealizedGain)
}

func TestSummarizeWinLose(t *testing.T) {
	lots := []models.SoldLot{
		lotWithProfit(20000),
		lotWithProfit(-5000),
		lotWithProfit(0), // break-even counts as a loss
		lotWithProfit(1000),
	}

	s := Summarize("default", nil, lots)

	assert.Equal(t, 2, s.WinCount)
	assert.Equal(t, 2, s.LoseCount)
	require.NotNil(t, s.WinRate)
	assert.Equal(t, 50.0, *s.WinRate)
	require.NotNil(t, s.AverageReturn)
	assert.InDelta(t, 4.0, *s.AverageReturn, 0.001)
}

func TestSummarizeNoClosedLots(t *testing.T) {
	s := Summarize("default", nil, nil)

	assert.Nil(t, s.WinRate)
	assert.Nil(t, s.AverageReturn)
	assert.Equal(t, 0.0, s.TotalRealizedProfit)
}

func TestComputeWeights(t *testing.T) {
	mv1, mv2 := 75000.0, 25000.0
	holdings := []models.Holding{
		{Ticker: "7203.T", MarketValue: &mv1},
		{Ticker: "9984.T", MarketValue: &mv2},
		{Ticker: "6758.T", PriceStale: true},
	}

	holdings = ComputeWeights(holdings)

	require.NotNil(t, holdings[0].WeightPct)
	require.NotNil(t, holdings[1].WeightPct)
	assert.Equal(t, 75.0, *holdings[0].WeightPct)
	assert.Equal(t, 25.0, *holdings[1].WeightPct)
	assert.Nil(t, holdings[2].WeightPct)
}

func TestComputeWeightsNoValue(t *testing.T) {
	holdings := ComputeWeights([]models.Holding{{Ticker: "7203.T", PriceStale: true}})
	assert.Nil(t, holdings[0].WeightPct)
}
