package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kabu-app/kabu/internal/models"
)

// ValuePosition joins an open position with its quote. A stale (or absent)
// quote leaves the quote-dependent figures nil — "don't know" must stay
// distinguishable from "no gain". A stale quote that still carries a last
// known price is surfaced as a frozen final price for delisting-adjacent
// display, without pretending the valuation is current.
func ValuePosition(pos *models.PositionState, quote *models.Quote) models.Holding {
	h := models.Holding{
		Ticker:       pos.Ticker,
		DisplayCode:  models.StripSuffix(pos.Ticker),
		Quantity:     pos.Quantity,
		AverageCost:  pos.AverageCost.InexactFloat64(),
		CostBasis:    pos.CostBasis().InexactFloat64(),
		RealizedGain: pos.RealizedGain.InexactFloat64(),
	}

	if quote == nil || quote.Stale {
		h.PriceStale = true
		if quote != nil && quote.Price > 0 {
			last := quote.Price
			h.LastKnownPrice = &last
			h.PriceAsOf = quote.AsOf
		}
		return h
	}

	price := decimal.NewFromFloat(quote.Price)
	marketValue := price.Mul(decimal.NewFromInt(pos.Quantity))
	unrealized := marketValue.Sub(pos.CostBasis())

	cp := quote.Price
	mv := marketValue.InexactFloat64()
	ug := unrealized.InexactFloat64()
	h.CurrentPrice = &cp
	h.MarketValue = &mv
	h.UnrealizedGain = &ug
	h.PriceAsOf = quote.AsOf

	if pos.CostBasis().IsPositive() {
		pct, _ := unrealized.Div(pos.CostBasis()).Mul(decimal.NewFromInt(100)).Float64()
		h.UnrealizedGainPct = &pct
	}

	return h
}

// EnrichSoldLot attaches the hypothetical "what if I had never sold"
// valuation to a closed lot when a live quote is available. The figures are
// framing only and never feed realized totals.
func EnrichSoldLot(lot *models.SoldLot, quote *models.Quote) {
	if quote == nil || quote.Stale {
		return
	}
	value := decimal.NewFromFloat(quote.Price).Mul(decimal.NewFromInt(lot.TotalBuyQuantity))
	profit := value.Sub(lot.TotalBuyAmount)

	hv := value.InexactFloat64()
	hp := profit.InexactFloat64()
	lot.HypotheticalValue = &hv
	lot.HypotheticalProfit = &hp
}

// Summarize aggregates valued holdings and closed lots into the portfolio
// summary. Missing quotes never block aggregation: valued holdings contribute
// to market value and unrealized gain, stale ones are reported in
// StaleTickers so the caller knows the totals are partial.
func Summarize(accountID string, holdings []models.Holding, lots []models.SoldLot) models.PortfolioSummary {
	summary := models.PortfolioSummary{
		AccountID:      accountID,
		ComputedAt:     time.Now(),
		HoldingCount:   len(holdings),
		ClosedLotCount: len(lots),
	}

	for _, h := range holdings {
		summary.TotalCostBasis += h.CostBasis
		if h.PriceStale {
			summary.Partial = true
			summary.StaleTickers = append(summary.StaleTickers, h.Ticker)
			continue
		}
		if h.MarketValue != nil {
			summary.TotalMarketValue += *h.MarketValue
		}
		if h.UnrealizedGain != nil {
			summary.TotalUnrealizedGain += *h.UnrealizedGain
		}
	}

	realized := decimal.Zero
	pctSum := 0.0
	pctCount := 0
	for _, lot := range lots {
		realized = realized.Add(lot.RealizedProfit)
		if lot.RealizedProfit.IsPositive() {
			summary.WinCount++
		} else {
			summary.LoseCount++ // break-even counts as a loss
		}
		if lot.RealizedProfitPercent != nil {
			pctSum += *lot.RealizedProfitPercent
			pctCount++
		}
	}
	summary.TotalRealizedProfit = realized.InexactFloat64()
	summary.TotalGain = summary.TotalUnrealizedGain + summary.TotalRealizedProfit

	if len(lots) > 0 {
		rate := float64(summary.WinCount) / float64(summary.WinCount+summary.LoseCount) * 100
		summary.WinRate = &rate
	}
	if pctCount > 0 {
		avg := pctSum / float64(pctCount)
		summary.AverageReturn = &avg
	}

	return summary
}

// ComputeWeights fills each valued holding's portfolio weight percentage.
// Stale holdings have no market value and keep a nil weight.
func ComputeWeights(holdings []models.Holding) []models.Holding {
	total := 0.0
	for _, h := range holdings {
		if h.MarketValue != nil {
			total += *h.MarketValue
		}
	}
	if total <= 0 {
		return holdings
	}
	for i := range holdings {
		if holdings[i].MarketValue != nil {
			w := *holdings[i].MarketValue / total * 100
			holdings[i].WeightPct = &w
		}
	}
	return holdings
}
