// Package signals provides deterministic candlestick signal classification.
package signals

import (
	"math"
	"time"

	"github.com/kabu-app/kabu/internal/models"
)

// Classification thresholds. Fixed values — outputs must be stable because
// the recommendation text downstream keys off exact strengths.
const (
	largeBodyRatio = 0.6
	smallBodyRatio = 0.2
	longWickRatio  = 0.3

	// window tally
	windowSize        = 5
	strongSignalFloor = 60
)

// ClassifyBar labels a single OHLC bar with a description, a buy/sell/neutral
// signal, and a 0-100 strength score.
func ClassifyBar(bar models.OHLCBar) models.CandleSignal {
	body := math.Abs(bar.Close - bar.Open)
	barRange := bar.High - bar.Low

	if barRange <= 0 || barRange < bar.Close*1e-9 {
		return models.CandleSignal{
			Description: "flat bar - no range",
			Signal:      models.SignalNeutral,
			Strength:    30,
		}
	}

	bodyRatio := body / barRange
	upperWick := (bar.High - math.Max(bar.Open, bar.Close)) / barRange
	lowerWick := (math.Min(bar.Open, bar.Close) - bar.Low) / barRange

	if bar.Close >= bar.Open {
		return classifyUp(bodyRatio, upperWick, lowerWick)
	}
	return classifyDown(bodyRatio, upperWick, lowerWick)
}

func classifyUp(bodyRatio, upperWick, lowerWick float64) models.CandleSignal {
	switch {
	case bodyRatio >= largeBodyRatio && upperWick < longWickRatio && lowerWick < longWickRatio:
		return models.CandleSignal{Description: "strong up move", Signal: models.SignalBuy, Strength: 80}
	case lowerWick >= longWickRatio:
		return models.CandleSignal{Description: "bottom reversal", Signal: models.SignalBuy, Strength: 75}
	case upperWick >= longWickRatio:
		return models.CandleSignal{Description: "pullback from highs", Signal: models.SignalSell, Strength: 60}
	case bodyRatio <= smallBodyRatio:
		// Unreachable: a body this small leaves the wicks summing to at least
		// 0.8 of the range, so one of the wick cases above always matches.
		// Kept so the switch covers the full ratio table.
		return models.CandleSignal{Description: "creeping rise", Signal: models.SignalBuy, Strength: 45}
	default:
		return models.CandleSignal{Description: "modest up move", Signal: models.SignalBuy, Strength: 55}
	}
}

func classifyDown(bodyRatio, upperWick, lowerWick float64) models.CandleSignal {
	switch {
	case bodyRatio >= largeBodyRatio && upperWick < longWickRatio && lowerWick < longWickRatio:
		return models.CandleSignal{Description: "strong down move", Signal: models.SignalSell, Strength: 80}
	case upperWick >= longWickRatio:
		return models.CandleSignal{Description: "top reversal", Signal: models.SignalSell, Strength: 75}
	case lowerWick >= longWickRatio:
		return models.CandleSignal{Description: "selling absorbed", Signal: models.SignalBuy, Strength: 60}
	case bodyRatio <= smallBodyRatio:
		// Unreachable for the same reason as classifyUp's creeping case.
		return models.CandleSignal{Description: "creeping decline", Signal: models.SignalSell, Strength: 45}
	default:
		return models.CandleSignal{Description: "modest down move", Signal: models.SignalSell, Strength: 55}
	}
}

// ClassifyWindow classifies the most recent bar and tallies strong signals
// over the trailing window. Bars must be ordered oldest to newest; the last
// element is the latest bar.
func ClassifyWindow(ticker string, bars []models.OHLCBar) *models.SignalResult {
	result := &models.SignalResult{
		Ticker:           ticker,
		ComputeTimestamp: time.Now(),
	}
	if len(bars) == 0 {
		result.Latest = models.CandleSignal{
			Description: "no data",
			Signal:      models.SignalNeutral,
			Strength:    0,
		}
		return result
	}

	latest := bars[len(bars)-1]
	result.Date = latest.Date
	result.Latest = ClassifyBar(latest)

	start := len(bars) - windowSize
	if start < 0 {
		start = 0
	}
	for _, bar := range bars[start:] {
		sig := ClassifyBar(bar)
		if sig.Strength < strongSignalFloor {
			continue
		}
		switch sig.Signal {
		case models.SignalBuy:
			result.RecentBuySignals++
		case models.SignalSell:
			result.RecentSellSignals++
		}
	}

	return result
}
