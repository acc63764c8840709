package signal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabu-app/kabu/internal/common"
	"github.com/kabu-app/kabu/internal/models"
)

type stubBarClient struct {
	bars    []models.OHLCBar
	err     error
	fetches int
}

func (c *stubBarClient) FetchQuotes(_ context.Context, tickers []string) map[string]*models.Quote {
	out := make(map[string]*models.Quote, len(tickers))
	for _, ticker := range tickers {
		out[ticker] = models.StaleQuote(ticker)
	}
	return out
}

func (c *stubBarClient) FetchDailyBars(_ context.Context, _ string, _ int) ([]models.OHLCBar, error) {
	c.fetches++
	return c.bars, c.err
}

func TestClassifyLatestSignal(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	client := &stubBarClient{bars: []models.OHLCBar{
		{Date: date, Open: 100, High: 110, Low: 99, Close: 109},
	}}
	svc := NewService(client, common.NewSilentLogger())

	result, err := svc.ClassifyLatestSignal(context.Background(), "7203")
	require.NoError(t, err)

	assert.Equal(t, "7203.T", result.Ticker, "ticker normalized before lookup")
	assert.Equal(t, date, result.Date)
	assert.Equal(t, "strong up move", result.Latest.Description)
	assert.Equal(t, models.SignalBuy, result.Latest.Signal)
	assert.Equal(t, 80, result.Latest.Strength)
	assert.Equal(t, 1, result.RecentBuySignals)
}

func TestClassifyLatestSignalCachesResult(t *testing.T) {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	client := &stubBarClient{bars: []models.OHLCBar{
		{Date: date, Open: 100, High: 110, Low: 99, Close: 109},
	}}
	svc := NewService(client, common.NewSilentLogger())
	ctx := context.Background()

	first, err := svc.ClassifyLatestSignal(ctx, "7203")
	require.NoError(t, err)

	// Same ticker in bare form hits the cache, no second fetch
	second, err := svc.ClassifyLatestSignal(ctx, "7203.T")
	require.NoError(t, err)
	assert.Equal(t, 1, client.fetches)
	assert.Equal(t, first, second)

	// A stale entry is recomputed
	svc.cache["7203.T"].ComputeTimestamp = time.Now().Add(-2 * common.FreshnessSignals)
	_, err = svc.ClassifyLatestSignal(ctx, "7203")
	require.NoError(t, err)
	assert.Equal(t, 2, client.fetches)
}

func TestClassifyLatestSignalFetchError(t *testing.T) {
	fetchErr := errors.New("no price history")
	svc := NewService(&stubBarClient{err: fetchErr}, common.NewSilentLogger())

	_, err := svc.ClassifyLatestSignal(context.Background(), "0000.T")
	assert.ErrorIs(t, err, fetchErr)
}
