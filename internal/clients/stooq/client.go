// Package stooq provides a quote client over the Stooq CSV endpoints.
package stooq

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/kabu-app/kabu/internal/common"
	"github.com/kabu-app/kabu/internal/interfaces"
	"github.com/kabu-app/kabu/internal/models"
)

const (
	DefaultBaseURL   = "https://stooq.com"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 5 // requests per second

	// maxConcurrent bounds parallel symbol fetches within one batch.
	maxConcurrent = 4
)

// Client fetches quotes and daily bars from Stooq. Per-symbol failures
// degrade to stale quotes; a batch itself never fails.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	now        func() time.Time // injectable clock for testing
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Stooq client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchQuotes retrieves the latest quote for each normalized ticker. The
// returned map always has one entry per requested ticker; symbols that fail
// or time out carry the explicit stale marker. Fetches run concurrently,
// bounded and rate-limited, and one bad symbol never cancels its siblings.
func (c *Client) FetchQuotes(ctx context.Context, tickers []string) map[string]*models.Quote {
	quotes := make(map[string]*models.Quote, len(tickers))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrent)

	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			quote := c.fetchQuote(ctx, ticker)
			mu.Lock()
			quotes[ticker] = quote
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	return quotes
}

// fetchQuote fetches one symbol, degrading any failure to a stale quote.
func (c *Client) fetchQuote(ctx context.Context, ticker string) *models.Quote {
	record, err := c.getCSVRow(ctx, fmt.Sprintf("%s/q/l/?s=%s&f=sd2t2ohlcv&h&e=csv", c.baseURL, stooqSymbol(ticker)))
	if err != nil {
		c.logger.Warn().Err(err).Str("ticker", ticker).Msg("Quote fetch failed, degrading to stale")
		return models.StaleQuote(ticker)
	}

	// Symbol,Date,Time,Open,High,Low,Close,Volume
	if len(record) < 7 {
		c.logger.Warn().Str("ticker", ticker).Msg("Quote response malformed, degrading to stale")
		return models.StaleQuote(ticker)
	}

	closePrice, err := parseField(record[6])
	if err != nil {
		// "N/D" — unknown symbol or no data on Stooq's side
		c.logger.Debug().Str("ticker", ticker).Str("value", record[6]).Msg("No quote data for symbol")
		return models.StaleQuote(ticker)
	}

	asOf := c.now()
	if ts, err := time.Parse("2006-01-02 15:04:05", record[1]+" "+record[2]); err == nil {
		asOf = ts
	}

	return &models.Quote{
		Ticker: ticker,
		Price:  closePrice,
		AsOf:   asOf,
		Source: "stooq",
	}
}

// FetchDailyBars retrieves up to lookback daily bars, oldest first.
func (c *Client) FetchDailyBars(ctx context.Context, ticker string, lookback int) ([]models.OHLCBar, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s/q/d/l/?s=%s&i=d", c.baseURL, stooqSymbol(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stooq history request failed: status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	header := true
	var bars []models.OHLCBar
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse history CSV: %w", err)
		}
		if header {
			header = false
			continue
		}
		bar, err := parseBar(record)
		if err != nil {
			continue // skip malformed rows, keep the rest
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no price history for %s", ticker)
	}
	if lookback > 0 && len(bars) > lookback {
		bars = bars[len(bars)-lookback:]
	}

	return bars, nil
}

// getCSVRow performs a rate-limited GET and returns the first data row.
func (c *Client) getCSVRow(ctx context.Context, reqURL string) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stooq request failed: status %d", resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil { // header
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	record, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV row: %w", err)
	}
	return record, nil
}

func parseBar(record []string) (models.OHLCBar, error) {
	// Date,Open,High,Low,Close,Volume
	if len(record) < 5 {
		return models.OHLCBar{}, fmt.Errorf("short record")
	}
	date, err := time.Parse("2006-01-02", record[0])
	if err != nil {
		return models.OHLCBar{}, err
	}
	open, err := parseField(record[1])
	if err != nil {
		return models.OHLCBar{}, err
	}
	high, err := parseField(record[2])
	if err != nil {
		return models.OHLCBar{}, err
	}
	low, err := parseField(record[3])
	if err != nil {
		return models.OHLCBar{}, err
	}
	closePrice, err := parseField(record[4])
	if err != nil {
		return models.OHLCBar{}, err
	}
	var volume int64
	if len(record) > 5 {
		volume, _ = strconv.ParseInt(record[5], 10, 64)
	}
	return models.OHLCBar{
		Date:   date,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}

func parseField(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/D" || s == "N/A" {
		return 0, fmt.Errorf("no data")
	}
	return strconv.ParseFloat(s, 64)
}

// stooqSymbol maps a normalized ticker to Stooq's symbol convention:
// "7203.T" -> "7203.jp", "AAPL" -> "aapl.us", "^N225" -> "^nkx".
func stooqSymbol(ticker string) string {
	s := strings.ToUpper(strings.TrimSpace(ticker))
	switch {
	case s == "^N225":
		return "^nkx"
	case strings.HasPrefix(s, "^"):
		return strings.ToLower(s)
	case strings.HasSuffix(s, models.DefaultExchangeSuffix):
		return strings.ToLower(models.StripSuffix(s)) + ".jp"
	case !strings.Contains(s, "."):
		return strings.ToLower(s) + ".us"
	default:
		return strings.ToLower(s)
	}
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
