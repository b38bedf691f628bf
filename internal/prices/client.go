// Package prices fetches market quotes and closing-price history from
// the public Yahoo Finance chart endpoint, with short-lived caching.
package prices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"wsbpulse/internal/config"
	"wsbpulse/internal/domain"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// ErrUnknownTicker marks a symbol Yahoo has no market data for. The
// service layer reports it in-band on the quote rather than failing
// the request.
var ErrUnknownTicker = errors.New("ticker not found or no market data")

// Source delivers market data for one ticker. The service depends on
// this interface, not on the Yahoo client, so tests can substitute
// their own source.
type Source interface {
	Quote(ctx context.Context, ticker string) (domain.PriceQuote, error)
	History(ctx context.Context, ticker string, days int) ([]float64, error)
}

// Client reads the unauthenticated chart API. Requests are rate limited
// to stay inside Yahoo's anonymous allowance.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	baseURL    string
	userAgent  string
}

// NewClient creates a chart client from the prices config section.
func NewClient(cfg config.PricesConfig, logger *slog.Logger) *Client {
	delay := cfg.RequestDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(delay), 1),
		logger:     logger,
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
	}
}

// chart mirrors the fields we read from the Yahoo chart payload.
type chart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string  `json:"symbol"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				ChartPreviousClose   float64 `json:"chartPreviousClose"`
				RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
				RegularMarketVolume  int64   `json:"regularMarketVolume"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Quote returns the current market quote for one ticker.
func (c *Client) Quote(ctx context.Context, ticker string) (domain.PriceQuote, error) {
	payload, err := c.fetchChart(ctx, ticker, "1d")
	if err != nil {
		return domain.PriceQuote{}, err
	}

	meta := payload.Chart.Result[0].Meta
	if meta.RegularMarketPrice == 0 {
		return domain.PriceQuote{}, ErrUnknownTicker
	}

	quote := domain.PriceQuote{
		Ticker:       ticker,
		CurrentPrice: meta.RegularMarketPrice,
		Volume:       meta.RegularMarketVolume,
		DayHigh:      meta.RegularMarketDayHigh,
		DayLow:       meta.RegularMarketDayLow,
		PrevClose:    meta.ChartPreviousClose,
		UpdatedAt:    time.Now().UTC(),
	}
	if meta.ChartPreviousClose != 0 {
		quote.ChangeAmount = meta.RegularMarketPrice - meta.ChartPreviousClose
		quote.ChangePercent = quote.ChangeAmount / meta.ChartPreviousClose * 100
	}
	return quote, nil
}

// History returns up to days of daily closing prices, oldest first.
// Days the exchange was closed carry no close and are skipped.
func (c *Client) History(ctx context.Context, ticker string, days int) ([]float64, error) {
	payload, err := c.fetchChart(ctx, ticker, fmt.Sprintf("%dd", days))
	if err != nil {
		return nil, err
	}

	indicators := payload.Chart.Result[0].Indicators
	if len(indicators.Quote) == 0 {
		return nil, nil
	}
	var closes []float64
	for _, close := range indicators.Quote[0].Close {
		if close != nil {
			closes = append(closes, *close)
		}
	}
	return closes, nil
}

func (c *Client) fetchChart(ctx context.Context, ticker, window string) (*chart, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(ticker),
		url.Values{
			"range":    {window},
			"interval": {"1d"},
		}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build chart request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch chart %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUnknownTicker
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("fetch chart %s: rate limited by yahoo", ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch chart %s: unexpected status %d", ticker, resp.StatusCode)
	}

	var payload chart
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode chart %s: %w", ticker, err)
	}
	if payload.Chart.Error != nil {
		return nil, ErrUnknownTicker
	}
	if len(payload.Chart.Result) == 0 {
		return nil, ErrUnknownTicker
	}

	c.logger.Debug("fetched chart",
		slog.String("ticker", ticker),
		slog.String("range", window))
	return &payload, nil
}
