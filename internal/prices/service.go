package prices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"wsbpulse/internal/config"
	"wsbpulse/internal/domain"
)

const (
	defaultQuoteTTL     = 5 * time.Minute
	defaultSparklineTTL = 15 * time.Minute
)

type cachedQuote struct {
	quote    domain.PriceQuote
	cachedAt time.Time
}

type cachedSparkline struct {
	sparkline domain.Sparkline
	cachedAt  time.Time
}

// Service caches quotes and sparklines in front of a Source. Lookups
// never fail a request: unknown tickers are cached answers with the
// error carried in-band, while transient fetch failures skip the cache
// so the next request retries.
type Service struct {
	source Source
	logger *slog.Logger

	quoteTTL     time.Duration
	sparklineTTL time.Duration
	now          func() time.Time

	mu         sync.Mutex
	quotes     map[string]cachedQuote
	sparklines map[string]cachedSparkline
}

// NewService creates a caching price service.
func NewService(source Source, cfg config.PricesConfig, logger *slog.Logger) *Service {
	quoteTTL := cfg.QuoteCacheTTL
	if quoteTTL <= 0 {
		quoteTTL = defaultQuoteTTL
	}
	sparklineTTL := cfg.SparklineCacheTTL
	if sparklineTTL <= 0 {
		sparklineTTL = defaultSparklineTTL
	}
	return &Service{
		source:       source,
		logger:       logger.With(slog.String("component", "prices")),
		quoteTTL:     quoteTTL,
		sparklineTTL: sparklineTTL,
		now:          time.Now,
		quotes:       make(map[string]cachedQuote),
		sparklines:   make(map[string]cachedSparkline),
	}
}

// Quote returns the current quote for one ticker, served from cache
// while fresh. Unknown tickers are cached like any other answer.
func (s *Service) Quote(ctx context.Context, ticker string) domain.PriceQuote {
	ticker = strings.ToUpper(ticker)

	s.mu.Lock()
	if entry, ok := s.quotes[ticker]; ok && s.now().Sub(entry.cachedAt) < s.quoteTTL {
		s.mu.Unlock()
		return entry.quote
	}
	s.mu.Unlock()

	quote, err := s.source.Quote(ctx, ticker)
	switch {
	case errors.Is(err, ErrUnknownTicker):
		quote = domain.PriceQuote{
			Ticker:    ticker,
			UpdatedAt: s.now().UTC(),
			Error:     ErrUnknownTicker.Error(),
		}
	case err != nil:
		s.logger.Warn("quote fetch failed",
			slog.String("ticker", ticker),
			slog.String("error", err.Error()))
		return domain.PriceQuote{
			Ticker:    ticker,
			UpdatedAt: s.now().UTC(),
			Error:     err.Error(),
		}
	}

	s.mu.Lock()
	s.quotes[ticker] = cachedQuote{quote: quote, cachedAt: s.now()}
	s.mu.Unlock()
	return quote
}

// QuoteBatch returns quotes for several tickers keyed by symbol.
func (s *Service) QuoteBatch(ctx context.Context, tickers []string) map[string]domain.PriceQuote {
	quotes := make(map[string]domain.PriceQuote, len(tickers))
	for _, ticker := range tickers {
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		if ticker == "" {
			continue
		}
		quotes[ticker] = s.Quote(ctx, ticker)
	}
	return quotes
}

// Sparkline returns up to days of closing prices for chart rendering.
// Fetch failures yield an empty series rather than an error.
func (s *Service) Sparkline(ctx context.Context, ticker string, days int) domain.Sparkline {
	ticker = strings.ToUpper(ticker)
	key := fmt.Sprintf("%s_%d", ticker, days)

	s.mu.Lock()
	if entry, ok := s.sparklines[key]; ok && s.now().Sub(entry.cachedAt) < s.sparklineTTL {
		s.mu.Unlock()
		return entry.sparkline
	}
	s.mu.Unlock()

	closes, err := s.source.History(ctx, ticker, days)
	if err != nil {
		s.logger.Warn("sparkline fetch failed",
			slog.String("ticker", ticker),
			slog.String("error", err.Error()))
		return domain.Sparkline{
			Ticker:    ticker,
			Prices:    []float64{},
			Days:      days,
			UpdatedAt: s.now().UTC(),
		}
	}
	if closes == nil {
		closes = []float64{}
	}

	sparkline := domain.Sparkline{
		Ticker:    ticker,
		Prices:    closes,
		Days:      days,
		UpdatedAt: s.now().UTC(),
	}
	s.mu.Lock()
	s.sparklines[key] = cachedSparkline{sparkline: sparkline, cachedAt: s.now()}
	s.mu.Unlock()
	return sparkline
}

// ClearCache drops all cached quotes and sparklines.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes = make(map[string]cachedQuote)
	s.sparklines = make(map[string]cachedSparkline)
}
