package prices

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wsbpulse/internal/config"
	"wsbpulse/internal/domain"
)

type stubSource struct {
	quoteCalls   int
	historyCalls int
	quoteErr     error
	historyErr   error
	closes       []float64
}

func (s *stubSource) Quote(_ context.Context, ticker string) (domain.PriceQuote, error) {
	s.quoteCalls++
	if s.quoteErr != nil {
		return domain.PriceQuote{}, s.quoteErr
	}
	return domain.PriceQuote{Ticker: ticker, CurrentPrice: 25.5, PrevClose: 24.0}, nil
}

func (s *stubSource) History(_ context.Context, ticker string, days int) ([]float64, error) {
	s.historyCalls++
	if s.historyErr != nil {
		return nil, s.historyErr
	}
	return s.closes, nil
}

func newTestService(source Source) *Service {
	return NewService(source, config.PricesConfig{
		QuoteCacheTTL:     5 * time.Minute,
		SparklineCacheTTL: 15 * time.Minute,
	}, slog.Default())
}

func TestService_QuoteCaching(t *testing.T) {
	source := &stubSource{}
	svc := newTestService(source)

	now := time.Now()
	svc.now = func() time.Time { return now }

	first := svc.Quote(context.Background(), "gme")
	assert.Equal(t, "GME", first.Ticker, "symbols are normalized to upper case")
	assert.Equal(t, 1, source.quoteCalls)

	svc.Quote(context.Background(), "GME")
	assert.Equal(t, 1, source.quoteCalls, "fresh cache entry is served without a fetch")

	now = now.Add(6 * time.Minute)
	svc.Quote(context.Background(), "GME")
	assert.Equal(t, 2, source.quoteCalls, "stale cache entry is refetched")
}

func TestService_UnknownTickerInBand(t *testing.T) {
	source := &stubSource{quoteErr: ErrUnknownTicker}
	svc := newTestService(source)

	quote := svc.Quote(context.Background(), "ZZZZ")
	assert.Equal(t, "ZZZZ", quote.Ticker)
	assert.Equal(t, ErrUnknownTicker.Error(), quote.Error)
	assert.Zero(t, quote.CurrentPrice)

	svc.Quote(context.Background(), "ZZZZ")
	assert.Equal(t, 1, source.quoteCalls, "unknown tickers are cached like any answer")
}

func TestService_FetchFailureNotCached(t *testing.T) {
	source := &stubSource{quoteErr: errors.New("connection reset")}
	svc := newTestService(source)

	quote := svc.Quote(context.Background(), "GME")
	assert.Equal(t, "connection reset", quote.Error)

	svc.Quote(context.Background(), "GME")
	assert.Equal(t, 2, source.quoteCalls, "transient failures retry on the next request")
}

func TestService_QuoteBatch(t *testing.T) {
	source := &stubSource{}
	svc := newTestService(source)

	quotes := svc.QuoteBatch(context.Background(), []string{"gme", " amc ", ""})
	require.Len(t, quotes, 2)
	assert.Contains(t, quotes, "GME")
	assert.Contains(t, quotes, "AMC")
}

func TestService_SparklineCaching(t *testing.T) {
	source := &stubSource{closes: []float64{24.0, 24.8, 25.5}}
	svc := newTestService(source)

	spark := svc.Sparkline(context.Background(), "GME", 7)
	assert.Equal(t, []float64{24.0, 24.8, 25.5}, spark.Prices)
	assert.Equal(t, 7, spark.Days)

	svc.Sparkline(context.Background(), "GME", 7)
	assert.Equal(t, 1, source.historyCalls)

	// A different window is a separate cache entry.
	svc.Sparkline(context.Background(), "GME", 30)
	assert.Equal(t, 2, source.historyCalls)
}

func TestService_SparklineFailureEmptySeries(t *testing.T) {
	source := &stubSource{historyErr: errors.New("timeout")}
	svc := newTestService(source)

	spark := svc.Sparkline(context.Background(), "GME", 7)
	assert.NotNil(t, spark.Prices)
	assert.Empty(t, spark.Prices)

	svc.Sparkline(context.Background(), "GME", 7)
	assert.Equal(t, 2, source.historyCalls, "failed sparklines are not cached")
}

func TestService_ClearCache(t *testing.T) {
	source := &stubSource{closes: []float64{25.5}}
	svc := newTestService(source)

	svc.Quote(context.Background(), "GME")
	svc.Sparkline(context.Background(), "GME", 7)
	svc.ClearCache()

	svc.Quote(context.Background(), "GME")
	svc.Sparkline(context.Background(), "GME", 7)
	assert.Equal(t, 2, source.quoteCalls)
	assert.Equal(t, 2, source.historyCalls)
}
