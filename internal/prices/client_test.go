package prices

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wsbpulse/internal/config"
)

const sampleChart = `{
	"chart": {
		"result": [{
			"meta": {
				"symbol": "GME",
				"regularMarketPrice": 25.5,
				"chartPreviousClose": 24.0,
				"regularMarketDayHigh": 26.0,
				"regularMarketDayLow": 24.2,
				"regularMarketVolume": 1500000
			},
			"indicators": {
				"quote": [{"close": [24.0, null, 24.8, 25.5]}]
			}
		}],
		"error": null
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.PricesConfig{
		BaseURL:      server.URL,
		UserAgent:    "wsbpulse-test/1.0",
		RequestDelay: time.Millisecond,
	}
	return NewClient(cfg, slog.Default())
}

func TestClient_Quote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/GME", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("range"))
		assert.Equal(t, "wsbpulse-test/1.0", r.Header.Get("User-Agent"))
		fmt.Fprint(w, sampleChart)
	})

	quote, err := client.Quote(context.Background(), "GME")
	require.NoError(t, err)

	assert.Equal(t, "GME", quote.Ticker)
	assert.InDelta(t, 25.5, quote.CurrentPrice, 1e-9)
	assert.InDelta(t, 1.5, quote.ChangeAmount, 1e-9)
	assert.InDelta(t, 6.25, quote.ChangePercent, 1e-9)
	assert.Equal(t, int64(1500000), quote.Volume)
	assert.InDelta(t, 24.0, quote.PrevClose, 1e-9)
	assert.Empty(t, quote.Error)
}

func TestClient_History_SkipsNullCloses(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7d", r.URL.Query().Get("range"))
		fmt.Fprint(w, sampleChart)
	})

	closes, err := client.History(context.Background(), "GME", 7)
	require.NoError(t, err)
	assert.Equal(t, []float64{24.0, 24.8, 25.5}, closes)
}

func TestClient_UnknownTicker(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"http 404", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"chart error payload", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
		}},
		{"empty result", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.Quote(context.Background(), "ZZZZ")
			assert.ErrorIs(t, err, ErrUnknownTicker)
		})
	}
}

func TestClient_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"rate limited", http.StatusTooManyRequests},
		{"server error", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := client.Quote(context.Background(), "GME")
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrUnknownTicker)
		})
	}
}

func TestClient_ContextCancel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleChart)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Quote(ctx, "GME")
	assert.Error(t, err)
}
