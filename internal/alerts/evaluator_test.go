package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wsbpulse/internal/config"
	"wsbpulse/internal/domain"
)

func testConfig() config.AlertsConfig {
	return config.AlertsConfig{
		Enabled:               true,
		HeatThreshold:         5.0,
		MinHeatScore:          3.0,
		SentimentChange:       0.3,
		VolumeSpikeMultiplier: 2.0,
		MinMentions:           5,
	}
}

func ptr(v float64) *float64 { return &v }

func TestEvaluate_HeatSpike(t *testing.T) {
	e := NewEvaluator(testConfig())

	summaries := []domain.TickerSummary{
		{Ticker: "GME", MentionCount: 12, HeatScore: 6.1, AvgSentiment: 0.4},
		{Ticker: "AMC", MentionCount: 12, HeatScore: 4.9},
		{Ticker: "BB", MentionCount: 3, HeatScore: 9.0},
	}

	fired := e.Evaluate(summaries, nil)
	require.Len(t, fired, 1)
	a := fired[0]
	assert.Equal(t, "GME", a.Ticker)
	assert.Equal(t, domain.AlertHeatSpike, a.Type)
	assert.Equal(t, 6.1, a.HeatScore)
	assert.NotEmpty(t, a.ID)
	assert.False(t, a.Acknowledged)
	assert.Contains(t, a.Message, "GME")
}

func TestEvaluate_SentimentShift(t *testing.T) {
	e := NewEvaluator(testConfig())

	tests := []struct {
		name    string
		summary domain.TickerSummary
		want    int
	}{
		{
			name: "shift above threshold with enough heat",
			summary: domain.TickerSummary{
				Ticker: "GME", MentionCount: 8, HeatScore: 3.5,
				SentimentChange: ptr(-0.35),
			},
			want: 1,
		},
		{
			name: "shift below threshold",
			summary: domain.TickerSummary{
				Ticker: "GME", MentionCount: 8, HeatScore: 3.5,
				SentimentChange: ptr(0.2),
			},
			want: 0,
		},
		{
			name: "shift without enough heat",
			summary: domain.TickerSummary{
				Ticker: "GME", MentionCount: 8, HeatScore: 2.0,
				SentimentChange: ptr(0.5),
			},
			want: 0,
		},
		{
			name: "no baseline means no shift alert",
			summary: domain.TickerSummary{
				Ticker: "GME", MentionCount: 8, HeatScore: 4.0,
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fired := e.Evaluate([]domain.TickerSummary{tt.summary}, nil)
			assert.Len(t, fired, tt.want)
			if tt.want == 1 {
				assert.Equal(t, domain.AlertSentimentShift, fired[0].Type)
			}
		})
	}
}

func TestEvaluate_VolumeSurge(t *testing.T) {
	e := NewEvaluator(testConfig())

	surge := domain.TickerSummary{
		Ticker: "AMC", MentionCount: 10, HeatScore: 2.0,
		MentionChangePct: ptr(150.0),
	}
	fired := e.Evaluate([]domain.TickerSummary{surge}, nil)
	require.Len(t, fired, 1)
	assert.Equal(t, domain.AlertVolumeSurge, fired[0].Type)

	// 2x multiplier means +100% is the boundary.
	boundary := surge
	boundary.MentionChangePct = ptr(100.0)
	assert.Len(t, e.Evaluate([]domain.TickerSummary{boundary}, nil), 1)

	below := surge
	below.MentionChangePct = ptr(99.0)
	assert.Empty(t, e.Evaluate([]domain.TickerSummary{below}, nil))
}

func TestEvaluate_SuppressionAndReack(t *testing.T) {
	e := NewEvaluator(testConfig())
	hot := []domain.TickerSummary{
		{Ticker: "GME", MentionCount: 12, HeatScore: 7.0},
	}

	first := e.Evaluate(hot, nil)
	require.Len(t, first, 1)

	// Open unacknowledged alert suppresses a repeat of the same condition.
	assert.Empty(t, e.Evaluate(hot, first))

	// After acknowledgment the same condition fires an independent alert.
	acked := first[0]
	acked.Acknowledged = true
	second := e.Evaluate(hot, []domain.Alert{acked})
	require.Len(t, second, 1)
	assert.NotEqual(t, first[0].ID, second[0].ID)

	// Different type for the same ticker is not suppressed.
	surging := []domain.TickerSummary{
		{Ticker: "GME", MentionCount: 12, HeatScore: 7.0, MentionChangePct: ptr(200.0)},
	}
	fired := e.Evaluate(surging, first)
	require.Len(t, fired, 1)
	assert.Equal(t, domain.AlertVolumeSurge, fired[0].Type)
}

func TestEvaluate_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	e := NewEvaluator(cfg)

	fired := e.Evaluate([]domain.TickerSummary{
		{Ticker: "GME", MentionCount: 12, HeatScore: 9.0},
	}, nil)
	assert.Empty(t, fired)
}

func TestEvaluate_Timestamps(t *testing.T) {
	e := NewEvaluator(testConfig())
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	fired := e.Evaluate([]domain.TickerSummary{
		{Ticker: "GME", MentionCount: 12, HeatScore: 9.0},
	}, nil)
	require.Len(t, fired, 1)
	assert.Equal(t, fixed, fired[0].TriggeredAt)
}
