package correlation

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wsbpulse/internal/domain"
)

var t0 = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

func mentionAt(ticker, postID string, compound float64, hour int) domain.TickerMention {
	return domain.TickerMention{
		Ticker:    ticker,
		PostID:    postID,
		Sentiment: domain.Sentiment{Compound: compound},
		Timestamp: t0.Add(time.Duration(hour) * time.Hour),
	}
}

// seriesMentions lays one mention per hour for a ticker with the given
// compound values.
func seriesMentions(ticker string, values []float64) []domain.TickerMention {
	mentions := make([]domain.TickerMention, 0, len(values))
	for hour, v := range values {
		mentions = append(mentions, mentionAt(ticker, fmt.Sprintf("%s-%d", ticker, hour), v, hour))
	}
	return mentions
}

func TestCorrelations_PerfectPositive(t *testing.T) {
	e := NewEngine(time.Hour, 3, 1)

	mentions := append(
		seriesMentions("AAA", []float64{0.1, 0.2, 0.3, 0.4}),
		seriesMentions("BBB", []float64{0.2, 0.4, 0.6, 0.8})...,
	)

	pairs := e.Correlations(mentions)
	require.Len(t, pairs, 1)
	p := pairs[0]
	assert.Equal(t, "AAA", p.TickerA)
	assert.Equal(t, "BBB", p.TickerB)
	assert.InDelta(t, 1.0, p.Correlation, 1e-9)
	assert.Equal(t, 4, p.SharedPeriods)
	assert.InDelta(t, 0.25, p.AvgSentimentA, 1e-9)
	assert.InDelta(t, 0.5, p.AvgSentimentB, 1e-9)
}

func TestCorrelations_PerfectNegative(t *testing.T) {
	e := NewEngine(time.Hour, 3, 1)

	mentions := append(
		seriesMentions("AAA", []float64{0.1, 0.2, 0.3}),
		seriesMentions("BBB", []float64{-0.1, -0.2, -0.3})...,
	)

	pairs := e.Correlations(mentions)
	require.Len(t, pairs, 1)
	assert.InDelta(t, -1.0, pairs[0].Correlation, 1e-9)
}

func TestCorrelations_MinSharedPeriods(t *testing.T) {
	e := NewEngine(time.Hour, 3, 1)

	// Only two overlapping buckets.
	mentions := append(
		seriesMentions("AAA", []float64{0.1, 0.2}),
		seriesMentions("BBB", []float64{0.3, 0.1})...,
	)
	assert.Empty(t, e.Correlations(mentions), "below min shared periods")
}

func TestCorrelations_ZeroVariance(t *testing.T) {
	e := NewEngine(time.Hour, 3, 1)

	mentions := append(
		seriesMentions("AAA", []float64{0.5, 0.5, 0.5, 0.5}),
		seriesMentions("BBB", []float64{0.1, 0.2, 0.3, 0.4})...,
	)
	assert.Empty(t, e.Correlations(mentions), "flat series has no defined correlation")
}

func TestCorrelations_BucketAveraging(t *testing.T) {
	e := NewEngine(time.Hour, 3, 1)

	// Two mentions in the same bucket average before correlating.
	mentions := append(
		seriesMentions("AAA", []float64{0.1, 0.2, 0.3}),
		seriesMentions("BBB", []float64{0.1, 0.2, 0.3})...,
	)
	mentions = append(mentions, mentionAt("BBB", "extra", 0.3, 0))

	pairs := e.Correlations(mentions)
	require.Len(t, pairs, 1)
	// BBB bucket 0 averages to 0.2, so its series is {0.2, 0.2, 0.3}.
	assert.InDelta(t, (0.2+0.2+0.3)/3, pairs[0].AvgSentimentB, 1e-9)
}

func TestMatrix_SymmetricWithUnitDiagonal(t *testing.T) {
	e := NewEngine(time.Hour, 3, 1)

	mentions := append(
		seriesMentions("AAA", []float64{0.1, 0.2, 0.3, 0.4}),
		seriesMentions("BBB", []float64{0.4, 0.3, 0.2, 0.1})...,
	)
	mentions = append(mentions, seriesMentions("CCC", []float64{0.2})...)

	m := e.Matrix(mentions, []string{"CCC", "AAA", "BBB"})
	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, m.Tickers)
	require.Len(t, m.Matrix, 3)

	for i := range m.Matrix {
		assert.Equal(t, 1.0, m.Matrix[i][i], "diagonal is 1.0")
		for j := range m.Matrix[i] {
			assert.Equal(t, m.Matrix[i][j], m.Matrix[j][i], "matrix is symmetric")
		}
	}

	assert.InDelta(t, -1.0, m.Matrix[0][1], 1e-9)
	assert.Zero(t, m.Matrix[0][2], "insufficient overlap stays zero")
	assert.Zero(t, m.Matrix[1][2])
}

func TestCooccurrences_PairExpansion(t *testing.T) {
	e := NewEngine(time.Hour, 3, 1)

	// One post mentioning A, B and C increments all three pairs.
	mentions := []domain.TickerMention{
		mentionAt("AAA", "post1", 0.2, 0),
		mentionAt("BBB", "post1", 0.4, 0),
		mentionAt("CCC", "post1", 0.6, 0),
	}

	pairs := e.Cooccurrences(mentions)
	require.Len(t, pairs, 3)

	keys := make([]string, len(pairs))
	for i, p := range pairs {
		keys[i] = p.TickerA + "-" + p.TickerB
		assert.Equal(t, 1, p.Count)
		assert.Equal(t, []string{"post1"}, p.SamplePostIDs)
	}
	assert.ElementsMatch(t, []string{"AAA-BBB", "AAA-CCC", "BBB-CCC"}, keys)

	for _, p := range pairs {
		if p.TickerA == "AAA" && p.TickerB == "BBB" {
			assert.InDelta(t, 0.3, p.AvgCombinedSentiment, 1e-9)
		}
	}
}

func TestCooccurrences_MinCountAndOrdering(t *testing.T) {
	e := NewEngine(time.Hour, 3, 2)

	var mentions []domain.TickerMention
	for i := 0; i < 3; i++ {
		postID := fmt.Sprintf("gme-amc-%d", i)
		mentions = append(mentions,
			mentionAt("GME", postID, 0.5, i),
			mentionAt("AMC", postID, 0.5, i),
		)
	}
	// Single co-occurrence falls below the threshold.
	mentions = append(mentions,
		mentionAt("GME", "gme-bb", 0.1, 0),
		mentionAt("BB", "gme-bb", 0.1, 0),
	)

	pairs := e.Cooccurrences(mentions)
	require.Len(t, pairs, 1)
	assert.Equal(t, "AMC", pairs[0].TickerA)
	assert.Equal(t, "GME", pairs[0].TickerB)
	assert.Equal(t, 3, pairs[0].Count)
}

func TestCooccurrences_DuplicateMentionRows(t *testing.T) {
	e := NewEngine(time.Hour, 3, 1)

	// The same (ticker, post) appearing twice still counts one pair.
	mentions := []domain.TickerMention{
		mentionAt("GME", "post1", 0.5, 0),
		mentionAt("GME", "post1", 0.5, 0),
		mentionAt("AMC", "post1", 0.5, 0),
	}
	pairs := e.Cooccurrences(mentions)
	require.Len(t, pairs, 1)
	assert.Equal(t, 1, pairs[0].Count)
}
