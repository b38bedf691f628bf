// Package correlation computes sentiment correlation and post-level
// co-occurrence analytics over a window of ticker mentions.
package correlation

import (
	"math"
	"sort"
	"time"

	"wsbpulse/internal/domain"
)

const maxSamplePosts = 5

// Engine computes correlation analytics. Stateless and safe for
// concurrent use; every method is a pure function of its inputs.
type Engine struct {
	bucketSize       time.Duration
	minSharedPeriods int
	minCooccurrences int
}

// NewEngine creates an engine. bucketSize is the time-series resolution,
// minSharedPeriods the minimum overlapping buckets for a correlation pair
// and minCooccurrences the minimum shared posts for a co-occurrence pair.
func NewEngine(bucketSize time.Duration, minSharedPeriods, minCooccurrences int) *Engine {
	if bucketSize <= 0 {
		bucketSize = time.Hour
	}
	if minSharedPeriods < 2 {
		minSharedPeriods = 2
	}
	if minCooccurrences < 1 {
		minCooccurrences = 1
	}
	return &Engine{
		bucketSize:       bucketSize,
		minSharedPeriods: minSharedPeriods,
		minCooccurrences: minCooccurrences,
	}
}

// bucketSeries is avg sentiment per time bucket for one ticker.
type bucketSeries map[int64]float64

// Correlations returns every unordered ticker pair whose bucketed
// sentiment series overlap in at least minSharedPeriods buckets, with the
// Pearson coefficient over the shared buckets. Sorted by absolute
// correlation descending, ties by pair ascending.
func (e *Engine) Correlations(mentions []domain.TickerMention) []domain.CorrelationPair {
	series := e.buildSeries(mentions)

	tickers := make([]string, 0, len(series))
	for ticker := range series {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	var pairs []domain.CorrelationPair
	for i := 0; i < len(tickers); i++ {
		for j := i + 1; j < len(tickers); j++ {
			a, b := tickers[i], tickers[j]
			pair, ok := e.correlate(a, b, series[a], series[b])
			if ok {
				pairs = append(pairs, pair)
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].Correlation), math.Abs(pairs[j].Correlation)
		if ai != aj {
			return ai > aj
		}
		if pairs[i].TickerA != pairs[j].TickerA {
			return pairs[i].TickerA < pairs[j].TickerA
		}
		return pairs[i].TickerB < pairs[j].TickerB
	})
	return pairs
}

// Matrix returns the symmetric correlation matrix over the given tickers.
// The diagonal is 1.0; pairs without enough shared buckets are 0.
func (e *Engine) Matrix(mentions []domain.TickerMention, tickers []string) domain.CorrelationMatrix {
	series := e.buildSeries(mentions)

	ordered := append([]string(nil), tickers...)
	sort.Strings(ordered)

	n := len(ordered)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1.0
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pair, ok := e.correlate(ordered[i], ordered[j], series[ordered[i]], series[ordered[j]])
			if ok {
				matrix[i][j] = pair.Correlation
				matrix[j][i] = pair.Correlation
			}
		}
	}

	return domain.CorrelationMatrix{Tickers: ordered, Matrix: matrix}
}

// Cooccurrences returns every unordered ticker pair mentioned together in
// at least minCooccurrences posts. A post mentioning k tickers
// contributes one count to each of its k*(k-1)/2 pairs. Sorted by count
// descending, ties by pair ascending.
func (e *Engine) Cooccurrences(mentions []domain.TickerMention) []domain.CooccurrencePair {
	type postGroup struct {
		tickers    map[string]struct{}
		sentiments map[string]float64
	}

	posts := make(map[string]*postGroup)
	postOrder := make([]string, 0)
	for _, m := range mentions {
		group, ok := posts[m.PostID]
		if !ok {
			group = &postGroup{
				tickers:    make(map[string]struct{}),
				sentiments: make(map[string]float64),
			}
			posts[m.PostID] = group
			postOrder = append(postOrder, m.PostID)
		}
		group.tickers[m.Ticker] = struct{}{}
		group.sentiments[m.Ticker] = m.Sentiment.Compound
	}
	sort.Strings(postOrder)

	type pairKey struct{ a, b string }
	type pairAgg struct {
		count        int
		sentimentSum float64
		postIDs      []string
	}

	aggregates := make(map[pairKey]*pairAgg)
	for _, postID := range postOrder {
		group := posts[postID]
		tickers := make([]string, 0, len(group.tickers))
		for ticker := range group.tickers {
			tickers = append(tickers, ticker)
		}
		sort.Strings(tickers)

		for i := 0; i < len(tickers); i++ {
			for j := i + 1; j < len(tickers); j++ {
				key := pairKey{tickers[i], tickers[j]}
				agg, ok := aggregates[key]
				if !ok {
					agg = &pairAgg{}
					aggregates[key] = agg
				}
				agg.count++
				agg.sentimentSum += (group.sentiments[key.a] + group.sentiments[key.b]) / 2
				if len(agg.postIDs) < maxSamplePosts {
					agg.postIDs = append(agg.postIDs, postID)
				}
			}
		}
	}

	var pairs []domain.CooccurrencePair
	for key, agg := range aggregates {
		if agg.count < e.minCooccurrences {
			continue
		}
		pairs = append(pairs, domain.CooccurrencePair{
			TickerA:              key.a,
			TickerB:              key.b,
			Count:                agg.count,
			AvgCombinedSentiment: agg.sentimentSum / float64(agg.count),
			SamplePostIDs:        agg.postIDs,
		})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		if pairs[i].TickerA != pairs[j].TickerA {
			return pairs[i].TickerA < pairs[j].TickerA
		}
		return pairs[i].TickerB < pairs[j].TickerB
	})
	return pairs
}

// buildSeries buckets mentions by truncated timestamp and averages the
// compound sentiment per (ticker, bucket).
func (e *Engine) buildSeries(mentions []domain.TickerMention) map[string]bucketSeries {
	type cell struct {
		sum   float64
		count int
	}
	cells := make(map[string]map[int64]*cell)

	for _, m := range mentions {
		bucket := m.Timestamp.Truncate(e.bucketSize).Unix()
		if cells[m.Ticker] == nil {
			cells[m.Ticker] = make(map[int64]*cell)
		}
		c := cells[m.Ticker][bucket]
		if c == nil {
			c = &cell{}
			cells[m.Ticker][bucket] = c
		}
		c.sum += m.Sentiment.Compound
		c.count++
	}

	series := make(map[string]bucketSeries, len(cells))
	for ticker, buckets := range cells {
		s := make(bucketSeries, len(buckets))
		for bucket, c := range buckets {
			s[bucket] = c.sum / float64(c.count)
		}
		series[ticker] = s
	}
	return series
}

func (e *Engine) correlate(a, b string, seriesA, seriesB bucketSeries) (domain.CorrelationPair, bool) {
	var xs, ys []float64
	for bucket, x := range seriesA {
		if y, ok := seriesB[bucket]; ok {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < e.minSharedPeriods {
		return domain.CorrelationPair{}, false
	}

	r, ok := pearson(xs, ys)
	if !ok {
		return domain.CorrelationPair{}, false
	}

	return domain.CorrelationPair{
		TickerA:       a,
		TickerB:       b,
		Correlation:   r,
		SharedPeriods: len(xs),
		AvgSentimentA: mean(xs),
		AvgSentimentB: mean(ys),
	}, true
}

// pearson computes the sample correlation coefficient. Returns false when
// either series has zero variance.
func pearson(xs, ys []float64) (float64, bool) {
	meanX, meanY := mean(xs), mean(ys)

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
