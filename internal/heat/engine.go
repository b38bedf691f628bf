// Package heat aggregates ticker mentions into per-window summaries and
// computes the composite heat score that ranks them.
package heat

import (
	"math"
	"sort"
	"time"

	"wsbpulse/internal/domain"
)

// Heat formula weights. The score is an additive composite of mention
// volume, sentiment strength, research depth, engagement and trend.
const (
	mentionDivisor   = 10.0
	mentionCap       = 5.0
	sentimentWeight  = 2.0
	ddCap            = 3
	ddWeight         = 0.5
	engagementCap    = 1.0
	trendBonus       = 1.0
	trendBonusCutoff = 50.0
)

// Engine builds ranked ticker summaries from a window of mentions. It is
// stateless; the trend baseline is passed in per call.
type Engine struct {
	minMentions int
}

// NewEngine creates an engine. Tickers with fewer than minMentions
// mentions in the window are excluded from the ranking.
func NewEngine(minMentions int) *Engine {
	if minMentions < 1 {
		minMentions = 1
	}
	return &Engine{minMentions: minMentions}
}

// BuildSummaries aggregates mentions per ticker, applies the trend
// baseline, scores and ranks. Ordering is deterministic: heat descending,
// then mention count descending, then ticker ascending.
func (e *Engine) BuildSummaries(mentions []domain.TickerMention, baseline map[string]domain.TickerSummary) []domain.TickerSummary {
	byTicker := make(map[string][]domain.TickerMention)
	for _, m := range mentions {
		byTicker[m.Ticker] = append(byTicker[m.Ticker], m)
	}

	summaries := make([]domain.TickerSummary, 0, len(byTicker))
	for ticker, group := range byTicker {
		if len(group) < e.minMentions {
			continue
		}
		summary := buildSummary(ticker, group)
		applyTrend(&summary, baseline)
		summary.HeatScore = Score(summary)
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.HeatScore != b.HeatScore {
			return a.HeatScore > b.HeatScore
		}
		if a.MentionCount != b.MentionCount {
			return a.MentionCount > b.MentionCount
		}
		return a.Ticker < b.Ticker
	})
	return summaries
}

// Score computes the composite heat score for an already aggregated
// summary. Pure; identical summaries always score identically.
func Score(s domain.TickerSummary) float64 {
	mentionFactor := math.Min(float64(s.MentionCount)/mentionDivisor, mentionCap)
	sentimentFactor := math.Abs(s.AvgSentiment) * sentimentWeight

	ddCount := s.DDCount
	if ddCount > ddCap {
		ddCount = ddCap
	}
	ddFactor := float64(ddCount) * ddWeight

	engagementFactor := math.Min(s.AvgEngagement, engagementCap)

	heat := mentionFactor + sentimentFactor + ddFactor + engagementFactor
	if s.MentionChangePct != nil && *s.MentionChangePct > trendBonusCutoff {
		heat += trendBonus
	}
	return heat
}

func buildSummary(ticker string, group []domain.TickerMention) domain.TickerSummary {
	summary := domain.TickerSummary{
		Ticker:       ticker,
		MentionCount: len(group),
		FirstSeen:    group[0].Timestamp,
		LastSeen:     group[0].Timestamp,
	}

	posts := make(map[string]struct{}, len(group))
	var sentimentSum, engagementSum float64
	bullish := 0

	for _, m := range group {
		if _, seen := posts[m.PostID]; !seen {
			posts[m.PostID] = struct{}{}
			summary.TotalScore += m.PostScore
			if m.IsDDPost {
				summary.DDCount++
			}
		}
		sentimentSum += m.Sentiment.Compound
		if m.Label == domain.LabelBullish || m.Label == domain.LabelVeryBullish {
			bullish++
		}

		denominator := m.PostScore
		if denominator < 1 {
			denominator = 1
		}
		engagementSum += float64(m.NumComments) / float64(denominator)

		if m.Timestamp.Before(summary.FirstSeen) {
			summary.FirstSeen = m.Timestamp
		}
		if m.Timestamp.After(summary.LastSeen) {
			summary.LastSeen = m.Timestamp
		}
	}

	n := float64(len(group))
	summary.UniquePosts = len(posts)
	summary.AvgSentiment = sentimentSum / n
	summary.BullishRatio = float64(bullish) / n
	summary.AvgEngagement = engagementSum / n

	var variance float64
	for _, m := range group {
		d := m.Sentiment.Compound - summary.AvgSentiment
		variance += d * d
	}
	summary.SentimentStd = math.Sqrt(variance / n)

	return summary
}

// applyTrend fills the change fields against the prior window. Without a
// baseline the fields stay nil; a ticker new since the baseline is
// compared against zero with the divisor floored at one.
func applyTrend(summary *domain.TickerSummary, baseline map[string]domain.TickerSummary) {
	if baseline == nil {
		return
	}
	prior, existed := baseline[summary.Ticker]

	priorCount := float64(prior.MentionCount)
	divisor := math.Max(priorCount, 1)
	changePct := (float64(summary.MentionCount) - priorCount) / divisor * 100
	summary.MentionChangePct = &changePct

	if existed {
		change := summary.AvgSentiment - prior.AvgSentiment
		summary.SentimentChange = &change
	}
}

// BaselineIndex converts a snapshot's summaries into a lookup map for
// trend application. A nil snapshot yields a nil map.
func BaselineIndex(snapshot *domain.Snapshot) map[string]domain.TickerSummary {
	if snapshot == nil {
		return nil
	}
	index := make(map[string]domain.TickerSummary, len(snapshot.Summaries))
	for _, s := range snapshot.Summaries {
		index[s.Ticker] = s
	}
	return index
}

// TopMovers returns the tickers of the n hottest summaries, in rank order.
func TopMovers(summaries []domain.TickerSummary, n int) []string {
	if n > len(summaries) {
		n = len(summaries)
	}
	movers := make([]string, 0, n)
	for _, s := range summaries[:n] {
		movers = append(movers, s.Ticker)
	}
	return movers
}

// WindowBounds returns the earliest and latest mention timestamps, used
// for snapshot bookkeeping. Zero times when the slice is empty.
func WindowBounds(mentions []domain.TickerMention) (time.Time, time.Time) {
	if len(mentions) == 0 {
		return time.Time{}, time.Time{}
	}
	first, last := mentions[0].Timestamp, mentions[0].Timestamp
	for _, m := range mentions[1:] {
		if m.Timestamp.Before(first) {
			first = m.Timestamp
		}
		if m.Timestamp.After(last) {
			last = m.Timestamp
		}
	}
	return first, last
}
