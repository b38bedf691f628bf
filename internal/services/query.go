package services

import (
	"context"
	"time"

	"wsbpulse/internal/correlation"
	"wsbpulse/internal/domain"
	"wsbpulse/internal/heat"
)

// TickerQuery narrows the ranked summaries endpoint. Zero values fall
// back to the configured defaults.
type TickerQuery struct {
	Hours       int
	Limit       int
	MinMentions int
}

// CorrelationQuery narrows the correlation endpoints. Zero values fall
// back to the configured defaults; Ticker filters pairs to those
// involving it.
type CorrelationQuery struct {
	Hours            int
	MinSharedPeriods int
	MinCooccurrences int
	Limit            int
	Ticker           string
}

// SummariesQuery returns ranked summaries honoring per-request overrides.
// With no overrides it serves the latest snapshot; otherwise it
// recomputes live over the requested window.
func (a *AnalyticsService) SummariesQuery(ctx context.Context, q TickerQuery) ([]domain.TickerSummary, error) {
	var summaries []domain.TickerSummary

	if q.Hours <= 0 && q.MinMentions <= 0 {
		snapshotSummaries, err := a.Summaries(ctx)
		if err != nil {
			return nil, err
		}
		summaries = snapshotSummaries
	} else {
		hours := q.Hours
		if hours <= 0 {
			hours = a.cfg.Analysis.LookbackHours
		}
		minMentions := q.MinMentions
		if minMentions <= 0 {
			minMentions = a.cfg.Analysis.MinMentionsToRank
		}
		mentions, err := a.store.MentionsSince(ctx, time.Duration(hours)*time.Hour)
		if err != nil {
			return nil, err
		}
		baseline, err := a.store.LatestSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		summaries = heat.NewEngine(minMentions).BuildSummaries(mentions, heat.BaselineIndex(baseline))
	}

	if q.Limit > 0 && q.Limit < len(summaries) {
		summaries = summaries[:q.Limit]
	}
	if summaries == nil {
		summaries = []domain.TickerSummary{}
	}
	return summaries, nil
}

// CorrelationsQuery returns sentiment correlations honoring per-request
// overrides.
func (a *AnalyticsService) CorrelationsQuery(ctx context.Context, q CorrelationQuery) ([]domain.CorrelationPair, error) {
	engine, mentions, err := a.queryEngine(ctx, q)
	if err != nil {
		return nil, err
	}
	pairs := engine.Correlations(mentions)

	if q.Ticker != "" {
		pairs = filterCorrelations(pairs, q.Ticker)
	}
	if q.Limit > 0 && q.Limit < len(pairs) {
		pairs = pairs[:q.Limit]
	}
	if pairs == nil {
		pairs = []domain.CorrelationPair{}
	}
	return pairs, nil
}

// CooccurrencesQuery returns co-occurrence pairs honoring per-request
// overrides.
func (a *AnalyticsService) CooccurrencesQuery(ctx context.Context, q CorrelationQuery) ([]domain.CooccurrencePair, error) {
	engine, mentions, err := a.queryEngine(ctx, q)
	if err != nil {
		return nil, err
	}
	pairs := engine.Cooccurrences(mentions)

	if q.Ticker != "" {
		pairs = filterCooccurrences(pairs, q.Ticker)
	}
	if q.Limit > 0 && q.Limit < len(pairs) {
		pairs = pairs[:q.Limit]
	}
	if pairs == nil {
		pairs = []domain.CooccurrencePair{}
	}
	return pairs, nil
}

// MatrixQuery returns the correlation matrix over the hottest tickers of
// the requested window.
func (a *AnalyticsService) MatrixQuery(ctx context.Context, q CorrelationQuery) (*domain.CorrelationMatrix, error) {
	limit := q.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	summaries, err := a.SummariesQuery(ctx, TickerQuery{Hours: q.Hours})
	if err != nil {
		return nil, err
	}
	tickers := heat.TopMovers(summaries, limit)

	engine, mentions, err := a.queryEngine(ctx, q)
	if err != nil {
		return nil, err
	}
	matrix := engine.Matrix(mentions, tickers)
	return &matrix, nil
}

func (a *AnalyticsService) queryEngine(ctx context.Context, q CorrelationQuery) (*correlation.Engine, []domain.TickerMention, error) {
	hours := q.Hours
	if hours <= 0 {
		hours = a.cfg.Analysis.LookbackHours
	}
	minShared := q.MinSharedPeriods
	if minShared <= 0 {
		minShared = a.cfg.Analysis.MinSharedPeriods
	}
	minCo := q.MinCooccurrences
	if minCo <= 0 {
		minCo = a.cfg.Analysis.MinCooccurrences
	}

	mentions, err := a.store.MentionsSince(ctx, time.Duration(hours)*time.Hour)
	if err != nil {
		return nil, nil, err
	}
	engine := correlation.NewEngine(a.cfg.Analysis.BucketSize, minShared, minCo)
	return engine, mentions, nil
}

func filterCorrelations(pairs []domain.CorrelationPair, ticker string) []domain.CorrelationPair {
	filtered := pairs[:0]
	for _, p := range pairs {
		if p.TickerA == ticker || p.TickerB == ticker {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func filterCooccurrences(pairs []domain.CooccurrencePair, ticker string) []domain.CooccurrencePair {
	filtered := pairs[:0]
	for _, p := range pairs {
		if p.TickerA == ticker || p.TickerB == ticker {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
