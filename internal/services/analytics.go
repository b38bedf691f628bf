package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"wsbpulse/internal/config"
	"wsbpulse/internal/correlation"
	"wsbpulse/internal/domain"
	"wsbpulse/internal/heat"
	"wsbpulse/internal/store"
)

// AnalyticsService answers read-side queries over the persisted data.
type AnalyticsService struct {
	cfg    *config.Config
	store  *store.Store
	corr   *correlation.Engine
	logger *slog.Logger
}

// NewAnalyticsService creates the query service.
func NewAnalyticsService(cfg *config.Config, st *store.Store, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		cfg:    cfg,
		store:  st,
		corr:   CorrelationEngine(cfg.Analysis),
		logger: logger,
	}
}

// TickerDetail bundles one ticker's summary with its recent mentions.
type TickerDetail struct {
	Summary  domain.TickerSummary   `json:"summary"`
	Mentions []domain.TickerMention `json:"mentions"`
}

// Summaries returns the ranked ticker summaries of the latest snapshot.
// Empty when no scan has run yet.
func (a *AnalyticsService) Summaries(ctx context.Context) ([]domain.TickerSummary, error) {
	snapshot, err := a.store.LatestSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return []domain.TickerSummary{}, nil
	}
	return snapshot.Summaries, nil
}

// Ticker returns the detail view for one ticker, or store.ErrNotFound
// when it has no mentions in the lookback window.
func (a *AnalyticsService) Ticker(ctx context.Context, ticker string) (*TickerDetail, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	mentions, err := a.store.MentionsForTicker(ctx, ticker, a.lookback())
	if err != nil {
		return nil, err
	}
	if len(mentions) == 0 {
		return nil, store.ErrNotFound
	}

	summary := a.summaryFor(ctx, ticker, mentions)
	return &TickerDetail{Summary: summary, Mentions: mentions}, nil
}

// Correlations returns the pairwise sentiment correlations over the
// lookback window.
func (a *AnalyticsService) Correlations(ctx context.Context) ([]domain.CorrelationPair, error) {
	mentions, err := a.store.MentionsSince(ctx, a.lookback())
	if err != nil {
		return nil, err
	}
	pairs := a.corr.Correlations(mentions)
	if pairs == nil {
		pairs = []domain.CorrelationPair{}
	}
	return pairs, nil
}

// Cooccurrences returns the ticker pairs discussed in the same posts.
func (a *AnalyticsService) Cooccurrences(ctx context.Context) ([]domain.CooccurrencePair, error) {
	mentions, err := a.store.MentionsSince(ctx, a.lookback())
	if err != nil {
		return nil, err
	}
	pairs := a.corr.Cooccurrences(mentions)
	if pairs == nil {
		pairs = []domain.CooccurrencePair{}
	}
	return pairs, nil
}

// Matrix returns the correlation matrix over the top tickers of the
// latest snapshot, capped at limit.
func (a *AnalyticsService) Matrix(ctx context.Context, limit int) (*domain.CorrelationMatrix, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	summaries, err := a.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	tickers := heat.TopMovers(summaries, limit)

	mentions, err := a.store.MentionsSince(ctx, a.lookback())
	if err != nil {
		return nil, err
	}
	matrix := a.corr.Matrix(mentions, tickers)
	return &matrix, nil
}

// Alerts returns recent alerts, optionally only the unacknowledged ones.
func (a *AnalyticsService) Alerts(ctx context.Context, limit int, unackedOnly bool) ([]domain.Alert, error) {
	return a.store.Alerts(ctx, limit, unackedOnly)
}

// AcknowledgeAlert marks one alert acknowledged.
func (a *AnalyticsService) AcknowledgeAlert(ctx context.Context, id string) error {
	return a.store.AcknowledgeAlert(ctx, id)
}

// AcknowledgeAll marks every open alert acknowledged.
func (a *AnalyticsService) AcknowledgeAll(ctx context.Context) (int, error) {
	return a.store.AcknowledgeAll(ctx)
}

// LatestSnapshot returns the most recent scan snapshot, nil when none.
func (a *AnalyticsService) LatestSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	return a.store.LatestSnapshot(ctx)
}

// Snapshots returns recent snapshots, newest first.
func (a *AnalyticsService) Snapshots(ctx context.Context, limit int) ([]*domain.Snapshot, error) {
	return a.store.Snapshots(ctx, limit)
}

// MentionsWindow exposes the raw mention window, used by the exporter.
func (a *AnalyticsService) MentionsWindow(ctx context.Context) ([]domain.TickerMention, error) {
	return a.store.MentionsSince(ctx, a.lookback())
}

// summaryFor prefers the snapshot summary (which carries trend fields)
// and falls back to a live aggregation of the window's mentions.
func (a *AnalyticsService) summaryFor(ctx context.Context, ticker string, mentions []domain.TickerMention) domain.TickerSummary {
	snapshot, err := a.store.LatestSnapshot(ctx)
	if err == nil && snapshot != nil {
		for _, s := range snapshot.Summaries {
			if s.Ticker == ticker {
				return s
			}
		}
	}
	live := heat.NewEngine(1).BuildSummaries(mentions, nil)
	if len(live) == 1 {
		return live[0]
	}
	return domain.TickerSummary{Ticker: ticker}
}

func (a *AnalyticsService) lookback() time.Duration {
	return time.Duration(a.cfg.Analysis.LookbackHours) * time.Hour
}
