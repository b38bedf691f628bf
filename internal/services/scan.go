// Package services wires the analysis pipeline together: fetching posts,
// extracting and scoring mentions, aggregating, alerting and persisting.
package services

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"wsbpulse/internal/alerts"
	"wsbpulse/internal/config"
	"wsbpulse/internal/correlation"
	"wsbpulse/internal/domain"
	"wsbpulse/internal/extract"
	"wsbpulse/internal/heat"
	"wsbpulse/internal/infrastructure"
	"wsbpulse/internal/reddit"
	"wsbpulse/internal/sentiment"
	"wsbpulse/internal/store"
)

// ErrScanInProgress is returned when a scan is requested while one is
// already running.
var ErrScanInProgress = errors.New("scan already in progress")

// Broadcaster pushes pipeline events to connected clients. The websocket
// hub implements it; tests use a recording stub.
type Broadcaster interface {
	Broadcast(event string, payload any)
}

// noopBroadcaster is used when no push channel is wired, e.g. the
// one-shot scanner CLI.
type noopBroadcaster struct{}

func (noopBroadcaster) Broadcast(string, any) {}

// ScanService runs the full scan cycle. One scan at a time; concurrent
// requests fail fast with ErrScanInProgress.
type ScanService struct {
	cfg       *config.Config
	source    reddit.PostSource
	extractor *extract.Extractor
	analyzer  *sentiment.Analyzer
	engine    *heat.Engine
	evaluator *alerts.Evaluator
	store     *store.Store
	broadcast Broadcaster
	metrics   *infrastructure.Metrics
	logger    *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScanService assembles the pipeline from its parts. A nil broadcaster
// disables push events.
func NewScanService(
	cfg *config.Config,
	source reddit.PostSource,
	extractor *extract.Extractor,
	analyzer *sentiment.Analyzer,
	st *store.Store,
	broadcast Broadcaster,
	logger *slog.Logger,
) *ScanService {
	if broadcast == nil {
		broadcast = noopBroadcaster{}
	}
	return &ScanService{
		cfg:       cfg,
		source:    source,
		extractor: extractor,
		analyzer:  analyzer,
		engine:    heat.NewEngine(cfg.Analysis.MinMentionsToRank),
		evaluator: alerts.NewEvaluator(cfg.Alerts),
		store:     st,
		broadcast: broadcast,
		metrics:   infrastructure.GetMetrics(),
		logger:    logger,
	}
}

// Running reports whether a scan cycle is currently executing.
func (s *ScanService) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Scan executes one full cycle and returns the persisted snapshot.
func (s *ScanService) Scan(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrScanInProgress
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	started := time.Now()
	s.logger.Info("scan cycle started",
		slog.Any("subreddits", s.cfg.Reddit.Subreddits))

	posts, err := s.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	mentions := s.analyzePosts(ctx, posts)

	inserted, err := s.store.SaveMentions(ctx, mentions)
	if err != nil {
		return nil, err
	}
	s.metrics.MentionsRecorded.Add(float64(inserted))

	// The baseline must be read before this cycle's snapshot is saved.
	baseline, err := s.store.LatestSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	window, err := s.store.MentionsSince(ctx, s.lookback())
	if err != nil {
		return nil, err
	}

	summaries := s.engine.BuildSummaries(window, heat.BaselineIndex(baseline))

	fired, err := s.checkAlerts(ctx, summaries)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.Snapshot{
		ID:            uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		Subreddits:    s.cfg.Reddit.Subreddits,
		PostsAnalyzed: len(posts),
		TickersFound:  len(summaries),
		Summaries:     summaries,
		TopMovers:     heat.TopMovers(summaries, 10),
		ScanDuration:  time.Since(started).Seconds(),
		Source:        "reddit",
	}
	if err := s.store.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}

	s.metrics.ScanCycles.Inc()
	s.metrics.ScanDuration.Observe(snapshot.ScanDuration)
	s.metrics.TickersTracked.Set(float64(len(summaries)))

	s.broadcast.Broadcast("snapshot", snapshot)
	for _, alert := range fired {
		s.broadcast.Broadcast("alert", alert)
	}

	s.logger.Info("scan cycle complete",
		slog.Int("posts", len(posts)),
		slog.Int("tickers", len(summaries)),
		slog.Int("new_mentions", inserted),
		slog.Int("alerts", len(fired)),
		slog.Duration("took", time.Since(started)))
	return snapshot, nil
}

// RunLoop scans on the configured interval until the context ends. Errors
// are logged, not fatal; the next tick retries.
func (s *ScanService) RunLoop(ctx context.Context) {
	interval := s.cfg.Reddit.ScanInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.Scan(ctx); err != nil && !errors.Is(err, ErrScanInProgress) {
			s.logger.Error("scan cycle failed", slog.String("error", err.Error()))
		}
		if err := s.cleanup(ctx); err != nil {
			s.logger.Error("retention cleanup failed", slog.String("error", err.Error()))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *ScanService) fetchAll(ctx context.Context) ([]domain.RawPost, error) {
	var posts []domain.RawPost
	for _, subreddit := range s.cfg.Reddit.Subreddits {
		fetched, err := s.source.FetchPosts(ctx, subreddit)
		if err != nil {
			// One unreachable subreddit should not sink the whole cycle.
			s.logger.Warn("subreddit fetch failed",
				slog.String("subreddit", subreddit),
				slog.String("error", err.Error()))
			continue
		}
		posts = append(posts, fetched...)
	}
	if len(posts) == 0 {
		return nil, errors.New("no posts fetched from any subreddit")
	}
	return posts, nil
}

// analyzePosts fans extraction and scoring out over a bounded worker
// group. Both stages are pure, so per-post work is freely parallel.
func (s *ScanService) analyzePosts(ctx context.Context, posts []domain.RawPost) []domain.TickerMention {
	results := make([][]domain.TickerMention, len(posts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, post := range posts {
		if post.Score < s.cfg.Reddit.MinScore {
			s.metrics.PostsSkipped.Inc()
			continue
		}
		i, post := i, post
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = s.analyzePost(post)
			s.metrics.PostsProcessed.Inc()
			return nil
		})
	}
	// Workers only fail on context cancellation; partial results are fine.
	_ = g.Wait()

	var mentions []domain.TickerMention
	for _, r := range results {
		mentions = append(mentions, r...)
	}
	return mentions
}

func (s *ScanService) analyzePost(post domain.RawPost) []domain.TickerMention {
	text := post.FullText()
	matches := s.extractor.Extract(text)
	if len(matches) == 0 {
		return nil
	}

	isDD := sentiment.IsDDPost(post.Flair, post.Selftext)
	mentions := make([]domain.TickerMention, 0, len(matches))
	for _, match := range matches {
		score := s.analyzer.AnalyzeForTicker(text, match.Ticker)
		mentions = append(mentions, domain.TickerMention{
			Ticker:      match.Ticker,
			PostID:      post.ID,
			PostTitle:   post.Title,
			Sentiment:   score,
			Label:       score.Label(),
			Context:     match.Context,
			Timestamp:   post.CreatedUTC,
			Subreddit:   post.Subreddit,
			PostScore:   post.Score,
			NumComments: post.NumComments,
			PostFlair:   post.Flair,
			IsDDPost:    isDD,
		})
	}
	return mentions
}

func (s *ScanService) checkAlerts(ctx context.Context, summaries []domain.TickerSummary) ([]domain.Alert, error) {
	open, err := s.store.OpenAlerts(ctx)
	if err != nil {
		return nil, err
	}
	fired := s.evaluator.Evaluate(summaries, open)
	if err := s.store.SaveAlerts(ctx, fired); err != nil {
		return nil, err
	}
	for _, alert := range fired {
		s.metrics.AlertsFired.WithLabelValues(string(alert.Type)).Inc()
		s.logger.Info("alert fired",
			slog.String("ticker", alert.Ticker),
			slog.String("type", string(alert.Type)),
			slog.String("message", alert.Message))
	}
	return fired, nil
}

func (s *ScanService) cleanup(ctx context.Context) error {
	retention := time.Duration(s.cfg.Analysis.RetentionDays) * 24 * time.Hour
	return s.store.Cleanup(ctx, retention)
}

func (s *ScanService) lookback() time.Duration {
	return time.Duration(s.cfg.Analysis.LookbackHours) * time.Hour
}

// CorrelationEngine builds the correlation engine matching the analysis
// config, shared by the analytics service and the exporter.
func CorrelationEngine(cfg config.AnalysisConfig) *correlation.Engine {
	return correlation.NewEngine(cfg.BucketSize, cfg.MinSharedPeriods, cfg.MinCooccurrences)
}
