package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wsbpulse/internal/config"
	"wsbpulse/internal/domain"
	"wsbpulse/internal/extract"
	"wsbpulse/internal/sentiment"
	"wsbpulse/internal/store"
)

// fakeSource serves a fixed set of posts per subreddit.
type fakeSource struct {
	posts map[string][]domain.RawPost
}

func (f *fakeSource) FetchPosts(_ context.Context, subreddit string) ([]domain.RawPost, error) {
	return f.posts[subreddit], nil
}

// recordingBroadcaster captures pushed events.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingBroadcaster) Broadcast(event string, _ any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingBroadcaster) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func testPost(id, title, body string, score int) domain.RawPost {
	return domain.RawPost{
		ID:          id,
		Title:       title,
		Selftext:    body,
		Subreddit:   "wallstreetbets",
		Score:       score,
		NumComments: score / 2,
		CreatedUTC:  time.Now().UTC().Add(-time.Hour),
	}
}

func newScanFixture(t *testing.T, posts []domain.RawPost) (*ScanService, *store.Store, *recordingBroadcaster) {
	t.Helper()

	cfg := config.Default()
	cfg.Reddit.Subreddits = []string{"wallstreetbets"}
	cfg.Reddit.MinScore = 10
	cfg.Analysis.MinMentionsToRank = 1
	cfg.Alerts.MinMentions = 1
	cfg.Alerts.HeatThreshold = 0.1

	st, err := store.New(filepath.Join(t.TempDir(), "scan.db"), slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	source := &fakeSource{posts: map[string][]domain.RawPost{"wallstreetbets": posts}}
	broadcaster := &recordingBroadcaster{}
	svc := NewScanService(cfg, source, extract.NewExtractor(),
		sentiment.NewAnalyzer(nil), st, broadcaster, slog.Default())
	return svc, st, broadcaster
}

func TestScan_FullCycle(t *testing.T) {
	posts := []domain.RawPost{
		testPost("p1", "$GME to the moon", "diamond hands on GME, very bullish", 500),
		testPost("p2", "Bought more $GME today", "", 200),
		testPost("p3", "low effort", "$AMC maybe", 2), // below min score
	}
	svc, st, broadcaster := newScanFixture(t, posts)
	ctx := context.Background()

	snapshot, err := svc.Scan(ctx)
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, 3, snapshot.PostsAnalyzed)
	assert.Equal(t, "reddit", snapshot.Source)
	assert.NotEmpty(t, snapshot.ID)

	require.NotEmpty(t, snapshot.Summaries)
	top := snapshot.Summaries[0]
	assert.Equal(t, "GME", top.Ticker)
	assert.Equal(t, 2, top.MentionCount)
	assert.Greater(t, top.AvgSentiment, 0.0)
	assert.Nil(t, top.MentionChangePct, "first scan has no baseline")

	// The skipped post contributed no mentions.
	for _, s := range snapshot.Summaries {
		assert.NotEqual(t, "AMC", s.Ticker)
	}

	saved, err := st.LatestSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, snapshot.ID, saved.ID)

	assert.Contains(t, broadcaster.Events(), "snapshot")
}

func TestScan_RepeatIsIdempotent(t *testing.T) {
	posts := []domain.RawPost{
		testPost("p1", "$GME rocket", "", 100),
	}
	svc, st, _ := newScanFixture(t, posts)
	ctx := context.Background()

	first, err := svc.Scan(ctx)
	require.NoError(t, err)
	second, err := svc.Scan(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.Summaries[0].MentionCount, second.Summaries[0].MentionCount,
		"same posts re-scanned must not inflate mention counts")

	mentions, err := st.MentionsSince(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Len(t, mentions, 1)

	// The second cycle has the first as baseline, so trend fields exist.
	require.NotNil(t, second.Summaries[0].MentionChangePct)
	assert.InDelta(t, 0.0, *second.Summaries[0].MentionChangePct, 1e-9)
}

func TestScan_ConcurrentRejected(t *testing.T) {
	svc, _, _ := newScanFixture(t, []domain.RawPost{
		testPost("p1", "$GME", "", 100),
	})

	svc.mu.Lock()
	svc.running = true
	svc.mu.Unlock()

	_, err := svc.Scan(context.Background())
	assert.ErrorIs(t, err, ErrScanInProgress)
	assert.True(t, svc.Running())
}

func TestScan_AlertsFireAndPersist(t *testing.T) {
	posts := []domain.RawPost{
		testPost("p1", "$GME extremely bullish", "to the moon", 500),
	}
	svc, st, broadcaster := newScanFixture(t, posts)
	ctx := context.Background()

	_, err := svc.Scan(ctx)
	require.NoError(t, err)

	open, err := st.OpenAlerts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, open, "low threshold fixture must fire a heat spike")
	assert.Equal(t, domain.AlertHeatSpike, open[0].Type)
	assert.Contains(t, broadcaster.Events(), "alert")

	// The open alert suppresses a duplicate on the next cycle.
	_, err = svc.Scan(ctx)
	require.NoError(t, err)
	after, err := st.Alerts(ctx, 50, false)
	require.NoError(t, err)
	heatSpikes := 0
	for _, a := range after {
		if a.Type == domain.AlertHeatSpike {
			heatSpikes++
		}
	}
	assert.Equal(t, 1, heatSpikes)
}

func TestScan_NoPosts(t *testing.T) {
	svc, _, _ := newScanFixture(t, nil)
	_, err := svc.Scan(context.Background())
	assert.Error(t, err)
}
