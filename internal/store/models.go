package store

import (
	"encoding/json"
	"strings"
	"time"

	"wsbpulse/internal/domain"
)

// mentionRow persists one (ticker, post) mention. The composite unique
// index makes re-ingestion idempotent at the database level.
type mentionRow struct {
	ID          uint      `gorm:"primaryKey"`
	Ticker      string    `gorm:"size:8;uniqueIndex:idx_ticker_post;index"`
	PostID      string    `gorm:"size:16;uniqueIndex:idx_ticker_post"`
	PostTitle   string    `gorm:"size:512"`
	Compound    float64   ``
	Positive    float64   ``
	Negative    float64   ``
	Neutral     float64   ``
	Label       string    `gorm:"size:16"`
	Context     string    `gorm:"size:512"`
	Timestamp   time.Time `gorm:"index"`
	Subreddit   string    `gorm:"size:64"`
	PostScore   int       ``
	NumComments int       ``
	PostFlair   string    `gorm:"size:128"`
	IsDDPost    bool      ``
}

func (mentionRow) TableName() string { return "ticker_mentions" }

func newMentionRow(m domain.TickerMention) mentionRow {
	return mentionRow{
		Ticker:      m.Ticker,
		PostID:      m.PostID,
		PostTitle:   m.PostTitle,
		Compound:    m.Sentiment.Compound,
		Positive:    m.Sentiment.Positive,
		Negative:    m.Sentiment.Negative,
		Neutral:     m.Sentiment.Neutral,
		Label:       string(m.Label),
		Context:     m.Context,
		Timestamp:   m.Timestamp.UTC(),
		Subreddit:   m.Subreddit,
		PostScore:   m.PostScore,
		NumComments: m.NumComments,
		PostFlair:   m.PostFlair,
		IsDDPost:    m.IsDDPost,
	}
}

func (r mentionRow) toDomain() domain.TickerMention {
	return domain.TickerMention{
		Ticker:    r.Ticker,
		PostID:    r.PostID,
		PostTitle: r.PostTitle,
		Sentiment: domain.Sentiment{
			Compound: r.Compound,
			Positive: r.Positive,
			Negative: r.Negative,
			Neutral:  r.Neutral,
		},
		Label:       domain.SentimentLabel(r.Label),
		Context:     r.Context,
		Timestamp:   r.Timestamp,
		Subreddit:   r.Subreddit,
		PostScore:   r.PostScore,
		NumComments: r.NumComments,
		PostFlair:   r.PostFlair,
		IsDDPost:    r.IsDDPost,
	}
}

// snapshotRow persists one scan cycle. Summaries and top movers are
// stored as JSON blobs; they are read back whole, never queried by field.
type snapshotRow struct {
	ID            string    `gorm:"primaryKey;size:40"`
	Timestamp     time.Time `gorm:"index"`
	Subreddits    string    `gorm:"size:512"`
	PostsAnalyzed int       ``
	TickersFound  int       ``
	Summaries     string    ``
	TopMovers     string    `gorm:"size:512"`
	ScanDuration  float64   ``
	Source        string    `gorm:"size:32"`
}

func (snapshotRow) TableName() string { return "snapshots" }

func newSnapshotRow(s *domain.Snapshot) (snapshotRow, error) {
	summaries, err := json.Marshal(s.Summaries)
	if err != nil {
		return snapshotRow{}, err
	}
	movers, err := json.Marshal(s.TopMovers)
	if err != nil {
		return snapshotRow{}, err
	}
	return snapshotRow{
		ID:            s.ID,
		Timestamp:     s.Timestamp.UTC(),
		Subreddits:    strings.Join(s.Subreddits, ","),
		PostsAnalyzed: s.PostsAnalyzed,
		TickersFound:  s.TickersFound,
		Summaries:     string(summaries),
		TopMovers:     string(movers),
		ScanDuration:  s.ScanDuration,
		Source:        s.Source,
	}, nil
}

func (r snapshotRow) toDomain() (*domain.Snapshot, error) {
	s := &domain.Snapshot{
		ID:            r.ID,
		Timestamp:     r.Timestamp,
		PostsAnalyzed: r.PostsAnalyzed,
		TickersFound:  r.TickersFound,
		ScanDuration:  r.ScanDuration,
		Source:        r.Source,
	}
	if r.Subreddits != "" {
		s.Subreddits = strings.Split(r.Subreddits, ",")
	}
	if err := json.Unmarshal([]byte(r.Summaries), &s.Summaries); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(r.TopMovers), &s.TopMovers); err != nil {
		return nil, err
	}
	return s, nil
}

// alertRow persists one alert. Rows are append-only; only Acknowledged
// is ever updated.
type alertRow struct {
	ID           string    `gorm:"primaryKey;size:40"`
	Ticker       string    `gorm:"size:8;index"`
	Type         string    `gorm:"size:32"`
	Message      string    `gorm:"size:512"`
	HeatScore    float64   ``
	Sentiment    float64   ``
	TriggeredAt  time.Time `gorm:"index"`
	Acknowledged bool      `gorm:"index"`
}

func (alertRow) TableName() string { return "alerts" }

func newAlertRow(a domain.Alert) alertRow {
	return alertRow{
		ID:           a.ID,
		Ticker:       a.Ticker,
		Type:         string(a.Type),
		Message:      a.Message,
		HeatScore:    a.HeatScore,
		Sentiment:    a.Sentiment,
		TriggeredAt:  a.TriggeredAt.UTC(),
		Acknowledged: a.Acknowledged,
	}
}

func (r alertRow) toDomain() domain.Alert {
	return domain.Alert{
		ID:           r.ID,
		Ticker:       r.Ticker,
		Type:         domain.AlertType(r.Type),
		Message:      r.Message,
		HeatScore:    r.HeatScore,
		Sentiment:    r.Sentiment,
		TriggeredAt:  r.TriggeredAt,
		Acknowledged: r.Acknowledged,
	}
}
