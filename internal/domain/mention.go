package domain

import "time"

// TickerMention is one (ticker, post) pair with the sentiment of the
// mention context. The pair is globally unique; re-scanning the same post
// never creates a second mention for the same ticker.
type TickerMention struct {
	Ticker      string         `json:"ticker"`
	PostID      string         `json:"post_id"`
	PostTitle   string         `json:"post_title"`
	Sentiment   Sentiment      `json:"sentiment"`
	Label       SentimentLabel `json:"sentiment_label"`
	Context     string         `json:"context"`
	Timestamp   time.Time      `json:"timestamp"`
	Subreddit   string         `json:"subreddit"`
	PostScore   int            `json:"post_score"`
	NumComments int            `json:"num_comments"`
	PostFlair   string         `json:"post_flair,omitempty"`
	IsDDPost    bool           `json:"is_dd_post"`
}

// TickerSummary aggregates the mentions of one ticker over a lookback
// window. Recomputed each scan cycle; never mutated in place.
type TickerSummary struct {
	Ticker        string    `json:"ticker"`
	MentionCount  int       `json:"mention_count"`
	UniquePosts   int       `json:"unique_posts"`
	AvgSentiment  float64   `json:"avg_sentiment"`
	SentimentStd  float64   `json:"sentiment_std"`
	BullishRatio  float64   `json:"bullish_ratio"`
	TotalScore    int       `json:"total_score"`
	DDCount       int       `json:"dd_count"`
	AvgEngagement float64   `json:"avg_engagement"`
	HeatScore     float64   `json:"heat_score"`
	FirstSeen     time.Time `json:"first_seen"`
	LastSeen      time.Time `json:"last_seen"`

	// Trend vs the prior window; nil when no baseline exists.
	MentionChangePct *float64 `json:"mention_change_pct,omitempty"`
	SentimentChange  *float64 `json:"sentiment_change,omitempty"`
}

// SentimentLabel returns the label for the window-average sentiment.
func (s TickerSummary) SentimentLabel() SentimentLabel {
	return LabelForCompound(s.AvgSentiment)
}

// Snapshot is the persisted state of one scan cycle, used as the trend
// baseline for the next cycle.
type Snapshot struct {
	ID            string          `json:"id"`
	Timestamp     time.Time       `json:"timestamp"`
	Subreddits    []string        `json:"subreddits"`
	PostsAnalyzed int             `json:"posts_analyzed"`
	TickersFound  int             `json:"tickers_found"`
	Summaries     []TickerSummary `json:"summaries"`
	TopMovers     []string        `json:"top_movers"`
	ScanDuration  float64         `json:"scan_duration_seconds"`
	Source        string          `json:"source"`
}
