// Package exporter writes analysis results as CSV for spreadsheets and
// downstream tooling.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"wsbpulse/internal/domain"
)

// WriteSummaries writes ranked ticker summaries as CSV, one row per
// ticker in the given order.
func WriteSummaries(w io.Writer, summaries []domain.TickerSummary) error {
	cw := csv.NewWriter(w)
	header := []string{
		"ticker", "mention_count", "unique_posts", "avg_sentiment",
		"sentiment_label", "sentiment_std", "bullish_ratio", "total_score",
		"dd_count", "avg_engagement", "heat_score", "mention_change_pct",
		"sentiment_change", "first_seen", "last_seen",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range summaries {
		row := []string{
			s.Ticker,
			strconv.Itoa(s.MentionCount),
			strconv.Itoa(s.UniquePosts),
			formatFloat(s.AvgSentiment),
			string(s.SentimentLabel()),
			formatFloat(s.SentimentStd),
			formatFloat(s.BullishRatio),
			strconv.Itoa(s.TotalScore),
			strconv.Itoa(s.DDCount),
			formatFloat(s.AvgEngagement),
			formatFloat(s.HeatScore),
			formatOptional(s.MentionChangePct),
			formatOptional(s.SentimentChange),
			s.FirstSeen.UTC().Format(time.RFC3339),
			s.LastSeen.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMentions writes raw mentions as CSV, one row per mention.
func WriteMentions(w io.Writer, mentions []domain.TickerMention) error {
	cw := csv.NewWriter(w)
	header := []string{
		"ticker", "post_id", "post_title", "subreddit", "compound",
		"sentiment_label", "post_score", "num_comments", "is_dd_post",
		"timestamp", "context",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, m := range mentions {
		row := []string{
			m.Ticker,
			m.PostID,
			m.PostTitle,
			m.Subreddit,
			formatFloat(m.Sentiment.Compound),
			string(m.Label),
			strconv.Itoa(m.PostScore),
			strconv.Itoa(m.NumComments),
			strconv.FormatBool(m.IsDDPost),
			m.Timestamp.UTC().Format(time.RFC3339),
			m.Context,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
