package domain

import "time"

// RawPost is a post as delivered by the post source. Immutable once
// ingested; the pipeline never mutates it.
type RawPost struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Selftext    string    `json:"selftext"`
	Author      string    `json:"author"`
	Subreddit   string    `json:"subreddit"`
	Score       int       `json:"score"`
	UpvoteRatio float64   `json:"upvote_ratio"`
	NumComments int       `json:"num_comments"`
	CreatedUTC  time.Time `json:"created_utc"`
	Flair       string    `json:"flair,omitempty"`
	URL         string    `json:"url,omitempty"`
	Permalink   string    `json:"permalink"`
}

// FullText combines title and body for extraction and scoring.
func (p RawPost) FullText() string {
	if p.Selftext == "" {
		return p.Title
	}
	return p.Title + " " + p.Selftext
}

// EngagementRatio is comments per upvote with a floor of 1 on the score,
// so zero- and negative-score posts do not divide by zero.
func (p RawPost) EngagementRatio() float64 {
	score := p.Score
	if score < 1 {
		score = 1
	}
	return float64(p.NumComments) / float64(score)
}
