// Package reddit fetches posts from the public Reddit JSON listings.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"wsbpulse/internal/config"
	"wsbpulse/internal/domain"
)

const defaultBaseURL = "https://www.reddit.com"

// PostSource delivers posts for one subreddit. The scan pipeline depends
// on this interface, not on the Reddit client, so tests and replays can
// substitute their own source.
type PostSource interface {
	FetchPosts(ctx context.Context, subreddit string) ([]domain.RawPost, error)
}

// Client reads the public JSON listings without authentication. Requests
// are rate limited to stay inside Reddit's unauthenticated allowance.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	baseURL    string
	userAgent  string
	sort       string
	limit      int
}

// NewClient creates a listing client from the reddit config section.
func NewClient(cfg config.RedditConfig, logger *slog.Logger) *Client {
	delay := cfg.RequestDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(delay), 1),
		logger:     logger,
		baseURL:    defaultBaseURL,
		userAgent:  cfg.UserAgent,
		sort:       strings.ToLower(cfg.Sort),
		limit:      cfg.ScanLimit,
	}
}

// listing mirrors the fields we read from the Reddit listing payload.
type listing struct {
	Data struct {
		Children []struct {
			Data listingPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type listingPost struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Selftext      string  `json:"selftext"`
	Author        string  `json:"author"`
	Subreddit     string  `json:"subreddit"`
	Score         int     `json:"score"`
	UpvoteRatio   float64 `json:"upvote_ratio"`
	NumComments   int     `json:"num_comments"`
	CreatedUTC    float64 `json:"created_utc"`
	LinkFlairText string  `json:"link_flair_text"`
	URL           string  `json:"url"`
	Permalink     string  `json:"permalink"`
	Stickied      bool    `json:"stickied"`
}

// FetchPosts returns the current listing for one subreddit. Stickied
// posts (daily threads, announcements) are dropped.
func (c *Client) FetchPosts(ctx context.Context, subreddit string) ([]domain.RawPost, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/r/%s/%s.json?%s", c.baseURL, url.PathEscape(subreddit), c.sort,
		url.Values{
			"limit": {fmt.Sprintf("%d", c.limit)},
			"raw_json": {"1"},
		}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build listing request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w", subreddit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("fetch r/%s: rate limited by reddit", subreddit)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch r/%s: unexpected status %d", subreddit, resp.StatusCode)
	}

	var payload listing
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode r/%s listing: %w", subreddit, err)
	}

	posts := make([]domain.RawPost, 0, len(payload.Data.Children))
	for _, child := range payload.Data.Children {
		p := child.Data
		if p.Stickied || p.ID == "" {
			continue
		}
		posts = append(posts, domain.RawPost{
			ID:          p.ID,
			Title:       p.Title,
			Selftext:    p.Selftext,
			Author:      p.Author,
			Subreddit:   p.Subreddit,
			Score:       p.Score,
			UpvoteRatio: p.UpvoteRatio,
			NumComments: p.NumComments,
			CreatedUTC:  time.Unix(int64(p.CreatedUTC), 0).UTC(),
			Flair:       p.LinkFlairText,
			URL:         p.URL,
			Permalink:   p.Permalink,
		})
	}

	c.logger.Debug("fetched subreddit listing",
		slog.String("subreddit", subreddit),
		slog.Int("posts", len(posts)))
	return posts, nil
}
