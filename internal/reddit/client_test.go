package reddit

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wsbpulse/internal/config"
)

const sampleListing = `{
  "data": {
    "children": [
      {"data": {
        "id": "abc123", "title": "GME to the moon", "selftext": "diamond hands",
        "author": "user1", "subreddit": "wallstreetbets", "score": 420,
        "upvote_ratio": 0.95, "num_comments": 69, "created_utc": 1756500000,
        "link_flair_text": "DD", "permalink": "/r/wallstreetbets/abc123"
      }},
      {"data": {
        "id": "sticky1", "title": "Daily Discussion", "stickied": true,
        "created_utc": 1756500000
      }}
    ]
  }
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(config.RedditConfig{
		Sort:         "hot",
		ScanLimit:    100,
		UserAgent:    "wsbpulse-test/1.0",
		RequestDelay: time.Millisecond,
	}, slog.Default())
	c.baseURL = server.URL
	return c
}

func TestFetchPosts(t *testing.T) {
	var gotPath, gotAgent string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(sampleListing))
	})

	posts, err := c.FetchPosts(context.Background(), "wallstreetbets")
	require.NoError(t, err)

	assert.Equal(t, "/r/wallstreetbets/hot.json", gotPath)
	assert.Equal(t, "wsbpulse-test/1.0", gotAgent)

	require.Len(t, posts, 1, "stickied posts are dropped")
	p := posts[0]
	assert.Equal(t, "abc123", p.ID)
	assert.Equal(t, "GME to the moon", p.Title)
	assert.Equal(t, "diamond hands", p.Selftext)
	assert.Equal(t, 420, p.Score)
	assert.Equal(t, 69, p.NumComments)
	assert.Equal(t, "DD", p.Flair)
	assert.Equal(t, time.Unix(1756500000, 0).UTC(), p.CreatedUTC)
}

func TestFetchPosts_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantMsg: "rate limited",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantMsg: "unexpected status 502",
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
			wantMsg: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, tt.handler)
			_, err := c.FetchPosts(context.Background(), "stocks")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestFetchPosts_ContextCancel(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleListing))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FetchPosts(ctx, "stocks")
	assert.Error(t, err)
}
