package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawPost_FullText(t *testing.T) {
	assert.Equal(t, "title", RawPost{Title: "title"}.FullText())
	assert.Equal(t, "title body", RawPost{Title: "title", Selftext: "body"}.FullText())
}

func TestRawPost_EngagementRatio(t *testing.T) {
	tests := []struct {
		name string
		post RawPost
		want float64
	}{
		{"normal ratio", RawPost{Score: 100, NumComments: 50}, 0.5},
		{"zero score floors to one", RawPost{Score: 0, NumComments: 3}, 3.0},
		{"negative score floors to one", RawPost{Score: -10, NumComments: 2}, 2.0},
		{"no comments", RawPost{Score: 100}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.post.EngagementRatio(), 1e-9)
		})
	}
}
