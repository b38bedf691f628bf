package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_Polarity(t *testing.T) {
	a := NewAnalyzer(nil)

	tests := []struct {
		name string
		text string
		want func(t *testing.T, compound float64)
	}{
		{
			name: "bullish slang scores positive",
			text: "GME to the moon, diamond hands, tendies incoming",
			want: func(t *testing.T, c float64) { assert.Greater(t, c, 0.3) },
		},
		{
			name: "bearish slang scores negative",
			text: "this is a rug pull, total scam, we are rekt",
			want: func(t *testing.T, c float64) { assert.Less(t, c, -0.3) },
		},
		{
			name: "empty text is neutral",
			text: "",
			want: func(t *testing.T, c float64) { assert.Zero(t, c) },
		},
		{
			name: "no lexicon hits is neutral",
			text: "the quarterly filing includes a schedule",
			want: func(t *testing.T, c float64) { assert.Zero(t, c) },
		},
		{
			name: "negation flips positive",
			text: "this stock is not good",
			want: func(t *testing.T, c float64) { assert.Less(t, c, 0.0) },
		},
		{
			name: "negation flips negative",
			text: "earnings were not bad at all",
			want: func(t *testing.T, c float64) { assert.Greater(t, c, 0.0) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := a.Analyze(tt.text)
			tt.want(t, s.Compound)
			assert.GreaterOrEqual(t, s.Compound, -1.0)
			assert.LessOrEqual(t, s.Compound, 1.0)
		})
	}
}

func TestAnalyze_Emphasis(t *testing.T) {
	a := NewAnalyzer(nil)

	plain := a.Analyze("this stock is good")
	boosted := a.Analyze("this stock is extremely good")
	assert.Greater(t, boosted.Compound, plain.Compound, "booster should amplify")

	caps := a.Analyze("this stock is GOOD")
	assert.Greater(t, caps.Compound, plain.Compound, "caps word should amplify")

	allCaps := a.Analyze("THIS STOCK IS GOOD")
	assert.InDelta(t, plain.Compound, allCaps.Compound, 0.001,
		"all-caps text gets no per-word emphasis")

	bang := a.Analyze("this stock is good!!!")
	assert.Greater(t, bang.Compound, plain.Compound, "exclamations should amplify")
}

func TestAnalyze_EmojiAndPhrases(t *testing.T) {
	a := NewAnalyzer(nil)

	rocket := a.Analyze("GME \U0001F680\U0001F680\U0001F680")
	assert.Greater(t, rocket.Compound, 0.3)

	bear := a.Analyze("SPY \U0001F4C9\U0001F43B")
	assert.Less(t, bear.Compound, 0.0)

	phrase := a.Analyze("gamma squeeze incoming")
	assert.Greater(t, phrase.Compound, 0.0, "multi-word phrase should score")
}

func TestAnalyze_Proportions(t *testing.T) {
	a := NewAnalyzer(nil)
	s := a.Analyze("good stock but risky play")
	assert.Greater(t, s.Positive, 0.0)
	assert.Greater(t, s.Negative, 0.0)
	assert.InDelta(t, 1.0, s.Positive+s.Negative+s.Neutral, 0.001)
}

func TestAnalyzeForTicker(t *testing.T) {
	a := NewAnalyzer(nil)
	text := "Market looks terrible and everything is crashing. But GME is mooning with diamond hands!"

	overall := a.Analyze(text)
	forTicker := a.AnalyzeForTicker(text, "GME")
	assert.Greater(t, forTicker.Compound, overall.Compound,
		"ticker sentence weighting should pull toward the GME sentence")

	missing := a.AnalyzeForTicker(text, "ZZZZ")
	assert.Equal(t, overall.Compound, missing.Compound,
		"ticker absent from text falls back to overall")
}

func TestLexicon_Overrides(t *testing.T) {
	lex := NewLexicon()

	v, ok := lex.Valence("moon")
	require.True(t, ok)
	assert.Equal(t, 3.0, v, "domain entry wins over base table")

	lex.Set("stonks", 9.5)
	v, ok = lex.Valence("stonks")
	require.True(t, ok)
	assert.Equal(t, 4.0, v, "valences clamp to the -4..4 scale")
}

func TestIsDDPost(t *testing.T) {
	longAnalytical := "The revenue growth and earnings guidance suggest a strong thesis. " +
		"Their balance sheet shows low debt and the cash flow statement from the latest " +
		"10-K supports the valuation. Short interest remains elevated relative to float."
	for len(longAnalytical) < ddMinBodyLength {
		longAnalytical += " Institutional ownership and insider buying round out the fundamentals picture."
	}

	tests := []struct {
		name  string
		flair string
		body  string
		want  bool
	}{
		{"dd flair", "DD", "short body", true},
		{"due diligence flair", "Due Diligence \U0001F50D", "", true},
		{"meme flair short body", "Meme", "to the moon", false},
		{"long analytical body", "", longAnalytical, true},
		{"long rambling body", "", longFiller(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDDPost(tt.flair, tt.body))
		})
	}
}

func longFiller() string {
	s := ""
	for len(s) < ddMinBodyLength {
		s += "I like the stock and that is the whole story really. "
	}
	return s
}
