package domain

// SentimentLabel classifies a compound score into a fixed set of buckets.
type SentimentLabel string

const (
	LabelVeryBullish SentimentLabel = "very_bullish"
	LabelBullish     SentimentLabel = "bullish"
	LabelNeutral     SentimentLabel = "neutral"
	LabelBearish     SentimentLabel = "bearish"
	LabelVeryBearish SentimentLabel = "very_bearish"
)

// Label thresholds on the compound score. The inner boundaries are
// inclusive: exactly +0.05 is bullish, exactly -0.05 is bearish.
const (
	veryBullishThreshold = 0.5
	bullishThreshold     = 0.05
	bearishThreshold     = -0.05
	veryBearishThreshold = -0.5
)

// LabelForCompound maps a compound score in [-1, 1] to its label.
func LabelForCompound(compound float64) SentimentLabel {
	switch {
	case compound >= veryBullishThreshold:
		return LabelVeryBullish
	case compound >= bullishThreshold:
		return LabelBullish
	case compound <= veryBearishThreshold:
		return LabelVeryBearish
	case compound <= bearishThreshold:
		return LabelBearish
	default:
		return LabelNeutral
	}
}

// Sentiment is the result of scoring a text span.
type Sentiment struct {
	Compound float64 `json:"compound"`
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// Label returns the categorical label for the compound score.
func (s Sentiment) Label() SentimentLabel {
	return LabelForCompound(s.Compound)
}
