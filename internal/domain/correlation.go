package domain

// CorrelationPair is the Pearson correlation of two tickers' bucketed
// sentiment series, restricted to buckets where both have mentions.
// The pair is unordered: TickerA < TickerB lexicographically.
type CorrelationPair struct {
	TickerA       string  `json:"ticker_a"`
	TickerB       string  `json:"ticker_b"`
	Correlation   float64 `json:"correlation"`
	SharedPeriods int     `json:"shared_periods"`
	AvgSentimentA float64 `json:"avg_sentiment_a"`
	AvgSentimentB float64 `json:"avg_sentiment_b"`
}

// CooccurrencePair counts posts that mention both tickers.
type CooccurrencePair struct {
	TickerA              string   `json:"ticker_a"`
	TickerB              string   `json:"ticker_b"`
	Count                int      `json:"cooccurrence_count"`
	AvgCombinedSentiment float64  `json:"avg_combined_sentiment"`
	SamplePostIDs        []string `json:"sample_post_ids"`
}

// CorrelationMatrix is an NxN symmetric matrix over Tickers; the diagonal
// is 1.0 by definition and pairs without enough shared data are 0.
type CorrelationMatrix struct {
	Tickers []string    `json:"tickers"`
	Matrix  [][]float64 `json:"matrix"`
}
