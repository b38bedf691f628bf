package domain

import "time"

// AlertType is the closed set of conditions the evaluator can raise.
type AlertType string

const (
	AlertHeatSpike      AlertType = "heat_spike"
	AlertSentimentShift AlertType = "sentiment_shift"
	AlertVolumeSurge    AlertType = "volume_surge"
)

// Alert is an append-only record of a threshold crossing. Only the
// Acknowledged flag is ever mutated, and only by an explicit external
// acknowledgment, never by the pipeline.
type Alert struct {
	ID           string    `json:"id"`
	Ticker       string    `json:"ticker"`
	Type         AlertType `json:"alert_type"`
	Message      string    `json:"message"`
	HeatScore    float64   `json:"heat_score"`
	Sentiment    float64   `json:"sentiment"`
	TriggeredAt  time.Time `json:"triggered_at"`
	Acknowledged bool      `json:"acknowledged"`
}
