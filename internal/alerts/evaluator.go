// Package alerts evaluates ticker summaries against configured thresholds
// and emits append-only alert records.
package alerts

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"wsbpulse/internal/config"
	"wsbpulse/internal/domain"
)

// Evaluator raises alerts from summaries. Stateless across cycles; the
// suppression set of open alerts is passed in per evaluation so an
// acknowledged alert can re-trigger independently.
type Evaluator struct {
	cfg config.AlertsConfig
	now func() time.Time
}

// NewEvaluator creates an evaluator with the given thresholds.
func NewEvaluator(cfg config.AlertsConfig) *Evaluator {
	return &Evaluator{cfg: cfg, now: time.Now}
}

// Evaluate checks every summary against the three alert conditions and
// returns the new alerts. open holds the currently unacknowledged alerts;
// a condition already represented there for the same ticker and type is
// suppressed until that alert is acknowledged.
func (e *Evaluator) Evaluate(summaries []domain.TickerSummary, open []domain.Alert) []domain.Alert {
	if !e.cfg.Enabled {
		return nil
	}

	suppressed := make(map[string]struct{}, len(open))
	for _, a := range open {
		if !a.Acknowledged {
			suppressed[suppressionKey(a.Ticker, a.Type)] = struct{}{}
		}
	}

	var fired []domain.Alert
	emit := func(ticker string, alertType domain.AlertType, message string, heat, sentiment float64) {
		if _, dup := suppressed[suppressionKey(ticker, alertType)]; dup {
			return
		}
		fired = append(fired, domain.Alert{
			ID:          uuid.NewString(),
			Ticker:      ticker,
			Type:        alertType,
			Message:     message,
			HeatScore:   heat,
			Sentiment:   sentiment,
			TriggeredAt: e.now().UTC(),
		})
	}

	for _, s := range summaries {
		if s.MentionCount < e.cfg.MinMentions {
			continue
		}

		if s.HeatScore >= e.cfg.HeatThreshold {
			emit(s.Ticker, domain.AlertHeatSpike,
				fmt.Sprintf("%s heat score %.1f crossed threshold %.1f with %d mentions",
					s.Ticker, s.HeatScore, e.cfg.HeatThreshold, s.MentionCount),
				s.HeatScore, s.AvgSentiment)
		}

		if s.SentimentChange != nil && math.Abs(*s.SentimentChange) >= e.cfg.SentimentChange &&
			s.HeatScore >= e.cfg.MinHeatScore {
			direction := "bullish"
			if *s.SentimentChange < 0 {
				direction = "bearish"
			}
			emit(s.Ticker, domain.AlertSentimentShift,
				fmt.Sprintf("%s sentiment shifted %s by %.2f since the last window",
					s.Ticker, direction, math.Abs(*s.SentimentChange)),
				s.HeatScore, s.AvgSentiment)
		}

		if s.MentionChangePct != nil &&
			*s.MentionChangePct >= (e.cfg.VolumeSpikeMultiplier-1)*100 {
			emit(s.Ticker, domain.AlertVolumeSurge,
				fmt.Sprintf("%s mention volume up %.0f%% to %d mentions",
					s.Ticker, *s.MentionChangePct, s.MentionCount),
				s.HeatScore, s.AvgSentiment)
		}
	}
	return fired
}

func suppressionKey(ticker string, alertType domain.AlertType) string {
	return ticker + "|" + string(alertType)
}
