package infrastructure

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the scan pipeline.
type Metrics struct {
	ScanCycles       prometheus.Counter
	ScanDuration     prometheus.Histogram
	PostsProcessed   prometheus.Counter
	PostsSkipped     prometheus.Counter
	MentionsRecorded prometheus.Counter
	AlertsFired      *prometheus.CounterVec
	TickersTracked   prometheus.Gauge
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// GetMetrics returns the process-wide metrics set, registering the
// instruments on first use.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			ScanCycles: promauto.NewCounter(prometheus.CounterOpts{
				Name: "wsbpulse_scan_cycles_total",
				Help: "Number of completed scan cycles",
			}),
			ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "wsbpulse_scan_duration_seconds",
				Help:    "Duration of scan cycles",
				Buckets: prometheus.DefBuckets,
			}),
			PostsProcessed: promauto.NewCounter(prometheus.CounterOpts{
				Name: "wsbpulse_posts_processed_total",
				Help: "Posts run through extraction and scoring",
			}),
			PostsSkipped: promauto.NewCounter(prometheus.CounterOpts{
				Name: "wsbpulse_posts_skipped_total",
				Help: "Posts skipped (below minimum score)",
			}),
			MentionsRecorded: promauto.NewCounter(prometheus.CounterOpts{
				Name: "wsbpulse_mentions_recorded_total",
				Help: "New ticker mentions persisted",
			}),
			AlertsFired: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "wsbpulse_alerts_fired_total",
				Help: "Alerts raised, by alert type",
			}, []string{"type"}),
			TickersTracked: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "wsbpulse_tickers_tracked",
				Help: "Distinct tickers in the latest snapshot",
			}),
		}
	})
	return metrics
}
