package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wsbpulse/internal/config"
	apierrors "wsbpulse/internal/errors"
	"wsbpulse/internal/prices"
	"wsbpulse/internal/services"
	"wsbpulse/internal/websocket"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// NewRouter assembles the full route tree.
func NewRouter(
	cfg *config.Config,
	scan *services.ScanService,
	analytics *services.AnalyticsService,
	priceService *prices.Service,
	hub *websocket.Hub,
	logger *slog.Logger,
) http.Handler {
	errorHandler := apierrors.NewErrorHandler(logger)

	tickers := NewTickerHandler(analytics, logger, errorHandler)
	alerts := NewAlertHandler(analytics, logger, errorHandler)
	correlations := NewCorrelationHandler(analytics, logger, errorHandler)
	quotes := NewPriceHandler(priceService, logger, errorHandler)
	system := NewSystemHandler(cfg, scan, analytics, hub, logger, errorHandler)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(requestLogger(logger))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/tickers", tickers.Routes())
		r.Mount("/alerts", alerts.Routes())
		r.Mount("/correlation", correlations.Routes())
		r.Mount("/prices", quotes.Routes())
		system.RegisterRoutes(r)
	})

	r.Get("/ws", system.ServeWS)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// requestLogger logs every request with its chi request id.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("took", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
