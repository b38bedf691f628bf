package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	gorillaws "github.com/gorilla/websocket"

	"wsbpulse/internal/config"
	apierrors "wsbpulse/internal/errors"
	"wsbpulse/internal/exporter"
	"wsbpulse/internal/services"
	"wsbpulse/internal/websocket"
)

// SystemHandler serves scan control, stats, health, export and the
// websocket upgrade.
type SystemHandler struct {
	cfg          *config.Config
	scan         *services.ScanService
	analytics    *services.AnalyticsService
	hub          *websocket.Hub
	upgrader     gorillaws.Upgrader
	started      time.Time
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSystemHandler creates the handler.
func NewSystemHandler(
	cfg *config.Config,
	scan *services.ScanService,
	analytics *services.AnalyticsService,
	hub *websocket.Hub,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
) *SystemHandler {
	allowed := make(map[string]struct{}, len(cfg.Server.AllowedOrigins))
	for _, origin := range cfg.Server.AllowedOrigins {
		allowed[origin] = struct{}{}
	}

	return &SystemHandler{
		cfg:       cfg,
		scan:      scan,
		analytics: analytics,
		hub:       hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		started:      time.Now(),
		logger:       logger.With(slog.String("component", "system_handler")),
		errorHandler: errorHandler,
	}
}

// RegisterRoutes adds the system routes to the /api router.
func (h *SystemHandler) RegisterRoutes(r chi.Router) {
	r.Post("/scan", h.TriggerScan)
	r.Get("/stats", h.GetStats)
	r.Get("/health", h.GetHealth)
	r.Get("/export/summaries.csv", h.ExportSummaries)
	r.Get("/export/mentions.csv", h.ExportMentions)
}

// TriggerScan handles POST /api/scan.
func (h *SystemHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.scan.Scan(r.Context())
	if errors.Is(err, services.ErrScanInProgress) {
		h.errorHandler.HandleError(w, r, apierrors.ErrScanInProgress)
		return
	}
	if err != nil {
		h.errorHandler.HandleError(w, r,
			apierrors.NewWithDetails(http.StatusInternalServerError, "SCAN_FAILED", "Scan cycle failed", err.Error()))
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, snapshot)
}

// GetStats handles GET /api/stats.
func (h *SystemHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.analytics.LatestSnapshot(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.StoreError("stats", err))
		return
	}

	stats := map[string]any{
		"uptime_seconds":    time.Since(h.started).Seconds(),
		"scan_running":      h.scan.Running(),
		"websocket_clients": h.hub.ClientCount(),
		"subreddits":        h.cfg.Reddit.Subreddits,
		"scan_interval":     h.cfg.Reddit.ScanInterval.String(),
		"lookback_hours":    h.cfg.Analysis.LookbackHours,
	}
	if snapshot != nil {
		stats["last_scan"] = map[string]any{
			"id":             snapshot.ID,
			"timestamp":      snapshot.Timestamp,
			"posts_analyzed": snapshot.PostsAnalyzed,
			"tickers_found":  snapshot.TickersFound,
			"top_movers":     snapshot.TopMovers,
			"duration":       snapshot.ScanDuration,
		}
	}
	render.JSON(w, r, stats)
}

// GetHealth handles GET /api/health.
func (h *SystemHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":  "healthy",
		"version": Version,
		"time":    time.Now().UTC(),
	})
}

// ExportSummaries handles GET /api/export/summaries.csv.
func (h *SystemHandler) ExportSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.analytics.Summaries(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.StoreError("export summaries", err))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="summaries.csv"`)
	if err := exporter.WriteSummaries(w, summaries); err != nil {
		h.logger.Error("summary export failed", slog.String("error", err.Error()))
	}
}

// ExportMentions handles GET /api/export/mentions.csv.
func (h *SystemHandler) ExportMentions(w http.ResponseWriter, r *http.Request) {
	mentions, err := h.analytics.MentionsWindow(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.StoreError("export mentions", err))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="mentions.csv"`)
	if err := exporter.WriteMentions(w, mentions); err != nil {
		h.logger.Error("mention export failed", slog.String("error", err.Error()))
	}
}

// ServeWS handles GET /ws.
func (h *SystemHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	websocket.ServeWS(h.hub, conn, h.logger)
}
