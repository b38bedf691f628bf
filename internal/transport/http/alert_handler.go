package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "wsbpulse/internal/errors"
	"wsbpulse/internal/services"
	"wsbpulse/internal/store"
)

// AlertHandler serves the alert endpoints.
type AlertHandler struct {
	analytics    *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAlertHandler creates the handler.
func NewAlertHandler(analytics *services.AnalyticsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AlertHandler {
	return &AlertHandler{
		analytics:    analytics,
		logger:       logger.With(slog.String("component", "alert_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the alert routes.
func (h *AlertHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetAlerts)
	r.Post("/{id}/acknowledge", h.AcknowledgeAlert)
	r.Post("/acknowledge-all", h.AcknowledgeAll)
	return r
}

// GetAlerts handles GET /api/alerts. ?unacknowledged=true restricts to
// open alerts.
func (h *AlertHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit")
	unackedOnly := r.URL.Query().Get("unacknowledged") == "true"

	alerts, err := h.analytics.Alerts(r.Context(), limit, unackedOnly)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.StoreError("list alerts", err))
		return
	}

	render.JSON(w, r, map[string]any{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// AcknowledgeAlert handles POST /api/alerts/{id}/acknowledge.
func (h *AlertHandler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "alert id is required"))
		return
	}

	err := h.analytics.AcknowledgeAlert(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.errorHandler.HandleError(w, r, apierrors.ErrAlertNotFound)
		return
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.StoreError("acknowledge alert", err))
		return
	}

	render.JSON(w, r, map[string]any{
		"acknowledged": true,
		"id":           id,
	})
}

// AcknowledgeAll handles POST /api/alerts/acknowledge-all.
func (h *AlertHandler) AcknowledgeAll(w http.ResponseWriter, r *http.Request) {
	count, err := h.analytics.AcknowledgeAll(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.StoreError("acknowledge all alerts", err))
		return
	}

	render.JSON(w, r, map[string]any{
		"acknowledged": true,
		"count":        count,
	})
}
