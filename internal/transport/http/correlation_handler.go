package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "wsbpulse/internal/errors"
	"wsbpulse/internal/services"
)

// CorrelationHandler serves the correlation analytics endpoints.
type CorrelationHandler struct {
	analytics    *services.AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewCorrelationHandler creates the handler.
func NewCorrelationHandler(analytics *services.AnalyticsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CorrelationHandler {
	return &CorrelationHandler{
		analytics:    analytics,
		logger:       logger.With(slog.String("component", "correlation_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the correlation routes.
func (h *CorrelationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetCorrelations)
	r.Get("/cooccurrence", h.GetCooccurrences)
	r.Get("/matrix", h.GetMatrix)
	return r
}

func correlationQuery(r *http.Request) services.CorrelationQuery {
	return services.CorrelationQuery{
		Hours:            intParam(r, "hours"),
		MinSharedPeriods: intParam(r, "min_shared_periods"),
		MinCooccurrences: intParam(r, "min_cooccurrences"),
		Limit:            intParam(r, "limit"),
		Ticker:           strings.ToUpper(r.URL.Query().Get("ticker")),
	}
}

// GetCorrelations handles GET /api/correlation.
func (h *CorrelationHandler) GetCorrelations(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.analytics.CorrelationsQuery(r.Context(), correlationQuery(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.StoreError("correlations", err))
		return
	}
	render.JSON(w, r, map[string]any{
		"correlations": pairs,
		"count":        len(pairs),
	})
}

// GetCooccurrences handles GET /api/correlation/cooccurrence.
func (h *CorrelationHandler) GetCooccurrences(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.analytics.CooccurrencesQuery(r.Context(), correlationQuery(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.StoreError("cooccurrences", err))
		return
	}
	render.JSON(w, r, map[string]any{
		"cooccurrences": pairs,
		"count":         len(pairs),
	})
}

// GetMatrix handles GET /api/correlation/matrix.
func (h *CorrelationHandler) GetMatrix(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.analytics.MatrixQuery(r.Context(), correlationQuery(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.StoreError("correlation matrix", err))
		return
	}
	render.JSON(w, r, matrix)
}
