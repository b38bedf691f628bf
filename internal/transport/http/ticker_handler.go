// Package http exposes the analysis pipeline over a chi-routed JSON API.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "wsbpulse/internal/errors"
	"wsbpulse/internal/services"
	"wsbpulse/internal/store"
)

// TickerHandler serves the ranked ticker endpoints.
type TickerHandler struct {
	analytics    *services.AnalyticsService
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewTickerHandler creates the handler.
func NewTickerHandler(analytics *services.AnalyticsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *TickerHandler {
	return &TickerHandler{
		analytics:    analytics,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "ticker_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the ticker routes.
func (h *TickerHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetTickers)
	r.Route("/{symbol}", func(r chi.Router) {
		r.Use(h.SymbolCtx)
		r.Get("/", h.GetTicker)
		r.Get("/mentions", h.GetTickerMentions)
	})
	return r
}

// SymbolCtx validates the {symbol} parameter.
func (h *TickerHandler) SymbolCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
		if err := h.validate.Var(symbol, "required,alpha,min=1,max=5"); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("symbol", "ticker symbols are 1-5 letters"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetTickers handles GET /api/tickers.
func (h *TickerHandler) GetTickers(w http.ResponseWriter, r *http.Request) {
	query := services.TickerQuery{
		Hours:       intParam(r, "hours"),
		Limit:       intParam(r, "limit"),
		MinMentions: intParam(r, "min_mentions"),
	}
	if query.Hours > 720 {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("hours", "hours must be between 1 and 720"))
		return
	}

	summaries, err := h.analytics.SummariesQuery(r.Context(), query)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.StoreError("list tickers", err))
		return
	}

	render.JSON(w, r, map[string]any{
		"tickers": summaries,
		"count":   len(summaries),
	})
}

// GetTicker handles GET /api/tickers/{symbol}.
func (h *TickerHandler) GetTicker(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	detail, err := h.analytics.Ticker(r.Context(), symbol)
	if errors.Is(err, store.ErrNotFound) {
		h.errorHandler.HandleError(w, r, apierrors.ErrTickerNotFound)
		return
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.StoreError("ticker detail", err))
		return
	}
	render.JSON(w, r, detail)
}

// GetTickerMentions handles GET /api/tickers/{symbol}/mentions.
func (h *TickerHandler) GetTickerMentions(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	detail, err := h.analytics.Ticker(r.Context(), symbol)
	if errors.Is(err, store.ErrNotFound) {
		h.errorHandler.HandleError(w, r, apierrors.ErrTickerNotFound)
		return
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.StoreError("ticker mentions", err))
		return
	}

	mentions := detail.Mentions
	if limit := intParam(r, "limit"); limit > 0 && limit < len(mentions) {
		mentions = mentions[:limit]
	}
	render.JSON(w, r, map[string]any{
		"ticker":   symbol,
		"mentions": mentions,
		"count":    len(mentions),
	})
}

// intParam reads a non-negative integer query parameter, 0 when absent
// or malformed.
func intParam(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
