package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "wsbpulse/internal/errors"
	"wsbpulse/internal/prices"
)

const (
	defaultSparklineDays = 7
	maxSparklineDays     = 30
)

// PriceHandler serves market quote and sparkline endpoints.
type PriceHandler struct {
	prices       *prices.Service
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPriceHandler creates the handler.
func NewPriceHandler(priceService *prices.Service, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PriceHandler {
	return &PriceHandler{
		prices:       priceService,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "price_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the price routes.
func (h *PriceHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetQuoteBatch)
	r.Route("/{symbol}", func(r chi.Router) {
		r.Use(h.SymbolCtx)
		r.Get("/", h.GetQuote)
		r.Get("/sparkline", h.GetSparkline)
	})
	return r
}

// SymbolCtx validates the {symbol} parameter.
func (h *PriceHandler) SymbolCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
		if err := h.validate.Var(symbol, "required,alpha,min=1,max=5"); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("symbol", "ticker symbols are 1-5 letters"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetQuote handles GET /api/prices/{symbol}. Unknown tickers still
// answer 200 with the error carried on the quote.
func (h *PriceHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
	render.JSON(w, r, h.prices.Quote(r.Context(), symbol))
}

// GetQuoteBatch handles GET /api/prices?tickers=GME,AMC.
func (h *PriceHandler) GetQuoteBatch(w http.ResponseWriter, r *http.Request) {
	var tickers []string
	for _, raw := range strings.Split(r.URL.Query().Get("tickers"), ",") {
		ticker := strings.ToUpper(strings.TrimSpace(raw))
		if ticker == "" {
			continue
		}
		if err := h.validate.Var(ticker, "alpha,min=1,max=5"); err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("tickers", "ticker symbols are 1-5 letters"))
			return
		}
		tickers = append(tickers, ticker)
	}

	quotes := h.prices.QuoteBatch(r.Context(), tickers)
	if tickers == nil {
		tickers = []string{}
	}
	render.JSON(w, r, map[string]any{
		"prices":    quotes,
		"requested": tickers,
	})
}

// GetSparkline handles GET /api/prices/{symbol}/sparkline.
func (h *PriceHandler) GetSparkline(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	days := intParam(r, "days")
	if days == 0 {
		days = defaultSparklineDays
	}
	if days > maxSparklineDays {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("days", "days must be between 1 and 30"))
		return
	}

	render.JSON(w, r, h.prices.Sparkline(r.Context(), symbol, days))
}
