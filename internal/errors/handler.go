package errors

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ErrorHandler provides centralized error responses with request logging.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError logs the failure and writes the error envelope.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, apiErr *APIError) {
	if apiErr == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())
	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error_code", apiErr.ErrorCode),
		slog.String("message", apiErr.Message),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if err := render.Render(w, r, NewErrorResponse(apiErr)); err != nil {
		http.Error(w, apiErr.Message, apiErr.StatusCode)
	}
}
