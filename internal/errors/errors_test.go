package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Predefined(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrTickerNotFound.StatusCode)
	assert.Equal(t, "TICKER_NOT_FOUND", ErrTickerNotFound.ErrorCode)
	assert.Equal(t, http.StatusConflict, ErrScanInProgress.StatusCode)
	assert.NotEmpty(t, ErrInternalServer.Error())
}

func TestErrValidation(t *testing.T) {
	err := ErrValidation("hours", "must be between 1 and 720")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)

	details, ok := err.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "hours", details.Field)
}

func TestErrorHandler_WritesEnvelope(t *testing.T) {
	handler := NewErrorHandler(slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/tickers/ZZZZ", nil)
	rec := httptest.NewRecorder()
	handler.HandleError(rec, req, ErrTickerNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var envelope ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "TICKER_NOT_FOUND", envelope.Error.ErrorCode)
}

func TestErrorHandler_NilError(t *testing.T) {
	handler := NewErrorHandler(slog.Default())
	rec := httptest.NewRecorder()
	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Empty(t, rec.Body.String())
}
