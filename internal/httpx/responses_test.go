package httpx

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-1"))

	JSONSuccess(w, r, map[string]string{"key": "value"}, map[string]any{"total": 10})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"key": "value"}, body["data"])
	meta := body["meta"].(map[string]any)
	assert.Equal(t, "req-1", meta["request_id"])
	assert.Equal(t, float64(10), meta["total"])
	assert.NotContains(t, body, "message")
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	details := []ErrorDetail{{Field: "email", Message: "email is required"}}

	JSONError(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", details)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.False(t, response.Success)
	assert.Equal(t, "VALIDATION_ERROR", response.Code)
	assert.Equal(t, "Invalid input", response.Message)
	require.Len(t, response.Errors, 1)
	assert.Equal(t, "email", response.Errors[0].Field)
	assert.Nil(t, response.Meta)
}

func TestJSONSuccessCreated(t *testing.T) {
	w := httptest.NewRecorder()

	JSONSuccessCreated(w, httptest.NewRequest(http.MethodPost, "/", nil), "Book created successfully", map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	var response SuccessResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.True(t, response.Success)
	assert.Equal(t, "Book created successfully", response.Message)
}

func TestJSONSuccessNoContent(t *testing.T) {
	w := httptest.NewRecorder()

	JSONSuccessNoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDecodeJSON_RejectsTrailingData(t *testing.T) {
	var dst map[string]any
	r := httptest.NewRequest(http.MethodPost, "/", stringsReader(`{"a":1}{"b":2}`))
	assert.Error(t, DecodeJSON(r, &dst))

	r = httptest.NewRequest(http.MethodPost, "/", stringsReader(`{"a":1}garbage`))
	assert.ErrorIs(t, DecodeJSON(r, &dst), errTrailingData)

	r = httptest.NewRequest(http.MethodPost, "/", stringsReader("{\"a\":1}\n"))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, float64(1), dst["a"])
}

func TestDecodeJSON_EmptyBody(t *testing.T) {
	var dst map[string]any
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	assert.ErrorIs(t, DecodeJSON(r, &dst), io.EOF)
}
