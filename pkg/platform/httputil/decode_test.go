package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "policyhub/pkg/domain-errors"
)

type testRequest struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type preparedRequest struct {
	Name       string `json:"name"`
	normalized bool
}

func (r *preparedRequest) Normalize() {
	r.normalized = true
	r.Name = strings.TrimSpace(r.Name)
}

func (r *preparedRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type domainValidatedRequest struct {
	Zip string `json:"zip"`
}

func (r *domainValidatedRequest) Validate() error {
	return dErrors.New(dErrors.CodeValidation, "zip_code must be at most 5")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestDecodeJSON(t *testing.T) {
	t.Run("successful decode", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"test","value":42}`))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[testRequest](w, req, discardLogger())

		require.True(t, ok)
		assert.Equal(t, "test", result.Name)
		assert.Equal(t, 42, result.Value)
	})

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{invalid json}`))
		w := httptest.NewRecorder()

		result, ok := DecodeJSON[testRequest](w, req, discardLogger())

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeBody(t, w).Error)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":true}`))
		w := httptest.NewRecorder()

		_, ok := DecodeJSON[testRequest](w, req, discardLogger())

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDecodeAndPrepare(t *testing.T) {
	t.Run("normalizes before validating", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"  alice  "}`))
		w := httptest.NewRecorder()

		result, ok := DecodeAndPrepare[preparedRequest](w, req, discardLogger())

		require.True(t, ok)
		assert.True(t, result.normalized)
		assert.Equal(t, "alice", result.Name)
	})

	t.Run("plain validation error becomes validation_error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"   "}`))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[preparedRequest](w, req, discardLogger())

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "validation_error", body.Error)
		assert.Equal(t, "name is required", body.ErrorDescription)
	})

	t.Run("domain validation error keeps its message", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"zip":"123456"}`))
		w := httptest.NewRecorder()

		_, ok := DecodeAndPrepare[domainValidatedRequest](w, req, discardLogger())

		assert.False(t, ok)
		assert.Equal(t, "zip_code must be at most 5", decodeBody(t, w).ErrorDescription)
	})
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDesc   string
	}{
		{"not found", dErrors.NotFound("policy holder", "PH0000000009"), http.StatusNotFound, "not_found", "policy holder not found: PH0000000009"},
		{"validation", dErrors.New(dErrors.CodeValidation, "bad zip"), http.StatusBadRequest, "validation_error", "bad zip"},
		{"illegal state", dErrors.New(dErrors.CodeInvalidState, "holder is INACTIVE"), http.StatusConflict, "invalid_state", "holder is INACTIVE"},
		{"conflict", dErrors.New(dErrors.CodeConflict, "stale version"), http.StatusConflict, "conflict", "stale version"},
		{"deserialization hides detail", dErrors.New(dErrors.CodeDeserialization, "unknown event type"), http.StatusInternalServerError, "internal_error", ""},
		{"plain error", errors.New("db down"), http.StatusInternalServerError, "internal_error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			body := decodeBody(t, w)
			assert.Equal(t, tt.wantCode, body.Error)
			assert.Equal(t, tt.wantDesc, body.ErrorDescription)
		})
	}
}
