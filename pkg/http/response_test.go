package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "clinicslots/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_AppError(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteError(w, apperrors.NotFoundWithID("Reservation", "r-1")))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Reservation not found", resp.Error)
	assert.Equal(t, apperrors.CodeNotFound, resp.Code)
	assert.Equal(t, "r-1", resp.Details["id"])
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteError(w, errors.New("mongo: connection refused at 10.0.0.3")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestWriteCreated_WrapsData(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteCreated(w, map[string]string{"id": "r-1"}))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"id":"r-1"}}`, w.Body.String())
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))

	err := DecodeJSON(r, &dst)

	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}
