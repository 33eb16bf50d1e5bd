package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinicslots/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h *Handler, path string) (*httptest.ResponseRecorder, Response) {
	router := httprouter.New()
	h.RegisterRoutes(router)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var resp Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHealth(t *testing.T) {
	w, resp := serve(NewHandler(logger.Discard()), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", resp.Status)
}

func TestReady_NoDependencies(t *testing.T) {
	w, resp := serve(NewHandler(logger.Discard()), "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", resp.Status)
}

func TestReady_ReportsFailingDependency(t *testing.T) {
	h := NewHandler(logger.Discard()).
		With("mongo", func(context.Context) error { return nil }).
		With("redis", func(context.Context) error { return errors.New("connection refused") })

	w, resp := serve(h, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, map[string]string{"mongo": "ok", "redis": "error"}, resp.Dependencies)
}

func TestReady_CheckGetsDeadline(t *testing.T) {
	h := NewHandler(logger.Discard()).With("mongo", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	})

	w, _ := serve(h, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
}
