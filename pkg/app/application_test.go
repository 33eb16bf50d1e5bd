package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinicslots/pkg/auth"
	"clinicslots/pkg/client"
	"clinicslots/pkg/config"
	"clinicslots/pkg/logger"
	"clinicslots/pkg/middleware"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routes func(*httprouter.Router)

func (f routes) RegisterRoutes(r *httprouter.Router) { f(r) }

const secret = "application-test-secret"

func newTestApp(t *testing.T) *Application {
	t.Helper()
	cfg := &config.Config{
		Port:              "0",
		Log:               logger.Discard(),
		Client:            client.NewClient(),
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1024,
	}

	health := routes(func(r *httprouter.Router) {
		r.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusOK)
		})
	})
	whoami := routes(func(r *httprouter.Router) {
		r.GET("/api/v1/whoami", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
			id := auth.FromContext(r.Context())
			if id == nil {
				_, _ = w.Write([]byte("anonymous"))
				return
			}
			_, _ = w.Write([]byte(id.SubjectID))
		})
		r.POST("/api/v1/echo", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusCreated)
		})
	})

	a := NewApplication(cfg, auth.NewJWTAuthorizer(secret))
	a.SetApp(health, whoami)
	t.Cleanup(func() {
		a.idempotencyStore.Stop()
		a.rateLimiter.Stop()
	})
	return a
}

func TestApplication_AuthenticatesRequests(t *testing.T) {
	a := newTestApp(t)
	token, err := auth.NewJWTAuthorizer(secret).Issue("ann@example.com", auth.RolePatient, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ann@example.com", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestApplication_RejectsBadToken(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApplication_HealthSkipsAuthentication(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApplication_RejectsWrongContentType(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader("x=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestApplication_InMemoryIdempotencyWithoutRedis(t *testing.T) {
	a := newTestApp(t)
	assert.IsType(t, &middleware.InMemoryIdempotencyStore{}, a.idempotencyStore)
}
