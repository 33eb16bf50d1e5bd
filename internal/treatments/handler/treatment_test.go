package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinicslots/internal/treatments/repository"
	"clinicslots/internal/treatments/service"
	"clinicslots/internal/treatments/validator"
	"clinicslots/pkg/auth"
	"clinicslots/pkg/config"
	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(seed ...model.Treatment) *httprouter.Router {
	cfg := &config.Config{Log: logger.Discard(), ReadTimeout: time.Second, WriteTimeout: time.Second}
	svc := service.NewTreatmentService(
		repository.NewMemoryTreatmentRepository(seed...),
		validator.NewTreatmentValidator(cfg.Log),
		cfg,
	)
	router := httprouter.New()
	NewTreatmentHandler(svc, cfg.Log).RegisterRoutes(router)
	return router
}

func TestList_ReturnsSummaries(t *testing.T) {
	router := newRouter(model.Treatment{Name: "Massage", BasePrice: 80, Slots: []string{"10:00"}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/treatments", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"name":"Massage","base_price":80}]}`, w.Body.String())
}

func TestGetByName_NotFound(t *testing.T) {
	router := newRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/treatments/Yoga", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPut_AdminOnly(t *testing.T) {
	router := newRouter()
	body := `{"base_price":50,"slots":["09:00","10:00"]}`

	req := httptest.NewRequest(http.MethodPut, "/api/v1/treatments/Yoga", strings.NewReader(body))
	req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{SubjectID: "p@x"}))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/v1/treatments/Yoga", strings.NewReader(body))
	req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{SubjectID: "root", IsAdmin: true}))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.Treatment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Yoga", resp.Data.Name)
	assert.Equal(t, []string{"09:00", "10:00"}, resp.Data.Slots)
}
