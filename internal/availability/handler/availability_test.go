package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinicslots/internal/availability/service"
	bookingsrepo "clinicslots/internal/bookings/repository"
	treatmentsrepo "clinicslots/internal/treatments/repository"
	"clinicslots/pkg/config"
	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	cfg := &config.Config{Log: logger.Discard(), ReadTimeout: time.Second}
	svc := service.NewAvailabilityService(
		treatmentsrepo.NewMemoryTreatmentRepository(model.Treatment{Name: "Cleaning", BasePrice: 50, Slots: []string{"9am", "10am"}}),
		bookingsrepo.NewMemoryBookingRepository(),
		cfg,
	)
	router := httprouter.New()
	NewAvailabilityHandler(svc, cfg.Log).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/availability?date=2024-01-05", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"treatment":"Cleaning","base_price":50,"free_slots":["9am","10am"]}]}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/availability", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
