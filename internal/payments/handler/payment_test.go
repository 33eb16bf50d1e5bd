package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	bookingsrepo "clinicslots/internal/bookings/repository"
	"clinicslots/internal/payments/repository"
	"clinicslots/internal/payments/service"
	"clinicslots/internal/payments/validator"
	treatmentsrepo "clinicslots/internal/treatments/repository"
	"clinicslots/pkg/auth"
	"clinicslots/pkg/config"
	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"
	"clinicslots/pkg/payment"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, model.NotificationKind, model.Reservation) {}

func setup(t *testing.T, processor payment.Processor) (*httprouter.Router, *model.Reservation) {
	t.Helper()
	cfg := &config.Config{Log: logger.Discard(), PaymentCurrency: "usd"}
	bookings := bookingsrepo.NewMemoryBookingRepository()
	reservation := &model.Reservation{Treatment: "Massage", Date: "2024-05-01", Slot: "10:00", PatientID: "p1", PatientName: "Ann"}
	require.NoError(t, bookings.Insert(context.Background(), reservation))

	svc := service.NewPaymentService(
		bookings,
		repository.NewMemoryPaymentRepository(),
		treatmentsrepo.NewMemoryTreatmentRepository(model.Treatment{Name: "Massage", BasePrice: 80, Slots: []string{"10:00"}}),
		processor,
		validator.NewPaymentValidator(cfg.Log),
		nopNotifier{},
		cfg,
	)
	router := httprouter.New()
	NewPaymentHandler(svc, cfg.Log).RegisterRoutes(router)
	return router, reservation
}

func do(router http.Handler, method, path, body, subject string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		req = req.WithContext(auth.WithIdentity(req.Context(), &auth.Identity{SubjectID: subject}))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRecordPayment_Handler(t *testing.T) {
	router, r := setup(t, payment.DisabledProcessor{})
	path := "/api/v1/bookings/id/" + r.ID + "/payment"

	w := do(router, http.MethodPatch, path, `{"transaction_id":"tx-1"}`, "p1")
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data model.Reservation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Data.Paid)
	assert.Equal(t, "tx-1", env.Data.TransactionID)

	w = do(router, http.MethodPatch, path, `{"transaction_id":"tx-2"}`, "p1")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "tx-1", env.Data.TransactionID)
}

func TestRecordPayment_HandlerErrors(t *testing.T) {
	router, r := setup(t, payment.DisabledProcessor{})
	path := "/api/v1/bookings/id/" + r.ID + "/payment"

	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodPatch, path, `{"transaction_id":"tx-1"}`, "").Code)
	assert.Equal(t, http.StatusForbidden, do(router, http.MethodPatch, path, `{"transaction_id":"tx-1"}`, "p2").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPatch, path, `{"transaction_id":`, "p1").Code)
}

func TestCreateChargeIntent_Handler(t *testing.T) {
	router, r := setup(t, payment.DisabledProcessor{})

	w := do(router, http.MethodPost, "/api/v1/payments/intents", `{"reservation_id":"`+r.ID+`"}`, "p1")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
