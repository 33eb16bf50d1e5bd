package handler

import (
	"net/http"

	"clinicslots/internal/payments/service"
	"clinicslots/pkg/auth"
	httputil "clinicslots/pkg/http"
	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PaymentHandler struct {
	service service.PaymentService
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log,
	}
}

func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var confirmation model.PaymentConfirmation
	if err := httputil.DecodeJSON(r, &confirmation); err != nil {
		h.writeError(w, "RecordPayment", err)
		return
	}

	reservation, err := h.service.RecordPayment(r.Context(), ps.ByName("id"), &confirmation, auth.FromContext(r.Context()))
	if err != nil {
		h.writeError(w, "RecordPayment", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "RecordPayment", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) CreateChargeIntent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ChargeIntentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "CreateChargeIntent", err)
		return
	}

	intent, err := h.service.CreateChargeIntent(r.Context(), &req, auth.FromContext(r.Context()))
	if err != nil {
		h.writeError(w, "CreateChargeIntent", err)
		return
	}

	if err := httputil.WriteCreated(w, intent); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateChargeIntent", "operation", "WriteCreated", "error", err)
	}
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, err := h.service.GetPayment(r.Context(), ps.ByName("id"), auth.FromContext(r.Context()))
	if err != nil {
		h.writeError(w, "GetPayment", err)
		return
	}

	if err := httputil.WriteSuccess(w, p); err != nil {
		h.log.Error("failed to write success response", "handler", "GetPayment", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/bookings/id/:id/payment", h.GetPayment)
	router.PATCH("/api/v1/bookings/id/:id/payment", h.RecordPayment)
	router.POST("/api/v1/payments/intents", h.CreateChargeIntent)
}
