package handler

import (
	"net/http"

	"clinicslots/internal/bookings/service"
	"clinicslots/pkg/auth"
	httputil "clinicslots/pkg/http"
	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

// Submit answers 201 for a new reservation, 200 when the patient already
// holds one for the day, and 409 when the slot belongs to someone else.
func (h *BookingHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	result, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	status := http.StatusCreated
	switch {
	case result.SlotTaken():
		status = http.StatusConflict
	case !result.Accepted:
		status = http.StatusOK
	}
	if !result.Accepted {
		result.Reservation = redactFor(auth.FromContext(r.Context()), result.Reservation)
	}

	if err := httputil.WriteJSON(w, status, httputil.SuccessResponse{Data: result}); err != nil {
		h.log.Error("failed to write response", "handler", "Submit", "operation", "WriteJSON", "error", err)
	}
}

// redactFor hides the holder's personal fields from callers who do not own
// the reservation.
func redactFor(caller *auth.Identity, r *model.Reservation) *model.Reservation {
	if r == nil || caller.CanAccess(r.PatientID) {
		return r
	}
	redacted := *r
	redacted.PatientID = ""
	redacted.PatientName = ""
	redacted.TransactionID = ""
	return &redacted
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.GetByID(r.Context(), ps.ByName("id"), auth.FromContext(r.Context()))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListForPatient(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	patientID := r.URL.Query().Get("patient")

	reservations, err := h.service.ListForPatient(r.Context(), patientID, auth.FromContext(r.Context()))
	if err != nil {
		h.writeError(w, "ListForPatient", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservations); err != nil {
		h.log.Error("failed to write success response", "handler", "ListForPatient", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Submit)
	router.GET("/api/v1/bookings", h.ListForPatient)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
}
