package handler

import (
	"net/http"

	"clinicslots/internal/doctors/service"
	"clinicslots/pkg/auth"
	apperrors "clinicslots/pkg/errors"
	httputil "clinicslots/pkg/http"
	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type DoctorHandler struct {
	service service.DoctorService
	log     *logger.Logger
}

func NewDoctorHandler(service service.DoctorService, log *logger.Logger) *DoctorHandler {
	return &DoctorHandler{
		service: service,
		log:     log,
	}
}

func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	doctors, err := h.service.List(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, doctors); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

// Put creates or replaces the doctor keyed by the e-mail in the path.
func (h *DoctorHandler) Put(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var doctor model.Doctor
	if err := httputil.DecodeJSON(r, &doctor); err != nil {
		h.writeError(w, "Put", err)
		return
	}
	doctor.Email = ps.ByName("email")

	if err := h.service.Upsert(r.Context(), &doctor, auth.FromContext(r.Context())); err != nil {
		h.writeError(w, "Put", err)
		return
	}

	if err := httputil.WriteSuccess(w, doctor); err != nil {
		h.log.Error("failed to write success response", "handler", "Put", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DoctorHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("email"), auth.FromContext(r.Context())); err != nil {
		h.writeError(w, "Delete", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *DoctorHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
	if apperrors.HasCode(err, apperrors.CodeInternal) {
		h.log.Error("request failed", "handler", handler, "error", err)
	}
}

func (h *DoctorHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/doctors", h.List)
	router.PUT("/api/v1/doctors/:email", h.Put)
	router.DELETE("/api/v1/doctors/:email", h.Delete)
}
