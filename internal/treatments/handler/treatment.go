package handler

import (
	"net/http"

	"clinicslots/internal/treatments/service"
	"clinicslots/pkg/auth"
	apperrors "clinicslots/pkg/errors"
	httputil "clinicslots/pkg/http"
	"clinicslots/pkg/logger"
	"clinicslots/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type TreatmentHandler struct {
	service service.TreatmentService
	log     *logger.Logger
}

func NewTreatmentHandler(service service.TreatmentService, log *logger.Logger) *TreatmentHandler {
	return &TreatmentHandler{
		service: service,
		log:     log,
	}
}

func (h *TreatmentHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	treatments, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	summaries := make([]model.TreatmentSummary, 0, len(treatments))
	for _, t := range treatments {
		summaries = append(summaries, model.TreatmentSummary{Name: t.Name, BasePrice: t.BasePrice})
	}

	if err := httputil.WriteSuccess(w, summaries); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TreatmentHandler) GetByName(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	treatment, err := h.service.GetByName(r.Context(), ps.ByName("name"))
	if err != nil {
		h.writeError(w, "GetByName", err)
		return
	}

	if err := httputil.WriteSuccess(w, treatment); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByName", "operation", "WriteSuccess", "error", err)
	}
}

// Put creates or replaces a treatment. The name in the path wins over the body.
func (h *TreatmentHandler) Put(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var treatment model.Treatment
	if err := httputil.DecodeJSON(r, &treatment); err != nil {
		h.writeError(w, "Put", err)
		return
	}
	treatment.Name = ps.ByName("name")

	if err := h.service.Upsert(r.Context(), &treatment, auth.FromContext(r.Context())); err != nil {
		h.writeError(w, "Put", err)
		return
	}

	if err := httputil.WriteSuccess(w, treatment); err != nil {
		h.log.Error("failed to write success response", "handler", "Put", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TreatmentHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
	if apperrors.HasCode(err, apperrors.CodeInternal) {
		h.log.Error("request failed", "handler", handler, "error", err)
	}
}

func (h *TreatmentHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/treatments", h.List)
	router.GET("/api/v1/treatments/:name", h.GetByName)
	router.PUT("/api/v1/treatments/:name", h.Put)
}
