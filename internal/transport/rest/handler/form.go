package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"formlens/internal/model"
	"formlens/internal/service"
	"formlens/internal/transport/rest/middleware"
)

// FormHandler handles form and submission endpoints
type FormHandler struct {
	formSvc *service.FormService
	log     *zap.Logger
}

// NewFormHandler creates a new form handler
func NewFormHandler(formSvc *service.FormService, log *zap.Logger) *FormHandler {
	return &FormHandler{
		formSvc: formSvc,
		log:     log,
	}
}

// FormRequest is the request body for creating or updating a form
type FormRequest struct {
	Title    string            `json:"title"`
	Category string            `json:"category"`
	Fields   []model.FormField `json:"fields"`
}

func (req *FormRequest) form() *model.Form {
	fields := req.Fields
	if fields == nil {
		fields = []model.FormField{}
	}
	return &model.Form{
		Title:    req.Title,
		Category: req.Category,
		Fields:   fields,
	}
}

// Create handles POST /v1/forms
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req FormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.formSvc.Create(r.Context(), hostID, req.form())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"formId": id})
}

// List handles GET /v1/forms
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	hostID := middleware.GetHostID(r.Context())
	if hostID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	forms, err := h.formSvc.ListByHost(r.Context(), hostID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"forms": forms})
}

// Get handles GET /v1/forms/{formId}
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.formSvc.GetOwned(r.Context(), middleware.GetHostID(r.Context()), mux.Vars(r)["formId"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// Update handles PUT /v1/forms/{formId}
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req FormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form := req.form()
	form.ID = mux.Vars(r)["formId"]
	if err := h.formSvc.Update(r.Context(), middleware.GetHostID(r.Context()), form); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// Delete handles DELETE /v1/forms/{formId}
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.formSvc.Delete(r.Context(), middleware.GetHostID(r.Context()), mux.Vars(r)["formId"]); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Submit handles POST /v1/forms/{formId}/submissions
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var entry model.SubmissionLog
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.formSvc.RecordSubmission(r.Context(), mux.Vars(r)["formId"], entry)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"submissionId": record.ID})
}

func (h *FormHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidForm):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("Form request failed",
			zap.String("requestId", middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
