package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"formlens/internal/model"
	"formlens/internal/service"
	"formlens/internal/transport/rest/middleware"
)

// AnalysisHandler handles form analysis and report endpoints
type AnalysisHandler struct {
	analysisSvc *service.AnalysisService
	formSvc     *service.FormService
	log         *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisSvc *service.AnalysisService, formSvc *service.FormService, log *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analysisSvc: analysisSvc,
		formSvc:     formSvc,
		log:         log,
	}
}

// Analyze handles POST /v1/analyze. Analyzing a stored form needs the owner's token.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	hostID := middleware.GetHostID(r.Context())
	if req.FormID != "" && hostID == "" {
		writeError(w, http.StatusUnauthorized, "authorization required to analyze a stored form")
		return
	}

	resp, err := h.analysisSvc.Analyze(r.Context(), hostID, &req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SuggestQuestion handles POST /v1/suggest-question
func (h *AnalysisHandler) SuggestQuestion(w http.ResponseWriter, r *http.Request) {
	var req model.SuggestQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "No question provided")
		return
	}

	variants := h.analysisSvc.SuggestVariants(r.Context(), req.Question, req.FormPurpose)
	writeJSON(w, http.StatusOK, map[string]interface{}{"suggested_variants": variants})
}

// GenerateReport handles POST /v1/forms/{formId}/report
func (h *AnalysisHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	if _, err := h.formSvc.GetOwned(r.Context(), middleware.GetHostID(r.Context()), formID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	report, err := h.analysisSvc.GenerateReport(r.Context(), formID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GetReport handles GET /v1/forms/{formId}/report
func (h *AnalysisHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	formID := mux.Vars(r)["formId"]
	if _, err := h.formSvc.GetOwned(r.Context(), middleware.GetHostID(r.Context()), formID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	report, err := h.analysisSvc.GetReport(r.Context(), formID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *AnalysisHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNothingToAnalyze):
		writeError(w, http.StatusBadRequest, "Form fields or user question are required.")
	case errors.Is(err, service.ErrFormNotFound), errors.Is(err, service.ErrReportNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error("Analysis request failed",
			zap.String("requestId", middleware.GetRequestID(r.Context())),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
