package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
)

// AnalysisHandler handles simulated website analysis requests
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
	}
}

// StartAnalysis starts a job. Poll GetAnalysis for progress.
//
// Endpoint: POST /api/analysis
// Request: request.AnalysisRequest
// Response: 202 Accepted with model.AnalysisJob
func (h *AnalysisHandler) StartAnalysis(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.AnalysisRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	job, err := h.analysisService.Start(req)
	if err != nil {
		response.RespondAppError(w, "failed to start analysis", err)
		return
	}
	response.RespondJSON(w, http.StatusAccepted, job)
}

func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	job, err := h.analysisService.Get(chi.URLParam(r, "uuid"))
	if err != nil {
		response.RespondAppError(w, "failed to retrieve analysis", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, job)
}

// CancelAnalysis stops a running job.
//
// Endpoint: DELETE /api/analysis/{uuid}
// Response: 200 OK with the cancelled model.AnalysisJob
// Error: 404 for an unknown job, 409 Conflict when the job already finished
func (h *AnalysisHandler) CancelAnalysis(w http.ResponseWriter, r *http.Request) {
	job, err := h.analysisService.Cancel(chi.URLParam(r, "uuid"))
	if err != nil {
		if errors.Is(err, apperrors.ErrAnalysisFinished) {
			response.RespondError(w, http.StatusConflict, "analysis already finished", job)
			return
		}
		response.RespondAppError(w, "failed to cancel analysis", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, job)
}
