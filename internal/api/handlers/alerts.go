package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
)

// AlertHandler handles price alert HTTP requests
type AlertHandler struct {
	alertService *service.AlertService
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(alertService *service.AlertService) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
	}
}

// Alerts lists every alert, fired or not.
func (h *AlertHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertService.List(r.Context())
	if err != nil {
		response.RespondAppError(w, "failed to retrieve alerts", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, alerts)
}

// CreateAlert stores a new price alert.
//
// Endpoint: POST /api/alerts
// Request: request.CreateAlertRequest
// Response: 201 Created with model.AlertCondition
// Error: 400 on validation failure, 402 when the free tier is full
func (h *AlertHandler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAlertRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	alert, err := h.alertService.Create(r.Context(), req)
	if err != nil {
		response.RespondAppError(w, "failed to create alert", err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, alert)
}

// Alert returns the alert identified by the uuid path parameter.
//
// Endpoint: GET /api/alerts/{uuid}
// Response: 200 OK with model.AlertCondition
// Error: 404 when no such alert exists
func (h *AlertHandler) Alert(w http.ResponseWriter, r *http.Request) {
	alert, err := h.alertService.Get(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		response.RespondAppError(w, "failed to retrieve alert", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, alert)
}

// DeleteAlert removes the alert identified by the uuid path parameter.
func (h *AlertHandler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.alertService.Delete(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		response.RespondAppError(w, "failed to delete alert", err)
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}
