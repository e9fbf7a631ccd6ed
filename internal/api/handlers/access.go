package handlers

import (
	"net/http"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
)

// AccessHandler handles premium access HTTP requests
type AccessHandler struct {
	accessService *service.AccessService
}

// NewAccessHandler creates a new AccessHandler
func NewAccessHandler(accessService *service.AccessService) *AccessHandler {
	return &AccessHandler{
		accessService: accessService,
	}
}

// State returns the current access gate state.
func (h *AccessHandler) State(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.accessService.State())
}

// Unlock opens the gate with a passcode.
//
// Endpoint: POST /api/access/unlock
// Request: request.UnlockRequest
// Response: 200 OK with model.AccessState
// Error: 403 Forbidden for a wrong passcode
func (h *AccessHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UnlockRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.accessService.Unlock(r.Context(), req.Passcode); err != nil {
		response.RespondAppError(w, "failed to unlock", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, h.accessService.State())
}

// Payment starts a payment. The outcome arrives later and is visible through State.
//
// Endpoint: POST /api/access/payment
// Request: request.PaymentRequest
// Response: 202 Accepted with model.AccessState
// Error: 400 on validation failure, 409 Conflict while another payment is pending
func (h *AccessHandler) Payment(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.PaymentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	state, err := h.accessService.StartPayment(r.Context(), req)
	if err != nil {
		response.RespondAppError(w, "failed to start payment", err)
		return
	}
	response.RespondJSON(w, http.StatusAccepted, state)
}
