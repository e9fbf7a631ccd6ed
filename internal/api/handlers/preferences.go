package handlers

import (
	"net/http"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
)

type PreferenceHandler struct {
	preferenceService *service.PreferenceService
}

func NewPreferenceHandler(preferenceService *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceService: preferenceService,
	}
}

// ThemeResponse wraps the theme value.
type ThemeResponse struct {
	Theme model.Theme `json:"theme"`
}

func (h *PreferenceHandler) Theme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.preferenceService.Theme(r.Context())
	if err != nil {
		response.RespondAppError(w, "failed to retrieve theme", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, ThemeResponse{Theme: theme})
}

func (h *PreferenceHandler) SetTheme(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ThemeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	theme, err := h.preferenceService.SetTheme(r.Context(), req)
	if err != nil {
		response.RespondAppError(w, "failed to set theme", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, ThemeResponse{Theme: theme})
}
