package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
)

// WatchlistHandler handles watchlist HTTP requests
type WatchlistHandler struct {
	watchlistService *service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler
func NewWatchlistHandler(watchlistService *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{
		watchlistService: watchlistService,
	}
}

// WatchlistToggleResponse reports membership after a toggle.
type WatchlistToggleResponse struct {
	AssetID string `json:"assetId"`
	Watched bool   `json:"watched"`
}

// Watchlist returns the watched asset identifiers.
func (h *WatchlistHandler) Watchlist(w http.ResponseWriter, r *http.Request) {
	ids, err := h.watchlistService.List(r.Context())
	if err != nil {
		response.RespondAppError(w, "failed to retrieve watchlist", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, ids)
}

// Contains reports whether the assetId path parameter is watched.
//
// Endpoint: GET /api/watchlist/{assetId}
// Response: 200 OK with WatchlistToggleResponse
func (h *WatchlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetId")

	watched, err := h.watchlistService.IsWatched(r.Context(), assetID)
	if err != nil {
		response.RespondAppError(w, "failed to check watchlist", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, WatchlistToggleResponse{AssetID: assetID, Watched: watched})
}

// Toggle flips watchlist membership of the assetId path parameter.
//
// Endpoint: POST /api/watchlist/{assetId}/toggle
// Response: 200 OK with WatchlistToggleResponse
func (h *WatchlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetId")

	watched, err := h.watchlistService.Toggle(r.Context(), assetID)
	if err != nil {
		response.RespondAppError(w, "failed to toggle watchlist", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, WatchlistToggleResponse{AssetID: assetID, Watched: watched})
}
