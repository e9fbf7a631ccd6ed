package handlers

import (
	"net/http"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
)

// MarketHandler serves the current market snapshot.
type MarketHandler struct {
	marketService    *service.MarketService
	watchlistService *service.WatchlistService
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(marketService *service.MarketService, watchlistService *service.WatchlistService) *MarketHandler {
	return &MarketHandler{
		marketService:    marketService,
		watchlistService: watchlistService,
	}
}

// AssetResponse is one listed asset plus its watchlist flag.
type AssetResponse struct {
	model.AssetSnapshot
	Watchlisted        bool   `json:"watchlisted"`
	MarketCapFormatted string `json:"marketCapFormatted"`
	VolumeFormatted    string `json:"volumeFormatted"`
}

// Assets lists snapshot assets.
//
// Endpoint: GET /api/market/assets?search=&sort=&watchlist=
// Response: 200 OK with []AssetResponse
// Error: 400 for an unknown sort key, 503 before the first snapshot
func (h *MarketHandler) Assets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, err := request.ParseAssetQuery(q.Get("search"), q.Get("sort"), q.Get("watchlist"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	watched, err := h.watchlistService.Watched(r.Context())
	if err != nil {
		response.RespondAppError(w, "failed to load watchlist", err)
		return
	}

	assets, err := h.marketService.Assets(query, watched)
	if err != nil {
		response.RespondAppError(w, "market data unavailable", err)
		return
	}

	resp := make([]AssetResponse, len(assets))
	for i, a := range assets {
		resp[i] = AssetResponse{
			AssetSnapshot:      a,
			Watchlisted:        watched[a.ID],
			MarketCapFormatted: service.FormatLargeNumber(a.MarketCap),
			VolumeFormatted:    service.FormatLargeNumber(a.TotalVolume),
		}
	}
	response.RespondJSON(w, http.StatusOK, resp)
}

// StatsResponse carries the market aggregates and their display strings.
type StatsResponse struct {
	model.MarketStats
	TotalMarketCapFormatted string `json:"totalMarketCapFormatted"`
	TotalVolumeFormatted    string `json:"totalVolumeFormatted"`
}

// Stats returns the aggregates of the current snapshot.
func (h *MarketHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	stats, err := h.marketService.Stats()
	if err != nil {
		response.RespondAppError(w, "market data unavailable", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, StatsResponse{
		MarketStats:             stats,
		TotalMarketCapFormatted: service.FormatLargeNumber(stats.TotalMarketCap),
		TotalVolumeFormatted:    service.FormatLargeNumber(stats.TotalVolume),
	})
}

// Status reports the outcome of recent fetches.
func (h *MarketHandler) Status(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.marketService.Status())
}

// Refresh fetches a snapshot now instead of waiting for the schedule.
//
// Endpoint: POST /api/market/refresh
// Response: 200 OK with model.FetchStatus
// Error: 502 Bad Gateway when the provider fails
func (h *MarketHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if _, err := h.marketService.Fetch(r.Context()); err != nil {
		response.RespondAppError(w, "failed to refresh market data", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, h.marketService.Status())
}
