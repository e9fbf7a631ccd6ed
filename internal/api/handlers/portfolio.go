package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/response"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Positions returns every held position valued at current prices.
func (h *PortfolioHandler) Positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.portfolioService.Positions(r.Context())
	if err != nil {
		response.RespondAppError(w, "failed to retrieve portfolio", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, positions)
}

// AddPosition adds an amount of an asset to the portfolio.
//
// Endpoint: POST /api/portfolio
// Request: request.AddPositionRequest
// Response: 201 Created with model.Position
// Error: 400 on validation failure, 402 when the free tier is full
func (h *PortfolioHandler) AddPosition(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.AddPositionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	position, err := h.portfolioService.Add(r.Context(), req)
	if err != nil {
		response.RespondAppError(w, "failed to add position", err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, position)
}

// RemovePosition removes the assetId position. Removing an asset that is not held succeeds.
func (h *PortfolioHandler) RemovePosition(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolioService.Remove(r.Context(), chi.URLParam(r, "assetId")); err != nil {
		response.RespondAppError(w, "failed to remove position", err)
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Summary returns portfolio totals.
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.Summary(r.Context())
	if err != nil {
		response.RespondAppError(w, "failed to get portfolio summary", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, summary)
}
