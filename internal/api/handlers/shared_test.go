package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/coingecko"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/testutil"
)

// newFetchedMarket returns a market service that has accepted one snapshot of markets.
func newFetchedMarket(t *testing.T, markets ...coingecko.Market) *service.MarketService {
	t.Helper()

	ms := service.NewMarketService(&testutil.MockMarketClient{Markets: markets}, "bitcoin", zap.NewNop().Sugar())
	if _, err := ms.Fetch(t.Context()); err != nil {
		t.Fatalf("Failed to fetch test snapshot: %v", err)
	}
	return ms
}

func TestParseJSON(t *testing.T) {
	t.Run("decodes body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"theme":"dark"}`))

		got, err := parseJSON[request.ThemeRequest](req)
		if err != nil {
			t.Fatalf("parseJSON() returned unexpected error: %v", err)
		}
		if got.Theme != "dark" {
			t.Errorf("Expected theme dark, got %q", got.Theme)
		}
	})

	t.Run("empty body is an error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

		if _, err := parseJSON[request.ThemeRequest](req); err == nil {
			t.Error("Expected error for empty body")
		}
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"theme":`))

		if _, err := parseJSON[request.ThemeRequest](req); err == nil {
			t.Error("Expected error for malformed body")
		}
	})
}
