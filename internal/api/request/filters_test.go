package request

import (
	"testing"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
)

func TestParseAssetQuery(t *testing.T) {
	t.Run("defaults to rank ordering", func(t *testing.T) {
		q, err := ParseAssetQuery(" btc ", "", "")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if q.Search != "btc" || q.Sort != SortByRank || q.WatchlistOnly {
			t.Errorf("Unexpected query: %+v", q)
		}
	})

	t.Run("accepts every sort key", func(t *testing.T) {
		for _, key := range []string{"market_cap_rank", "market_cap", "current_price", "price_change_percentage_24h", "TOTAL_VOLUME"} {
			if _, err := ParseAssetQuery("", key, ""); err != nil {
				t.Errorf("Expected %s to be accepted: %v", key, err)
			}
		}
	})

	t.Run("rejects unknown sort", func(t *testing.T) {
		if _, err := ParseAssetQuery("", "name", ""); err == nil {
			t.Error("Expected error for unknown sort key")
		}
	})

	t.Run("parses watchlist flag", func(t *testing.T) {
		q, err := ParseAssetQuery("", "", "true")
		if err != nil || !q.WatchlistOnly {
			t.Errorf("Expected watchlist-only query, got %+v (%v)", q, err)
		}
		if _, err := ParseAssetQuery("", "", "yes"); err == nil {
			t.Error("Expected error for invalid watchlist flag")
		}
	})
}

func TestParseTaskFilter(t *testing.T) {
	t.Run("all matches everything", func(t *testing.T) {
		f, err := ParseTaskFilter("", "all", "all")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if f.Status != "" || f.Priority != "" {
			t.Errorf("Expected empty filter, got %+v", f)
		}
	})

	t.Run("parses status and priority", func(t *testing.T) {
		f, err := ParseTaskFilter("report", "In-Progress", "high")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if f.Status != model.StatusInProgress || f.Priority != model.PriorityHigh || f.Search != "report" {
			t.Errorf("Unexpected filter: %+v", f)
		}
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		if _, err := ParseTaskFilter("", "blocked", ""); err == nil {
			t.Error("Expected error for invalid status")
		}
		if _, err := ParseTaskFilter("", "", "urgent"); err == nil {
			t.Error("Expected error for invalid priority")
		}
	})
}
