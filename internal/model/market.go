package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetSnapshot is one asset's market data as returned by the provider.
// Snapshots are immutable once fetched.
type AssetSnapshot struct {
	ID                       string          `json:"id"`
	Name                     string          `json:"name"`
	Symbol                   string          `json:"symbol"`
	CurrentPrice             decimal.Decimal `json:"current_price"`
	PriceChangePercentage24h decimal.Decimal `json:"price_change_percentage_24h"`
	MarketCap                decimal.Decimal `json:"market_cap"`
	TotalVolume              decimal.Decimal `json:"total_volume"`
	MarketCapRank            int             `json:"market_cap_rank"`
	Image                    string          `json:"image"`
}

// MarketSnapshot is one complete pull of market data, in provider rank order.
type MarketSnapshot struct {
	Assets    []AssetSnapshot `json:"assets"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// FindByID returns the asset with the given identifier.
func (s MarketSnapshot) FindByID(id string) (AssetSnapshot, bool) {
	for _, a := range s.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return AssetSnapshot{}, false
}

// MarketStats are aggregates derived from a snapshot.
type MarketStats struct {
	TotalMarketCap  decimal.Decimal `json:"totalMarketCap"`
	TotalVolume     decimal.Decimal `json:"totalVolume"`
	MarketCapChange decimal.Decimal `json:"marketCapChange"` // reference asset 24h change
	Dominance       decimal.Decimal `json:"dominance"`       // reference asset share, percent
}

// FetchStatus describes the outcome of the most recent fetch attempts.
type FetchStatus struct {
	LastSuccessAt *time.Time `json:"lastSuccessAt,omitempty"`
	LastErrorAt   *time.Time `json:"lastErrorAt,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
	AssetCount    int        `json:"assetCount"`
}
