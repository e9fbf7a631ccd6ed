package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
)

var hundred = decimal.NewFromInt(100)

// ComputeStats derives the headline aggregates of a snapshot.
//
// MarketCapChange is the reference asset's 24h price change and Dominance its
// share of the summed market caps, in percent. Both are zero when the
// reference asset is missing or the total market cap is zero.
func ComputeStats(snap model.MarketSnapshot, referenceID string) model.MarketStats {
	stats := model.MarketStats{
		TotalMarketCap:  decimal.Zero,
		TotalVolume:     decimal.Zero,
		MarketCapChange: decimal.Zero,
		Dominance:       decimal.Zero,
	}

	for _, a := range snap.Assets {
		stats.TotalMarketCap = stats.TotalMarketCap.Add(a.MarketCap)
		stats.TotalVolume = stats.TotalVolume.Add(a.TotalVolume)
	}

	ref, ok := snap.FindByID(referenceID)
	if !ok {
		return stats
	}

	stats.MarketCapChange = ref.PriceChangePercentage24h
	if !stats.TotalMarketCap.IsZero() {
		stats.Dominance = ref.MarketCap.Div(stats.TotalMarketCap).Mul(hundred)
	}
	return stats
}

// FilterAndSortAssets applies the listing query to snapshot assets.
// Search matches name or symbol case-insensitively. Rank order is ascending,
// every other key descending. Sorting is stable and the input is not modified.
func FilterAndSortAssets(assets []model.AssetSnapshot, q request.AssetQuery, watched map[string]bool) []model.AssetSnapshot {
	needle := strings.ToLower(q.Search)

	out := make([]model.AssetSnapshot, 0, len(assets))
	for _, a := range assets {
		if q.WatchlistOnly && !watched[a.ID] {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(a.Name), needle) &&
			!strings.Contains(strings.ToLower(a.Symbol), needle) {
			continue
		}
		out = append(out, a)
	}

	if q.Sort == request.SortByRank || q.Sort == "" {
		slices.SortStableFunc(out, func(a, b model.AssetSnapshot) int {
			return a.MarketCapRank - b.MarketCapRank
		})
		return out
	}

	key := sortKey(q.Sort)
	slices.SortStableFunc(out, func(a, b model.AssetSnapshot) int {
		return key(b).Cmp(key(a))
	})
	return out
}

func sortKey(s request.AssetSort) func(model.AssetSnapshot) decimal.Decimal {
	switch s {
	case request.SortByPrice:
		return func(a model.AssetSnapshot) decimal.Decimal { return a.CurrentPrice }
	case request.SortByChange:
		return func(a model.AssetSnapshot) decimal.Decimal { return a.PriceChangePercentage24h }
	case request.SortByVolume:
		return func(a model.AssetSnapshot) decimal.Decimal { return a.TotalVolume }
	default:
		return func(a model.AssetSnapshot) decimal.Decimal { return a.MarketCap }
	}
}

var (
	trillion = decimal.New(1, 12)
	billion  = decimal.New(1, 9)
	million  = decimal.New(1, 6)
)

// FormatLargeNumber renders a dollar amount for display: $1.23T, $4.56B,
// $7.89M, or a comma-grouped value below one million.
func FormatLargeNumber(d decimal.Decimal) string {
	abs := d.Abs()
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}

	switch {
	case abs.GreaterThanOrEqual(trillion):
		return fmt.Sprintf("%s$%sT", sign, abs.Div(trillion).StringFixed(2))
	case abs.GreaterThanOrEqual(billion):
		return fmt.Sprintf("%s$%sB", sign, abs.Div(billion).StringFixed(2))
	case abs.GreaterThanOrEqual(million):
		return fmt.Sprintf("%s$%sM", sign, abs.Div(million).StringFixed(2))
	}
	f, _ := abs.Float64()
	return sign + "$" + humanize.CommafWithDigits(f, 2)
}
