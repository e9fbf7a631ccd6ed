package request

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
)

// AssetSort is a sort key for the market asset listing.
type AssetSort string

const (
	SortByRank      AssetSort = "market_cap_rank"
	SortByMarketCap AssetSort = "market_cap"
	SortByPrice     AssetSort = "current_price"
	SortByChange    AssetSort = "price_change_percentage_24h"
	SortByVolume    AssetSort = "total_volume"
)

// AssetQuery holds the parsed asset listing parameters.
type AssetQuery struct {
	Search        string
	Sort          AssetSort
	WatchlistOnly bool
}

// ParseAssetQuery extracts the asset listing parameters from query values.
//
// Validation rules:
//   - sort: market_cap_rank (default), market_cap, current_price,
//     price_change_percentage_24h or total_volume
//   - watchlist: "true" restricts the listing to watched assets
func ParseAssetQuery(searchParam, sortParam, watchlistParam string) (AssetQuery, error) {
	q := AssetQuery{
		Search: strings.TrimSpace(searchParam),
		Sort:   SortByRank,
	}

	if sortParam != "" {
		switch s := AssetSort(strings.ToLower(strings.TrimSpace(sortParam))); s {
		case SortByRank, SortByMarketCap, SortByPrice, SortByChange, SortByVolume:
			q.Sort = s
		default:
			return AssetQuery{}, fmt.Errorf("invalid sort: %s", sortParam)
		}
	}

	switch strings.ToLower(watchlistParam) {
	case "", "false":
	case "true":
		q.WatchlistOnly = true
	default:
		return AssetQuery{}, fmt.Errorf("invalid watchlist flag: %s", watchlistParam)
	}

	return q, nil
}

// ParseTaskFilter extracts and validates the task listing filter from query parameters.
// An empty status or priority, or the value "all", matches everything.
func ParseTaskFilter(searchParam, statusParam, priorityParam string) (model.TaskFilter, error) {
	filter := model.TaskFilter{Search: strings.TrimSpace(searchParam)}

	if s := strings.ToLower(strings.TrimSpace(statusParam)); s != "" && s != "all" {
		if !model.TaskStatus(s).Valid() {
			return model.TaskFilter{}, fmt.Errorf("invalid status: %s", statusParam)
		}
		filter.Status = model.TaskStatus(s)
	}

	if p := strings.ToLower(strings.TrimSpace(priorityParam)); p != "" && p != "all" {
		if !model.TaskPriority(p).Valid() {
			return model.TaskFilter{}, fmt.Errorf("invalid priority: %s", priorityParam)
		}
		filter.Priority = model.TaskPriority(p)
	}

	return filter, nil
}
