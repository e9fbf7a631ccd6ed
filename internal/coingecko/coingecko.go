// Package coingecko is a client for the CoinGecko public market-data API.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// PageSize is the number of assets requested per snapshot.
const PageSize = 50

// Client fetches market snapshots from CoinGecko. Outbound requests are
// throttled by a token bucket because the public API is rate limited.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a client against baseURL that issues at most
// requestsPerMinute requests per minute. A non-positive rate disables throttling.
func NewClient(baseURL string, timeout time.Duration, requestsPerMinute int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    limiter,
	}
}

// QueryMarkets fetches the top PageSize assets by market cap in USD.
//
// Every failure (throttle wait cancelled, transport error, non-2xx status,
// malformed body) is returned wrapping apperrors.ErrFetchFailed.
func (c *Client) QueryMarkets(ctx context.Context) ([]Market, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", apperrors.ErrFetchFailed, err)
	}

	values := url.Values{}
	values.Set("vs_currency", "usd")
	values.Set("order", "market_cap_desc")
	values.Set("per_page", fmt.Sprint(PageSize))
	values.Set("page", "1")
	values.Set("sparkline", "false")
	endpoint := c.baseURL + "/coins/markets?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", apperrors.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		var apiErr ErrorResponse
		if json.Unmarshal(body, &apiErr) == nil {
			if msg := firstNonEmpty(apiErr.Error, apiErr.Status.ErrorMessage); msg != "" {
				return nil, fmt.Errorf("%w: status %d: %s", apperrors.ErrFetchFailed, resp.StatusCode, msg)
			}
		}
		return nil, fmt.Errorf("%w: status %d: %s", apperrors.ErrFetchFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var markets []Market
	if err := json.NewDecoder(resp.Body).Decode(&markets); err != nil {
		return nil, fmt.Errorf("%w: decode markets: %v", apperrors.ErrFetchFailed, err)
	}

	return markets, nil
}

// ParseSnapshot converts raw market records into a snapshot, preserving provider order.
//
// The method rejects payloads with a missing or duplicate id and negative
// prices, caps or volumes, since the snapshot would otherwise violate its invariants.
// Provider ranks must be unique. A missing rank takes the first unused rank at or
// after the record's 1-based position.
func ParseSnapshot(markets []Market, fetchedAt time.Time) (model.MarketSnapshot, error) {
	assets := make([]model.AssetSnapshot, 0, len(markets))
	seen := make(map[string]struct{}, len(markets))

	usedRanks := make(map[int]struct{}, len(markets))
	for _, m := range markets {
		if m.MarketCapRank == nil || *m.MarketCapRank <= 0 {
			continue
		}
		if _, dup := usedRanks[*m.MarketCapRank]; dup {
			return model.MarketSnapshot{}, fmt.Errorf("%w: duplicate rank %d", apperrors.ErrFetchFailed, *m.MarketCapRank)
		}
		usedRanks[*m.MarketCapRank] = struct{}{}
	}

	for i, m := range markets {
		if m.ID == "" {
			return model.MarketSnapshot{}, fmt.Errorf("%w: record %d has no id", apperrors.ErrFetchFailed, i)
		}
		if _, dup := seen[m.ID]; dup {
			return model.MarketSnapshot{}, fmt.Errorf("%w: duplicate id %q", apperrors.ErrFetchFailed, m.ID)
		}
		seen[m.ID] = struct{}{}

		if m.CurrentPrice.IsNegative() || m.MarketCap.IsNegative() || m.TotalVolume.IsNegative() {
			return model.MarketSnapshot{}, fmt.Errorf("%w: negative value for %q", apperrors.ErrFetchFailed, m.ID)
		}

		var rank int
		if m.MarketCapRank != nil && *m.MarketCapRank > 0 {
			rank = *m.MarketCapRank
		} else {
			rank = i + 1
			for {
				if _, used := usedRanks[rank]; !used {
					break
				}
				rank++
			}
			usedRanks[rank] = struct{}{}
		}

		assets = append(assets, model.AssetSnapshot{
			ID:                       m.ID,
			Name:                     m.Name,
			Symbol:                   m.Symbol,
			CurrentPrice:             m.CurrentPrice,
			PriceChangePercentage24h: m.PriceChangePercentage24h,
			MarketCap:                m.MarketCap,
			TotalVolume:              m.TotalVolume,
			MarketCapRank:            rank,
			Image:                    m.Image,
		})
	}

	return model.MarketSnapshot{Assets: assets, FetchedAt: fetchedAt.UTC()}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
