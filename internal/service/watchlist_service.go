package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/validation"
)

// WatchlistService manages the set of watched asset identifiers.
type WatchlistService struct {
	watchlistRepo *repository.WatchlistRepository
}

// NewWatchlistService creates a new WatchlistService with the provided repository dependency.
func NewWatchlistService(watchlistRepo *repository.WatchlistRepository) *WatchlistService {
	return &WatchlistService{
		watchlistRepo: watchlistRepo,
	}
}

// Toggle adds assetID when absent and removes it when present.
// Returns whether the asset is watched afterwards.
func (s *WatchlistService) Toggle(ctx context.Context, assetID string) (bool, error) {
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return false, &validation.Error{Fields: map[string]string{"assetId": "assetId is required"}}
	}

	watched, err := s.watchlistRepo.Toggle(ctx, assetID)
	if err != nil {
		return false, fmt.Errorf("%w: %w", apperrors.ErrFailedToPersist, err)
	}
	return watched, nil
}

// IsWatched reports whether assetID is on the watchlist.
func (s *WatchlistService) IsWatched(ctx context.Context, assetID string) (bool, error) {
	return s.watchlistRepo.Contains(ctx, strings.TrimSpace(assetID))
}

// List returns the watched asset identifiers in the order they were added.
func (s *WatchlistService) List(ctx context.Context) ([]string, error) {
	return s.watchlistRepo.List(ctx)
}

// Watched returns the watchlist as a set.
func (s *WatchlistService) Watched(ctx context.Context) (map[string]bool, error) {
	ids, err := s.watchlistRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
