package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/coingecko"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/metrics"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
)

// fetchTimeout bounds one shared fetch, including its listeners.
const fetchTimeout = 30 * time.Second

// MarketClient is the market-data provider.
type MarketClient interface {
	QueryMarkets(ctx context.Context) ([]coingecko.Market, error)
}

// SnapshotListener is called with every newly accepted snapshot, in registration order.
type SnapshotListener func(ctx context.Context, snap model.MarketSnapshot)

// MarketService owns the current market snapshot.
//
// Fetches never overlap: concurrent callers of Fetch share one in-flight
// request, and listeners run to completion before that request returns.
// A failed fetch keeps the previous snapshot.
type MarketService struct {
	client      MarketClient
	referenceID string
	log         *zap.SugaredLogger
	now         func() time.Time

	current atomic.Pointer[model.MarketSnapshot]
	group   singleflight.Group

	mu        sync.Mutex
	status    model.FetchStatus
	listeners []SnapshotListener
}

// NewMarketService creates a MarketService. referenceID names the asset used
// for dominance and market change.
func NewMarketService(client MarketClient, referenceID string, log *zap.SugaredLogger) *MarketService {
	return &MarketService{
		client:      client,
		referenceID: referenceID,
		log:         log,
		now:         time.Now,
	}
}

// OnSnapshot registers a listener. Register listeners before the first fetch.
func (s *MarketService) OnSnapshot(l SnapshotListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Fetch pulls a fresh snapshot and replaces the current one on success.
// On failure the previous snapshot stays current and the error wraps
// apperrors.ErrFetchFailed.
//
// The shared request is detached from ctx, so a caller that gives up does
// not fail the others waiting on the same request.
func (s *MarketService) Fetch(ctx context.Context) (model.MarketSnapshot, error) {
	ch := s.group.DoChan("markets", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return s.fetch(fetchCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return model.MarketSnapshot{}, res.Err
		}
		return res.Val.(model.MarketSnapshot), nil
	case <-ctx.Done():
		return model.MarketSnapshot{}, fmt.Errorf("%w: %w", apperrors.ErrFetchFailed, ctx.Err())
	}
}

func (s *MarketService) fetch(ctx context.Context) (model.MarketSnapshot, error) {
	start := time.Now()

	markets, err := s.client.QueryMarkets(ctx)
	var snap model.MarketSnapshot
	if err == nil {
		snap, err = coingecko.ParseSnapshot(markets, s.now())
	}
	metrics.RecordMarketFetch(time.Since(start), err)

	if err != nil {
		if !errors.Is(err, apperrors.ErrFetchFailed) {
			err = fmt.Errorf("%w: %w", apperrors.ErrFetchFailed, err)
		}
		at := s.now().UTC()
		s.mu.Lock()
		s.status.LastErrorAt = &at
		s.status.LastError = err.Error()
		s.mu.Unlock()

		s.log.Warnw("market fetch failed, keeping previous snapshot", "error", err)
		return model.MarketSnapshot{}, err
	}

	s.current.Store(&snap)

	s.mu.Lock()
	at := snap.FetchedAt
	s.status.LastSuccessAt = &at
	s.status.AssetCount = len(snap.Assets)
	listeners := append([]SnapshotListener(nil), s.listeners...)
	s.mu.Unlock()

	s.log.Debugw("market snapshot updated", "assets", len(snap.Assets), "duration", time.Since(start))

	for _, l := range listeners {
		l(ctx, snap)
	}
	return snap, nil
}

// Current returns the latest accepted snapshot. The boolean is false before the first success.
func (s *MarketService) Current() (model.MarketSnapshot, bool) {
	snap := s.current.Load()
	if snap == nil {
		return model.MarketSnapshot{}, false
	}
	return *snap, true
}

// Status reports the outcome of recent fetches.
func (s *MarketService) Status() model.FetchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Stats computes aggregates for the current snapshot or returns apperrors.ErrNoSnapshot.
func (s *MarketService) Stats() (model.MarketStats, error) {
	snap, ok := s.Current()
	if !ok {
		return model.MarketStats{}, apperrors.ErrNoSnapshot
	}
	return ComputeStats(snap, s.referenceID), nil
}

// Assets lists current snapshot assets filtered and sorted by q.
func (s *MarketService) Assets(q request.AssetQuery, watched map[string]bool) ([]model.AssetSnapshot, error) {
	snap, ok := s.Current()
	if !ok {
		return nil, apperrors.ErrNoSnapshot
	}
	return FilterAndSortAssets(snap.Assets, q, watched), nil
}
