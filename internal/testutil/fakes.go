package testutil

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/coingecko"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/payment"
)

// Gate is an AccessChecker whose state the test controls.
type Gate struct {
	unlocked atomic.Bool
}

// NewGate returns a Gate in the given state.
func NewGate(unlocked bool) *Gate {
	g := &Gate{}
	g.unlocked.Store(unlocked)
	return g
}

// IsUnlocked implements service.AccessChecker.
func (g *Gate) IsUnlocked() bool { return g.unlocked.Load() }

// Set changes the gate state.
func (g *Gate) Set(unlocked bool) { g.unlocked.Store(unlocked) }

// StaticSnapshot is a SnapshotSource returning a fixed snapshot. A zero value has no snapshot.
type StaticSnapshot struct {
	Snapshot *model.MarketSnapshot
}

// Current implements service.SnapshotSource.
func (s StaticSnapshot) Current() (model.MarketSnapshot, bool) {
	if s.Snapshot == nil {
		return model.MarketSnapshot{}, false
	}
	return *s.Snapshot, true
}

// MockMarketClient replays canned provider responses.
//
// Example usage:
//
//	client := &testutil.MockMarketClient{Markets: []coingecko.Market{...}}
//	client.Err = errors.New("provider down") // subsequent calls fail
type MockMarketClient struct {
	mu      sync.Mutex
	Markets []coingecko.Market
	Err     error
	Calls   int
}

// QueryMarkets implements service.MarketClient.
func (m *MockMarketClient) QueryMarkets(_ context.Context) ([]coingecko.Market, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Markets, nil
}

// SetErr replaces the error returned by later calls.
func (m *MockMarketClient) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

// CallCount returns how many times QueryMarkets ran.
func (m *MockMarketClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// RecordingNotifier records every fired alert. Err, when set, is returned from each call.
type RecordingNotifier struct {
	mu    sync.Mutex
	Fired []model.FiredAlert
	Err   error
}

// NotifyAlertFired implements service.AlertNotifier.
func (n *RecordingNotifier) NotifyAlertFired(_ context.Context, fired model.FiredAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Fired = append(n.Fired, fired)
	return n.Err
}

// Count returns the number of notifications received.
func (n *RecordingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Fired)
}

// ErrKVUnavailable is returned by MemoryKV once Fail is set.
var ErrKVUnavailable = errors.New("kv unavailable")

// MemoryKV is an in-memory service.KeyValueStore.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
	fail   bool
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

// Get implements service.KeyValueStore.
func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return "", false, ErrKVUnavailable
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Set implements service.KeyValueStore.
func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return ErrKVUnavailable
	}
	m.values[key] = value
	return nil
}

// Fail makes every later call return ErrKVUnavailable.
func (m *MemoryKV) Fail() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = true
}

// FuncCharger settles each charge synchronously with the result of Settle.
type FuncCharger struct {
	Settle func(model.PaymentParams) model.PaymentResult
}

// Charge implements payment.Charger.
func (c FuncCharger) Charge(_ context.Context, params model.PaymentParams, onResult payment.Callback) error {
	onResult(c.Settle(params))
	return nil
}

// NewMarket returns a provider record with the given price and market cap.
func NewMarket(id, symbol string, rank int, price, marketCap string) coingecko.Market {
	return coingecko.Market{
		ID:            id,
		Symbol:        symbol,
		Name:          id,
		CurrentPrice:  decimal.RequireFromString(price),
		MarketCap:     decimal.RequireFromString(marketCap),
		MarketCapRank: &rank,
	}
}
