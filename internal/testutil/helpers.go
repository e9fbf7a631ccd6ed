package testutil

import (
	"context"
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/payment"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
)

// Free-tier limits used by the test service constructors.
const (
	TestPositionLimit = 3
	TestAlertLimit    = 5
	TestPasscode      = "letmein"
)

func NewTestTaskService(t *testing.T, db *sql.DB) *service.TaskService {
	t.Helper()

	return service.NewTaskService(repository.NewTaskRepository(db), zap.NewNop().Sugar())
}

func NewTestWatchlistService(t *testing.T, db *sql.DB) *service.WatchlistService {
	t.Helper()

	return service.NewWatchlistService(repository.NewWatchlistRepository(db))
}

func NewTestPortfolioService(t *testing.T, db *sql.DB, gate service.AccessChecker, market service.SnapshotSource) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewPositionRepository(db),
		gate,
		market,
		TestPositionLimit,
		zap.NewNop().Sugar(),
	)
}

func NewTestAlertService(t *testing.T, db *sql.DB, gate service.AccessChecker, notifier service.AlertNotifier) *service.AlertService {
	t.Helper()

	return service.NewAlertService(
		repository.NewAlertRepository(db),
		gate,
		notifier,
		TestAlertLimit,
		zap.NewNop().Sugar(),
	)
}

// NewTestAccessService builds a gate over kv with TestPasscode and the given charger.
// A nil charger settles every payment successfully after 10ms.
func NewTestAccessService(t *testing.T, kv service.KeyValueStore, charger payment.Charger) *service.AccessService {
	t.Helper()

	if charger == nil {
		charger = payment.NewSimulatedCharger(10*time.Millisecond, "success")
	}
	svc, err := service.NewAccessService(context.Background(), kv, charger, service.AccessOptions{
		Passcode: TestPasscode,
		Amount:   decimal.RequireFromString("9.99"),
		Currency: "USD",
	}, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("Failed to create access service: %v", err)
	}
	return svc
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, map[string]bool{"websocket": true})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a lowercase ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("btc")
//	// Returns: "btc1a2b"
func MakeSymbol(base string) string {
	if base == "" {
		base = "tst"
	}
	return base + randomAlphanumeric(4)
}

// MakeTaskTitle generates a unique task title for testing.
//
// Example usage:
//
//	title := testutil.MakeTaskTitle("Write docs")
//	// Returns: "Write docs abc123"
func MakeTaskTitle(base string) string {
	if base == "" {
		base = "Task"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
