package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/testutil"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/validation"
)

// TestWatchlistService_Toggle tests watchlist toggle parity.
//
// WHY: Toggling an asset an even number of times must leave it unwatched,
// and an odd number of times watched, whatever the starting state.
func TestWatchlistService_Toggle(t *testing.T) {
	ctx := context.Background()

	t.Run("parity decides membership", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestWatchlistService(t, db)

		for i := 1; i <= 5; i++ {
			watched, err := svc.Toggle(ctx, "bitcoin")
			if err != nil {
				t.Fatalf("Toggle() returned unexpected error: %v", err)
			}
			if want := i%2 == 1; watched != want {
				t.Fatalf("After %d toggles expected watched=%v, got %v", i, want, watched)
			}
		}

		set, err := svc.Watched(ctx)
		if err != nil {
			t.Fatalf("Watched() returned unexpected error: %v", err)
		}
		if !set["bitcoin"] || len(set) != 1 {
			t.Errorf("Unexpected watched set: %v", set)
		}
	})

	t.Run("empty asset id is a validation error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestWatchlistService(t, db)

		_, err := svc.Toggle(ctx, "  ")
		var verr *validation.Error
		if !errors.As(err, &verr) {
			t.Fatalf("Expected validation error, got %v", err)
		}
		testutil.AssertRowCount(t, db, "watchlist", 0)
	})
}

func TestWatchlistService_IsWatched(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestWatchlistService(t, db)

	if watched, err := svc.IsWatched(ctx, "bitcoin"); err != nil || watched {
		t.Fatalf("Expected bitcoin unwatched, got %v (err %v)", watched, err)
	}

	if _, err := svc.Toggle(ctx, "bitcoin"); err != nil {
		t.Fatalf("Toggle() returned unexpected error: %v", err)
	}
	if watched, err := svc.IsWatched(ctx, " bitcoin "); err != nil || !watched {
		t.Errorf("Expected bitcoin watched, got %v (err %v)", watched, err)
	}
	if watched, _ := svc.IsWatched(ctx, "ethereum"); watched {
		t.Error("Expected ethereum unwatched")
	}
}
