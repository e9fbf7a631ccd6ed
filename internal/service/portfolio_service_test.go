package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/service"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/testutil"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/validation"
)

func addReq(assetID, amount, price string) request.AddPositionRequest {
	return request.AddPositionRequest{
		AssetID: assetID,
		Symbol:  assetID[:3],
		Name:    assetID,
		Amount:  decimal.RequireFromString(amount),
		Price:   decimal.RequireFromString(price),
	}
}

// TestPortfolioService_Add tests position accumulation and the free-tier cap.
//
// WHY: Adding to a held asset must keep the original acquisition price, and
// the cap only limits distinct positions, so topping up a held asset must
// work even when the portfolio is full and locked.
func TestPortfolioService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("repeated adds accumulate amount and keep first price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewGate(false), testutil.StaticSnapshot{})

		if _, err := svc.Add(ctx, addReq("bitcoin", "1", "50000")); err != nil {
			t.Fatalf("Add() returned unexpected error: %v", err)
		}
		pos, err := svc.Add(ctx, addReq("bitcoin", "0.5", "70000"))
		if err != nil {
			t.Fatalf("Add() returned unexpected error: %v", err)
		}

		if pos.Amount.String() != "1.5" {
			t.Errorf("Expected amount 1.5, got %s", pos.Amount)
		}
		if pos.AcquisitionPrice.String() != "50000" {
			t.Errorf("Expected acquisition price 50000, got %s", pos.AcquisitionPrice)
		}
		testutil.AssertRowCount(t, db, "position", 1)
	})

	t.Run("new asset beyond the cap is rejected while locked", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewGate(false), testutil.StaticSnapshot{})
		for _, id := range []string{"bitcoin", "ethereum", "solana"} {
			testutil.NewPosition(id).Build(t, db)
		}

		_, err := svc.Add(ctx, addReq("cardano", "10", "1"))
		if !errors.Is(err, apperrors.ErrCapacityExceeded) {
			t.Fatalf("Expected ErrCapacityExceeded, got %v", err)
		}
		testutil.AssertRowCount(t, db, "position", testutil.TestPositionLimit)

		if _, err := svc.Add(ctx, addReq("bitcoin", "1", "1")); err != nil {
			t.Errorf("Adding to a held asset at the cap should succeed: %v", err)
		}
	})

	t.Run("unlocked gate lifts the cap", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		gate := testutil.NewGate(false)
		svc := testutil.NewTestPortfolioService(t, db, gate, testutil.StaticSnapshot{})
		for _, id := range []string{"bitcoin", "ethereum", "solana"} {
			testutil.NewPosition(id).Build(t, db)
		}

		gate.Set(true)
		if _, err := svc.Add(ctx, addReq("cardano", "10", "1")); err != nil {
			t.Fatalf("Add() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, db, "position", 4)
	})

	t.Run("non-positive amount is a validation error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewGate(true), testutil.StaticSnapshot{})

		_, err := svc.Add(ctx, addReq("bitcoin", "0", "100"))
		var verr *validation.Error
		if !errors.As(err, &verr) {
			t.Fatalf("Expected validation error, got %v", err)
		}
		testutil.AssertRowCount(t, db, "position", 0)
	})
}

func TestPortfolioService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes a held asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewGate(false), testutil.StaticSnapshot{})
		testutil.NewPosition("bitcoin").Build(t, db)

		if err := svc.Remove(ctx, "bitcoin"); err != nil {
			t.Fatalf("Remove() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, db, "position", 0)
	})

	t.Run("removing an absent asset is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewGate(false), testutil.StaticSnapshot{})
		testutil.NewPosition("bitcoin").Build(t, db)

		if err := svc.Remove(ctx, "dogecoin"); err != nil {
			t.Fatalf("Remove() returned unexpected error: %v", err)
		}
		testutil.AssertRowCount(t, db, "position", 1)
	})
}

// TestPortfolioService_Summary tests valuation against the current snapshot.
//
// WHY: Assets that drop out of the top listing must still be valued, at
// their last known price, rather than silently counting as zero.
func TestPortfolioService_Summary(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)

	snap := testutil.NewSnapshot(testutil.NewAsset("bitcoin", "btc", 1, "60000", "1"))
	svc := testutil.NewTestPortfolioService(t, db, testutil.NewGate(true), testutil.StaticSnapshot{Snapshot: &snap})

	testutil.NewPosition("bitcoin").WithAmount("2").WithPrice("50000").Build(t, db)
	testutil.NewPosition("oldcoin").WithAmount("10").WithPrice("10").WithCurrentPrice("5").Build(t, db)

	summary, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() returned unexpected error: %v", err)
	}

	// 2*60000 + 10*5
	if summary.CurrentValue.String() != "120050" {
		t.Errorf("Expected current value 120050, got %s", summary.CurrentValue)
	}
	// 2*50000 + 10*10
	if summary.TotalCost.String() != "100100" {
		t.Errorf("Expected total cost 100100, got %s", summary.TotalCost)
	}
	if summary.TotalGainLoss.String() != "19950" {
		t.Errorf("Expected gain 19950, got %s", summary.TotalGainLoss)
	}
	if summary.PositionCount != 2 {
		t.Errorf("Expected 2 positions, got %d", summary.PositionCount)
	}

	valuations, err := svc.Positions(ctx)
	if err != nil {
		t.Fatalf("Positions() returned unexpected error: %v", err)
	}
	for _, v := range valuations {
		if v.AssetID == "bitcoin" && v.ReturnPercent.String() != "20" {
			t.Errorf("Expected bitcoin return 20%%, got %s", v.ReturnPercent)
		}
	}
}

func TestPortfolioService_RefreshPrices(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db, testutil.NewGate(true), testutil.StaticSnapshot{})
	testutil.NewPosition("bitcoin").WithPrice("50000").Build(t, db)

	svc.RefreshPrices(ctx, testutil.NewSnapshot(testutil.NewAsset("bitcoin", "btc", 1, "61000", "1")))

	valuations, err := svc.Positions(ctx)
	if err != nil {
		t.Fatalf("Positions() returned unexpected error: %v", err)
	}
	if len(valuations) != 1 || valuations[0].CurrentPrice.String() != "61000" {
		t.Errorf("Expected stored price 61000 without a snapshot, got %+v", valuations)
	}
}

func TestTotalReturnPercent(t *testing.T) {
	t.Run("zero cost basis is zero return", func(t *testing.T) {
		got := service.TotalReturnPercent(nil, model.MarketSnapshot{})
		if !got.IsZero() {
			t.Errorf("Expected zero, got %s", got)
		}
	})

	t.Run("loss is negative", func(t *testing.T) {
		positions := []model.Position{{
			AssetID:          "bitcoin",
			Amount:           decimal.NewFromInt(1),
			AcquisitionPrice: decimal.NewFromInt(200),
		}}
		snap := testutil.NewSnapshot(testutil.NewAsset("bitcoin", "btc", 1, "150", "1"))

		if got := service.TotalReturnPercent(positions, snap); got.String() != "-25" {
			t.Errorf("Expected -25, got %s", got)
		}
	})
}
