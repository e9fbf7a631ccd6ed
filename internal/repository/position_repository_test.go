package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/repository"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/testutil"
)

func TestPositionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips decimals exactly", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPositionRepository(db)
		testutil.NewPosition("bitcoin").WithAmount("0.12345678").WithPrice("64000.01").Build(t, db)

		pos, ok, err := repo.GetPosition(ctx, "bitcoin")
		if err != nil || !ok {
			t.Fatalf("GetPosition() = %v, %v", ok, err)
		}
		if pos.Amount.String() != "0.12345678" {
			t.Errorf("Expected amount 0.12345678, got %s", pos.Amount)
		}
		if pos.AcquisitionPrice.String() != "64000.01" {
			t.Errorf("Expected price 64000.01, got %s", pos.AcquisitionPrice)
		}
	})

	t.Run("missing position is not an error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPositionRepository(db)

		_, ok, err := repo.GetPosition(ctx, "dogecoin")
		if err != nil {
			t.Fatalf("GetPosition() returned unexpected error: %v", err)
		}
		if ok {
			t.Error("Expected no position")
		}
	})

	t.Run("update amount leaves acquisition price alone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPositionRepository(db)
		testutil.NewPosition("bitcoin").WithPrice("100").Build(t, db)

		if err := repo.UpdateAmount(ctx, "bitcoin", decimal.NewFromInt(3), time.Now()); err != nil {
			t.Fatalf("UpdateAmount() returned unexpected error: %v", err)
		}

		pos, _, _ := repo.GetPosition(ctx, "bitcoin")
		if !pos.Amount.Equal(decimal.NewFromInt(3)) || !pos.AcquisitionPrice.Equal(decimal.NewFromInt(100)) {
			t.Errorf("Unexpected position after update: %+v", pos)
		}
	})

	t.Run("price refresh only touches held assets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPositionRepository(db)
		testutil.NewPosition("bitcoin").WithPrice("100").Build(t, db)

		err := repo.UpdateCurrentPrices(ctx, map[string]decimal.Decimal{
			"bitcoin":  decimal.NewFromInt(150),
			"ethereum": decimal.NewFromInt(10),
		}, time.Now())
		if err != nil {
			t.Fatalf("UpdateCurrentPrices() returned unexpected error: %v", err)
		}

		pos, _, _ := repo.GetPosition(ctx, "bitcoin")
		if !pos.CurrentPrice.Equal(decimal.NewFromInt(150)) {
			t.Errorf("Expected current price 150, got %s", pos.CurrentPrice)
		}
		testutil.AssertRowCount(t, db, "position", 1)
	})

	t.Run("delete of absent position is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPositionRepository(db)

		if err := repo.DeletePosition(ctx, "bitcoin"); err != nil {
			t.Errorf("DeletePosition() returned unexpected error: %v", err)
		}
	})
}
