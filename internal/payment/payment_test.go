package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
)

func TestSimulatedCharger_Charge(t *testing.T) {
	params := model.PaymentParams{Amount: decimal.RequireFromString("9.99"), Currency: "USD"}

	t.Run("delivers configured outcome after delay", func(t *testing.T) {
		charger := NewSimulatedCharger(10*time.Millisecond, model.PaymentStatusSuccess)
		results := make(chan model.PaymentResult, 1)

		if err := charger.Charge(context.Background(), params, func(r model.PaymentResult) { results <- r }); err != nil {
			t.Fatalf("Charge() returned unexpected error: %v", err)
		}

		select {
		case r := <-results:
			if r.Status != model.PaymentStatusSuccess {
				t.Errorf("Expected success, got %s", r.Status)
			}
			if r.Reference == "" {
				t.Error("Expected a payment reference")
			}
		case <-time.After(time.Second):
			t.Fatal("Timed out waiting for payment result")
		}
	})

	t.Run("failure outcome is delivered as-is", func(t *testing.T) {
		charger := NewSimulatedCharger(time.Millisecond, "failed")
		results := make(chan model.PaymentResult, 1)

		if err := charger.Charge(context.Background(), params, func(r model.PaymentResult) { results <- r }); err != nil {
			t.Fatalf("Charge() returned unexpected error: %v", err)
		}
		if r := <-results; r.Status != "failed" {
			t.Errorf("Expected failed, got %s", r.Status)
		}
	})

	t.Run("cancelled context reports cancelled", func(t *testing.T) {
		charger := NewSimulatedCharger(time.Hour, model.PaymentStatusSuccess)
		results := make(chan model.PaymentResult, 1)
		ctx, cancel := context.WithCancel(context.Background())

		if err := charger.Charge(ctx, params, func(r model.PaymentResult) { results <- r }); err != nil {
			t.Fatalf("Charge() returned unexpected error: %v", err)
		}
		cancel()

		select {
		case r := <-results:
			if r.Status != "cancelled" {
				t.Errorf("Expected cancelled, got %s", r.Status)
			}
		case <-time.After(time.Second):
			t.Fatal("Timed out waiting for cancellation")
		}
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		charger := NewSimulatedCharger(time.Millisecond, model.PaymentStatusSuccess)
		err := charger.Charge(context.Background(), model.PaymentParams{}, func(model.PaymentResult) {
			t.Error("Callback must not run for a rejected charge")
		})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Expected ErrInvalidAmount, got %v", err)
		}
	})
}
