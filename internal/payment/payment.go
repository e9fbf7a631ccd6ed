// Package payment contains the payment collaborator used to unlock premium access.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
)

// Callback receives the outcome of a charge. It is invoked exactly once, on its own goroutine.
type Callback func(model.PaymentResult)

// Charger starts a charge and delivers the result asynchronously.
// A returned error means the charge was never started and the callback will not run.
type Charger interface {
	Charge(ctx context.Context, params model.PaymentParams, onResult Callback) error
}

// ErrInvalidAmount is returned for charges that are not strictly positive.
var ErrInvalidAmount = errors.New("payment amount must be positive")

// SimulatedCharger completes every charge after Delay with the configured Outcome.
type SimulatedCharger struct {
	Delay   time.Duration
	Outcome string // "success" or any failure status
}

// NewSimulatedCharger creates a charger that reports outcome after delay.
func NewSimulatedCharger(delay time.Duration, outcome string) *SimulatedCharger {
	return &SimulatedCharger{Delay: delay, Outcome: outcome}
}

// Charge schedules the simulated result. Cancelling ctx before Delay elapses
// delivers a "cancelled" result instead.
func (c *SimulatedCharger) Charge(ctx context.Context, params model.PaymentParams, onResult Callback) error {
	if !params.Amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, params.Amount)
	}
	if onResult == nil {
		return errors.New("payment callback is required")
	}

	reference := uuid.NewString()
	go func() {
		timer := time.NewTimer(c.Delay)
		defer timer.Stop()

		result := model.PaymentResult{Reference: reference}
		select {
		case <-timer.C:
			result.Status = c.Outcome
			if c.Outcome == model.PaymentStatusSuccess {
				result.Message = fmt.Sprintf("charged %s %s", params.Amount.StringFixed(2), params.Currency)
			} else {
				result.Message = "card declined"
			}
		case <-ctx.Done():
			result.Status = "cancelled"
			result.Message = ctx.Err().Error()
		}
		result.CompletedAt = time.Now().UTC()
		onResult(result)
	}()

	return nil
}
