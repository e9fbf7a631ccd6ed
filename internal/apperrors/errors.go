package apperrors

import (
	"errors"
	"fmt"
)

// Domain entity errors represent missing entities in the system.
var (
	// ErrTaskNotFound indicates that a task with the given ID does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAlertNotFound indicates that an alert condition with the given ID does not exist.
	ErrAlertNotFound = errors.New("alert not found")

	// ErrAnalysisNotFound indicates that no analysis job with the given ID exists.
	ErrAnalysisNotFound = errors.New("analysis job not found")

	// ErrNoSnapshot indicates that no market snapshot has been fetched yet.
	ErrNoSnapshot = errors.New("no market snapshot available")
)

// Business logic errors represent rule violations. None of them mutate state.
var (
	// ErrCapacityExceeded indicates a create beyond the free-tier limits while the access gate is locked.
	ErrCapacityExceeded = errors.New("free tier capacity exceeded")

	// ErrAccessDenied indicates a wrong passcode or a failed payment.
	ErrAccessDenied = errors.New("access denied")

	// ErrPaymentDeclined indicates the payment collaborator reported a non-success status.
	// It wraps ErrAccessDenied so callers can treat both the same.
	ErrPaymentDeclined = fmt.Errorf("%w: payment declined", ErrAccessDenied)

	// ErrPaymentPending indicates a payment is already in flight.
	ErrPaymentPending = errors.New("payment already in progress")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrAnalysisFinished indicates a cancel on a job that already completed.
	ErrAnalysisFinished = errors.New("analysis job already finished")
)

// Operation failure errors represent failures talking to collaborators.
var (
	// ErrFetchFailed indicates that a market snapshot could not be retrieved or parsed.
	ErrFetchFailed = errors.New("market snapshot fetch failed")

	// ErrFailedToRetrieve indicates a storage read failure.
	ErrFailedToRetrieve = errors.New("failed to retrieve data")

	// ErrFailedToPersist indicates a storage write failure.
	ErrFailedToPersist = errors.New("failed to persist data")
)
