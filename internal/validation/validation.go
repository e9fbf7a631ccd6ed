package validation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
)

// ErrInvalidUUID is apperrors.ErrInvalidUUID, re-exported for path validation callers.
var ErrInvalidUUID = apperrors.ErrInvalidUUID

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}
