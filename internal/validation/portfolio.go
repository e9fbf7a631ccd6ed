package validation

import (
	"strings"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
)

// ValidateAddPosition validates a request to add to a holding.
// Amount and price must both be strictly positive.
func ValidateAddPosition(req request.AddPositionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.AssetID) == "" {
		errors["assetId"] = "assetId is required"
	}

	if !req.Amount.IsPositive() {
		errors["amount"] = "amount must be positive"
	}

	if !req.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}

	return result(errors)
}
