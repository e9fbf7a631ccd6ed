package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
)

// ValidateCreateAlert validates a price alert creation request.
func ValidateCreateAlert(req request.CreateAlertRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}

	if !req.TargetPrice.IsPositive() {
		errors["targetPrice"] = "targetPrice must be positive"
	}

	if !model.AlertDirection(req.Direction).Valid() {
		errors["direction"] = fmt.Sprintf("direction must be above or below, got %q", req.Direction)
	}

	return result(errors)
}
