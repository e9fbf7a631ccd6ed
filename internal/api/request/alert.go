package request

import "github.com/shopspring/decimal"

// CreateAlertRequest represents the request body for creating a price alert.
type CreateAlertRequest struct {
	Symbol      string          `json:"symbol"`
	Name        string          `json:"name"`
	TargetPrice decimal.Decimal `json:"targetPrice"`
	Direction   string          `json:"direction"`
}
