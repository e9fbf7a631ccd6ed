package request

import "github.com/shopspring/decimal"

// AddPositionRequest represents the request body for adding to a holding.
// Price is the acquisition price per unit; it only applies when the asset is not yet held.
type AddPositionRequest struct {
	AssetID string          `json:"assetId"`
	Symbol  string          `json:"symbol"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Price   decimal.Decimal `json:"price"`
}
