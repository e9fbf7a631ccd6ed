package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the held amount of one asset plus its cost basis.
// AcquisitionPrice is fixed when the position is created; later adds only change Amount.
type Position struct {
	AssetID          string          `json:"assetId"`
	Symbol           string          `json:"symbol"`
	Name             string          `json:"name"`
	Amount           decimal.Decimal `json:"amount"`
	AcquisitionPrice decimal.Decimal `json:"acquisitionPrice"`
	CurrentPrice     decimal.Decimal `json:"currentPrice"` // last known price
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// PositionValuation is a position valued against a snapshot.
type PositionValuation struct {
	Position
	Value         decimal.Decimal `json:"value"`
	Cost          decimal.Decimal `json:"cost"`
	GainLoss      decimal.Decimal `json:"gainLoss"`
	ReturnPercent decimal.Decimal `json:"returnPercent"`
}

// PortfolioSummary aggregates all positions against a snapshot.
type PortfolioSummary struct {
	PositionCount      int             `json:"positionCount"`
	CurrentValue       decimal.Decimal `json:"currentValue"`
	TotalCost          decimal.Decimal `json:"totalCost"`
	TotalGainLoss      decimal.Decimal `json:"totalGainLoss"`
	TotalReturnPercent decimal.Decimal `json:"totalReturnPercent"`
}
