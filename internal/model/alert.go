package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertDirection is the side of the threshold that fires an alert.
type AlertDirection string

const (
	AlertAbove AlertDirection = "above"
	AlertBelow AlertDirection = "below"
)

// Valid reports whether d is a known direction.
func (d AlertDirection) Valid() bool {
	return d == AlertAbove || d == AlertBelow
}

// AlertCondition is a one-shot price threshold watch. Once Active is false it never fires again.
type AlertCondition struct {
	ID          string          `json:"id"`
	Symbol      string          `json:"symbol"`
	Name        string          `json:"name"`
	TargetPrice decimal.Decimal `json:"targetPrice"`
	Direction   AlertDirection  `json:"direction"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	TriggeredAt *time.Time      `json:"triggeredAt,omitempty"`
}

// SatisfiedBy reports whether price meets the condition.
func (a AlertCondition) SatisfiedBy(price decimal.Decimal) bool {
	switch a.Direction {
	case AlertAbove:
		return price.GreaterThanOrEqual(a.TargetPrice)
	case AlertBelow:
		return price.LessThanOrEqual(a.TargetPrice)
	}
	return false
}

// FiredAlert pairs a condition that just fired with the asset that satisfied it.
type FiredAlert struct {
	Alert AlertCondition `json:"alert"`
	Asset AssetSnapshot  `json:"asset"`
}
