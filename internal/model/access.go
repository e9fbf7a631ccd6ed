package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccessState is the process-wide premium gate.
type AccessState struct {
	Unlocked       bool           `json:"unlocked"`
	PaymentPending bool           `json:"paymentPending"`
	LastPayment    *PaymentResult `json:"lastPayment,omitempty"`
}

// PaymentStatusSuccess is the only status that unlocks the gate.
const PaymentStatusSuccess = "success"

// PaymentParams is what the payment collaborator is charged with.
type PaymentParams struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	CustomerEmail string          `json:"customerEmail"`
	CustomerName  string          `json:"customerName"`
}

// PaymentResult is delivered asynchronously by the payment collaborator.
type PaymentResult struct {
	Status      string    `json:"status"`
	Reference   string    `json:"reference,omitempty"`
	Message     string    `json:"message,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}

// Theme is a persisted UI preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeBlue  Theme = "blue"
	ThemeGreen Theme = "green"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeBlue, ThemeGreen:
		return true
	}
	return false
}
