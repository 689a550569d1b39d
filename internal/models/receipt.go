package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendRequest represents an incoming purchase request
type VendRequest struct {
	Selection string          `json:"selection"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// DepositRequest represents an incoming deposit
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// Receipt represents a completed purchase
type Receipt struct {
	ID        string          `json:"id"`
	Selection Selection       `json:"selection"`
	Quantity  decimal.Decimal `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Quote is the price of a prospective purchase
type Quote struct {
	Selection Selection       `json:"selection"`
	Quantity  decimal.Decimal `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}
