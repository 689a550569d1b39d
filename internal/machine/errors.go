package machine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount     = errors.New("deposit amount must be positive")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInvalidSelection  = errors.New("invalid selection")
	ErrOutOfStock        = errors.New("out of stock")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// InsufficientFundsError carries the amount still missing for a purchase
type InsufficientFundsError struct {
	Required decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s: %s more required", ErrInsufficientFunds, e.Required.String())
}

// Is makes errors.Is(err, ErrInsufficientFunds) match
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}
