package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/vending-machine/internal/machine"
	"github.com/Lixing-Zhang/vending-machine/internal/models"
	"github.com/Lixing-Zhang/vending-machine/internal/service"
	"github.com/shopspring/decimal"
)

// maxBodyBytes bounds request bodies for deposit and vend
const maxBodyBytes = 1 << 16

// Service is the vending behaviour the handlers depend on
type Service interface {
	Deposit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error)
	Vend(ctx context.Context, selection models.Selection, quantity decimal.Decimal) (*models.Receipt, error)
	Quote(ctx context.Context, selection models.Selection, quantity decimal.Decimal) (*models.Quote, error)
	ListItems(ctx context.Context) []models.StockedItem
	GetItem(ctx context.Context, selection models.Selection) (*models.StockedItem, error)
	State(ctx context.Context) service.MachineState
}

// decodeJSON reads a single JSON object from the request body into dst
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeTransactionError maps engine errors to HTTP responses.
// Every engine error is recoverable, so none of them yields a 5xx.
func writeTransactionError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var fundsErr *machine.InsufficientFundsError

	switch {
	case errors.As(err, &fundsErr):
		WriteJSON(w, http.StatusPaymentRequired, map[string]string{
			"error":    "Insufficient funds",
			"required": fundsErr.Required.String(),
		}, logger)
	case errors.Is(err, machine.ErrInvalidAmount):
		WriteError(w, http.StatusBadRequest, "Amount must be positive", logger)
	case errors.Is(err, machine.ErrInvalidQuantity):
		WriteError(w, http.StatusBadRequest, "Quantity must be positive", logger)
	case errors.Is(err, machine.ErrInvalidSelection), errors.Is(err, service.ErrItemNotFound):
		WriteError(w, http.StatusNotFound, "Selection not stocked", logger)
	case errors.Is(err, machine.ErrOutOfStock):
		WriteError(w, http.StatusConflict, "Out of stock", logger)
	default:
		logger.Error("unexpected transaction error", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", logger)
	}
}
