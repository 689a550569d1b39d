package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/vending-machine/internal/models"
)

// VendingHandler handles deposits, purchases and machine state
type VendingHandler struct {
	service Service
	logger  *slog.Logger
}

// NewVendingHandler creates a new vending handler
func NewVendingHandler(service Service, logger *slog.Logger) *VendingHandler {
	return &VendingHandler{
		service: service,
		logger:  logger,
	}
}

// State handles GET /api/machine
func (h *VendingHandler) State(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.service.State(r.Context()), h.logger)
}

// Deposit handles POST /api/deposit
func (h *VendingHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req models.DepositRequest

	if err := decodeJSON(r, &req); err != nil {
		h.logger.Error("failed to decode deposit request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	balance, err := h.service.Deposit(r.Context(), req.Amount)
	if err != nil {
		writeTransactionError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"balance": balance.String()}, h.logger)
}

// Vend handles POST /api/vend
func (h *VendingHandler) Vend(w http.ResponseWriter, r *http.Request) {
	var req models.VendRequest

	if err := decodeJSON(r, &req); err != nil {
		h.logger.Error("failed to decode vend request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	selection, err := models.ParseSelection(req.Selection)
	if err != nil {
		h.logger.Warn("invalid selection", "selection", req.Selection)
		WriteError(w, http.StatusBadRequest, "Invalid selection supplied", h.logger)
		return
	}

	receipt, err := h.service.Vend(r.Context(), selection, req.Quantity)
	if err != nil {
		writeTransactionError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, receipt, h.logger)
}
