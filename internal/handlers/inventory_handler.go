package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/vending-machine/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// InventoryHandler serves read-only views of the machine's stock
type InventoryHandler struct {
	service Service
	logger  *slog.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(service Service, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		logger:  logger,
	}
}

// ListItems handles GET /api/inventory
// Returns stocked items in display order
func (h *InventoryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items := h.service.ListItems(r.Context())
	WriteJSON(w, http.StatusOK, items, h.logger)
}

// GetItem handles GET /api/inventory/{selection}
// - 200: item found
// - 400: selection is not a known encoding
// - 404: selection is known but not stocked
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	selection, ok := h.selectionParam(w, r)
	if !ok {
		return
	}

	item, err := h.service.GetItem(r.Context(), selection)
	if err != nil {
		h.logger.Info("selection not stocked", "selection", selection.String())
		writeTransactionError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, item, h.logger)
}

// Quote handles GET /api/inventory/{selection}/quote?quantity=q
// quantity defaults to 1
func (h *InventoryHandler) Quote(w http.ResponseWriter, r *http.Request) {
	selection, ok := h.selectionParam(w, r)
	if !ok {
		return
	}

	quantity := decimal.NewFromInt(1)
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		q, err := decimal.NewFromString(raw)
		if err != nil {
			h.logger.Warn("invalid quantity format", "quantity", raw, "error", err)
			WriteError(w, http.StatusBadRequest, "Invalid quantity supplied", h.logger)
			return
		}
		quantity = q
	}

	quote, err := h.service.Quote(r.Context(), selection, quantity)
	if err != nil {
		writeTransactionError(w, err, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, quote, h.logger)
}

func (h *InventoryHandler) selectionParam(w http.ResponseWriter, r *http.Request) (models.Selection, bool) {
	raw := chi.URLParam(r, "selection")
	selection, err := models.ParseSelection(raw)
	if err != nil {
		h.logger.Warn("invalid selection", "selection", raw)
		WriteError(w, http.StatusBadRequest, "Invalid selection supplied", h.logger)
		return "", false
	}
	return selection, true
}
