package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Lixing-Zhang/vending-machine/internal/machine"
	"github.com/Lixing-Zhang/vending-machine/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

// Engine is the machine behaviour the service relies on
type Engine interface {
	Deposit(amount decimal.Decimal) error
	Vend(selection models.Selection, quantity decimal.Decimal) error
	Quote(selection models.Selection, quantity decimal.Decimal) (decimal.Decimal, error)
	Balance() decimal.Decimal
	Item(selection models.Selection) (models.Item, bool)
	Inventory() models.Catalog
	Selections() []models.Selection
	Ordering() machine.Ordering
}

// MachineState is a point-in-time view of the machine
type MachineState struct {
	Balance    decimal.Decimal    `json:"balance"`
	Ordering   string             `json:"ordering"`
	Selections []models.Selection `json:"selections"`
}

// VendingService serialises access to a single engine and records purchases
type VendingService struct {
	mu     sync.Mutex
	engine Engine
	log    *slog.Logger
	now    func() time.Time
}

// NewVendingService creates a new vending service
func NewVendingService(engine Engine, log *slog.Logger) *VendingService {
	return &VendingService{
		engine: engine,
		log:    log,
		now:    time.Now,
	}
}

// Deposit adds funds and returns the new balance
func (s *VendingService) Deposit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Deposit(amount); err != nil {
		s.log.WarnContext(ctx, "deposit rejected", "amount", amount.String(), "error", err)
		return s.engine.Balance(), err
	}

	balance := s.engine.Balance()
	s.log.InfoContext(ctx, "deposit accepted", "amount", amount.String(), "balance", balance.String())
	return balance, nil
}

// Vend purchases quantity units of selection and returns a receipt
func (s *VendingService) Vend(ctx context.Context, selection models.Selection, quantity decimal.Decimal) (*models.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Vend(selection, quantity); err != nil {
		s.log.WarnContext(ctx, "vend failed",
			"selection", selection.String(),
			"quantity", quantity.String(),
			"error", err,
		)
		return nil, err
	}

	// price is never changed by a vend, so the quote still holds
	total, err := s.engine.Quote(selection, quantity)
	if err != nil {
		return nil, fmt.Errorf("price completed vend: %w", err)
	}

	receipt := &models.Receipt{
		ID:        generateReceiptID(),
		Selection: selection,
		Quantity:  quantity,
		Total:     total,
		Balance:   s.engine.Balance(),
		CreatedAt: s.now().UTC(),
	}

	s.log.InfoContext(ctx, "vend completed",
		"receipt_id", receipt.ID,
		"selection", selection.String(),
		"quantity", quantity.String(),
		"total", total.String(),
		"balance", receipt.Balance.String(),
	)
	return receipt, nil
}

// Quote prices a prospective purchase without changing state
func (s *VendingService) Quote(ctx context.Context, selection models.Selection, quantity decimal.Decimal) (*models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total, err := s.engine.Quote(selection, quantity)
	if err != nil {
		return nil, err
	}
	return &models.Quote{Selection: selection, Quantity: quantity, Total: total}, nil
}

// ListItems returns the stocked items in display order
func (s *VendingService) ListItems(ctx context.Context) []models.StockedItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.engine.Inventory().Ordered()
}

// GetItem returns the current item for selection
func (s *VendingService) GetItem(ctx context.Context, selection models.Selection) (*models.StockedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.engine.Item(selection)
	if !ok {
		return nil, ErrItemNotFound
	}
	return &models.StockedItem{Selection: selection, Price: item.Price, Quantity: item.Quantity}, nil
}

// State returns the balance and machine settings
func (s *VendingService) State(ctx context.Context) MachineState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return MachineState{
		Balance:    s.engine.Balance(),
		Ordering:   s.engine.Ordering().String(),
		Selections: s.engine.Selections(),
	}
}

// generateReceiptID generates a unique receipt ID using UUID
func generateReceiptID() string {
	return uuid.New().String()
}
