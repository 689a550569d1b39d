// Package machine holds the transactional state of a single vending machine.
//
// A Machine is not safe for concurrent use. Callers that share one machine
// between goroutines must serialise access themselves.
package machine

import (
	"fmt"

	"github.com/Lixing-Zhang/vending-machine/internal/models"
	"github.com/shopspring/decimal"
)

// Ordering selects how Vend sequences its stock and funds checks
type Ordering int

const (
	// OrderingObserved decrements stock before checking funds. A vend that
	// fails for lack of funds still removes the requested quantity, and stock
	// may go negative because only "any stock left" is checked.
	OrderingObserved Ordering = iota

	// OrderingAtomic checks that the requested quantity is available and
	// affordable before mutating anything. A failed vend leaves state intact.
	OrderingAtomic
)

func (o Ordering) String() string {
	switch o {
	case OrderingObserved:
		return "observed"
	case OrderingAtomic:
		return "atomic"
	default:
		return fmt.Sprintf("Ordering(%d)", int(o))
	}
}

// ParseOrdering accepts "observed" or "atomic"
func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case "observed":
		return OrderingObserved, nil
	case "atomic":
		return OrderingAtomic, nil
	default:
		return 0, fmt.Errorf("unknown vend ordering %q (must be observed or atomic)", s)
	}
}

// Option configures a Machine
type Option func(*Machine)

// WithBalance sets the starting balance. Negative values are ignored.
func WithBalance(balance decimal.Decimal) Option {
	return func(m *Machine) {
		if !balance.IsNegative() {
			m.balance = balance
		}
	}
}

// WithOrdering sets the vend ordering
func WithOrdering(o Ordering) Option {
	return func(m *Machine) {
		m.ordering = o
	}
}

// Machine owns a catalog and a deposited balance
type Machine struct {
	inventory models.Catalog
	balance   decimal.Decimal
	ordering  Ordering
}

// New creates a machine stocked with a copy of catalog
func New(catalog models.Catalog, opts ...Option) *Machine {
	m := &Machine{
		inventory: catalog.Clone(),
		balance:   decimal.Zero,
		ordering:  OrderingObserved,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Deposit adds amount to the balance
func (m *Machine) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	m.balance = m.balance.Add(amount)
	return nil
}

// Vend purchases quantity units of selection.
//
// Errors are ErrInvalidQuantity, ErrInvalidSelection, ErrOutOfStock or an
// *InsufficientFundsError holding the shortfall. Which state survives a
// failed vend depends on the machine's Ordering.
func (m *Machine) Vend(selection models.Selection, quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return ErrInvalidQuantity
	}

	item, ok := m.inventory[selection]
	if !ok {
		return ErrInvalidSelection
	}

	if m.ordering == OrderingAtomic {
		return m.vendAtomic(selection, item, quantity)
	}

	if !item.InStock() {
		return ErrOutOfStock
	}

	item.Quantity = item.Quantity.Sub(quantity)
	m.inventory[selection] = item

	total := item.Total(quantity)
	if m.balance.LessThan(total) {
		return &InsufficientFundsError{Required: total.Sub(m.balance)}
	}
	m.balance = m.balance.Sub(total)
	return nil
}

func (m *Machine) vendAtomic(selection models.Selection, item models.Item, quantity decimal.Decimal) error {
	if item.Quantity.LessThan(quantity) {
		return ErrOutOfStock
	}

	total := item.Total(quantity)
	if m.balance.LessThan(total) {
		return &InsufficientFundsError{Required: total.Sub(m.balance)}
	}

	item.Quantity = item.Quantity.Sub(quantity)
	m.inventory[selection] = item
	m.balance = m.balance.Sub(total)
	return nil
}

// Quote returns the price of quantity units without changing state
func (m *Machine) Quote(selection models.Selection, quantity decimal.Decimal) (decimal.Decimal, error) {
	if !quantity.IsPositive() {
		return decimal.Zero, ErrInvalidQuantity
	}
	item, ok := m.inventory[selection]
	if !ok {
		return decimal.Zero, ErrInvalidSelection
	}
	return item.Total(quantity), nil
}

// Balance returns the deposited funds available for purchases
func (m *Machine) Balance() decimal.Decimal {
	return m.balance
}

// Item returns the current item for selection
func (m *Machine) Item(selection models.Selection) (models.Item, bool) {
	item, ok := m.inventory[selection]
	return item, ok
}

// Inventory returns a copy of the current catalog
func (m *Machine) Inventory() models.Catalog {
	return m.inventory.Clone()
}

// Selections returns every selection the machine displays, stocked or not
func (m *Machine) Selections() []models.Selection {
	return models.Selections()
}

func (m *Machine) Ordering() Ordering {
	return m.ordering
}
