package models

import "github.com/shopspring/decimal"

// Item is the unit price and remaining stock of one selection.
// Quantity is a decimal; fractional units are allowed.
type Item struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

// InStock reports whether any stock remains
func (i Item) InStock() bool {
	return i.Quantity.IsPositive()
}

// Total returns the price of quantity units
func (i Item) Total(quantity decimal.Decimal) decimal.Decimal {
	return i.Price.Mul(quantity)
}

// Catalog maps each stocked selection to its item
type Catalog map[Selection]Item

// Clone returns an independent copy of the catalog
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for sel, item := range c {
		out[sel] = item
	}
	return out
}

// StockedItem is an item together with its selection, used for listings
type StockedItem struct {
	Selection Selection       `json:"selection"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// Ordered lists the catalog's entries following the display order of
// Selections. Selections missing from the catalog are left out.
func (c Catalog) Ordered() []StockedItem {
	out := make([]StockedItem, 0, len(c))
	for _, sel := range selections {
		item, ok := c[sel]
		if !ok {
			continue
		}
		out = append(out, StockedItem{Selection: sel, Price: item.Price, Quantity: item.Quantity})
	}
	return out
}
