package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Selection identifies one product slot of the machine.
// The set is closed: only the constants below are valid selections.
type Selection string

const (
	Soda        Selection = "Soda"
	DietSoda    Selection = "DietSoda"
	Chips       Selection = "Chips"
	Cookie      Selection = "Cookie"
	Sandwich    Selection = "Sandwich"
	Wrap        Selection = "Wrap"
	CandyBar    Selection = "CandyBar"
	PopTart     Selection = "PopTart"
	Water       Selection = "Water"
	FruitJuice  Selection = "FruitJuice"
	SportsDrink Selection = "SportsDrink"
	Gum         Selection = "Gum"
)

// selections holds every selection in display order
var selections = []Selection{
	Soda, DietSoda, Chips, Cookie, Sandwich, Wrap,
	CandyBar, PopTart, Water, FruitJuice, SportsDrink, Gum,
}

var selectionIndex = func() map[string]Selection {
	idx := make(map[string]Selection, len(selections))
	for _, s := range selections {
		idx[string(s)] = s
	}
	return idx
}()

// ErrUnknownSelection is returned when a string does not encode a selection
var ErrUnknownSelection = errors.New("unknown selection")

// Selections returns all selections in display order.
// The returned slice is a copy and may be modified by the caller.
func Selections() []Selection {
	out := make([]Selection, len(selections))
	copy(out, selections)
	return out
}

// ParseSelection returns the selection whose encoding is exactly s.
// Matching is case-sensitive.
func ParseSelection(s string) (Selection, error) {
	sel, ok := selectionIndex[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSelection, s)
	}
	return sel, nil
}

// Valid reports whether s is one of the known selections
func (s Selection) Valid() bool {
	_, ok := selectionIndex[string(s)]
	return ok
}

func (s Selection) String() string {
	return string(s)
}

// UnmarshalJSON rejects encodings outside the closed set
func (s *Selection) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sel, err := ParseSelection(raw)
	if err != nil {
		return err
	}
	*s = sel
	return nil
}
