package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/Lixing-Zhang/vending-machine/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidResource = errors.New("inventory resource not found")
	ErrConversion      = errors.New("inventory resource could not be converted")
	ErrInvalidKey      = errors.New("invalid inventory key")
)

// Decode converts a raw record set into a catalog.
//
// Entries whose value is not a record with numeric "price" and "quantity"
// fields are skipped. Every numeric entry must be keyed by a selection
// encoding, otherwise the whole decode fails with ErrInvalidKey. Numeric
// entries with a negative price or quantity are then skipped. A json.Number
// too large to represent fails with ErrConversion.
func Decode(records map[string]any) (models.Catalog, error) {
	catalog := make(models.Catalog, len(records))

	for key, value := range records {
		item, ok, err := decodeItem(value)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %w", ErrConversion, key, err)
		}
		if !ok {
			continue
		}

		sel, err := models.ParseSelection(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}

		if item.Price.IsNegative() || item.Quantity.IsNegative() {
			continue
		}

		catalog[sel] = item
	}

	return catalog, nil
}

// decodeItem reports ok when value is a record with two numeric fields
func decodeItem(value any) (models.Item, bool, error) {
	record, ok := value.(map[string]any)
	if !ok {
		return models.Item{}, false, nil
	}

	price, ok, err := toDecimal(record["price"])
	if err != nil || !ok {
		return models.Item{}, false, err
	}

	quantity, ok, err := toDecimal(record["quantity"])
	if err != nil || !ok {
		return models.Item{}, false, err
	}

	return models.Item{Price: price, Quantity: quantity}, true, nil
}

// toDecimal accepts the numeric kinds produced by the JSON and YAML decoders.
// NaN and infinities are not numbers here.
func toDecimal(v any) (decimal.Decimal, bool, error) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero, false, err
		}
		return d, true, nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false, nil
		}
		return decimal.NewFromFloat(n), true, nil
	case float32:
		if math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
			return decimal.Zero, false, nil
		}
		return decimal.NewFromFloat32(n), true, nil
	case int:
		return decimal.NewFromInt(int64(n)), true, nil
	case int8:
		return decimal.NewFromInt(int64(n)), true, nil
	case int16:
		return decimal.NewFromInt(int64(n)), true, nil
	case int32:
		return decimal.NewFromInt(int64(n)), true, nil
	case int64:
		return decimal.NewFromInt(n), true, nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0), true, nil
	case uint8:
		return decimal.NewFromInt(int64(n)), true, nil
	case uint16:
		return decimal.NewFromInt(int64(n)), true, nil
	case uint32:
		return decimal.NewFromInt(int64(n)), true, nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), true, nil
	case decimal.Decimal:
		return n, true, nil
	default:
		return decimal.Zero, false, nil
	}
}
