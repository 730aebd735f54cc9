package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// Item describes one orderable product and its static procurement attributes.
type Item struct {
	Name          string          `json:"name" validate:"required"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	MinDemand     int             `json:"minDemand" validate:"gte=0"`
	SupplyCap     int             `json:"supplyCap" validate:"gte=0"`
	ShelfLifeDays int             `json:"shelfLifeDays" validate:"gt=0"`
	PromotionPct  int             `json:"promotionPct" validate:"gte=0,lt=100"`
}

// EffectivePrice returns the unit price after the optional promotional discount.
// A zero promotion is a no-op regardless of the flag. The multiply-then-shift
// form keeps the result exact: a 2-dp price discounted by a whole percent has
// at most 4 decimal places.
func (it Item) EffectivePrice(applyPromotions bool) decimal.Decimal {
	if !applyPromotions || it.PromotionPct <= 0 {
		return it.UnitPrice
	}
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(100 - it.PromotionPct))).Shift(-2)
}

// Catalog is the fixed, caller-owned set of orderable items.
type Catalog []Item

// Validate rejects malformed catalogs before any model is built: empty input,
// duplicate names, non-positive or sub-cent prices, and demand bounds that can
// never be satisfied.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return errors.New("catalog must contain at least one item")
	}
	seen := make(map[string]struct{}, len(c))
	for i, it := range c {
		if err := validate.Struct(it); err != nil {
			return fmt.Errorf("item %d (%q): %w", i, it.Name, err)
		}
		if _, dup := seen[it.Name]; dup {
			return fmt.Errorf("item %d: duplicate name %q", i, it.Name)
		}
		seen[it.Name] = struct{}{}
		if !it.UnitPrice.IsPositive() {
			return fmt.Errorf("item %q: unit price must be positive, got %s", it.Name, it.UnitPrice)
		}
		if it.UnitPrice.Exponent() < -2 {
			return fmt.Errorf("item %q: unit price %s has more than 2 decimal places", it.Name, it.UnitPrice)
		}
		if it.MinDemand > it.SupplyCap {
			return fmt.Errorf("item %q: min demand %d exceeds supply cap %d", it.Name, it.MinDemand, it.SupplyCap)
		}
	}
	return nil
}

// TotalMinUnits sums the demand floors across all items.
func (c Catalog) TotalMinUnits() int {
	total := 0
	for _, it := range c {
		total += it.MinDemand
	}
	return total
}

// LoadFile reads and validates a catalog from a JSON array on disk.
func LoadFile(path string) (Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	return c, nil
}
