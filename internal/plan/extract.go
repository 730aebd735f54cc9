package plan

import (
	"github.com/shopspring/decimal"

	"github.com/adiwirman/planora/internal/catalog"
)

// Order is the resulting purchase line for one catalog item.
type Order struct {
	ItemName           string          `json:"itemName"`
	Quantity           int             `json:"quantity"`
	EffectiveUnitPrice decimal.Decimal `json:"effectiveUnitPrice"`
	LineCost           decimal.Decimal `json:"lineCost"`
}

// Result is the extracted order set with totals recomputed from the emitted
// lines, so the published numbers always agree with each other.
type Result struct {
	Orders     []Order         `json:"orders"`
	TotalCost  decimal.Decimal `json:"totalCost"`
	TotalUnits int             `json:"totalUnits"`
	Objective  float64         `json:"objective"`
}

// Extract converts an optimal outcome into per-item orders, one per catalog
// item in catalog order. Pricing is recomputed with the same rule the builder
// used, never taken from the solver's internal representation.
func Extract(cat catalog.Catalog, cfg Config, out Outcome) Result {
	orders := make([]Order, len(cat))
	totalCost := decimal.Zero
	totalUnits := 0
	for i, it := range cat {
		qty := out.Assignment[it.Name]
		price := it.EffectivePrice(cfg.ApplyPromotions)
		line := price.Mul(decimal.NewFromInt(int64(qty))).Round(2)
		orders[i] = Order{
			ItemName:           it.Name,
			Quantity:           qty,
			EffectiveUnitPrice: price,
			LineCost:           line,
		}
		totalCost = totalCost.Add(line)
		totalUnits += qty
	}
	return Result{
		Orders:     orders,
		TotalCost:  totalCost.Round(2),
		TotalUnits: totalUnits,
		Objective:  out.Objective,
	}
}
