package plan_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adiwirman/planora/internal/catalog"
	"github.com/adiwirman/planora/internal/plan"
)

func TestExtractEmitsOrdersInCatalogOrder(t *testing.T) {
	cat := catalog.Catalog{
		{Name: "b", UnitPrice: dec("1.50"), MinDemand: 0, SupplyCap: 10, ShelfLifeDays: 2},
		{Name: "a", UnitPrice: dec("2.00"), MinDemand: 0, SupplyCap: 10, ShelfLifeDays: 5, PromotionPct: 10},
	}
	cfg := plan.Config{BudgetCap: dec("100"), StorageCap: 50, ApplyPromotions: true}
	out := plan.Outcome{Assignment: map[string]int{"a": 4, "b": 7}}

	res := plan.Extract(cat, cfg, out)
	require.Len(t, res.Orders, 2)
	require.Equal(t, "b", res.Orders[0].ItemName)
	require.Equal(t, "a", res.Orders[1].ItemName)
	require.Equal(t, 7, res.Orders[0].Quantity)
	require.Equal(t, 4, res.Orders[1].Quantity)
	require.True(t, res.Orders[1].EffectiveUnitPrice.Equal(dec("1.80")))
	require.True(t, res.Orders[0].LineCost.Equal(dec("10.50")))
	require.True(t, res.Orders[1].LineCost.Equal(dec("7.20")))
	require.True(t, res.TotalCost.Equal(dec("17.70")))
	require.Equal(t, 11, res.TotalUnits)
}

func TestExtractRoundsLineCosts(t *testing.T) {
	cat := catalog.Catalog{
		{Name: "a", UnitPrice: dec("1.99"), MinDemand: 0, SupplyCap: 10, ShelfLifeDays: 1, PromotionPct: 33},
	}
	cfg := plan.Config{BudgetCap: dec("100"), StorageCap: 50, ApplyPromotions: true}
	out := plan.Outcome{Assignment: map[string]int{"a": 3}}

	res := plan.Extract(cat, cfg, out)
	// 3 x 1.3333 = 3.9999, reported as 4.00; the total comes from the
	// emitted line, not from the solver.
	require.True(t, res.Orders[0].EffectiveUnitPrice.Equal(dec("1.3333")))
	require.True(t, res.Orders[0].LineCost.Equal(dec("4.00")))
	require.True(t, res.TotalCost.Equal(dec("4.00")))
}

func TestExtractPricingMatchesModel(t *testing.T) {
	cat := catalog.Catalog{
		{Name: "a", UnitPrice: dec("2.00"), MinDemand: 0, SupplyCap: 10, ShelfLifeDays: 5, PromotionPct: 10},
	}
	// Promotions off: the reported price must be the undiscounted one even
	// though the item carries a promotion.
	cfg := plan.Config{BudgetCap: dec("100"), StorageCap: 50}
	res := plan.Extract(cat, cfg, plan.Outcome{Assignment: map[string]int{"a": 2}})
	require.True(t, res.Orders[0].EffectiveUnitPrice.Equal(dec("2.00")))
	require.True(t, res.TotalCost.Equal(dec("4.00")))
}
