package plan_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/adiwirman/planora/internal/catalog"
	"github.com/adiwirman/planora/internal/plan"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func solve(t *testing.T, cat catalog.Catalog, cfg plan.Config) (plan.Outcome, error) {
	t.Helper()
	require.NoError(t, cat.Validate())
	require.NoError(t, cfg.Validate())
	return plan.Solver{}.Solve(plan.Build(cat, cfg))
}

func TestSolvePromotedSingleItem(t *testing.T) {
	cat := catalog.Catalog{
		{Name: "A", UnitPrice: dec("2"), MinDemand: 50, SupplyCap: 100, ShelfLifeDays: 30, PromotionPct: 10},
	}
	cfg := plan.Config{BudgetCap: dec("300"), StorageCap: 200, ApplyPromotions: true}

	out, err := solve(t, cat, cfg)
	require.NoError(t, err)

	// Effective price 1.80; budget allows 166 units but the supply cap binds first.
	require.Equal(t, 100, out.Assignment["A"])

	res := plan.Extract(cat, cfg, out)
	require.True(t, res.TotalCost.Equal(dec("180.00")), "total cost %s", res.TotalCost)
	require.Equal(t, 100, res.TotalUnits)
}

func TestSolveInfeasibleBudget(t *testing.T) {
	cat := catalog.Catalog{
		{Name: "A", UnitPrice: dec("2"), MinDemand: 50, SupplyCap: 100, ShelfLifeDays: 30, PromotionPct: 10},
	}
	// The demand floor alone costs 50 x 1.80 = 90.
	cfg := plan.Config{BudgetCap: dec("50"), StorageCap: 200, ApplyPromotions: true}

	_, err := solve(t, cat, cfg)
	require.ErrorIs(t, err, plan.ErrInfeasible)
}

func TestSolveInfeasibleStorage(t *testing.T) {
	cat := catalog.Catalog{
		{Name: "A", UnitPrice: dec("1"), MinDemand: 30, SupplyCap: 60, ShelfLifeDays: 5},
		{Name: "B", UnitPrice: dec("1"), MinDemand: 30, SupplyCap: 60, ShelfLifeDays: 5},
	}
	cfg := plan.Config{BudgetCap: dec("1000"), StorageCap: 50}

	_, err := solve(t, cat, cfg)
	require.ErrorIs(t, err, plan.ErrInfeasible)
}

func TestSolveExpiryPriority(t *testing.T) {
	cat := catalog.Catalog{
		{Name: "short", UnitPrice: dec("1.00"), MinDemand: 0, SupplyCap: 100, ShelfLifeDays: 2},
		{Name: "long", UnitPrice: dec("1.00"), MinDemand: 0, SupplyCap: 100, ShelfLifeDays: 10},
	}
	// Budget binds at 100 units out of a possible 200.
	cfg := plan.Config{BudgetCap: dec("100"), StorageCap: 200, PrioritizeExpiry: true}

	out, err := solve(t, cat, cfg)
	require.NoError(t, err)
	require.Greater(t, out.Assignment["short"], out.Assignment["long"])
	require.Equal(t, 100, out.Assignment["short"]+out.Assignment["long"])

	// Without the flag the weights are equal; any 100-unit split is optimal,
	// so only the total is pinned down.
	flat := cfg
	flat.PrioritizeExpiry = false
	flatOut, err := solve(t, cat, flat)
	require.NoError(t, err)
	require.Equal(t, 100, flatOut.Assignment["short"]+flatOut.Assignment["long"])
}

func TestSolveRespectsDemandBounds(t *testing.T) {
	cat := catalog.Catalog{
		{Name: "a", UnitPrice: dec("3.25"), MinDemand: 2, SupplyCap: 8, ShelfLifeDays: 3, PromotionPct: 20},
		{Name: "b", UnitPrice: dec("0.80"), MinDemand: 5, SupplyCap: 30, ShelfLifeDays: 14},
		{Name: "c", UnitPrice: dec("12.00"), MinDemand: 0, SupplyCap: 4, ShelfLifeDays: 60, PromotionPct: 50},
	}
	cfg := plan.Config{BudgetCap: dec("55"), StorageCap: 25, PrioritizeExpiry: true, ApplyPromotions: true}

	out, err := solve(t, cat, cfg)
	require.NoError(t, err)
	for _, it := range cat {
		q := out.Assignment[it.Name]
		require.GreaterOrEqual(t, q, it.MinDemand, it.Name)
		require.LessOrEqual(t, q, it.SupplyCap, it.Name)
	}

	res := plan.Extract(cat, cfg, out)
	require.True(t, res.TotalCost.LessThanOrEqual(cfg.BudgetCap), "cost %s over budget", res.TotalCost)
	require.LessOrEqual(t, res.TotalUnits, cfg.StorageCap)
}

func TestSolvePrefersCheaperFulfillment(t *testing.T) {
	// A greedy pass over catalog order would spend the whole budget on the
	// expensive item; the optimum fills up on the cheap one.
	cat := catalog.Catalog{
		{Name: "expensive", UnitPrice: dec("10.00"), MinDemand: 0, SupplyCap: 10, ShelfLifeDays: 5},
		{Name: "cheap", UnitPrice: dec("1.00"), MinDemand: 0, SupplyCap: 10, ShelfLifeDays: 5},
	}
	cfg := plan.Config{BudgetCap: dec("10"), StorageCap: 10}

	out, err := solve(t, cat, cfg)
	require.NoError(t, err)
	require.Equal(t, 0, out.Assignment["expensive"])
	require.Equal(t, 10, out.Assignment["cheap"])
}

func TestSolveBudgetArithmeticIsExact(t *testing.T) {
	// 3 x 0.30 = 0.90 exactly; binary floating point would call a fourth
	// unit affordable or the third one not, depending on drift.
	cat := catalog.Catalog{
		{Name: "a", UnitPrice: dec("0.30"), MinDemand: 0, SupplyCap: 10, ShelfLifeDays: 1},
	}
	cfg := plan.Config{BudgetCap: dec("0.90"), StorageCap: 100}

	out, err := solve(t, cat, cfg)
	require.NoError(t, err)
	require.Equal(t, 3, out.Assignment["a"])
	require.True(t, out.TotalCost.Equal(dec("0.90")))
}

func TestSolveRoundedLineBudgetBoundary(t *testing.T) {
	// Two units cost exactly 0.99 at the 4-dp effective price, but the
	// reported lines round to 0.50 + 0.50 = 1.00 over budget. Only a single
	// unit fits, and the solver must keep searching below the rejected pair
	// rather than fall back to the zero floors.
	cat := catalog.Catalog{
		{Name: "a", UnitPrice: dec("0.50"), MinDemand: 0, SupplyCap: 1, ShelfLifeDays: 2, PromotionPct: 1},
		{Name: "b", UnitPrice: dec("0.50"), MinDemand: 0, SupplyCap: 1, ShelfLifeDays: 2, PromotionPct: 1},
	}
	cfg := plan.Config{BudgetCap: dec("0.99"), StorageCap: 10, ApplyPromotions: true}

	out, err := solve(t, cat, cfg)
	require.NoError(t, err)
	require.Equal(t, 1, out.Assignment["a"]+out.Assignment["b"])

	res := plan.Extract(cat, cfg, out)
	require.Equal(t, 1, res.TotalUnits)
	require.True(t, res.TotalCost.LessThanOrEqual(cfg.BudgetCap), "cost %s over budget", res.TotalCost)
}

func TestSolveRoundedLinesTrimExactOptimum(t *testing.T) {
	// Exact 4-dp accounting would afford all four units (4 x 0.4950 = 1.98),
	// but the reported lines come to 1.49 + 0.50 = 1.99. The optimum under
	// line rounding is three units, strictly between the zero floors and the
	// exact-arithmetic optimum.
	cat := catalog.Catalog{
		{Name: "a", UnitPrice: dec("0.50"), MinDemand: 0, SupplyCap: 3, ShelfLifeDays: 2, PromotionPct: 1},
		{Name: "b", UnitPrice: dec("0.50"), MinDemand: 0, SupplyCap: 1, ShelfLifeDays: 2, PromotionPct: 1},
	}
	cfg := plan.Config{BudgetCap: dec("1.98"), StorageCap: 10, ApplyPromotions: true}

	out, err := solve(t, cat, cfg)
	require.NoError(t, err)
	require.Equal(t, 3, out.Assignment["a"]+out.Assignment["b"])

	res := plan.Extract(cat, cfg, out)
	require.Equal(t, 3, res.TotalUnits)
	require.True(t, res.TotalCost.LessThanOrEqual(cfg.BudgetCap), "cost %s over budget", res.TotalCost)
}

func TestSolveIsDeterministic(t *testing.T) {
	cat := catalog.Catalog{
		{Name: "a", UnitPrice: dec("2.40"), MinDemand: 1, SupplyCap: 20, ShelfLifeDays: 3, PromotionPct: 5},
		{Name: "b", UnitPrice: dec("1.10"), MinDemand: 0, SupplyCap: 40, ShelfLifeDays: 9},
		{Name: "c", UnitPrice: dec("5.75"), MinDemand: 2, SupplyCap: 6, ShelfLifeDays: 21, PromotionPct: 25},
	}
	cfg := plan.Config{BudgetCap: dec("70"), StorageCap: 45, PrioritizeExpiry: true, ApplyPromotions: true}

	first, err := solve(t, cat, cfg)
	require.NoError(t, err)
	second, err := solve(t, cat, cfg)
	require.NoError(t, err)
	require.Equal(t, first.Assignment, second.Assignment)
	require.True(t, first.TotalCost.Equal(second.TotalCost))
}

func TestSolveNodeLimit(t *testing.T) {
	// The relaxation optimum is 10/3 units, so the root node must branch and
	// a one-node budget cannot finish the search.
	cat := catalog.Catalog{
		{Name: "a", UnitPrice: dec("3.00"), MinDemand: 0, SupplyCap: 10, ShelfLifeDays: 2},
	}
	cfg := plan.Config{BudgetCap: dec("10"), StorageCap: 100}

	_, err := plan.Solver{MaxNodes: 1}.Solve(plan.Build(cat, cfg))
	require.ErrorIs(t, err, plan.ErrNodeLimit)
}
