package plan

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/adiwirman/planora/internal/catalog"
)

// priceScale converts effective unit prices to integer 1/10000 currency units.
// A 2-dp price discounted by a whole percent is exact at this scale, so every
// budget comparison inside the solver is integer arithmetic.
const priceScale = 4

// Config holds the tunable parameters of a single solve.
type Config struct {
	BudgetCap        decimal.Decimal `json:"budgetCap"`
	StorageCap       int             `json:"storageCap"`
	PrioritizeExpiry bool            `json:"prioritizeExpiry"`
	ApplyPromotions  bool            `json:"applyPromotions"`
}

// Validate rejects configurations the model cannot be built from.
func (c Config) Validate() error {
	if !c.BudgetCap.IsPositive() {
		return errors.New("budget cap must be positive")
	}
	if c.BudgetCap.Exponent() < -2 {
		return errors.New("budget cap must have at most 2 decimal places")
	}
	if c.StorageCap <= 0 {
		return errors.New("storage cap must be positive")
	}
	return nil
}

// Variable is one integer decision quantity with its resolved cost and
// objective coefficients.
type Variable struct {
	Name          string
	Lo, Hi        int
	Price         decimal.Decimal // effective unit price
	ShelfLifeDays int

	price4 int64 // Price scaled to 1/10000 units
}

// weight returns the objective coefficient as an exact rational.
func (v Variable) weight(prioritizeExpiry bool) *big.Rat {
	if prioritizeExpiry {
		return big.NewRat(1, int64(v.ShelfLifeDays))
	}
	return big.NewRat(1, 1)
}

// weightFloat is the LP-relaxation view of the same coefficient.
func (v Variable) weightFloat(prioritizeExpiry bool) float64 {
	if prioritizeExpiry {
		return 1 / float64(v.ShelfLifeDays)
	}
	return 1
}

// Model is the built allocation problem: maximize weighted fulfillment subject
// to the shared budget and storage ceilings.
type Model struct {
	Vars       []Variable
	Config     Config
	budget4    int64
	storageCap int
}

// Build turns a validated catalog and configuration into a solvable model.
// It is pure: the catalog is only read and no solving happens here.
func Build(cat catalog.Catalog, cfg Config) Model {
	vars := make([]Variable, len(cat))
	for i, it := range cat {
		price := it.EffectivePrice(cfg.ApplyPromotions)
		vars[i] = Variable{
			Name:          it.Name,
			Lo:            it.MinDemand,
			Hi:            it.SupplyCap,
			Price:         price,
			ShelfLifeDays: it.ShelfLifeDays,
			price4:        price.Shift(priceScale).IntPart(),
		}
	}
	return Model{
		Vars:       vars,
		Config:     cfg,
		budget4:    cfg.BudgetCap.Shift(priceScale).IntPart(),
		storageCap: cfg.StorageCap,
	}
}

// objective computes the exact weighted fulfillment of an integer assignment.
func (m Model) objective(q []int) *big.Rat {
	total := new(big.Rat)
	for i, v := range m.Vars {
		term := new(big.Rat).SetInt64(int64(q[i]))
		total.Add(total, term.Mul(term, v.weight(m.Config.PrioritizeExpiry)))
	}
	return total
}

// cost4 computes the exact total cost of an assignment in 1/10000 units.
func (m Model) cost4(q []int) int64 {
	var total int64
	for i, v := range m.Vars {
		total += int64(q[i]) * v.price4
	}
	return total
}

// roundedCost sums per-line costs the way they will be reported: quantity
// times effective price, rounded to 2 decimal places per line.
func (m Model) roundedCost(q []int) decimal.Decimal {
	total := decimal.Zero
	for i, v := range m.Vars {
		total = total.Add(v.Price.Mul(decimal.NewFromInt(int64(q[i]))).Round(2))
	}
	return total
}

// units sums the assignment's quantities.
func units(q []int) int {
	total := 0
	for _, n := range q {
		total += n
	}
	return total
}
