package plan

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

var (
	// ErrInfeasible reports that no integer assignment satisfies the budget
	// and storage ceilings together with the per-item demand bounds. It is an
	// expected outcome, not a failure.
	ErrInfeasible = errors.New("no assignment satisfies the budget and storage constraints")
	// ErrNodeLimit reports that the branch-and-bound search was cut off
	// before proving optimality.
	ErrNodeLimit = errors.New("solver node limit exceeded")
)

const (
	// DefaultMaxNodes caps the branch-and-bound search. Catalogs in the tens
	// of items stay far below this.
	DefaultMaxNodes = 200_000

	lpTol      = 1e-10
	intTol     = 1e-6
	boundSlack = 1e-9
)

// Outcome is the optimal result of a solve.
type Outcome struct {
	Assignment map[string]int
	Objective  float64
	TotalCost  decimal.Decimal
	Nodes      int
}

// Solver finds an exact optimum of a Model via branch-and-bound with
// LP-relaxation bounds. Candidate assignments are always re-verified in
// integer arithmetic, so floating-point drift in the relaxation can never
// surface an infeasible answer.
type Solver struct {
	MaxNodes int
}

type relaxation struct {
	x     []float64 // per-variable values in original units
	bound float64   // objective upper bound for the node
}

type node struct {
	lo, hi []int
}

// Solve maximizes weighted fulfillment subject to the model's constraints.
// It returns ErrInfeasible when the constraint set has no integer solution.
func (s Solver) Solve(m Model) (Outcome, error) {
	maxNodes := s.MaxNodes
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	n := len(m.Vars)
	lo := make([]int, n)
	hi := make([]int, n)
	for i, v := range m.Vars {
		lo[i] = v.Lo
		hi[i] = v.Hi
	}

	// The demand floors are the componentwise minimum of the search space and
	// line costs are nondecreasing in quantity, so if the floors break a
	// ceiling nothing else can satisfy it.
	if !m.withinCeilings(lo) {
		return Outcome{}, ErrInfeasible
	}

	best := append([]int(nil), lo...)
	bestObj := m.objective(lo)

	stack := []node{{lo: lo, hi: hi}}
	nodes := 0
	for len(stack) > 0 {
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++
		if nodes > maxNodes {
			return Outcome{}, fmt.Errorf("%w after %d nodes", ErrNodeLimit, nodes-1)
		}

		// Node floors already violate a ceiling: the whole subtree does.
		if !m.withinCeilings(nd.lo) {
			continue
		}

		relax, err := m.relax(nd.lo, nd.hi)
		if errors.Is(err, lp.ErrInfeasible) {
			continue
		}
		if err != nil {
			// Degenerate relaxation; branch without a bound rather than risk
			// pruning the optimum.
			j := widestVar(nd.lo, nd.hi)
			if j < 0 {
				s.tryIncumbent(m, nd.lo, &best, bestObj)
				continue
			}
			pushChildren(&stack, nd, j, (nd.lo[j]+nd.hi[j])/2)
			continue
		}

		bestF, _ := bestObj.Float64()
		if relax.bound <= bestF+boundSlack {
			continue
		}

		j, frac := mostFractional(relax.x, nd.lo, nd.hi)
		if j < 0 || frac <= intTol {
			// Integral relaxation optimum. The relaxation does not model
			// the 2-dp-rounded per-line accounting, so the candidate can
			// still overshoot the budget; the subtree below it may hold
			// feasible assignments and must be searched, not abandoned.
			q := roundAssignment(relax.x, nd.lo, nd.hi)
			if m.withinCeilings(q) {
				s.tryIncumbent(m, q, &best, bestObj)
				continue
			}
			if k := firstAboveFloor(q, nd.lo); k >= 0 {
				pushChildren(&stack, nd, k, q[k]-1)
			}
			continue
		}
		branchAt := clampInt(int(math.Floor(relax.x[j])), nd.lo[j], nd.hi[j]-1)
		pushChildren(&stack, nd, j, branchAt)
	}

	assignment := make(map[string]int, n)
	for i, v := range m.Vars {
		assignment[v.Name] = best[i]
	}
	objective, _ := bestObj.Float64()
	return Outcome{
		Assignment: assignment,
		Objective:  objective,
		TotalCost:  decimal.New(m.cost4(best), -priceScale),
		Nodes:      nodes,
	}, nil
}

// withinCeilings checks an assignment against both global constraints in
// exact arithmetic, including the 2-dp-rounded per-line accounting that the
// extractor will report.
func (m Model) withinCeilings(q []int) bool {
	return units(q) <= m.storageCap &&
		m.cost4(q) <= m.budget4 &&
		m.roundedCost(q).LessThanOrEqual(m.Config.BudgetCap)
}

// tryIncumbent promotes q to the incumbent when it is feasible and strictly
// better. Ties keep the earlier incumbent, which makes repeated solves of the
// same model return identical assignments.
func (s Solver) tryIncumbent(m Model, q []int, best *[]int, bestObj *big.Rat) {
	for i, v := range m.Vars {
		if q[i] < v.Lo || q[i] > v.Hi {
			return
		}
	}
	if !m.withinCeilings(q) {
		return
	}
	obj := m.objective(q)
	if obj.Cmp(bestObj) > 0 {
		copy(*best, q)
		bestObj.Set(obj)
	}
}

// relax solves the node's LP relaxation. Variables are shifted by the node
// floors so the standard-form program is built directly: minimize -w.y
// subject to [G | I].(y, slack) = b with y, slack >= 0, where G stacks the
// budget row, the storage row, and the per-variable range rows.
func (m Model) relax(lo, hi []int) (relaxation, error) {
	n := len(m.Vars)
	rows := n + 2
	cols := n + rows

	budgetLeft := float64(m.budget4 - m.cost4(lo))
	storageLeft := float64(m.storageCap - units(lo))

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	c := make([]float64, cols)

	for i, v := range m.Vars {
		a.Set(0, i, float64(v.price4))
		a.Set(1, i, 1)
		a.Set(2+i, i, 1)
		b[2+i] = float64(hi[i] - lo[i])
		c[i] = -v.weightFloat(m.Config.PrioritizeExpiry)
	}
	b[0] = budgetLeft
	b[1] = storageLeft
	for r := 0; r < rows; r++ {
		a.Set(r, n+r, 1) // slack
	}

	optF, optY, err := lp.Simplex(c, a, b, lpTol, nil)
	if err != nil {
		return relaxation{}, err
	}

	x := make([]float64, n)
	bound := -optF
	for i, v := range m.Vars {
		x[i] = optY[i] + float64(lo[i])
		bound += v.weightFloat(m.Config.PrioritizeExpiry) * float64(lo[i])
	}
	return relaxation{x: x, bound: bound}, nil
}

// mostFractional picks the branching variable with the largest fractional
// part among those still branchable. Returns -1 when every variable is fixed.
func mostFractional(x []float64, lo, hi []int) (int, float64) {
	j, frac := -1, 0.0
	for i := range x {
		if hi[i] <= lo[i] {
			continue
		}
		f := math.Abs(x[i] - math.Round(x[i]))
		if j < 0 || f > frac {
			j, frac = i, f
		}
	}
	return j, frac
}

func widestVar(lo, hi []int) int {
	j, width := -1, 0
	for i := range lo {
		if w := hi[i] - lo[i]; w > width {
			j, width = i, w
		}
	}
	return j
}

// firstAboveFloor returns the first variable the candidate sets above the
// node floor. One must exist whenever the candidate breaks a ceiling that
// the floors themselves satisfy.
func firstAboveFloor(q, lo []int) int {
	for i := range q {
		if q[i] > lo[i] {
			return i
		}
	}
	return -1
}

// pushChildren splits the node on variable j at value v. The upper child is
// pushed last so the LIFO search explores larger quantities first.
func pushChildren(stack *[]node, nd node, j, v int) {
	down := node{lo: append([]int(nil), nd.lo...), hi: append([]int(nil), nd.hi...)}
	down.hi[j] = v
	up := node{lo: append([]int(nil), nd.lo...), hi: append([]int(nil), nd.hi...)}
	up.lo[j] = v + 1
	*stack = append(*stack, down, up)
}

func roundAssignment(x []float64, lo, hi []int) []int {
	q := make([]int, len(x))
	for i := range x {
		q[i] = clampInt(int(math.Round(x[i])), lo[i], hi[i])
	}
	return q
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
