package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adiwirman/planora/internal/catalog"
	"github.com/adiwirman/planora/internal/obs"
	"github.com/adiwirman/planora/internal/plan"
	"github.com/adiwirman/planora/internal/scenario"
)

// ErrInvalidConfig wraps configuration validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Service runs the build, solve, extract, append pipeline over a fixed
// catalog and keeps the scenario history.
type Service struct {
	Catalog catalog.Catalog
	Solver  plan.Solver
	Store   *scenario.Store
	Logger  zerolog.Logger
}

// SolveAllocation solves one configuration against the catalog. A feasible
// outcome is appended to the history and returned; an infeasible one is
// reported via plan.ErrInfeasible and leaves the history untouched.
func (s *Service) SolveAllocation(cfg plan.Config) (scenario.Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return scenario.Scenario{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	model := plan.Build(s.Catalog, cfg)
	start := time.Now()
	out, err := s.Solver.Solve(model)
	obs.ObserveSolve(solveResult(err), time.Since(start), out.Nodes)
	if err != nil {
		if errors.Is(err, plan.ErrInfeasible) {
			s.Logger.Info().
				Str("budget_cap", cfg.BudgetCap.String()).
				Int("storage_cap", cfg.StorageCap).
				Msg("allocation infeasible")
			return scenario.Scenario{}, err
		}
		return scenario.Scenario{}, fmt.Errorf("solve allocation: %w", err)
	}

	res := plan.Extract(s.Catalog, cfg, out)
	sc := s.Store.Append(cfg, res)
	obs.SetScenariosStored(s.Store.Len())

	s.Logger.Info().
		Int("scenario_index", sc.Index).
		Str("total_cost", sc.TotalCost.String()).
		Int("total_units", sc.TotalUnits).
		Int("solver_nodes", out.Nodes).
		Dur("solve_duration", time.Since(start)).
		Msg("allocation solved")
	return sc, nil
}

// ListScenarios returns the comparison-table summaries in insertion order.
func (s *Service) ListScenarios() []scenario.Summary {
	return s.Store.List()
}

// GetScenario returns the full detail of one stored scenario.
func (s *Service) GetScenario(index int) (scenario.Scenario, error) {
	return s.Store.Get(index)
}

func solveResult(err error) string {
	switch {
	case err == nil:
		return "optimal"
	case errors.Is(err, plan.ErrInfeasible):
		return "infeasible"
	default:
		return "error"
	}
}
