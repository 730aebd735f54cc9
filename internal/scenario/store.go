package scenario

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adiwirman/planora/internal/plan"
)

// ErrNotFound is returned when a requested scenario index is outside the
// stored range.
var ErrNotFound = errors.New("scenario not found")

// Scenario is one immutable record of a solved configuration and its orders.
type Scenario struct {
	ID         uuid.UUID       `json:"id"`
	Index      int             `json:"index"`
	Config     plan.Config     `json:"config"`
	Orders     []plan.Order    `json:"orders"`
	TotalCost  decimal.Decimal `json:"totalCost"`
	TotalUnits int             `json:"totalUnits"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Summary is the comparison-table view of a scenario. Totals are carried as
// numeric values end to end; they are never reparsed from formatted text.
type Summary struct {
	Index            int             `json:"index"`
	PrioritizeExpiry bool            `json:"prioritizeExpiry"`
	ApplyPromotions  bool            `json:"applyPromotions"`
	BudgetCap        decimal.Decimal `json:"budgetCap"`
	StorageCap       int             `json:"storageCap"`
	TotalCost        decimal.Decimal `json:"totalCost"`
	TotalUnits       int             `json:"totalUnits"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// Store is the append-only scenario history for one running process.
// Appends are serialized so sequence indices stay contiguous and 1-based;
// reads return copies so stored records cannot be mutated by callers.
type Store struct {
	mu        sync.RWMutex
	scenarios []Scenario
	now       func() time.Time
}

// NewStore constructs an empty history.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Append assigns the next sequence index to the result and stores it.
func (s *Store) Append(cfg plan.Config, res plan.Result) Scenario {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := Scenario{
		ID:         uuid.New(),
		Index:      len(s.scenarios) + 1,
		Config:     cfg,
		Orders:     append([]plan.Order(nil), res.Orders...),
		TotalCost:  res.TotalCost,
		TotalUnits: res.TotalUnits,
		CreatedAt:  s.now().UTC(),
	}
	s.scenarios = append(s.scenarios, sc)
	return copyScenario(sc)
}

// List returns summaries of every stored scenario in insertion order.
func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, len(s.scenarios))
	for i, sc := range s.scenarios {
		out[i] = Summary{
			Index:            sc.Index,
			PrioritizeExpiry: sc.Config.PrioritizeExpiry,
			ApplyPromotions:  sc.Config.ApplyPromotions,
			BudgetCap:        sc.Config.BudgetCap,
			StorageCap:       sc.Config.StorageCap,
			TotalCost:        sc.TotalCost,
			TotalUnits:       sc.TotalUnits,
			CreatedAt:        sc.CreatedAt,
		}
	}
	return out
}

// Get returns the scenario at the given 1-based index.
func (s *Store) Get(index int) (Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 1 || index > len(s.scenarios) {
		return Scenario{}, ErrNotFound
	}
	return copyScenario(s.scenarios[index-1]), nil
}

// Len reports how many scenarios are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scenarios)
}

func copyScenario(sc Scenario) Scenario {
	sc.Orders = append([]plan.Order(nil), sc.Orders...)
	return sc
}
