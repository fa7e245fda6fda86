package allocation

import (
	"context"
	"time"
)

// Problem is a budget-constrained integer lot allocation problem handed to
// an exact solver: maximize sum(Score*lots) - DiversificationWeight*sum(lots)
// subject to sum(UnitCost*lots) <= Budget and 0 <= lots <= MaxLots per item.
type Problem struct {
	Budget                float64
	DiversificationWeight float64
	TimeLimit             time.Duration
	Items                 []Item
}

// Item is one offering in the solver's variable space
type Item struct {
	Name     string
	Score    float64
	UnitCost float64
	MaxLots  int
}

// Solution holds solver output. Lots is indexed parallel to Problem.Items.
// Optimal is false when the time limit cut the search short; the lots then
// hold the best feasible solution found, which is still usable.
type Solution struct {
	Lots      []int
	Objective float64
	Optimal   bool
}

// Solver is the optional integer-programming capability. A nil Solver on
// the engine means the capability is absent, which is a normal condition
// and triggers the greedy fallback. Solve returns ok=false when no
// feasible solution was found within the time limit.
type Solver interface {
	Solve(ctx context.Context, p Problem) (solution *Solution, ok bool)
}
