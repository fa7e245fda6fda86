// Package milp provides an exact solver for the bounded integer lot
// allocation problem. The diversification penalty folds into each item's
// value (score - weight per lot), which reduces the objective to a bounded
// knapsack solvable by branch and bound with an LP-relaxation bound.
package milp

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/nikhilsahni/ipofolio/internal/allocation"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
)

// BranchBound implements allocation.Solver
type BranchBound struct {
	logger *logger.Logger
}

// New creates a new branch-and-bound solver
func New(log *logger.Logger) *BranchBound {
	return &BranchBound{logger: log}
}

// nodeCheckInterval controls how often the deadline is polled during search
const nodeCheckInterval = 4096

type searchItem struct {
	value   float64 // score minus diversification weight, per lot
	cost    float64
	maxLots int
	origIdx int
}

type search struct {
	items    []searchItem
	deadline time.Time
	ctx      context.Context

	bestValue float64
	bestLots  []int
	current   []int

	nodes    int
	timedOut bool
}

// Solve runs the search. It always finds a feasible solution (the zero
// allocation) so ok is true whenever the problem is well formed; hitting
// the time limit degrades Optimal, not ok.
func (s *BranchBound) Solve(ctx context.Context, p allocation.Problem) (*allocation.Solution, bool) {
	if p.Budget < 0 {
		return nil, false
	}

	items := make([]searchItem, 0, len(p.Items))
	for i, item := range p.Items {
		if item.UnitCost <= 0 {
			return nil, false
		}
		items = append(items, searchItem{
			value:   item.Score - p.DiversificationWeight,
			cost:    item.UnitCost,
			maxLots: item.MaxLots,
			origIdx: i,
		})
	}

	// Best value density first; stable so equal densities keep input order
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].value/items[i].cost > items[j].value/items[j].cost
	})

	deadline := time.Time{}
	if p.TimeLimit > 0 {
		deadline = time.Now().Add(p.TimeLimit)
	}
	if ctxDeadline, ok := ctx.Deadline(); ok && (deadline.IsZero() || ctxDeadline.Before(deadline)) {
		deadline = ctxDeadline
	}

	sr := &search{
		items:    items,
		deadline: deadline,
		ctx:      ctx,
		bestLots: make([]int, len(items)),
		current:  make([]int, len(items)),
	}

	start := time.Now()
	sr.branch(0, p.Budget, 0)

	// Map lots back to the original item order
	lots := make([]int, len(p.Items))
	for pos, item := range items {
		lots[item.origIdx] = sr.bestLots[pos]
	}

	s.logger.WithFields(map[string]interface{}{
		"items":     len(p.Items),
		"objective": sr.bestValue,
		"nodes":     sr.nodes,
		"duration":  time.Since(start),
		"optimal":   !sr.timedOut,
	}).Debug("Solve completed")

	return &allocation.Solution{
		Lots:      lots,
		Objective: sr.bestValue,
		Optimal:   !sr.timedOut,
	}, true
}

// branch explores lot counts for item i, highest first, pruning subtrees
// whose LP-relaxation bound cannot beat the incumbent.
func (s *search) branch(i int, remaining, value float64) {
	s.nodes++
	if s.nodes%nodeCheckInterval == 0 {
		s.checkDeadline()
	}
	if s.timedOut {
		return
	}

	if value > s.bestValue {
		s.bestValue = value
		copy(s.bestLots, s.current)
	}

	if i >= len(s.items) {
		return
	}

	item := s.items[i]
	maxTake := item.maxLots
	if affordable := int(math.Floor(remaining / item.cost)); affordable < maxTake {
		maxTake = affordable
	}
	// Negative-value lots can never improve the objective
	if item.value <= 0 {
		maxTake = 0
	}

	for take := maxTake; take >= 0; take-- {
		subValue := value + float64(take)*item.value
		subRemaining := remaining - float64(take)*item.cost

		if subValue+s.bound(i+1, subRemaining) <= s.bestValue {
			continue
		}

		s.current[i] = take
		s.branch(i+1, subRemaining, subValue)
		s.current[i] = 0

		if s.timedOut {
			return
		}
	}
}

// bound is the LP relaxation over items from start: fill fractionally in
// density order. Valid upper bound on any integer completion.
func (s *search) bound(start int, remaining float64) float64 {
	b := 0.0
	for j := start; j < len(s.items) && remaining > 0; j++ {
		item := s.items[j]
		if item.value <= 0 {
			continue
		}
		take := float64(item.maxLots)
		if affordable := remaining / item.cost; affordable < take {
			take = affordable
		}
		b += take * item.value
		remaining -= take * item.cost
	}
	return b
}

func (s *search) checkDeadline() {
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		s.timedOut = true
		return
	}
	select {
	case <-s.ctx.Done():
		s.timedOut = true
	default:
	}
}
