package allocation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilsahni/ipofolio/internal/contracts"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
)

// stubSolver returns a canned lot assignment keyed by problem item name.
type stubSolver struct {
	lots map[string]int
	ok   bool
}

func (s *stubSolver) Solve(_ context.Context, p Problem) (*Solution, bool) {
	if !s.ok {
		return nil, false
	}
	sol := &Solution{Lots: make([]int, len(p.Items)), Optimal: true}
	for i, item := range p.Items {
		sol.Lots[i] = s.lots[item.Name]
	}
	return sol, true
}

func TestAllocate_OptimizerPreferredWhenWellUtilized(t *testing.T) {
	solver := &stubSolver{lots: map[string]int{"A": 1, "B": 1}, ok: true}
	engine := NewEngine(DefaultConfig(), solver, logger.NewNop())

	candidates := []contracts.Candidate{
		cand("A", 8, 15000),
		cand("B", 6, 10000),
	}

	result := engine.Allocate(context.Background(), candidates, 25000)

	assert.Equal(t, contracts.StrategyOptimizer, result.Strategy)
	assert.Equal(t, 0.0, result.Leftover)
	require.Len(t, result.Lines, 2)
	assert.Equal(t, "A", result.Lines[0].Name)
}

func TestAllocate_GreedyChallengesUnderUtilizedOptimizer(t *testing.T) {
	// Solver leaves 10000 of 25000 on the table; greedy fills both lots.
	solver := &stubSolver{lots: map[string]int{"A": 1, "B": 0}, ok: true}
	engine := NewEngine(DefaultConfig(), solver, logger.NewNop())

	candidates := []contracts.Candidate{
		cand("A", 8, 15000),
		cand("B", 6, 10000),
	}

	result := engine.Allocate(context.Background(), candidates, 25000)

	assert.Equal(t, contracts.StrategyGreedy, result.Strategy)
	assert.Equal(t, 25000.0, result.TotalInvested())
	assert.Equal(t, 0.0, result.Leftover)
}

func TestAllocate_OptimizerKeptWhenGreedyNoBetter(t *testing.T) {
	// Leftover exceeds the 1% threshold but greedy cannot invest more
	// either, so the exact answer stands.
	solver := &stubSolver{lots: map[string]int{"A": 3}, ok: true}
	engine := NewEngine(DefaultConfig(), solver, logger.NewNop())

	candidates := []contracts.Candidate{cand("A", 8, 15000)}

	result := engine.Allocate(context.Background(), candidates, 50000)

	assert.Equal(t, contracts.StrategyOptimizer, result.Strategy)
	assert.Equal(t, 45000.0, result.TotalInvested())
	assert.Equal(t, 5000.0, result.Leftover)
}

func TestAllocate_SolverFailureFallsBackToGreedy(t *testing.T) {
	engine := NewEngine(DefaultConfig(), &stubSolver{ok: false}, logger.NewNop())

	candidates := []contracts.Candidate{cand("A", 8, 15000)}

	result := engine.Allocate(context.Background(), candidates, 25000)

	assert.Equal(t, contracts.StrategyGreedy, result.Strategy)
	require.Len(t, result.Lines, 1)
	assert.Equal(t, 1, result.Lines[0].Lots)
}

func TestAllocate_NilSolverMatchesGreedy(t *testing.T) {
	candidates := []contracts.Candidate{
		cand("A", 9.1, 14000),
		cand("B", 7.3, 11000),
		cand("C", 5.6, 8000),
	}

	withNil := NewEngine(DefaultConfig(), nil, logger.NewNop())
	result := withNil.Allocate(context.Background(), candidates, 60000)

	assert.Equal(t, contracts.StrategyGreedy, result.Strategy)

	again := withNil.Allocate(context.Background(), candidates, 60000)
	assert.Equal(t, result, again)
}

func TestAllocate_LotCapBoundsSolverProblem(t *testing.T) {
	var captured Problem
	solver := solverFunc(func(_ context.Context, p Problem) (*Solution, bool) {
		captured = p
		return &Solution{Lots: make([]int, len(p.Items)), Optimal: true}, true
	})
	engine := NewEngine(DefaultConfig(), solver, logger.NewNop())

	candidates := []contracts.Candidate{
		cand("Cheap", 8, 5000),   // budget allows 10, cap holds at 3
		cand("Pricey", 7, 30000), // budget allows only 1
	}

	engine.Allocate(context.Background(), candidates, 50000)

	require.Len(t, captured.Items, 2)
	for _, item := range captured.Items {
		switch item.Name {
		case "Cheap":
			assert.Equal(t, 3, item.MaxLots)
		case "Pricey":
			assert.Equal(t, 1, item.MaxLots)
		}
	}
	assert.Equal(t, 50000.0, captured.Budget)
}

func TestAllocate_ZeroBudget(t *testing.T) {
	engine := NewEngine(DefaultConfig(), nil, logger.NewNop())

	result := engine.Allocate(context.Background(), []contracts.Candidate{cand("A", 8, 15000)}, 0)

	assert.Empty(t, result.Lines)
	assert.Equal(t, 0.0, result.Leftover)
}

// solverFunc adapts a function to the Solver interface.
type solverFunc func(ctx context.Context, p Problem) (*Solution, bool)

func (f solverFunc) Solve(ctx context.Context, p Problem) (*Solution, bool) { return f(ctx, p) }
