package allocation

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/nikhilsahni/ipofolio/internal/contracts"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
)

// Engine allocates a fixed budget across candidates. It tries the exact
// solver first when one is present and falls back to the deterministic
// greedy heuristic, keeping whichever result fills the budget better.
type Engine struct {
	config Config
	solver Solver // nil when the capability is absent
	logger *logger.Logger
}

// Config defines allocation parameters
type Config struct {
	// MaxLotsPerOffering caps lots per candidate in the exact solver
	MaxLotsPerOffering int

	// DiversificationWeight is the linear penalty on total lot count,
	// nudging the solver toward spreading lots when scores are close
	DiversificationWeight float64

	// TopFillK is the number of top-density candidates the greedy
	// heuristic sweeps repeatedly during its fill pass
	TopFillK int

	// SolverTimeLimit bounds the exact solve; a cutoff returns the best
	// feasible solution found, not an error
	SolverTimeLimit time.Duration

	// UnderUtilization is the leftover fraction of budget above which an
	// optimizer result is challenged by a greedy run
	UnderUtilization float64
}

// DefaultConfig returns default allocation parameters
func DefaultConfig() Config {
	return Config{
		MaxLotsPerOffering:    3,
		DiversificationWeight: 0.10,
		TopFillK:              3,
		SolverTimeLimit:       10 * time.Second,
		UnderUtilization:      0.01,
	}
}

// NewEngine creates a new allocation engine. A nil solver is valid and
// routes every run through the greedy heuristic.
func NewEngine(config Config, solver Solver, log *logger.Logger) *Engine {
	return &Engine{
		config: config,
		solver: solver,
		logger: log,
	}
}

// Allocate runs the selection policy over both strategies. An empty
// candidate list yields an empty allocation with the full budget left over.
func (e *Engine) Allocate(ctx context.Context, candidates []contracts.Candidate, budget float64) *contracts.Allocation {
	if len(candidates) == 0 || budget <= 0 {
		return &contracts.Allocation{
			Lines:    []contracts.AllocationLine{},
			Leftover: budget,
			Strategy: contracts.StrategyGreedy,
		}
	}

	exact := e.runOptimizer(ctx, candidates, budget)
	if exact == nil {
		result := e.runGreedy(candidates, budget)
		e.logResult(result, budget)
		return result
	}

	// Challenge an under-utilized optimizer result with the greedy fill.
	// Comparison is on total invested, not objective value: the policy
	// maximizes fill.
	if exact.Leftover > e.config.UnderUtilization*budget {
		greedy := e.runGreedy(candidates, budget)
		if greedy.TotalInvested() > exact.TotalInvested() {
			e.logResult(greedy, budget)
			return greedy
		}
	}

	e.logResult(exact, budget)
	return exact
}

// runOptimizer builds the integer problem and hands it to the solver.
// Returns nil when the capability is absent or found nothing feasible.
func (e *Engine) runOptimizer(ctx context.Context, candidates []contracts.Candidate, budget float64) *contracts.Allocation {
	if e.solver == nil {
		return nil
	}

	items := make([]Item, 0, len(candidates))
	for _, c := range candidates {
		maxPossible := int(math.Max(1, math.Floor(budget/c.MinInvest)))
		lotCap := e.config.MaxLotsPerOffering
		if maxPossible < lotCap {
			lotCap = maxPossible
		}
		items = append(items, Item{
			Name:     c.Name,
			Score:    c.Composite,
			UnitCost: c.MinInvest,
			MaxLots:  lotCap,
		})
	}

	solution, ok := e.solver.Solve(ctx, Problem{
		Budget:                budget,
		DiversificationWeight: e.config.DiversificationWeight,
		TimeLimit:             e.config.SolverTimeLimit,
		Items:                 items,
	})
	if !ok {
		return nil
	}

	lines := make([]contracts.AllocationLine, 0, len(candidates))
	invested := 0.0
	for i, lots := range solution.Lots {
		if lots <= 0 {
			continue
		}
		c := candidates[i]
		amount := float64(lots) * c.MinInvest
		lines = append(lines, contracts.AllocationLine{
			Name:      c.Name,
			Lots:      lots,
			MinInvest: c.MinInvest,
			Invested:  amount,
			Composite: c.Composite,
		})
		invested += amount
	}

	sortByComposite(lines)

	return &contracts.Allocation{
		Lines:    lines,
		Leftover: budget - invested,
		Strategy: contracts.StrategyOptimizer,
	}
}

// sortByComposite orders allocation lines by composite score descending,
// keeping the existing order on ties.
func sortByComposite(lines []contracts.AllocationLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Composite > lines[j].Composite
	})
}

func (e *Engine) logResult(result *contracts.Allocation, budget float64) {
	e.logger.WithFields(map[string]interface{}{
		"strategy":       result.Strategy,
		"lines":          len(result.Lines),
		"total_invested": result.TotalInvested(),
		"leftover":       result.Leftover,
		"budget":         budget,
	}).Info("Allocation completed")
}
