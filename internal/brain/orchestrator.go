// Package brain coordinates one full recommendation run.
package brain

import (
	"context"
	"fmt"
	"time"

	"github.com/nikhilsahni/ipofolio/internal/allocation"
	"github.com/nikhilsahni/ipofolio/internal/candidates"
	"github.com/nikhilsahni/ipofolio/internal/contracts"
	"github.com/nikhilsahni/ipofolio/internal/explain"
	"github.com/nikhilsahni/ipofolio/internal/ipodata"
	"github.com/nikhilsahni/ipofolio/internal/recommend"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
)

// Orchestrator coordinates the pipeline: load, build candidates, allocate,
// explain, persist.
type Orchestrator struct {
	ipoRepo   *ipodata.Repository
	builder   *candidates.Builder
	allocator *allocation.Engine
	explainer *explain.Engine
	recRepo   *recommend.Repository

	logger *logger.Logger
}

// RunConfig holds configuration for one recommendation run
type RunConfig struct {
	Budget    float64
	HoldUntil time.Time
	DryRun    bool // if true, skip persistence
}

// RunResult holds the outcome of a run
type RunResult struct {
	Recommendation  *contracts.Recommendation
	Candidates      []contracts.Candidate
	CompletedStages []string
	Duration        time.Duration
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(
	ipoRepo *ipodata.Repository,
	builder *candidates.Builder,
	allocator *allocation.Engine,
	explainer *explain.Engine,
	recRepo *recommend.Repository,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		ipoRepo:   ipoRepo,
		builder:   builder,
		allocator: allocator,
		explainer: explainer,
		recRepo:   recRepo,
		logger:    log,
	}
}

// Run executes one full recommendation run. A data-loading or persistence
// failure is terminal for the run; resolution gaps inside the core are not.
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	startTime := time.Now()

	result := &RunResult{
		CompletedStages: make([]string, 0),
	}

	o.logger.WithFields(map[string]interface{}{
		"budget":     config.Budget,
		"hold_until": config.HoldUntil.Format("2006-01-02"),
		"dry_run":    config.DryRun,
	}).Info("Starting recommendation run")

	// Load
	offerings, err := o.ipoRepo.ListOfferings(ctx)
	if err != nil {
		return result, fmt.Errorf("load offerings: %w", err)
	}
	analyses, err := o.ipoRepo.ListAnalyses(ctx)
	if err != nil {
		return result, fmt.Errorf("load analyses: %w", err)
	}
	result.CompletedStages = append(result.CompletedStages, "load")

	// Candidates
	cands := o.builder.Build(ctx, offerings, analyses, config.HoldUntil)
	result.Candidates = cands
	result.CompletedStages = append(result.CompletedStages, "candidates")

	// Allocation
	alloc := o.allocator.Allocate(ctx, cands, config.Budget)
	result.CompletedStages = append(result.CompletedStages, "allocation")

	// Explanations
	explanations := o.explainer.Explain(alloc, contracts.CandidatesByName(cands))
	result.CompletedStages = append(result.CompletedStages, "explain")

	rec := &contracts.Recommendation{
		CreatedAt:     time.Now(),
		Budget:        config.Budget,
		HoldUntil:     config.HoldUntil,
		Allocation:    alloc.Lines,
		Explanations:  explanations,
		TotalInvested: alloc.TotalInvested(),
		Leftover:      alloc.Leftover,
		Strategy:      alloc.Strategy,
	}
	result.Recommendation = rec

	// Persist
	if !config.DryRun {
		if err := o.recRepo.Save(ctx, rec); err != nil {
			return result, fmt.Errorf("save recommendation: %w", err)
		}
		result.CompletedStages = append(result.CompletedStages, "persist")
	} else {
		o.logger.Info("Skipping persistence (dry run mode)")
	}

	result.Duration = time.Since(startTime)

	o.logger.WithFields(map[string]interface{}{
		"candidates":     len(cands),
		"lines":          len(alloc.Lines),
		"total_invested": rec.TotalInvested,
		"leftover":       rec.Leftover,
		"strategy":       rec.Strategy,
		"duration":       result.Duration.Seconds(),
	}).Info("Recommendation run completed")

	return result, nil
}
