package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/nikhilsahni/ipofolio/internal/brain"
	"github.com/nikhilsahni/ipofolio/pkg/config"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
)

// RecommendJob runs the full recommendation pipeline daily
type RecommendJob struct {
	orchestrator *brain.Orchestrator
	config       *config.Config
	logger       *logger.Logger
}

// NewRecommendJob creates a new recommendation job
func NewRecommendJob(orch *brain.Orchestrator, cfg *config.Config, log *logger.Logger) *RecommendJob {
	return &RecommendJob{
		orchestrator: orch,
		config:       cfg,
		logger:       log,
	}
}

// Name returns the job name
func (j *RecommendJob) Name() string {
	return "recommend"
}

// Schedule returns the cron schedule (every day at 9:30 AM, after the
// morning GMP refresh)
func (j *RecommendJob) Schedule() string {
	return "0 30 9 * * *"
}

// Run executes one recommendation run with the configured default budget
// and a hold horizon from configuration.
func (j *RecommendJob) Run(ctx context.Context) error {
	holdUntil := time.Now().AddDate(0, 0, j.config.Allocator.HoldHorizonDays)

	result, err := j.orchestrator.Run(ctx, brain.RunConfig{
		Budget:    j.config.Allocator.DefaultBudget,
		HoldUntil: holdUntil,
	})
	if err != nil {
		return fmt.Errorf("recommendation run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"candidates": len(result.Candidates),
		"lines":      len(result.Recommendation.Allocation),
		"strategy":   result.Recommendation.Strategy,
	}).Info("Scheduled recommendation stored")

	return nil
}
