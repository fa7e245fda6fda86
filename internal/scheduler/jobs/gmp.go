package jobs

import (
	"context"
	"fmt"

	"github.com/nikhilsahni/ipofolio/internal/external/investorgain"
	"github.com/nikhilsahni/ipofolio/internal/ipodata"
	"github.com/nikhilsahni/ipofolio/pkg/config"
	"github.com/nikhilsahni/ipofolio/pkg/logger"
)

// GMPRefreshJob pulls fresh grey-market premiums each morning, before the
// recommendation run.
type GMPRefreshJob struct {
	client  *investorgain.Client
	ipoRepo *ipodata.Repository
	config  *config.Config
	logger  *logger.Logger
}

// NewGMPRefreshJob creates a new GMP refresh job
func NewGMPRefreshJob(client *investorgain.Client, ipoRepo *ipodata.Repository, cfg *config.Config, log *logger.Logger) *GMPRefreshJob {
	return &GMPRefreshJob{
		client:  client,
		ipoRepo: ipoRepo,
		config:  cfg,
		logger:  log,
	}
}

// Name returns the job name
func (j *GMPRefreshJob) Name() string {
	return "gmp_refresh"
}

// Schedule returns the cron schedule (every day at 9 AM)
func (j *GMPRefreshJob) Schedule() string {
	return "0 0 9 * * *"
}

// Run fetches the GMP table and writes premiums back for known offerings.
// Quotes for offerings we do not track are counted, not errored.
func (j *GMPRefreshJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.config.GMP.FetchBudget)
	defer cancel()

	quotes, err := j.client.FetchGMP(ctx)
	if err != nil {
		return fmt.Errorf("fetch gmp: %w", err)
	}

	updated := 0
	unknown := 0
	for _, q := range quotes {
		if err := j.ipoRepo.UpdateGMP(ctx, q.Name, q.GMP); err != nil {
			unknown++
			continue
		}
		updated++
	}

	j.logger.WithFields(map[string]interface{}{
		"quotes":  len(quotes),
		"updated": updated,
		"unknown": unknown,
	}).Info("GMP refresh completed")

	return nil
}
