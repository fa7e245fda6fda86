package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nikhilsahni/ipofolio/internal/external/investorgain"
	"github.com/nikhilsahni/ipofolio/internal/scheduler"
	"github.com/nikhilsahni/ipofolio/internal/scheduler/jobs"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the job scheduler",
	Long: `Starts the scheduler daemon with the recurring jobs:

  gmp_refresh  - 9:00 AM daily, pulls fresh grey-market premiums
  recommend    - 9:30 AM daily, runs the full recommendation pipeline

Example:
  go run ./cmd/ipofolio schedule
  go run ./cmd/ipofolio schedule --run recommend`,
	RunE: runSchedule,
}

var scheduleRunNow string

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&scheduleRunNow, "run", "", "trigger one job immediately after start")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(true)
	if err != nil {
		return err
	}
	defer d.close()

	gmpClient := investorgain.NewClient(d.cfg, d.log)

	sched := scheduler.New(d.log)
	if err := sched.AddJob(jobs.NewGMPRefreshJob(gmpClient, d.ipoRepo, d.cfg, d.log)); err != nil {
		return err
	}
	if err := sched.AddJob(jobs.NewRecommendJob(d.orchestrator, d.cfg, d.log)); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	if scheduleRunNow != "" {
		if err := sched.RunJob(scheduleRunNow); err != nil {
			return err
		}
	}

	fmt.Println("Scheduler running (Ctrl+C to stop)")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}
