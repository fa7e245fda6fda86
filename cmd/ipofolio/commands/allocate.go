package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikhilsahni/ipofolio/internal/brain"
)

var allocateCmd = &cobra.Command{
	Use:   "allocate",
	Short: "Run one recommendation: score, allocate, explain, store",
	Long: `Scores the current offering pool, allocates the budget across the
eligible candidates in whole lots, and stores the recommendation with
per-offering explanations.

Example:
  go run ./cmd/ipofolio allocate --budget 100000 --hold-until 2026-09-30
  go run ./cmd/ipofolio allocate --dry-run
  go run ./cmd/ipofolio allocate --greedy-only`,
	RunE: runAllocate,
}

var (
	allocateBudget     float64
	allocateHoldUntil  string
	allocateDryRun     bool
	allocateGreedyOnly bool
)

func init() {
	rootCmd.AddCommand(allocateCmd)

	allocateCmd.Flags().Float64Var(&allocateBudget, "budget", 0, "budget to allocate (default from config)")
	allocateCmd.Flags().StringVar(&allocateHoldUntil, "hold-until", "", "hold date YYYY-MM-DD (default config horizon from today)")
	allocateCmd.Flags().BoolVar(&allocateDryRun, "dry-run", false, "compute but do not store")
	allocateCmd.Flags().BoolVar(&allocateGreedyOnly, "greedy-only", false, "skip the exact optimizer")
}

func runAllocate(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(!allocateGreedyOnly)
	if err != nil {
		return err
	}
	defer d.close()

	budget := allocateBudget
	if budget <= 0 {
		budget = d.cfg.Allocator.DefaultBudget
	}

	holdUntil := time.Now().AddDate(0, 0, d.cfg.Allocator.HoldHorizonDays)
	if allocateHoldUntil != "" {
		holdUntil, err = time.Parse("2006-01-02", allocateHoldUntil)
		if err != nil {
			return fmt.Errorf("invalid --hold-until (expected YYYY-MM-DD): %w", err)
		}
	}

	result, err := d.orchestrator.Run(context.Background(), brain.RunConfig{
		Budget:    budget,
		HoldUntil: holdUntil,
		DryRun:    allocateDryRun,
	})
	if err != nil {
		return err
	}

	rec := result.Recommendation
	fmt.Printf("Strategy: %s   Invested: %.2f / %.2f   Leftover: %.2f\n\n",
		rec.Strategy, rec.TotalInvested, rec.Budget, rec.Leftover)

	if len(rec.Allocation) == 0 {
		fmt.Println("No allocation: no eligible candidate fits the budget.")
		return nil
	}

	for _, line := range rec.Allocation {
		fmt.Printf("%-40s  score %5.3f  %d lot(s)  ₹%.2f\n",
			line.Name, line.Composite, line.Lots, line.Invested)
		if info, ok := rec.Explanations[line.Name]; ok {
			for _, r := range info.Positive {
				fmt.Printf("    + %s\n", r)
			}
			for _, r := range info.Negative {
				fmt.Printf("    - %s\n", r)
			}
		}
	}

	return nil
}
