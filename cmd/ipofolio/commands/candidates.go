package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "List eligible candidates without allocating",
	Long: `Scores the current offering pool and lists every candidate that
passes eligibility: a scored analysis, a close date on or before the hold
date, a resolvable mid-price, and a composite at or above the floor.

Example:
  go run ./cmd/ipofolio candidates
  go run ./cmd/ipofolio candidates --hold-until 2026-09-30`,
	RunE: runCandidates,
}

var candidatesHoldUntil string

func init() {
	rootCmd.AddCommand(candidatesCmd)

	candidatesCmd.Flags().StringVar(&candidatesHoldUntil, "hold-until", "", "hold date YYYY-MM-DD (default config horizon from today)")
}

func runCandidates(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(false)
	if err != nil {
		return err
	}
	defer d.close()

	holdUntil := time.Now().AddDate(0, 0, d.cfg.Allocator.HoldHorizonDays)
	if candidatesHoldUntil != "" {
		holdUntil, err = time.Parse("2006-01-02", candidatesHoldUntil)
		if err != nil {
			return fmt.Errorf("invalid --hold-until (expected YYYY-MM-DD): %w", err)
		}
	}

	ctx := context.Background()
	offerings, err := d.ipoRepo.ListOfferings(ctx)
	if err != nil {
		return fmt.Errorf("load offerings: %w", err)
	}
	analyses, err := d.ipoRepo.ListAnalyses(ctx)
	if err != nil {
		return fmt.Errorf("load analyses: %w", err)
	}

	cands := d.builder.Build(ctx, offerings, analyses, holdUntil)

	fmt.Printf("%d eligible candidate(s) for hold date %s\n\n",
		len(cands), holdUntil.Format("2006-01-02"))

	for _, c := range cands {
		closes := "-"
		if !c.CloseDate.IsZero() {
			closes = c.CloseDate.Format("2006-01-02")
		}
		fmt.Printf("%-40s  %-10s  score %5.3f  min ₹%.2f  closes %s\n",
			c.Name, c.Category, c.Composite, c.MinInvest, closes)
	}

	return nil
}
