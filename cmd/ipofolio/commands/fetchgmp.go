package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikhilsahni/ipofolio/internal/external/investorgain"
)

var fetchGMPCmd = &cobra.Command{
	Use:   "fetch-gmp",
	Short: "Fetch grey-market premiums and write them back",
	Long: `Scrapes the live GMP listing and updates the premium on every
offering we track. Quotes for unknown offerings are reported, not stored.

Example:
  go run ./cmd/ipofolio fetch-gmp`,
	RunE: runFetchGMP,
}

func init() {
	rootCmd.AddCommand(fetchGMPCmd)
}

func runFetchGMP(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(false)
	if err != nil {
		return err
	}
	defer d.close()

	client := investorgain.NewClient(d.cfg, d.log)

	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.GMP.FetchBudget)
	defer cancel()

	quotes, err := client.FetchGMP(ctx)
	if err != nil {
		return fmt.Errorf("fetch gmp: %w", err)
	}

	updated := 0
	for _, q := range quotes {
		if err := d.ipoRepo.UpdateGMP(ctx, q.Name, q.GMP); err != nil {
			fmt.Printf("  skipped %-40s (%v)\n", q.Name, err)
			continue
		}
		fmt.Printf("  updated %-40s ₹%.2f\n", q.Name, q.GMP)
		updated++
	}

	fmt.Printf("\n%d of %d quote(s) written\n", updated, len(quotes))
	return nil
}
