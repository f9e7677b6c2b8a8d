package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
)

// runCmd triggers one full recommendation pass
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the recommendation pipeline once",
	Long: `Runs one full pass: universe selection, quote refresh, option
chain filtering and contract scoring. Writes the surviving
recommendations and prints a summary.

Ctrl+C cancels between tickers; recommendations persisted so far
are kept.`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		fmt.Println("\nCancelling after current ticker...")
		cancel()
	}()

	progress := func(p contracts.Progress) {
		fmt.Printf("  [%d/%d] %s (recommendations: %d)\n",
			p.ProcessedTickers, p.TotalTickers, p.CurrentTicker, p.Recommendations)
	}

	fmt.Println("Starting recommendation run...")
	result, err := d.pipeline.Generate(ctx, progress)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	fmt.Printf("\nRun %s finished in %s\n", result.RunID, result.Duration.Round(time.Second))
	fmt.Printf("  Processed: %d  Skipped: %d  Errored: %d\n",
		result.Processed, result.Skipped, result.Errored)
	if len(result.SkipReasons) > 0 {
		fmt.Println("  Skip reasons:")
		for reason, count := range result.SkipReasons {
			fmt.Printf("    %-24s %d\n", reason, count)
		}
	}

	fmt.Printf("\nRecommendations (%d):\n", len(result.Recommendations))
	for _, rec := range result.Recommendations {
		c := rec.Contract
		fmt.Printf("  %-6s %s  strike %.2f  score %.3f  roi %.1f%%\n",
			rec.Symbol, c.Expiry.Format("2006-01-02"), c.Strike,
			rec.Score, rec.Rationale.AnnualizedROIPct)
	}

	return nil
}
