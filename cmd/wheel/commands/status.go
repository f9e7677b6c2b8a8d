package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd reports system and run health
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database health and the latest pipeline run",
	RunE:  showStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func showStatus(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ctx := cmd.Context()

	health, err := d.db.HealthCheck(ctx)
	if err != nil {
		fmt.Printf("Database: unhealthy (%s)\n", health.Error)
	} else {
		fmt.Printf("Database: healthy (%s, %d/%d conns)\n",
			health.ResponseTime.Round(time.Millisecond), health.TotalConns, health.MaxConns)
	}

	if d.redis != nil && d.redis.Enabled() {
		fmt.Println("Redis:    enabled")
	} else {
		fmt.Println("Redis:    disabled")
	}

	status, ok := d.status.Latest(ctx)
	if !ok {
		fmt.Println("\nNo pipeline run recorded")
		return nil
	}

	fmt.Printf("\nLatest run: %s\n", status.RunID)
	fmt.Printf("  State:    %s\n", status.State)
	fmt.Printf("  Started:  %s\n", status.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Progress: %d/%d tickers, %d recommendations\n",
		status.Progress.ProcessedTickers, status.Progress.TotalTickers,
		status.Progress.Recommendations)
	if status.Error != "" {
		fmt.Printf("  Error:    %s\n", status.Error)
	}

	return nil
}
