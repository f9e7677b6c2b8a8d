package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wheelhouse-quant/wheelhouse/internal/contracts"
)

// recommendationsCmd inspects and updates persisted recommendations
var recommendationsCmd = &cobra.Command{
	Use:     "recommendations",
	Aliases: []string{"recs"},
	Short:   "Inspect and update recommendations",
	Long: `Lists today's current recommendations or moves one through its
lifecycle (proposed, executed, dismissed).

Example:
  go run ./cmd/wheel recommendations list
  go run ./cmd/wheel recommendations mark 42 executed`,
}

var (
	recommendationsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List today's current recommendations",
		RunE:  listRecommendations,
	}

	recommendationsMarkCmd = &cobra.Command{
		Use:   "mark [id] [executed|dismissed]",
		Short: "Update a recommendation's status",
		Args:  cobra.ExactArgs(2),
		RunE:  markRecommendation,
	}
)

func init() {
	rootCmd.AddCommand(recommendationsCmd)
	recommendationsCmd.AddCommand(recommendationsListCmd)
	recommendationsCmd.AddCommand(recommendationsMarkCmd)
}

func listRecommendations(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	recs, err := d.recRepo.ListCurrent(cmd.Context(), time.Now())
	if err != nil {
		return err
	}

	if len(recs) == 0 {
		fmt.Println("No recommendations for today")
		return nil
	}

	fmt.Printf("%-5s %-6s %-12s %8s %7s %8s %8s\n",
		"ID", "SYMBOL", "EXPIRY", "STRIKE", "SCORE", "ROI%", "POP(MC)")
	for _, rec := range recs {
		c := rec.Contract
		fmt.Printf("%-5d %-6s %-12s %8.2f %7.3f %8.1f %8.2f\n",
			rec.ID, rec.Symbol, c.Expiry.Format("2006-01-02"), c.Strike,
			rec.Score, rec.Rationale.AnnualizedROIPct, rec.Rationale.PoPMonteCarlo)
	}

	return nil
}

func markRecommendation(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid recommendation id %q", args[0])
	}

	var status contracts.RecommendationStatus
	switch args[1] {
	case "executed":
		status = contracts.StatusExecuted
	case "dismissed":
		status = contracts.StatusDismissed
	default:
		return fmt.Errorf("status must be executed or dismissed, got %q", args[1])
	}

	if err := d.recRepo.UpdateStatus(cmd.Context(), id, status); err != nil {
		return err
	}

	fmt.Printf("Recommendation %d marked %s\n", id, status)
	return nil
}
