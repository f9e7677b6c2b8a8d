package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wheelhouse-quant/wheelhouse/internal/scheduler"
	"github.com/wheelhouse-quant/wheelhouse/internal/scheduler/jobs"
)

var scheduleExpr string

// schedulerCmd manages the job scheduler daemon
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Manage the job scheduler",
	Long: `Runs the scheduler daemon or inspects its jobs.

Registered jobs:
  daily_recommendations - full pipeline run after the US close

Example:
  go run ./cmd/wheel scheduler start
  go run ./cmd/wheel scheduler run daily_recommendations
  go run ./cmd/wheel scheduler status`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the scheduler daemon",
		RunE:  startScheduler,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "Trigger a job immediately",
		Args:  cobra.ExactArgs(1),
		RunE:  triggerJob,
	}

	schedulerStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show job execution statistics",
		RunE:  showJobStats,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
	schedulerCmd.AddCommand(schedulerStatusCmd)

	schedulerCmd.PersistentFlags().StringVar(&scheduleExpr, "schedule", "",
		"cron expression override for the recommendation job")
}

func initScheduler() (*scheduler.Scheduler, *deps, error) {
	d, err := initDeps()
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(d.logger)
	if err := sched.AddJob(jobs.NewRecommendationsJob(d.pipeline, scheduleExpr, d.logger)); err != nil {
		d.close()
		return nil, nil, fmt.Errorf("register job: %w", err)
	}

	return sched, d, nil
}

func startScheduler(cmd *cobra.Command, args []string) error {
	sched, d, err := initScheduler()
	if err != nil {
		return err
	}
	defer d.close()

	sched.Start()
	fmt.Println("Scheduler started, press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()

	return nil
}

func triggerJob(cmd *cobra.Command, args []string) error {
	sched, d, err := initScheduler()
	if err != nil {
		return err
	}
	defer d.close()

	jobName := args[0]
	if err := sched.RunJob(jobName); err != nil {
		return err
	}

	fmt.Printf("Job %s started, press Ctrl+C to abandon\n", jobName)

	// RunJob is asynchronous; wait so the process outlives the run
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}

func showJobStats(cmd *cobra.Command, args []string) error {
	sched, d, err := initScheduler()
	if err != nil {
		return err
	}
	defer d.close()

	for jobName, stat := range sched.GetJobStats() {
		fmt.Printf("%s\n", jobName)
		fmt.Printf("  Schedule:  %s\n", stat.Schedule)
		fmt.Printf("  Runs:      %d (%.0f%% success)\n", stat.TotalRuns, stat.SuccessRate*100)
		if stat.LastRun != nil {
			fmt.Printf("  Last run:  %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}
		if stat.LastFailure != nil {
			fmt.Printf("  Last fail: %s\n", stat.LastFailure.Format("2006-01-02 15:04:05"))
		}
		fmt.Println()
	}

	return nil
}
