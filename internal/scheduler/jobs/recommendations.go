package jobs

import (
	"context"
	"errors"

	"github.com/wheelhouse-quant/wheelhouse/internal/recommend"
	"github.com/wheelhouse-quant/wheelhouse/pkg/logger"
)

// RecommendationsJob runs the recommendation pipeline once per trading day,
// shortly after the US market close
type RecommendationsJob struct {
	pipeline *recommend.Pipeline
	schedule string
	logger   *logger.Logger
}

// NewRecommendationsJob creates the daily recommendation job. An empty
// schedule falls back to 21:30 UTC on weekdays, after the US close.
func NewRecommendationsJob(pipeline *recommend.Pipeline, schedule string, log *logger.Logger) *RecommendationsJob {
	if schedule == "" {
		schedule = "0 30 21 * * MON-FRI"
	}
	return &RecommendationsJob{
		pipeline: pipeline,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *RecommendationsJob) Name() string {
	return "daily_recommendations"
}

// Schedule returns the cron expression
func (j *RecommendationsJob) Schedule() string {
	return j.schedule
}

// Run executes one pipeline pass. An already-running pipeline is not an
// error worth retrying; the active run produces today's recommendations.
func (j *RecommendationsJob) Run(ctx context.Context) error {
	result, err := j.pipeline.Generate(ctx, nil)
	if err != nil {
		if errors.Is(err, recommend.ErrRunInProgress) {
			j.logger.Info("Skipping scheduled run, a run is already in progress")
			return nil
		}
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":          result.RunID,
		"recommendations": len(result.Recommendations),
		"processed":       result.Processed,
		"skipped":         result.Skipped,
		"errored":         result.Errored,
	}).Info("Scheduled recommendation run finished")

	return nil
}
