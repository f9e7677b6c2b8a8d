package contracts

import "time"

// RunState is the lifecycle of a single pipeline run
type RunState string

const (
	RunPending   RunState = "pending"
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunFailed    RunState = "failed"
)

// Progress is delivered to the progress callback after each ticker
type Progress struct {
	Message          string `json:"message"`
	CurrentTicker    string `json:"current_ticker"`
	TotalTickers     int    `json:"total_tickers"`
	ProcessedTickers int    `json:"processed_tickers"`
	Recommendations  int    `json:"recommendations_generated"`
}

// ProgressFunc receives progress events; nil is allowed and means no reporting
type ProgressFunc func(Progress)

// RunStatus is the externally pollable state of a pipeline run
type RunStatus struct {
	RunID     string    `json:"run_id"`
	State     RunState  `json:"state"`
	Progress  Progress  `json:"progress"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RunResult aggregates the outcome of a completed pipeline run
type RunResult struct {
	RunID           string           `json:"run_id"`
	Recommendations []Recommendation `json:"recommendations"`
	Processed       int              `json:"processed"`
	Skipped         int              `json:"skipped"`
	Errored         int              `json:"errored"`
	SkipReasons     map[string]int   `json:"skip_reasons,omitempty"`
	StartedAt       time.Time        `json:"started_at"`
	Duration        time.Duration    `json:"duration"`
}
