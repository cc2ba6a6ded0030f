package boot

import (
	"errors"
	"fmt"
)

// Stage statuses used in StageResult and Result. A stage is pending until
// the pipeline reaches it, running while its Run func executes, and ends in
// exactly one of ok/failed. Stages after a failure are marked skipped — they
// are never invoked.
const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Well-known stage names. The serve pipeline runs them in exactly this order.
const (
	StageMigrate = "migrate"
	StageSeed    = "seed"
	StageServe   = "serve"
)

// Process exit codes. On a failed boot the process exits with the failing
// stage's code so the supervisor can tell the stages apart.
const (
	ExitOK              = 0
	ExitMigrationFailed = 1
	ExitSeedingFailed   = 2
	ExitServerFailed    = 3
)

// StageError wraps a stage failure with the stage's name and exit code.
// It is the only error type the pipeline returns.
type StageError struct {
	Stage string
	Code  int
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ExitCode extracts the process exit code from a pipeline error. A nil error
// maps to 0; a non-StageError maps to 1 (generic failure).
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var se *StageError
	if errors.As(err, &se) {
		return se.Code
	}
	return 1
}

// StageResult records the outcome of a single boot stage.
type StageResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Result is the aggregate outcome of one boot attempt. Stages are reported in
// pipeline order. Status is "ok" only when every stage succeeded.
type Result struct {
	Status string        `json:"status"`
	Stages []StageResult `json:"stages"`
}

// Failed returns the result of the stage that failed, or nil when the boot
// succeeded.
func (r *Result) Failed() *StageResult {
	for i := range r.Stages {
		if r.Stages[i].Status == StatusFailed {
			return &r.Stages[i]
		}
	}
	return nil
}
