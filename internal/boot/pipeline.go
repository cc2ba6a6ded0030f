package boot

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Stage is one step of the boot pipeline: a name, the work to run, and the
// process exit code to report when the work fails.
type Stage struct {
	Name     string
	ExitCode int
	Run      func(ctx context.Context) error
}

// Pipeline executes an ordered list of stages strictly sequentially. Each
// stage runs only if every earlier stage succeeded; the first failure aborts
// the run and the remaining stages are never invoked. There is no retry and
// no partial-success mode — a failed boot is handed back to the supervisor
// whole.
type Pipeline struct {
	stages []Stage

	mu   sync.RWMutex
	last *Result
}

// New constructs a Pipeline over the given stages. Order is significant and
// never reordered.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes the stages in order and returns the per-stage results. On
// failure the returned error is a *StageError carrying the failing stage's
// exit code; stages after the failure are marked skipped.
//
// Run is synchronous and single-threaded: it blocks on each stage in turn.
// Cancellation is delegated to the stages via ctx — the pipeline itself
// imposes no timeout.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{Status: StatusRunning, Stages: make([]StageResult, len(p.stages))}
	for i, s := range p.stages {
		result.Stages[i] = StageResult{Name: s.Name, Status: StatusPending}
	}
	p.setLast(result)

	ctx, span := otel.Tracer("codecollab-api").Start(ctx, "boot.pipeline")
	defer span.End()

	var failed *StageError
	for i, s := range p.stages {
		if failed != nil {
			result.Stages[i].Status = StatusSkipped
			continue
		}

		result.Stages[i].Status = StatusRunning
		p.setLast(result)
		slog.InfoContext(ctx, "boot stage started", "stage", s.Name)

		if err := s.Run(ctx); err != nil {
			result.Stages[i].Status = StatusFailed
			result.Stages[i].Error = err.Error()
			failed = &StageError{Stage: s.Name, Code: s.ExitCode, Err: err}
			p.setLast(result)
			slog.ErrorContext(ctx, "boot stage failed", "stage", s.Name, "error", err)
			continue
		}

		result.Stages[i].Status = StatusOK
		p.setLast(result)
		slog.InfoContext(ctx, "boot stage ok", "stage", s.Name)
	}

	if failed != nil {
		result.Status = StatusFailed
		span.SetAttributes(attribute.String("boot.failed_stage", failed.Stage))
		span.SetStatus(codes.Error, failed.Error())
		p.setLast(result)
		return result, failed
	}

	result.Status = StatusOK
	span.SetStatus(codes.Ok, "")
	p.setLast(result)
	return result, nil
}

// Ready reports whether the last boot attempt completed with every stage ok.
// Used by the /ready endpoint.
func (p *Pipeline) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last != nil && p.last.Status == StatusOK
}

// LastResult returns a copy of the most recent boot result, or nil when no
// boot has run yet.
func (p *Pipeline) LastResult() *Result {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return nil
	}
	cp := Result{Status: p.last.Status, Stages: append([]StageResult(nil), p.last.Stages...)}
	return &cp
}

// setLast publishes a snapshot of r. Run keeps mutating r between calls, so
// the stored result must not share memory with it — readers hold only the
// read lock and would otherwise race with the stage loop.
func (p *Pipeline) setLast(r *Result) {
	cp := Result{Status: r.Status, Stages: append([]StageResult(nil), r.Stages...)}
	p.mu.Lock()
	p.last = &cp
	p.mu.Unlock()
}
