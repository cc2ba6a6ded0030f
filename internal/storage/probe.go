package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// ProbeResult is returned by dependency health probes for /health/deep.
type ProbeResult struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	LatencyMs int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

// NewBreaker returns a circuit breaker that trips after 3 consecutive
// failures and resets after 30 seconds in the open state.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

// Prober checks Postgres health: connectivity plus the presence of the
// schema_migrations ledger, so a database that was never migrated reads as
// unhealthy even when it accepts connections.
type Prober struct {
	db DB
	cb *gobreaker.CircuitBreaker
}

// NewProber wraps the shared DB handle with a circuit breaker for probing.
func NewProber(db DB, cb *gobreaker.CircuitBreaker) *Prober {
	return &Prober{db: db, cb: cb}
}

// Probe pings the database and verifies the schema_migrations table exists.
// Persistent failures trip the breaker; while open, probes return "circuit
// open" immediately instead of waiting on a dead database.
func (p *Prober) Probe(ctx context.Context) ProbeResult {
	start := time.Now()

	_, err := p.cb.Execute(func() (any, error) {
		var exists int
		row := p.db.QueryRow(ctx,
			"SELECT 1 FROM information_schema.tables WHERE table_schema='public' AND table_name='schema_migrations'",
		)
		if err := row.Scan(&exists); err != nil {
			return nil, fmt.Errorf("schema_migrations table not found: %w", err)
		}
		return nil, nil
	})

	latency := time.Since(start).Milliseconds()

	if err != nil {
		errMsg := err.Error()
		if errors.Is(err, gobreaker.ErrOpenState) {
			errMsg = "circuit open"
		}
		return ProbeResult{Name: "postgres", OK: false, LatencyMs: latency, Error: errMsg}
	}

	return ProbeResult{Name: "postgres", OK: true, LatencyMs: latency}
}
