package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/launchcheck/internal/generator"
	"github.com/roach88/launchcheck/internal/store"
	"github.com/roach88/launchcheck/internal/testutil"
	"github.com/roach88/launchcheck/internal/validate"
)

// Clock issues monotonically increasing sequence numbers.
type Clock interface {
	Next() int64
}

// Harness validates test runs and records their outcomes.
type Harness struct {
	validator *validate.Validator
	logger    *slog.Logger
	clock     Clock
	sessions  SessionIDGenerator
	store     *store.Store
}

// Option configures a Harness.
type Option func(*Harness)

// WithValidator sets the validator. The default has no fixed arguments.
func WithValidator(v *validate.Validator) Option {
	return func(h *Harness) { h.validator = v }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) { h.logger = logger }
}

// WithClock sets the sequence clock. The default starts at 1.
func WithClock(c Clock) Option {
	return func(h *Harness) { h.clock = c }
}

// WithSessionIDs sets the session ID generator. The default is UUIDv7.
func WithSessionIDs(g SessionIDGenerator) Option {
	return func(h *Harness) { h.sessions = g }
}

// WithStore records every result in st. Without it nothing is persisted.
func WithStore(st *store.Store) Option {
	return func(h *Harness) { h.store = st }
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		validator: validate.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:     testutil.NewDeterministicClock(),
		sessions:  UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run expands target and validates every run.
//
// Each run is validated on its own: a failing run is recorded in the result
// and the remaining runs still execute. A target that expands to no runs
// (a sweep with no values) fails. The returned error is reserved for
// cancellation and persistence failures; validation failures are reported
// in the Result.
func (h *Harness) Run(ctx context.Context, target generator.Target) (*Result, error) {
	return h.run(ctx, target, "")
}

// RunFile loads the test file at path and runs it. Load errors are returned
// as *LoadError.
func (h *Harness) RunFile(ctx context.Context, path string) (*Result, error) {
	tf, err := LoadTestFile(path)
	if err != nil {
		return nil, err
	}
	target, err := tf.Target()
	if err != nil {
		return nil, err
	}
	return h.run(ctx, target, path)
}

func (h *Harness) run(ctx context.Context, target generator.Target, source string) (*Result, error) {
	gen := target.Generator()
	result := NewResult(h.sessions.Generate(), gen.Name())
	result.Source = source
	result.Seq = h.clock.Next()

	runs := generator.Expand(target)
	h.logger.Debug("expanded test runs",
		"session", result.SessionID,
		"generator", gen.Name(),
		"runs", len(runs),
	)
	if len(runs) == 0 {
		result.AddError(fmt.Sprintf("%s: no test runs: a parametrize sweep has no values", gen.Name()))
	}

	for _, run := range runs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("validating %s: %w", run.DisplayName(), err)
		}

		outcome := RunOutcome{
			Seq:   h.clock.Next(),
			Index: run.Index,
			Label: run.Label,
			ID:    run.ID,
			Args:  run.Args,
			Pass:  true,
		}

		if err := h.validator.Validate(ctx, run); err != nil {
			var f *validate.Failure
			if !errors.As(err, &f) {
				return nil, fmt.Errorf("validating %s: %w", run.DisplayName(), err)
			}
			outcome.Pass = false
			outcome.Kind = string(f.Kind)
			outcome.Code = f.Code
			outcome.Name = f.Name
			outcome.Message = f.Message

			h.logger.Info("test run failed validation",
				"session", result.SessionID,
				"run", run.DisplayName(),
				"kind", f.Kind,
				"code", f.Code,
			)
		}

		result.AddOutcome(outcome)
	}

	if h.store != nil {
		sess, outcomes := result.toStore()
		if err := h.store.WriteSessionAtomic(ctx, sess, outcomes); err != nil {
			return nil, fmt.Errorf("recording session %s: %w", result.SessionID, err)
		}
	}

	return result, nil
}
