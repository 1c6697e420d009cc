package validate

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/launchcheck/internal/generator"
	"github.com/roach88/launchcheck/internal/ir"
)

// Validator validates test runs before execution.
//
// A Validator holds no per-run state: validating the same run twice gives the
// same result, and runs may be validated concurrently.
type Validator struct {
	fixed  ir.IRObject
	logger *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithFixedArgs makes args available to every run in addition to its swept
// values. A swept value overrides a fixed one of the same name.
func WithFixedArgs(args ir.IRObject) Option {
	return func(v *Validator) {
		v.fixed = args.Clone()
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// New creates a Validator. By default no fixed arguments are available.
func New(opts ...Option) *Validator {
	v := &Validator{
		fixed:  ir.IRObject{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Available returns the argument values run would be invoked with: the
// fixed arguments overlaid with the run's swept values.
func (v *Validator) Available(run generator.TestRun) ir.IRObject {
	args := v.fixed.Clone()
	for k, val := range run.Args {
		args[k] = val
	}
	return args
}

// Validate checks one test run:
//
//  1. the generator's parameters match the available names exactly
//  2. the generator produces a description
//  3. the description contains a ReadyToTest action
//
// The first failing step aborts the run and is returned as a *Failure.
func (v *Validator) Validate(ctx context.Context, run generator.TestRun) error {
	gen := run.Generator
	args := v.Available(run)

	if err := Match(gen, args.SortedKeys()); err != nil {
		v.logger.Debug("signature mismatch",
			"generator", gen.Name(),
			"run", run.Label,
			"error", err,
		)
		return err
	}

	desc, err := gen.Invoke(ctx, args)
	if err != nil || desc == nil {
		f := newGeneratorError(gen.Name(), err)
		v.logger.Debug("generator failed",
			"generator", gen.Name(),
			"run", run.Label,
			"error", f,
		)
		return f
	}

	if err := RequireSentinel(desc); err != nil {
		v.logger.Debug("no ready sentinel",
			"generator", gen.Name(),
			"run", run.Label,
		)
		return err
	}

	v.logger.Debug("run validated",
		"generator", gen.Name(),
		"run", run.Label,
		"run_id", run.ID,
	)
	return nil
}

// ValidateAll validates target's runs in order and returns the first failure,
// prefixed with the failing run's display name.
func (v *Validator) ValidateAll(ctx context.Context, target generator.Target) error {
	for _, run := range generator.Expand(target) {
		if err := v.Validate(ctx, run); err != nil {
			return fmt.Errorf("%s: %w", run.DisplayName(), err)
		}
	}
	return nil
}
