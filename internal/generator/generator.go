package generator

import (
	"context"
	"slices"

	"github.com/roach88/launchcheck/internal/ir"
	"github.com/roach88/launchcheck/internal/launch"
)

// InvokeFunc produces an action tree from named arguments.
type InvokeFunc func(ctx context.Context, args ir.IRObject) (*launch.Description, error)

// Generator is a test description generator: a callable with an ordered set
// of named formal parameters. Immutable once created.
type Generator struct {
	name    string
	formals []string
	fn      InvokeFunc
}

// New creates a generator. formals lists the parameter names fn expects in
// args, in declaration order.
func New(name string, formals []string, fn InvokeFunc) *Generator {
	return &Generator{
		name:    name,
		formals: slices.Clone(formals),
		fn:      fn,
	}
}

// Static creates a zero-parameter generator that always returns desc.
func Static(name string, desc *launch.Description) *Generator {
	return New(name, nil, func(context.Context, ir.IRObject) (*launch.Description, error) {
		return desc, nil
	})
}

// Name returns the generator name.
func (g *Generator) Name() string { return g.name }

// Params returns the formal parameter names in declaration order.
func (g *Generator) Params() []string { return slices.Clone(g.formals) }

// Invoke calls the generator with args. Callers are expected to have
// matched args against Params first.
func (g *Generator) Invoke(ctx context.Context, args ir.IRObject) (*launch.Description, error) {
	return g.fn(ctx, args)
}

// Generator returns g itself so a plain generator satisfies Target.
func (g *Generator) Generator() *Generator { return g }

// Sweeps returns nil: a plain generator has no sweeps.
func (g *Generator) Sweeps() []Sweep { return nil }
