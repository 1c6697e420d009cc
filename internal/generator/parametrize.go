package generator

import (
	"slices"

	"github.com/roach88/launchcheck/internal/ir"
)

// Sweep is one parametrization: a parameter name and the literal values to
// try for it, in order.
type Sweep struct {
	Name   string
	Values []ir.IRValue
}

// Target is anything Expand can turn into test runs: a plain *Generator or a
// *Decorated one.
type Target interface {
	Generator() *Generator
	Sweeps() []Sweep
}

// Decorated is a generator with parameter sweeps attached.
// It is immutable: Parametrize always returns a new value.
type Decorated struct {
	gen    *Generator
	sweeps []Sweep
}

// Parametrize attaches a sweep over values for the parameter name.
//
// Applying it repeatedly accumulates independent sweeps in declaration order.
// name is deliberately not checked against the generator's parameters here;
// a bad name surfaces when each expanded run is validated.
func Parametrize(target Target, name string, values ...ir.IRValue) *Decorated {
	sweeps := slices.Clone(target.Sweeps())
	sweeps = append(sweeps, Sweep{Name: name, Values: slices.Clone(values)})
	return &Decorated{gen: target.Generator(), sweeps: sweeps}
}

// Parametrize is the chaining form of the package-level Parametrize.
func (d *Decorated) Parametrize(name string, values ...ir.IRValue) *Decorated {
	return Parametrize(d, name, values...)
}

// Generator returns the underlying generator.
func (d *Decorated) Generator() *Generator { return d.gen }

// Sweeps returns a copy of the attached sweeps in declaration order.
func (d *Decorated) Sweeps() []Sweep {
	out := make([]Sweep, len(d.sweeps))
	for i, s := range d.sweeps {
		out[i] = Sweep{Name: s.Name, Values: slices.Clone(s.Values)}
	}
	return out
}

// SweptNames returns the parameter names target sweeps, in declaration order,
// without duplicates.
func SweptNames(target Target) []string {
	var names []string
	for _, s := range target.Sweeps() {
		if !slices.Contains(names, s.Name) {
			names = append(names, s.Name)
		}
	}
	return names
}
