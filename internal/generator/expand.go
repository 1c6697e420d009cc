package generator

import (
	"fmt"
	"strings"

	"github.com/roach88/launchcheck/internal/ir"
)

// Binding is one swept parameter bound to one value.
type Binding struct {
	Name  string
	Value ir.IRValue
}

// TestRun is one concrete combination of sweep values for a generator.
// It is produced by Expand and consumed once to invoke the generator.
type TestRun struct {
	// Generator is the generator to invoke.
	Generator *Generator

	// Index is the position of this run in Expand's output.
	Index int

	// Bindings lists one binding per sweep, in sweep declaration order.
	Bindings []Binding

	// Args maps swept names to values. When a name is swept more than once,
	// the later-declared sweep's value wins.
	Args ir.IRObject

	// Label identifies the run in reports, e.g. `[rate=10, mode="sim"]`.
	// Unique within one Expand result.
	Label string

	// ID is the content-addressed identity of (generator, Args).
	// Empty if Args cannot be canonically marshaled.
	ID string
}

// Names returns the names available to the generator from this run's
// sweeps, in RFC 8785 key order.
func (r TestRun) Names() []string {
	return r.Args.SortedKeys()
}

// DisplayName combines the generator name and label.
func (r TestRun) DisplayName() string {
	return r.Generator.Name() + r.Label
}

// Expand turns target into the ordered list of runs to execute.
//
// A target without sweeps yields exactly one run with no arguments. With
// sweeps it yields the Cartesian product: the first declared sweep varies
// slowest and each sweep contributes its values in declared order, so the
// same input always produces the same runs in the same order. A sweep with
// no values yields no runs.
func Expand(target Target) []TestRun {
	gen := target.Generator()
	sweeps := target.Sweeps()

	total := 1
	for _, s := range sweeps {
		total *= len(s.Values)
	}
	if total == 0 {
		return []TestRun{}
	}

	runs := make([]TestRun, 0, total)
	seen := make(map[string]int, total)
	cursor := make([]int, len(sweeps))

	for i := 0; i < total; i++ {
		bindings := make([]Binding, len(sweeps))
		args := make(ir.IRObject, len(sweeps))
		for j, s := range sweeps {
			v := s.Values[cursor[j]]
			bindings[j] = Binding{Name: s.Name, Value: v}
			args[s.Name] = v
		}

		label := labelFor(bindings)
		seen[label]++
		if n := seen[label]; n > 1 {
			label = fmt.Sprintf("%s#%d", label, n)
		}

		id, err := ir.RunID(gen.Name(), args)
		if err != nil {
			id = ""
		}

		runs = append(runs, TestRun{
			Generator: gen,
			Index:     i,
			Bindings:  bindings,
			Args:      args,
			Label:     label,
			ID:        id,
		})

		advance(cursor, sweeps)
	}

	return runs
}

// advance moves cursor to the next combination, last sweep fastest.
func advance(cursor []int, sweeps []Sweep) {
	for j := len(cursor) - 1; j >= 0; j-- {
		cursor[j]++
		if cursor[j] < len(sweeps[j].Values) {
			return
		}
		cursor[j] = 0
	}
}

func labelFor(bindings []Binding) string {
	if len(bindings) == 0 {
		return ""
	}
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = b.Name + "=" + ir.Render(b.Value)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
