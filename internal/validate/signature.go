package validate

import (
	"slices"
)

// Signature exposes a callable's name and formal parameter names in
// declaration order. *generator.Generator implements it.
type Signature interface {
	Name() string
	Params() []string
}

// Match checks that sig can be called with exactly the available names.
//
// Missing formals are reported before extras. When several formals are
// missing, the first in declaration order is named; when several available
// names are extra, the first in sorted order is named. Match never invokes
// the callable.
func Match(sig Signature, available []string) error {
	formals := sig.Params()

	have := make(map[string]bool, len(available))
	for _, name := range available {
		have[name] = true
	}
	for _, p := range formals {
		if !have[p] {
			return newMissingArgument(sig.Name(), p)
		}
	}

	var extra []string
	for name := range have {
		if !slices.Contains(formals, name) {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		slices.Sort(extra)
		return newUnexpectedArgument(sig.Name(), extra[0])
	}

	return nil
}
