package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/launchcheck/internal/ir"
	"github.com/roach88/launchcheck/internal/testutil"
)

// snapshot converts a Result to a map[string]any for canonical JSON
// serialization. Session IDs, run IDs and the source path are left out so
// that golden files do not depend on where or when the test ran.
func snapshot(r *Result) map[string]any {
	runs := make([]any, len(r.Runs))
	for i, o := range r.Runs {
		run := map[string]any{
			"seq":   o.Seq,
			"index": int64(o.Index),
			"label": o.Label,
			"args":  argsOrEmpty(o.Args),
			"pass":  o.Pass,
		}
		if !o.Pass {
			run["kind"] = o.Kind
			run["code"] = o.Code
			run["name"] = o.Name
			run["message"] = o.Message
		}
		runs[i] = run
	}

	errs := make([]any, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}

	return map[string]any{
		"generator": r.Generator,
		"pass":      r.Pass,
		"runs":      runs,
		"errors":    errs,
	}
}

func argsOrEmpty(args ir.IRObject) ir.IRObject {
	if args == nil {
		return ir.IRObject{}
	}
	return args
}

// RunWithGolden loads and validates the test file at path and compares the
// outcome against testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the file cannot be loaded. A mismatch fails t via
// goldie.
func RunWithGolden(t *testing.T, name, path string) (*Result, error) {
	t.Helper()

	h := New(WithSessionIDs(testutil.NewFixedSessionIDs(name)))
	result, err := h.RunFile(context.Background(), path)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running it.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := ir.MarshalCanonical(snapshot(result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
