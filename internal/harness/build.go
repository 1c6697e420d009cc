package harness

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/roach88/launchcheck/internal/generator"
	"github.com/roach88/launchcheck/internal/ir"
	"github.com/roach88/launchcheck/internal/launch"
)

// placeholder matches ${name} parameter references in string arguments.
var placeholder = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// template is a description entry with includes resolved and conditions and
// arguments pre-converted. Instantiating it with bound arguments yields a
// launch.Entity.
type template struct {
	spec     *EntrySpec
	args     ir.IRObject
	cond     *launch.Condition
	source   string // resolved include path
	children []*template
}

// Target turns the test file into a generator with its sweeps applied.
// Included files are loaded and checked here; a missing or cyclic include
// fails before any run is expanded.
func (tf *TestFile) Target() (generator.Target, error) {
	root, err := resolveEntries(tf.path, tf.Generator.Description, []string{absPath(tf.path)})
	if err != nil {
		return nil, err
	}

	name := tf.Name
	gen := generator.New(name, tf.Generator.Params, func(ctx context.Context, args ir.IRObject) (*launch.Description, error) {
		entries, err := instantiateAll(ctx, root, args)
		if err != nil {
			return nil, err
		}
		return launch.NewDescription(entries...), nil
	})

	var target generator.Target = gen
	for i, s := range tf.Generator.Parametrize {
		values := make([]ir.IRValue, len(s.Values))
		for j, raw := range s.Values {
			v, err := ir.FromAny(raw)
			if err != nil {
				return nil, &LoadError{
					Code:    ErrCodeInvalidSweep,
					File:    tf.path,
					Field:   fmt.Sprintf("generate_test_description.parametrize[%d].values[%d]", i, j),
					Message: err.Error(),
					Err:     err,
				}
			}
			values[j] = v
		}
		target = generator.Parametrize(target, s.Name, values...)
	}
	return target, nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// resolveEntries converts specs into templates. stack holds the absolute
// paths of the files currently being resolved, outermost first.
func resolveEntries(file string, specs []EntrySpec, stack []string) ([]*template, error) {
	out := make([]*template, 0, len(specs))
	for i := range specs {
		t, err := resolveEntry(file, &specs[i], stack)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func resolveEntry(file string, spec *EntrySpec, stack []string) (*template, error) {
	t := &template{spec: spec}

	cond, err := conditionFor(spec)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidEntry, File: file, Message: err.Error(), Err: err}
	}
	t.cond = cond

	if spec.Action != "" {
		args, err := ir.ObjectFromAny(spec.Args)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidEntry, File: file, Message: fmt.Sprintf("args: %v", err), Err: err}
		}
		t.args = args
	}

	if spec.Include != "" {
		path := spec.Include
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(file), path)
		}
		abs := absPath(path)
		if slices.Contains(stack, abs) {
			return nil, &LoadError{
				Code:    ErrCodeIncludeFailed,
				File:    file,
				Message: fmt.Sprintf("include cycle: %s -> %s", strings.Join(stack, " -> "), abs),
			}
		}

		included, err := LoadTestFile(path)
		if err != nil {
			return nil, &LoadError{
				Code:    ErrCodeIncludeFailed,
				File:    file,
				Message: fmt.Sprintf("include %q: %v", spec.Include, err),
				Err:     err,
			}
		}
		t.source = spec.Include
		t.children, err = resolveEntries(path, included.Generator.Description, append(slices.Clone(stack), abs))
		if err != nil {
			return nil, err
		}
		return t, nil
	}

	t.children, err = resolveEntries(file, spec.Actions, stack)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func instantiateAll(ctx context.Context, templates []*template, args ir.IRObject) ([]launch.Entity, error) {
	out := make([]launch.Entity, 0, len(templates))
	for _, t := range templates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := t.instantiate(ctx, args)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (t *template) instantiate(ctx context.Context, args ir.IRObject) (launch.Entity, error) {
	spec := t.spec
	switch {
	case spec.ReadyToTest:
		return launch.ReadyToTest{}, nil

	case spec.Action != "":
		v, err := substitute(t.args, args)
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", spec.Action, err)
		}
		action := launch.Do(spec.Action, v.(ir.IRObject))
		if t.cond != nil {
			action = action.When(t.cond)
		}
		return action, nil
	}

	children, err := instantiateAll(ctx, t.children, args)
	if err != nil {
		return nil, err
	}

	var group *launch.Group
	switch {
	case spec.Timer != nil:
		group = launch.Timer(seconds(*spec.Timer), children...)
	case spec.Include != "":
		group = launch.Include(t.source, children...)
	default:
		group = launch.Scope(children...)
	}
	if t.cond != nil {
		group = group.When(t.cond)
	}
	return group, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// substitute replaces ${name} references in v with values from args.
// A string that is exactly one reference takes the value as-is; references
// embedded in longer strings are replaced by the value's text form.
func substitute(v ir.IRValue, args ir.IRObject) (ir.IRValue, error) {
	switch val := v.(type) {
	case ir.IRString:
		s := string(val)
		if m := placeholder.FindStringSubmatchIndex(s); m != nil && m[0] == 0 && m[1] == len(s) {
			name := s[m[2]:m[3]]
			bound, ok := args[name]
			if !ok {
				return nil, fmt.Errorf("undefined parameter ${%s}", name)
			}
			return bound, nil
		}

		var missing string
		out := placeholder.ReplaceAllStringFunc(s, func(ref string) string {
			name := ref[2 : len(ref)-1]
			bound, ok := args[name]
			if !ok {
				if missing == "" {
					missing = name
				}
				return ref
			}
			if str, ok := bound.(ir.IRString); ok {
				return string(str)
			}
			return ir.Render(bound)
		})
		if missing != "" {
			return nil, fmt.Errorf("undefined parameter ${%s}", missing)
		}
		return ir.IRString(out), nil

	case ir.IRArray:
		out := make(ir.IRArray, len(val))
		for i, elem := range val {
			sub, err := substitute(elem, args)
			if err != nil {
				return nil, err
			}
			out[i] = sub
		}
		return out, nil

	case ir.IRObject:
		out := make(ir.IRObject, len(val))
		for _, k := range val.SortedKeys() {
			sub, err := substitute(val[k], args)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = sub
		}
		return out, nil

	default:
		return v, nil
	}
}
