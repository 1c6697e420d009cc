package launch

import (
	"fmt"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
)

// Condition gates an entity at execution time.
//
// The expression is compiled eagerly so that malformed conditions are
// reported when the tree is built. It is never evaluated by this package.
type Condition struct {
	source  string
	negate  bool
	program *vm.Program
	idents  []string
}

// If compiles an expression that must hold for the gated entity to run.
func If(source string) (*Condition, error) {
	return compileCondition(source, false)
}

// Unless compiles an expression that must not hold for the gated entity to run.
func Unless(source string) (*Condition, error) {
	return compileCondition(source, true)
}

// MustIf is like If but panics on a malformed expression. For tests and
// statically known expressions.
func MustIf(source string) *Condition {
	c, err := If(source)
	if err != nil {
		panic(err)
	}
	return c
}

func compileCondition(source string, negate bool) (*Condition, error) {
	if source == "" {
		return nil, fmt.Errorf("condition expression is empty")
	}

	// Launch arguments are unknown until execution, so undefined names are
	// allowed; only syntax and literal type errors are caught here.
	program, err := expr.Compile(source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("invalid condition %q: %w", source, err)
	}

	tree, err := parser.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("invalid condition %q: %w", source, err)
	}
	v := &identCollector{seen: map[string]bool{}, callees: map[string]bool{}}
	ast.Walk(&tree.Node, v)

	idents := make([]string, 0, len(v.seen))
	for name := range v.seen {
		if !v.callees[name] {
			idents = append(idents, name)
		}
	}
	slices.Sort(idents)

	return &Condition{source: source, negate: negate, program: program, idents: idents}, nil
}

// Source returns the expression text.
func (c *Condition) Source() string { return c.source }

// Negated reports whether this is an "unless" condition.
func (c *Condition) Negated() bool { return c.negate }

// Program returns the compiled expression for the orchestration engine.
func (c *Condition) Program() *vm.Program { return c.program }

// Identifiers returns the variable names the expression references, sorted.
func (c *Condition) Identifiers() []string {
	return slices.Clone(c.idents)
}

func (c *Condition) String() string {
	if c.negate {
		return fmt.Sprintf("unless(%s)", c.source)
	}
	return fmt.Sprintf("if(%s)", c.source)
}

type identCollector struct {
	seen    map[string]bool
	callees map[string]bool
}

func (v *identCollector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		v.seen[n.Value] = true
	case *ast.CallNode:
		if id, ok := n.Callee.(*ast.IdentifierNode); ok {
			v.callees[id.Value] = true
		}
	}
}
