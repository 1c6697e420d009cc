package launch

import (
	"fmt"
	"time"

	"github.com/roach88/launchcheck/internal/ir"
)

// Kind identifies a node kind in the action tree.
type Kind string

const (
	KindReadyToTest Kind = "ready_to_test"
	KindAction      Kind = "action"
	KindGroup       Kind = "group"
)

// Entity is a node in the action tree.
// Only ReadyToTest, *Action and *Group implement it.
type Entity interface {
	Kind() Kind
	entity()
}

// ReadyToTest is the readiness sentinel. It takes no arguments and has no
// effect other than signalling the harness.
type ReadyToTest struct{}

func (ReadyToTest) Kind() Kind { return KindReadyToTest }
func (ReadyToTest) entity()    {}

// Action is an opaque leaf action.
type Action struct {
	// Type names the action, e.g. "execute_process" or "log_info".
	Type string

	// Args are the action arguments after parameter substitution.
	Args ir.IRObject

	// Condition gates the action at execution time. Nil means unconditional.
	Condition *Condition
}

func (*Action) Kind() Kind { return KindAction }
func (*Action) entity()    {}

// GroupType distinguishes the grouping constructs.
type GroupType string

const (
	// GroupTimer delays its entries by Period.
	GroupTimer GroupType = "timer"
	// GroupScope groups entries without changing when they run.
	GroupScope GroupType = "group"
	// GroupInclude splices in entries described elsewhere (Source).
	GroupInclude GroupType = "include"
)

// Group is a node carrying nested entries.
type Group struct {
	Type GroupType

	// Period is the delay of a timer group. Zero for other group types.
	Period time.Duration

	// Source names where an include group's entries came from.
	Source string

	// Condition gates the whole group at execution time. Nil means unconditional.
	Condition *Condition

	Entries []Entity
}

func (*Group) Kind() Kind { return KindGroup }
func (*Group) entity()    {}

// Nested returns the group's entries.
func (g *Group) Nested() []Entity {
	return g.Entries
}

// Description is the root of an action tree.
type Description struct {
	Entries []Entity
}

// NewDescription creates a description holding entries in order.
func NewDescription(entries ...Entity) *Description {
	return &Description{Entries: entries}
}

// Do creates an unconditional action of the given type.
func Do(actionType string, args ir.IRObject) *Action {
	if args == nil {
		args = ir.IRObject{}
	}
	return &Action{Type: actionType, Args: args}
}

// Timer creates a timer group that runs entries after period.
func Timer(period time.Duration, entries ...Entity) *Group {
	return &Group{Type: GroupTimer, Period: period, Entries: entries}
}

// Scope creates a plain grouping of entries.
func Scope(entries ...Entity) *Group {
	return &Group{Type: GroupScope, Entries: entries}
}

// Include creates an include group whose entries were loaded from source.
func Include(source string, entries ...Entity) *Group {
	return &Group{Type: GroupInclude, Source: source, Entries: entries}
}

// When returns a copy of g gated by c.
func (g *Group) When(c *Condition) *Group {
	cp := *g
	cp.Condition = c
	return &cp
}

// When returns a copy of a gated by c.
func (a *Action) When(c *Condition) *Action {
	cp := *a
	cp.Condition = c
	return &cp
}

// Describe returns a one-line, human-readable summary of e.
func Describe(e Entity) string {
	switch n := e.(type) {
	case ReadyToTest:
		return "ReadyToTest"
	case *Action:
		return withCondition(fmt.Sprintf("%s %s", n.Type, ir.Render(n.Args)), n.Condition)
	case *Group:
		var s string
		switch n.Type {
		case GroupTimer:
			s = fmt.Sprintf("timer(%s)", n.Period)
		case GroupInclude:
			s = fmt.Sprintf("include(%s)", n.Source)
		default:
			s = string(n.Type)
		}
		return withCondition(s, n.Condition)
	default:
		return fmt.Sprintf("%T", e)
	}
}

func withCondition(s string, c *Condition) string {
	if c == nil {
		return s
	}
	return s + " " + c.String()
}
