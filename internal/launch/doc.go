// Package launch models the orchestration action tree a test description
// generator produces.
//
// The tree is a tagged union over three node kinds:
//
//   - ReadyToTest: the sentinel that tells the harness the system under test
//     is ready for observation
//   - Action: an opaque leaf (start a process, log a line, ...)
//   - Group: a node carrying nested entries (a timer, a scope, an include)
//
// Any Action or Group may be gated by a Condition. Conditions are compiled
// when the tree is built so syntax errors surface before launch, but they are
// never evaluated here: execution semantics belong to the orchestration
// engine, not to this package.
//
// Trees are immutable once built and are walked with Walk.
package launch
