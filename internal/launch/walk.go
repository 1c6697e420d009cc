package launch

// VisitFunc is called for each entity in pre-order with its nesting depth
// (entries of the root are at depth 0). Returning false stops the walk.
type VisitFunc func(e Entity, depth int) bool

type frame struct {
	entity Entity
	depth  int
}

// Walk visits every entity of desc depth-first, in declaration order.
//
// Nested entries of a group are always visited, whatever its condition: the
// walk is structural and does not simulate execution. Nil entities are
// skipped. Walk reports whether it ran to completion (false if fn stopped it).
func Walk(desc *Description, fn VisitFunc) bool {
	if desc == nil {
		return true
	}

	// Explicit stack instead of recursion so arbitrarily deep trees cannot
	// exhaust the goroutine stack. Children are pushed in reverse so they
	// pop in declaration order.
	stack := make([]frame, 0, len(desc.Entries))
	for i := len(desc.Entries) - 1; i >= 0; i-- {
		stack = append(stack, frame{desc.Entries[i], 0})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.entity == nil {
			continue
		}
		if !fn(top.entity, top.depth) {
			return false
		}

		if g, ok := top.entity.(*Group); ok && g != nil {
			for i := len(g.Entries) - 1; i >= 0; i-- {
				stack = append(stack, frame{g.Entries[i], top.depth + 1})
			}
		}
	}
	return true
}

// Count returns the number of entities of each kind in desc.
func Count(desc *Description) map[Kind]int {
	counts := map[Kind]int{}
	Walk(desc, func(e Entity, _ int) bool {
		counts[e.Kind()]++
		return true
	})
	return counts
}
