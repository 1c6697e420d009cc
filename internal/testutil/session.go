package testutil

import (
	"fmt"
	"sync"
)

// FixedSessionIDs hands out predetermined session IDs for golden tests.
//
// Once the given IDs are exhausted it continues with "test-session-<n>", so
// a test that validates more files than expected still gets distinct IDs.
type FixedSessionIDs struct {
	mu  sync.Mutex
	ids []string
	n   int
}

// NewFixedSessionIDs creates a generator returning ids in order.
func NewFixedSessionIDs(ids ...string) *FixedSessionIDs {
	return &FixedSessionIDs{ids: ids}
}

// Generate returns the next session ID.
func (g *FixedSessionIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.n++
	if g.n <= len(g.ids) {
		return g.ids[g.n-1]
	}
	return fmt.Sprintf("test-session-%d", g.n)
}
