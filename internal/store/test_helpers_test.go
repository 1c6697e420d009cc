package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/launchcheck/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestSession(id string, seq int64) Session {
	return Session{
		ID:        id,
		Seq:       seq,
		Source:    "tests/talker.yaml",
		Generator: "talker",
		Pass:      true,
		RunCount:  1,
	}
}

func createTestOutcome(sessionID string, seq int64, index int) Outcome {
	return Outcome{
		SessionID: sessionID,
		Seq:       seq,
		Index:     index,
		Label:     "[rate=10]",
		RunID:     "run-" + sessionID,
		Args:      ir.IRObject{"rate": ir.IRInt(10)},
		Pass:      true,
	}
}
