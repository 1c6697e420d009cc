package store

import "github.com/roach88/launchcheck/internal/ir"

// Session is one validation of one test file.
type Session struct {
	ID        string
	Seq       int64 // logical clock value when the session started
	Source    string
	Generator string
	Pass      bool
	RunCount  int
}

// Outcome is the stored result of validating one expanded test run.
type Outcome struct {
	SessionID string
	Seq       int64
	Index     int
	Label     string
	RunID     string
	Args      ir.IRObject
	Pass      bool

	// Kind, Code, Name and Message describe the failure. Empty when Pass.
	Kind    string
	Code    string
	Name    string
	Message string
}
