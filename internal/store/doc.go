// Package store provides SQLite-backed durable storage for validation history.
//
// The store is an append-only log with:
//   - Sessions: one row per validated test file
//   - Outcomes: one row per expanded test run in a session
//
// # Ordering
//
// All ordering uses seq INTEGER from the logical clock, never timestamps.
// Queries order by seq ASC with the primary key as tiebreaker, so the same
// history always reads back identically.
//
// # Idempotency
//
// Sessions are keyed by ID and outcomes by (session_id, seq). Writing the
// same record twice is a no-op.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Run arguments are stored as RFC 8785 canonical JSON (see internal/ir).
package store
