package store

import (
	"context"
	"database/sql"
	"fmt"
)

const sessionColumns = `id, seq, source, generator, pass, run_count`

const outcomeColumns = `session_id, seq, run_index, label, run_id, args, pass, kind, code, name, message`

// ReadSession retrieves a single session by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE id = ?
	`, id)

	return scanSession(row)
}

// ListSessions returns all sessions ordered by seq ASC, id ASC COLLATE BINARY.
// Returns an empty slice (not nil) if the store holds no sessions.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		ORDER BY seq ASC, id ASC COLLATE BINARY
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// ReadOutcomes returns a session's outcomes ordered by seq ASC.
// Returns an empty slice (not nil) for an unknown session.
func (s *Store) ReadOutcomes(ctx context.Context, sessionID string) ([]Outcome, error) {
	return s.queryOutcomes(ctx, "read outcomes", `
		SELECT `+outcomeColumns+`
		FROM outcomes
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
}

// ReadRunHistory returns every recorded outcome for a run ID across all
// sessions, ordered by seq ASC, session_id ASC COLLATE BINARY.
func (s *Store) ReadRunHistory(ctx context.Context, runID string) ([]Outcome, error) {
	return s.queryOutcomes(ctx, "read run history", `
		SELECT `+outcomeColumns+`
		FROM outcomes
		WHERE run_id = ?
		ORDER BY seq ASC, session_id ASC COLLATE BINARY
	`, runID)
}

// GetLastSeq returns the highest seq number used in the store.
// Used to resume the logical clock when appending to an existing history.
func (s *Store) GetLastSeq(ctx context.Context) (int64, error) {
	var maxSeq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(
			(SELECT COALESCE(MAX(seq), 0) FROM sessions),
			(SELECT COALESCE(MAX(seq), 0) FROM outcomes)
		)
	`).Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return maxSeq, nil
}

func (s *Store) queryOutcomes(ctx context.Context, op, query string, args ...any) ([]Outcome, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	outcomes := []Outcome{}
	for rows.Next() {
		out, err := scanOutcome(rows)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, out)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return outcomes, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanSession scans a row into a Session. sql.ErrNoRows is returned
// unwrapped so callers can compare against it directly.
func scanSession(row scanner) (Session, error) {
	var sess Session
	var pass int
	if err := row.Scan(&sess.ID, &sess.Seq, &sess.Source, &sess.Generator, &pass, &sess.RunCount); err != nil {
		if err == sql.ErrNoRows {
			return Session{}, err
		}
		return Session{}, fmt.Errorf("scan session: %w", err)
	}
	sess.Pass = pass == 1
	return sess, nil
}

func scanOutcome(row scanner) (Outcome, error) {
	var out Outcome
	var argsJSON string
	var pass int
	if err := row.Scan(
		&out.SessionID, &out.Seq, &out.Index, &out.Label, &out.RunID, &argsJSON,
		&pass, &out.Kind, &out.Code, &out.Name, &out.Message,
	); err != nil {
		return Outcome{}, fmt.Errorf("scan outcome: %w", err)
	}
	out.Pass = pass == 1

	args, err := unmarshalArgs(argsJSON)
	if err != nil {
		return Outcome{}, err
	}
	out.Args = args
	return out, nil
}
