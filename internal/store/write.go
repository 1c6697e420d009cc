package store

import (
	"context"
	"database/sql"
	"fmt"
)

// WriteSession inserts a session record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency.
func (s *Store) WriteSession(ctx context.Context, sess Session) error {
	if err := writeSession(ctx, s.db, sess); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// WriteOutcome inserts an outcome record into the store.
// Uses ON CONFLICT(session_id, seq) DO NOTHING for idempotency.
//
// Note: The session referenced by SessionID must exist (foreign key constraint).
func (s *Store) WriteOutcome(ctx context.Context, out Outcome) error {
	if err := writeOutcome(ctx, s.db, out); err != nil {
		return fmt.Errorf("write outcome: %w", err)
	}
	return nil
}

// WriteSessionAtomic writes a session and all of its outcomes in one
// transaction. Either everything is recorded or nothing is.
func (s *Store) WriteSessionAtomic(ctx context.Context, sess Session, outcomes []Outcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("atomic session: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := writeSession(ctx, tx, sess); err != nil {
		return fmt.Errorf("atomic session: write session: %w", err)
	}
	for _, out := range outcomes {
		if out.SessionID != sess.ID {
			return fmt.Errorf("atomic session: outcome seq %d belongs to session %q, not %q", out.Seq, out.SessionID, sess.ID)
		}
		if err := writeOutcome(ctx, tx, out); err != nil {
			return fmt.Errorf("atomic session: write outcome: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("atomic session: commit: %w", err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func writeSession(ctx context.Context, db execer, sess Session) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO sessions
		(id, seq, source, generator, pass, run_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		sess.ID,
		sess.Seq,
		sess.Source,
		sess.Generator,
		boolToInt(sess.Pass),
		sess.RunCount,
	)
	return err
}

func writeOutcome(ctx context.Context, db execer, out Outcome) error {
	argsJSON, err := marshalArgs(out.Args)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO outcomes
		(session_id, seq, run_index, label, run_id, args, pass, kind, code, name, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`,
		out.SessionID,
		out.Seq,
		out.Index,
		out.Label,
		out.RunID,
		argsJSON,
		boolToInt(out.Pass),
		out.Kind,
		out.Code,
		out.Name,
		out.Message,
	)
	return err
}
