package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/launchcheck/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	RunID    string // show one run's outcomes across sessions
}

// SessionSummary is one line of the session list.
type SessionSummary struct {
	ID        string `json:"id"`
	Seq       int64  `json:"seq"`
	Source    string `json:"source,omitempty"`
	Generator string `json:"generator"`
	Pass      bool   `json:"pass"`
	RunCount  int    `json:"run_count"`
}

// OutcomeLine is one recorded run outcome.
type OutcomeLine struct {
	SessionID string `json:"session_id"`
	Seq       int64  `json:"seq"`
	Index     int    `json:"index"`
	Label     string `json:"label"`
	RunID     string `json:"run_id"`
	Pass      bool   `json:"pass"`
	Code      string `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
}

// HistoryResult is the output of the history command. Exactly one of
// Sessions or Outcomes is populated.
type HistoryResult struct {
	Session  *SessionSummary  `json:"session,omitempty"`
	Sessions []SessionSummary `json:"sessions,omitempty"`
	Outcomes []OutcomeLine    `json:"outcomes,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [session-id]",
		Short: "Show recorded validation sessions",
		Long: `Show validation sessions recorded with validate --db.

Without arguments every session is listed in the order it was recorded.
Given a session ID, that session's run outcomes are shown. With --run,
every recorded outcome of one run ID is shown across sessions.

Examples:
  launchcheck history --db history.db
  launchcheck history --db history.db 0190c6d2-...
  launchcheck history --db history.db --run 3f9a...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID := ""
			if len(args) == 1 {
				sessionID = args[0]
			}
			return runHistory(opts, sessionID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show outcomes for one run ID across sessions")

	return cmd
}

func runHistory(opts *HistoryOptions, sessionID string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts.RootOptions, cmd)

	if sessionID != "" && opts.RunID != "" {
		return NewExitError(ExitCommandError, "give either a session ID or --run, not both")
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var result HistoryResult
	switch {
	case opts.RunID != "":
		outcomes, err := st.ReadRunHistory(ctx, opts.RunID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read run history", err)
		}
		result.Outcomes = outcomeLines(outcomes)

	case sessionID != "":
		r, err := readSession(ctx, st, sessionID)
		if err != nil {
			return err
		}
		result = r

	default:
		sessions, err := st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		result.Sessions = make([]SessionSummary, len(sessions))
		for i, s := range sessions {
			result.Sessions[i] = sessionSummary(s)
		}
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	outputHistoryText(formatter.Writer, result)
	return nil
}

func readSession(ctx context.Context, st *store.Store, id string) (HistoryResult, error) {
	sess, err := st.ReadSession(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return HistoryResult{}, NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", id))
	}
	if err != nil {
		return HistoryResult{}, WrapExitError(ExitCommandError, "failed to read session", err)
	}
	outcomes, err := st.ReadOutcomes(ctx, id)
	if err != nil {
		return HistoryResult{}, WrapExitError(ExitCommandError, "failed to read outcomes", err)
	}

	summary := sessionSummary(sess)
	return HistoryResult{Session: &summary, Outcomes: outcomeLines(outcomes)}, nil
}

func sessionSummary(s store.Session) SessionSummary {
	return SessionSummary{
		ID:        s.ID,
		Seq:       s.Seq,
		Source:    s.Source,
		Generator: s.Generator,
		Pass:      s.Pass,
		RunCount:  s.RunCount,
	}
}

func outcomeLines(outcomes []store.Outcome) []OutcomeLine {
	lines := make([]OutcomeLine, len(outcomes))
	for i, o := range outcomes {
		lines[i] = OutcomeLine{
			SessionID: o.SessionID,
			Seq:       o.Seq,
			Index:     o.Index,
			Label:     o.Label,
			RunID:     o.RunID,
			Pass:      o.Pass,
			Code:      o.Code,
			Message:   o.Message,
		}
	}
	return lines
}

func outputHistoryText(w io.Writer, r HistoryResult) {
	if r.Session != nil {
		s := r.Session
		fmt.Fprintf(w, "Session %s (seq %d)\n", s.ID, s.Seq)
		fmt.Fprintf(w, "  generator: %s\n", s.Generator)
		if s.Source != "" {
			fmt.Fprintf(w, "  source:    %s\n", s.Source)
		}
		fmt.Fprintf(w, "  result:    %s, %d run(s)\n\n", passFail(s.Pass), s.RunCount)
	}

	if r.Sessions != nil || (r.Session == nil && r.Outcomes == nil) {
		if len(r.Sessions) == 0 {
			fmt.Fprintln(w, "No sessions recorded.")
			return
		}
		for _, s := range r.Sessions {
			fmt.Fprintf(w, "%s %6d  %-36s  %-24s %d run(s)\n", mark(s.Pass), s.Seq, s.ID, s.Generator, s.RunCount)
		}
		return
	}

	if len(r.Outcomes) == 0 {
		fmt.Fprintln(w, "No outcomes recorded.")
		return
	}
	for _, o := range r.Outcomes {
		label := o.Label
		if label == "" {
			label = "(no parameters)"
		}
		fmt.Fprintf(w, "%s [%d] #%d %s", mark(o.Pass), o.Seq, o.Index, label)
		if r.Session == nil {
			fmt.Fprintf(w, "  session %s", o.SessionID)
		}
		fmt.Fprintln(w)
		if !o.Pass {
			fmt.Fprintf(w, "    %s: %s\n", o.Code, o.Message)
		}
	}
}

func mark(pass bool) string {
	if pass {
		return "✓"
	}
	return "✗"
}

func passFail(pass bool) string {
	if pass {
		return "pass"
	}
	return "fail"
}
