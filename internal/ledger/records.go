package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Run is one invocation of the queue runner.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool
	Processed  int
	OK         int
	Failed     int
	Error      string
}

// Attempt is one channel outcome for one sheet row.
type Attempt struct {
	ID        int64
	RunID     string
	Row       int
	Lottery   string
	Contest   string
	Network   string
	Account   string
	Outcome   string
	VideoID   string
	URL       string
	Detail    string
	CreatedAt time.Time
}

// BeginRun inserts a run row.
func (s *Store) BeginRun(ctx context.Context, id string, dryRun bool) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("begin run: id is required")
	}
	return s.exec(ctx,
		"INSERT INTO runs (id, started_at, dry_run) VALUES (?, ?, ?)",
		id, formatTime(time.Now()), boolInt(dryRun),
	)
}

// FinishRun stores the final counters of a run.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	finished := run.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	return s.exec(ctx,
		`UPDATE runs SET finished_at = ?, processed = ?, ok = ?, failed = ?, error = ? WHERE id = ?`,
		formatTime(finished), run.Processed, run.OK, run.Failed, nullString(run.Error), run.ID,
	)
}

// RecordAttempt appends one attempt.
func (s *Store) RecordAttempt(ctx context.Context, a Attempt) error {
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return s.exec(ctx,
		`INSERT INTO attempts (run_id, sheet_row, lottery, contest, network, account, outcome, video_id, url, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.RunID, a.Row, a.Lottery, a.Contest, a.Network, a.Account, a.Outcome,
		nullString(a.VideoID), nullString(a.URL), nullString(a.Detail), formatTime(created),
	)
}

// GetRun returns a run by id, or nil when absent.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, dry_run, processed, ok, failed, error FROM runs WHERE id = ?`, id)
	var (
		run              Run
		started          string
		finished, errMsg sql.NullString
		dry              int
	)
	if err := row.Scan(&run.ID, &started, &finished, &dry, &run.Processed, &run.OK, &run.Failed, &errMsg); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished.String)
	run.DryRun = dry != 0
	run.Error = errMsg.String
	return &run, nil
}

// RecentAttempts returns the newest attempts first.
func (s *Store) RecentAttempts(ctx context.Context, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, sheet_row, lottery, contest, network, account, outcome, video_id, url, detail, created_at
		 FROM attempts ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a                    Attempt
			videoID, url, detail sql.NullString
			created              string
		)
		if err := rows.Scan(&a.ID, &a.RunID, &a.Row, &a.Lottery, &a.Contest, &a.Network, &a.Account,
			&a.Outcome, &videoID, &url, &detail, &created); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.VideoID = videoID.String
		a.URL = url.String
		a.Detail = detail.String
		a.CreatedAt = parseTime(created)
		out = append(out, a)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
