package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chriserin/ftfmt/internal/event"
	"github.com/chriserin/ftfmt/internal/summary"
)

// ErrNoRuns is returned when no run has been recorded yet.
var ErrNoRuns = errors.New("no runs recorded")

// Run is one recorded render of an event stream.
type Run struct {
	ID        int64
	Source    string
	StartedAt time.Time
	Duration  time.Duration
}

// SaveRun stores the step results of a run in a single transaction and
// returns the new run's id.
func SaveRun(sqlDB *sql.DB, source string, sum *summary.Summary) (int64, error) {
	tx, err := sqlDB.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs (source, duration_ms) VALUES (?, ?)`, source, sum.Duration.Milliseconds())
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO step_results (run_id, scenario, keyword, text, status) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing step insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range sum.Entries {
		if _, err := stmt.Exec(runID, e.Scenario.Name, e.Keyword, e.Text, e.Status.String()); err != nil {
			return 0, fmt.Errorf("inserting step %q: %w", e.Text, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// LatestRun returns the most recently recorded run.
func LatestRun(sqlDB *sql.DB) (Run, error) {
	var (
		r          Run
		startedAt  string
		durationMS int64
	)
	err := sqlDB.QueryRow(`SELECT id, source, started_at, duration_ms FROM runs ORDER BY id DESC LIMIT 1`).
		Scan(&r.ID, &r.Source, &startedAt, &durationMS)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		return Run{}, fmt.Errorf("querying latest run: %w", err)
	}
	r.StartedAt = parseTime(startedAt)
	r.Duration = time.Duration(durationMS) * time.Millisecond
	return r, nil
}

// StatusCounts tallies recorded steps by status. A runID of zero counts
// every run.
func StatusCounts(sqlDB *sql.DB, runID int64) (map[event.Status]int, error) {
	query := `SELECT status, COUNT(*) FROM step_results GROUP BY status`
	args := []any{}
	if runID != 0 {
		query = `SELECT status, COUNT(*) FROM step_results WHERE run_id = ? GROUP BY status`
		args = append(args, runID)
	}

	rows, err := sqlDB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying status counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[event.Status]int)
	for rows.Next() {
		var status string
		var cnt int
		if err := rows.Scan(&status, &cnt); err != nil {
			return nil, fmt.Errorf("scanning status row: %w", err)
		}
		counts[event.ParseStatus(status)] += cnt
	}
	return counts, rows.Err()
}

// RunCount returns how many runs are recorded.
func RunCount(sqlDB *sql.DB) (int, error) {
	var n int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting runs: %w", err)
	}
	return n, nil
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
