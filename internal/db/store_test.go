package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftfmt/internal/event"
	"github.com/chriserin/ftfmt/internal/summary"
)

func sampleSummary() *summary.Summary {
	login := summary.Scenario{Keyword: "Scenario", Name: "User logs in"}
	return &summary.Summary{
		Entries: []summary.Entry{
			{Scenario: login, Keyword: "Given", Text: "a user", Status: event.Passed},
			{Scenario: login, Keyword: "When", Text: "they log in", Status: event.Failed},
			{Scenario: login, Keyword: "Then", Text: "they see the dashboard", Status: event.Skipped},
		},
		Duration: 1500 * time.Millisecond,
	}
}

func TestOpen_EnablesWALAndMigrates(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "ft.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	var mode string
	require.NoError(t, sqlDB.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)

	n, err := RunCount(sqlDB)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSaveRun_StoresSteps(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "ft.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	id, err := SaveRun(sqlDB, "events.yaml", sampleSummary())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	var scenario, keyword, status string
	require.NoError(t, sqlDB.QueryRow(`SELECT scenario, keyword, status FROM step_results WHERE text = 'they log in'`).
		Scan(&scenario, &keyword, &status))
	assert.Equal(t, "User logs in", scenario)
	assert.Equal(t, "When", keyword)
	assert.Equal(t, "failed", status)

	run, err := LatestRun(sqlDB)
	require.NoError(t, err)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, "events.yaml", run.Source)
	assert.Equal(t, 1500*time.Millisecond, run.Duration)
	assert.False(t, run.StartedAt.IsZero())
}

func TestLatestRun_NoRuns(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "ft.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	_, err = LatestRun(sqlDB)
	assert.ErrorIs(t, err, ErrNoRuns)
}

func TestStatusCounts(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "ft.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	first, err := SaveRun(sqlDB, "a.yaml", sampleSummary())
	require.NoError(t, err)
	second, err := SaveRun(sqlDB, "b.yaml", &summary.Summary{
		Entries: []summary.Entry{{Keyword: "Given", Text: "x", Status: event.Passed}},
	})
	require.NoError(t, err)

	counts, err := StatusCounts(sqlDB, first)
	require.NoError(t, err)
	assert.Equal(t, map[event.Status]int{event.Passed: 1, event.Failed: 1, event.Skipped: 1}, counts)

	counts, err = StatusCounts(sqlDB, second)
	require.NoError(t, err)
	assert.Equal(t, map[event.Status]int{event.Passed: 1}, counts)

	counts, err = StatusCounts(sqlDB, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[event.Passed])

	run, err := LatestRun(sqlDB)
	require.NoError(t, err)
	assert.Equal(t, "b.yaml", run.Source)
}
