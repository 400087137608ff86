package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftfmt/internal/db"
	"github.com/chriserin/ftfmt/internal/event"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show step counts of recorded runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunHistory(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func RunHistory(w io.Writer) error {
	if _, err := os.Stat("fts"); os.IsNotExist(err) {
		return fmt.Errorf("run `ftfmt init` first")
	}

	sqlDB, err := db.Open("fts/ft.db")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	count, err := db.RunCount(sqlDB)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Runs: %d\n", count)

	latest, err := db.LatestRun(sqlDB)
	if errors.Is(err, db.ErrNoRuns) {
		return nil
	}
	if err != nil {
		return err
	}

	counts, err := db.StatusCounts(sqlDB, latest.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Latest: #%d %s (%s)\n", latest.ID, latest.Source, latest.StartedAt.Format("2006-01-02 15:04"))
	printCounts(w, counts)

	totals, err := db.StatusCounts(sqlDB, 0)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "All runs:")
	printCounts(w, totals)
	return nil
}

func printCounts(w io.Writer, counts map[event.Status]int) {
	for _, status := range event.Statuses {
		if cnt := counts[status]; cnt > 0 {
			fmt.Fprintf(w, "  %s: %d\n", status, cnt)
		}
	}
}
