package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftfmt/internal/config"
	"github.com/chriserin/ftfmt/internal/db"
	"github.com/chriserin/ftfmt/internal/event"
	"github.com/chriserin/ftfmt/internal/logging"
	"github.com/chriserin/ftfmt/internal/pretty"
	"github.com/chriserin/ftfmt/internal/summary"
	"github.com/chriserin/ftfmt/internal/ui"
)

// formatFlags registers the flags every rendering command shares.
func formatFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("color", "", "auto, always or never")
	f.Bool("source", false, "Print the location of each scenario and step")
	f.Bool("no-multiline", false, "Leave out doc strings and step tables")
	f.Bool("wip", false, "Expect every scenario to fail or be pending")
	f.Bool("record", false, "Store the run in fts/ft.db")
	f.StringToString("prefix", nil, "Cell prefix per status, e.g. --prefix failed=!")
}

// loadConfig reads the config with only the flags the user set on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := map[string]any{}
	for _, name := range []string{"color", "source", "no-multiline", "wip", "record"} {
		fl := cmd.Flags().Lookup(name)
		if fl == nil || !fl.Changed {
			continue
		}
		flags[strings.ReplaceAll(name, "-", "_")] = fl.Value.String()
	}
	if fl := cmd.Flags().Lookup("prefix"); fl != nil && fl.Changed {
		prefixes, err := cmd.Flags().GetStringToString("prefix")
		if err != nil {
			return nil, err
		}
		for status, marker := range prefixes {
			flags["prefixes."+status] = marker
		}
	}
	return config.Load(config.Options{Path: configPath, Flags: flags})
}

// recordingStats remembers the summary it printed so the run can be
// stored afterwards.
type recordingStats struct {
	pretty.StatisticsPrinter
	last *summary.Summary
}

func (r *recordingStats) PrintStatistics(w io.Writer, s *summary.Summary) error {
	r.last = s
	return r.StatisticsPrinter.PrintStatistics(w, s)
}

// render runs play against a pretty formatter writing to w and records
// the run when cfg asks for it.
func render(w io.Writer, cfg *config.Config, source string, play func(event.Listener) error) error {
	var file *os.File
	if f, ok := w.(*os.File); ok {
		file = f
	}
	color := ui.UseColor(cfg.ColorMode(), file)

	var report ui.Report
	if color {
		report.Painter = ui.NewPainter(w, true)
	}
	stats := &recordingStats{StatisticsPrinter: report}

	logger := logging.GetLogger("pretty")
	bw := bufio.NewWriter(w)
	f := pretty.New(bw, pretty.Options{
		Color:       color,
		Source:      cfg.Source,
		NoMultiline: cfg.NoMultiline,
		Wip:         cfg.Wip,
		Prefixes:    ui.ParsePrefixes(cfg.Prefixes),
		Stats:       stats,
		Clock:       time.Now,
		Logger:      &logger,
	})

	if err := play(f); err != nil {
		return err
	}
	if err := f.Err(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if !cfg.Record {
		return nil
	}
	if stats.last == nil {
		logger.Warn().Str("source", source).Msg("stream has no after_features; nothing recorded")
		return nil
	}
	return recordRun(source, stats.last)
}

func recordRun(source string, sum *summary.Summary) error {
	if _, err := os.Stat("fts"); os.IsNotExist(err) {
		return fmt.Errorf("run `ftfmt init` first")
	}
	sqlDB, err := db.Open("fts/ft.db")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer sqlDB.Close()

	id, err := db.SaveRun(sqlDB, source, sum)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	logger := logging.GetLogger("history")
	logger.Info().Int64("run", id).Str("source", source).Msg("run recorded")
	return nil
}
