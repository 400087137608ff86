package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftfmt/internal/config"
	"github.com/chriserin/ftfmt/internal/dryrun"
	"github.com/chriserin/ftfmt/internal/event"
	"github.com/chriserin/ftfmt/internal/parser"
)

var dryRunCmd = &cobra.Command{
	Use:   "dry-run [<file.ft>...]",
	Short: "Render feature files without running them",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return RunDryRun(cmd.OutOrStdout(), args, cfg)
	},
}

func init() {
	formatFlags(dryRunCmd)
	rootCmd.AddCommand(dryRunCmd)
}

// RunDryRun renders the given feature files, or every fts/*.ft file when
// none are given. Files with parse errors are reported and nothing is
// rendered.
func RunDryRun(w io.Writer, paths []string, cfg *config.Config) error {
	if len(paths) == 0 {
		matches, err := filepath.Glob("fts/*.ft")
		if err != nil {
			return fmt.Errorf("scanning fts/: %w", err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("no feature files in fts/")
		}
		sort.Strings(matches)
		paths = matches
	}

	var features []dryrun.Feature
	var errs []error
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		doc, parseErrs := parser.Parse(path, content)
		for _, pe := range parseErrs {
			errs = append(errs, fmt.Errorf("%s:%d: %s", path, pe.Line, pe.Message))
		}
		features = append(features, dryrun.Feature{File: path, Doc: doc})
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return render(w, cfg, "dry-run", func(l event.Listener) error {
		dryrun.Run(features, l)
		return nil
	})
}
