package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftfmt/internal/config"
	"github.com/chriserin/ftfmt/internal/event"
	"github.com/chriserin/ftfmt/internal/replay"
)

var renderCmd = &cobra.Command{
	Use:   "render <events.yaml|->",
	Short: "Render a recorded event stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return RunRender(cmd.OutOrStdout(), cmd.InOrStdin(), args[0], cfg)
	},
}

func init() {
	formatFlags(renderCmd)
	rootCmd.AddCommand(renderCmd)
}

// RunRender renders the event stream at path, or stdin for "-".
func RunRender(w io.Writer, stdin io.Reader, path string, cfg *config.Config) error {
	in := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening event stream: %w", err)
		}
		defer f.Close()
		in = f
	}

	stream, err := replay.Load(in)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return render(w, cfg, path, func(l event.Listener) error {
		stream.Play(l)
		return nil
	})
}
