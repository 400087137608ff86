package pretty

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/chriserin/ftfmt/internal/summary"
	"github.com/chriserin/ftfmt/internal/text"
	"github.com/chriserin/ftfmt/internal/ui"
)

// Options configure a Formatter. The zero value renders plain text with
// no summary.
type Options struct {
	Color       bool
	Source      bool // print "# file:line" comments
	NoMultiline bool // suppress doc strings and step tables
	Wip         bool // report passing scenarios as unexpected
	Prefixes    ui.Prefixes

	Escaper text.Escaper      // defaults to text.CellEscaper
	Stats   StatisticsPrinter // nil prints no summary
	Clock   func() time.Time  // nil omits the run duration
	Logger  *zerolog.Logger   // nil disables logging
}

// StatisticsPrinter renders the end-of-run summary.
type StatisticsPrinter interface {
	PrintStatistics(w io.Writer, s *summary.Summary) error
	PrintSnippets(w io.Writer, s *summary.Summary) error
	PrintPassingWip(w io.Writer, s *summary.Summary) error
}

// OutputSink is the stream rendered text is appended to.
type OutputSink interface {
	io.Writer
	Flush() error
}

type nopFlusher struct {
	io.Writer
}

func (nopFlusher) Flush() error { return nil }

// NewSink adapts w to an OutputSink. Writers that already know how to
// flush, such as *bufio.Writer, keep their Flush.
func NewSink(w io.Writer) OutputSink {
	if s, ok := w.(OutputSink); ok {
		return s
	}
	return nopFlusher{w}
}
