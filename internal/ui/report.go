package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chriserin/ftfmt/internal/event"
	"github.com/chriserin/ftfmt/internal/summary"
)

// countOrder is the order status tallies are listed in.
var countOrder = []event.Status{event.Failed, event.Skipped, event.Undefined, event.Pending, event.Passed}

// Report prints the end-of-run summary.
type Report struct {
	Painter *Painter
}

func (r Report) paint(s string, st Style) string {
	if r.Painter == nil {
		return s
	}
	return r.Painter.Paint(s, st)
}

// PrintStatistics writes the failing scenarios, the scenario and step
// tallies and the duration when one was measured.
func (r Report) PrintStatistics(w io.Writer, s *summary.Summary) error {
	var b strings.Builder

	if failed := s.WithStatus(event.Failed); len(failed) > 0 {
		b.WriteString(r.paint("Failing Scenarios:", ForStatus(event.Failed)) + "\n")
		for _, sc := range failed {
			b.WriteString(r.paint(sc.Location.String(), ForStatus(event.Failed)))
			b.WriteString(r.paint(" # "+sc.Keyword+": "+sc.Name, Comment) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(r.tally(len(s.Scenarios), "scenario", s.ScenarioCounts()) + "\n")
	b.WriteString(r.tally(s.StepCount(), "step", s.Steps) + "\n")
	if s.Duration > 0 {
		b.WriteString(formatDuration(s.Duration) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (r Report) tally(total int, noun string, counts map[event.Status]int) string {
	line := pluralize(total, noun)
	var parts []string
	for _, st := range countOrder {
		if n := counts[st]; n > 0 {
			parts = append(parts, r.paint(fmt.Sprintf("%d %s", n, st), ForStatus(st)))
		}
	}
	if len(parts) == 0 {
		return line
	}
	return line + " (" + strings.Join(parts, ", ") + ")"
}

// PrintSnippets lists the undefined steps a snippet generator would need
// to cover.
func (r Report) PrintSnippets(w io.Writer, s *summary.Summary) error {
	if len(s.Snippets) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(r.paint("You can implement step definitions for undefined steps:", ForStatus(event.Undefined)) + "\n\n")
	for _, sn := range s.Snippets {
		line := "  " + sn.Keyword + " " + sn.Text
		switch {
		case sn.DocString:
			line += " (doc string)"
		case sn.Table:
			line += " (table)"
		}
		b.WriteString(r.paint(line, ForStatus(event.Undefined)) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// PrintPassingWip reports scenarios that passed although every scenario
// was expected to be work in progress.
func (r Report) PrintPassingWip(w io.Writer, s *summary.Summary) error {
	var b strings.Builder
	passed := s.WithStatus(event.Passed)
	if len(passed) == 0 {
		b.WriteString("\n" + r.paint("The --wip switch was used, so the failures were expected. All is good.", ForStatus(event.Passed)) + "\n")
	} else {
		b.WriteString("\n" + r.paint("The --wip switch was used, so I didn't expect anything to pass. These scenarios passed:", ForStatus(event.Failed)) + "\n")
		for _, sc := range passed {
			b.WriteString(r.paint(sc.Location.String(), ForStatus(event.Passed)))
			b.WriteString(r.paint(" # "+sc.Keyword+": "+sc.Name, Comment) + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func formatDuration(d time.Duration) string {
	minutes := int(d / time.Minute)
	seconds := (d - time.Duration(minutes)*time.Minute).Seconds()
	return fmt.Sprintf("%dm%.3fs", minutes, seconds)
}
