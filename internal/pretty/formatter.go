// Package pretty renders feature-run events as the indented,
// column-aligned, optionally colored "pretty" report.
//
// A Formatter is a single-threaded state machine: every event updates its
// state and may append text to the sink. It never fails on events that
// arrive out of order; it ignores them.
package pretty

import (
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/chriserin/ftfmt/internal/event"
	"github.com/chriserin/ftfmt/internal/summary"
	"github.com/chriserin/ftfmt/internal/text"
	"github.com/chriserin/ftfmt/internal/ui"
)

var _ event.Listener = (*Formatter)(nil)

// Formatter renders events to an OutputSink.
type Formatter struct {
	out     OutputSink
	err     error
	opts    Options
	paint   *ui.Painter
	escaper text.Escaper
	log     *zerolog.Logger

	indent     indentation
	exceptions exceptionSet
	collector  *summary.Collector
	table      *tableView
	delayed    []string

	inBackground  bool
	hidden        bool
	status        event.MaybeStatus // last status of a visible step
	stepStatus    event.Status      // status of the current step
	firstExamples bool
	element       summary.Scenario
	started       time.Time
}

// New returns a Formatter writing to w.
func New(w io.Writer, opts Options) *Formatter {
	log := opts.Logger
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	escaper := opts.Escaper
	if escaper == nil {
		escaper = text.CellEscaper{}
	}
	f := &Formatter{
		out:       NewSink(w),
		opts:      opts,
		paint:     ui.NewPainter(w, opts.Color),
		escaper:   escaper,
		log:       log,
		collector: summary.NewCollector(),
	}
	f.indent.log = log
	f.exceptions.Reset()
	return f
}

// Err returns the first error writing to the sink. Once set, nothing
// more is written.
func (f *Formatter) Err() error {
	return f.err
}

func (f *Formatter) write(s string) {
	if f.err != nil {
		return
	}
	_, f.err = io.WriteString(f.out, s)
}

func (f *Formatter) puts(s string) {
	f.write(s + "\n")
}

func (f *Formatter) flush() {
	if f.err != nil {
		return
	}
	f.err = f.out.Flush()
}

func (f *Formatter) check(err error) {
	if f.err == nil && err != nil {
		f.err = err
	}
}

// Puts buffers diagnostic messages until the next checkpoint so they stay
// attached to the step that produced them.
func (f *Formatter) Puts(messages ...string) {
	f.delayed = append(f.delayed, messages...)
}

func (f *Formatter) printMessages() {
	for _, m := range f.delayed {
		f.puts(text.Indent(f.paint.Paint(m, ui.Tag), f.indent.Current()))
	}
	f.delayed = nil
}

func (f *Formatter) BeforeFeatures() {
	if f.opts.Clock != nil {
		f.started = f.opts.Clock()
	}
}

// AfterFeatures hands the collected results to the statistics printer.
func (f *Formatter) AfterFeatures() {
	sum := f.collector.Drain()
	if f.opts.Clock != nil && !f.started.IsZero() {
		sum.Duration = f.opts.Clock().Sub(f.started)
	}
	if f.opts.Stats != nil && f.err == nil {
		f.check(f.opts.Stats.PrintStatistics(f.out, sum))
		if f.err == nil {
			f.check(f.opts.Stats.PrintSnippets(f.out, sum))
		}
		if f.opts.Wip && f.err == nil {
			f.check(f.opts.Stats.PrintPassingWip(f.out, sum))
		}
	}
	f.flush()
}

// BeforeFeature resets all per-feature state.
func (f *Formatter) BeforeFeature() {
	f.exceptions.Reset()
	f.indent.Set(0)
	f.indent.SetScenario(0)
	f.hidden = false
	f.inBackground = false
	f.status = event.MaybeStatus{}
	f.table = nil
	f.element = summary.Scenario{}
}

func (f *Formatter) AfterFeature() {
	f.flush()
}

func (f *Formatter) CommentLine(line string) {
	f.puts(text.Indent(line, f.indent.Current()))
	f.flush()
}

// TagName prints a tag at the current margin. Later tags on the same line
// are indented by one, which separates them with a space.
func (f *Formatter) TagName(name string) {
	f.write(text.Indent(f.paint.Paint(name, ui.Tag), f.indent.Current()))
	f.flush()
	f.indent.Set(1)
}

func (f *Formatter) AfterTags() {
	if f.indent.Current() == 1 {
		f.puts("")
		f.flush()
	}
}

func (f *Formatter) FeatureName(keyword, name string) {
	f.puts(title(keyword, name))
	f.puts("")
	f.flush()
}

func (f *Formatter) BeforeBackground() {
	f.indent.Set(2)
	f.indent.SetScenario(2)
	f.inBackground = true
}

func (f *Formatter) BackgroundName(h event.ElementHeader) {
	f.printElementName(h)
}

func (f *Formatter) AfterBackground() {
	f.printMessages()
	f.inBackground = false
	f.puts("")
	f.flush()
}

func (f *Formatter) BeforeFeatureElement() {
	f.indent.Set(2)
	f.indent.SetScenario(2)
}

func (f *Formatter) ScenarioName(h event.ElementHeader) {
	f.element = summary.Scenario{Keyword: h.Keyword, Name: h.Name, Location: h.Location}
	f.printElementName(h)
}

func (f *Formatter) AfterFeatureElement() {
	f.printMessages()
	f.puts("")
	f.flush()
}

func (f *Formatter) BeforeExamplesArray() {
	f.indent.Set(4)
	f.puts("")
	f.firstExamples = true
}

func (f *Formatter) ExamplesName(keyword, name string) {
	if !f.firstExamples {
		f.puts("")
	}
	f.firstExamples = false
	f.puts(text.Indent(title(keyword, name), 4))
	f.flush()
	f.indent.Set(6)
	f.indent.SetScenario(6)
}

// printElementName prints a background or scenario title. Names spanning
// several lines keep their line breaks; only the first line carries the
// keyword and the location comment.
func (f *Formatter) printElementName(h event.ElementHeader) {
	if f.indent.Scenario() == 6 {
		f.puts("")
	}
	names := strings.Split(h.Name, "\n")
	line := text.Indent(title(h.Keyword, names[0]), f.indent.Scenario())
	if f.opts.Source {
		line += f.comment(h.Location, h.SourceIndent)
	}
	f.puts(line)
	for _, n := range names[1:] {
		f.puts(text.Indent(n, f.indent.Scenario()))
	}
	f.flush()
}

// title joins a keyword and a name. Unnamed elements get no trailing
// space.
func title(keyword, name string) string {
	if name == "" {
		return keyword + ":"
	}
	return keyword + ": " + name
}

func (f *Formatter) comment(loc event.Location, sourceIndent int) string {
	if sourceIndent < 1 {
		sourceIndent = 1
	}
	return f.paint.Paint(text.Indent("# "+loc.String(), sourceIndent), ui.Comment)
}

func (f *Formatter) BeforeTestCase() {
	f.collector.BeginTestCase()
}

func (f *Formatter) BeforeStep() {
	f.indent.Set(6)
	f.printMessages()
}

// BeforeStepResult decides whether the step is shown. A step whose
// exception was already printed is hidden. So is a non-failing step
// whose background flag disagrees with where we are: background steps
// replayed for each scenario are shown once, under the background.
func (f *Formatter) BeforeStepResult(r *event.StepResult) {
	f.hidden = false
	if r == nil {
		return
	}
	f.stepStatus = r.Status
	if r.Exception != nil {
		if f.exceptions.Seen(r.Exception) {
			f.hidden = true
			return
		}
		f.exceptions.RecordAndShouldPrint(r.Exception)
	}
	if r.Status != event.Failed && f.inBackground != r.Background {
		f.hidden = true
		return
	}
	f.status = event.Known(r.Status)
}

func (f *Formatter) StepName(r *event.StepResult) {
	if f.hidden || r == nil {
		return
	}
	f.puts(text.Indent(f.formatStep(r), f.indent.Scenario()+2))
	f.printMessages()
}

// formatStep renders keyword and step text in the status style, with
// the matched arguments in the bold variant.
func (f *Formatter) formatStep(r *event.StepResult) string {
	st := ui.ForStatus(r.Status)
	param := ui.ForParam(r.Status)

	var b strings.Builder
	b.WriteString(f.paint.Paint(strings.TrimRight(r.Keyword, " ")+" ", st))

	stepText := r.Match.Text
	args := append([]event.Argument(nil), r.Match.Args...)
	sort.SliceStable(args, func(i, j int) bool { return args[i].Offset < args[j].Offset })
	pos := 0
	for _, a := range args {
		end := a.Offset + len(a.Value)
		if a.Offset < pos || end > len(stepText) || stepText[a.Offset:end] != a.Value || a.Value == "" {
			continue
		}
		b.WriteString(f.paint.Paint(stepText[pos:a.Offset], st))
		b.WriteString(f.paint.Paint(a.Value, param))
		pos = end
	}
	b.WriteString(f.paint.Paint(stepText[pos:], st))

	if f.opts.Source {
		loc := r.Match.Location
		if loc.File == "" {
			loc = r.Location
		}
		b.WriteString(f.comment(loc, r.SourceIndent))
	}
	return b.String()
}

// DocString prints a doc string argument between triple quotes. Lines
// holding only whitespace are printed empty.
func (f *Formatter) DocString(d *event.DocString) {
	if f.opts.NoMultiline || f.hidden || d == nil {
		return
	}
	block := text.Indent(`"""`+d.MediaType+"\n"+d.Content+"\n"+`"""`, f.indent.Current())
	lines := strings.Split(block, "\n")
	for i, l := range lines {
		if text.IsBlank(l) {
			lines[i] = ""
		}
	}
	f.puts(f.paint.Paint(strings.Join(lines, "\n"), ui.ForStatus(f.stepStatus)))
	f.flush()
}

func (f *Formatter) Exception(e *event.Exception, status event.Status) {
	if f.hidden || e == nil {
		return
	}
	f.printMessages()
	f.printException(e, status, f.indent.Current())
	f.flush()
}

func (f *Formatter) AfterStep() {}

func (f *Formatter) AfterTestStep(r *event.StepResult) {
	f.collector.Add(f.element, r)
}
