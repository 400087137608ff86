// Package dryrun walks parsed feature files and emits the events an
// execution engine would, without running anything. Every step is
// reported undefined.
package dryrun

import (
	"strings"

	"github.com/chriserin/ftfmt/internal/event"
	"github.com/chriserin/ftfmt/internal/parser"
	"github.com/chriserin/ftfmt/internal/text"
)

// Margins the pretty report prints titles and steps at; used to line up
// source comments.
const (
	titleMargin = 2
	stepMargin  = 4
)

// Feature is one parsed file.
type Feature struct {
	File string
	Doc  *parser.Document
}

// Run emits a whole run over features.
func Run(features []Feature, l event.Listener) {
	l.BeforeFeatures()
	for _, f := range features {
		Walk(f.Doc, f.File, l)
	}
	l.AfterFeatures()
}

// Walk emits the events of a single feature file. The background is
// visited once, then replayed in front of every scenario and every
// examples row with its steps flagged as background steps.
func Walk(doc *parser.Document, file string, l event.Listener) {
	if doc == nil || doc.Feature == nil {
		return
	}
	w := &walker{file: file, l: l, feature: doc.Feature}
	w.walkFeature()
}

type walker struct {
	file    string
	l       event.Listener
	feature *parser.Feature
}

func (w *walker) location(line int) event.Location {
	return event.Location{File: w.file, Line: line}
}

func (w *walker) walkFeature() {
	f := w.feature
	w.l.BeforeFeature()
	for _, c := range f.Header.Comments {
		w.l.CommentLine(c)
	}
	w.tags(f.Header.Tags)
	name := f.Header.Name
	if f.Header.Description != "" {
		name += "\n" + f.Header.Description
	}
	w.l.FeatureName(f.Header.Keyword, name)

	if bg := f.Background; bg != nil {
		w.l.BeforeBackground()
		indents := sourceIndents(bg.Keyword, bg.Name, bg.Steps)
		w.l.BackgroundName(event.ElementHeader{
			Keyword:      bg.Keyword,
			Name:         elementName(bg.Name, bg.Description),
			Location:     w.location(bg.Line),
			SourceIndent: indents[0],
		})
		// Shown once; the steps are reported with each test case.
		for i, s := range bg.Steps {
			w.show(w.result(s, true, indents[i+1], event.Undefined))
		}
		w.l.AfterBackground()
	}

	for i := range f.Scenarios {
		w.scenario(&f.Scenarios[i])
	}
	w.l.AfterFeature()
}

func (w *walker) tags(tags []parser.Tag) {
	for _, t := range tags {
		w.l.TagName(t.Name)
	}
	w.l.AfterTags()
}

func (w *walker) scenario(sd *parser.ScenarioDefinition) {
	s := &sd.Scenario
	w.l.BeforeFeatureElement()
	w.tags(sd.Tags)
	w.l.BeforeTestCase()

	indents := sourceIndents(s.Keyword, s.Name, s.Steps)
	w.l.ScenarioName(event.ElementHeader{
		Keyword:      s.Keyword,
		Name:         elementName(s.Name, s.Description),
		Location:     w.location(sd.Line),
		SourceIndent: indents[0],
	})

	if !s.Outline {
		w.replayBackground(true)
		for i, st := range s.Steps {
			w.step(st, false, indents[i+1], event.Undefined)
		}
		w.l.AfterFeatureElement()
		return
	}

	// Outline steps are only a template; they are shown but not counted.
	for i, st := range s.Steps {
		r := w.result(st, false, indents[i+1], event.Skipped)
		w.show(r)
	}
	w.examples(s)
	w.l.AfterFeatureElement()
}

func (w *walker) examples(s *parser.Scenario) {
	if len(s.Examples) == 0 {
		return
	}
	runs := parser.Expand(s)
	w.l.BeforeExamplesArray()
	for i := range s.Examples {
		ex := &s.Examples[i]
		w.l.ExamplesName(ex.Keyword, ex.Name)
		if ex.Table == nil {
			continue
		}
		w.l.BeforeOutlineTable(&event.Table{Rows: ex.Table.AllRows()})
		w.row(ex.Table.HeaderRow, event.Known(event.Skipped))
		for _, run := range runs {
			if run.Examples != ex {
				continue
			}
			w.l.BeforeTestCase()
			w.replayBackground(false)
			for _, st := range run.Steps {
				w.l.AfterTestStep(w.result(st, false, 0, event.Undefined))
			}
			w.row(run.Row, event.Known(event.Undefined))
		}
		w.l.AfterOutlineTable()
	}
}

func (w *walker) row(cells []string, status event.MaybeStatus) {
	row := &event.TableRow{Cells: cells, Status: status}
	w.l.BeforeTableRow(row)
	for _, c := range cells {
		w.l.TableCellValue(c, status)
	}
	w.l.AfterTableRow(row)
}

// replayBackground sends the background steps again for the current test
// case. Visible steps go through the whole step sequence and the listener
// decides whether to print them; examples rows only report results.
func (w *walker) replayBackground(visible bool) {
	if w.feature.Background == nil {
		return
	}
	for _, st := range w.feature.Background.Steps {
		if visible {
			w.step(st, true, 0, event.Undefined)
			continue
		}
		w.l.AfterTestStep(w.result(st, true, 0, event.Undefined))
	}
}

func (w *walker) result(s parser.Step, background bool, sourceIndent int, status event.Status) *event.StepResult {
	r := &event.StepResult{
		Keyword:      s.Keyword,
		Match:        event.StepMatch{Text: s.Text},
		Status:       status,
		Background:   background,
		Location:     w.location(s.Line),
		SourceIndent: sourceIndent,
	}
	if arg := s.Argument; arg != nil {
		if arg.DocString != nil {
			r.DocString = &event.DocString{MediaType: arg.DocString.MediaType, Content: arg.DocString.Content}
		}
		if arg.DataTable != nil {
			r.Table = &event.Table{Rows: arg.DataTable.AllRows()}
		}
	}
	return r
}

func (w *walker) step(s parser.Step, background bool, sourceIndent int, status event.Status) {
	r := w.result(s, background, sourceIndent, status)
	w.show(r)
	w.l.AfterTestStep(r)
}

func (w *walker) show(r *event.StepResult) {
	w.l.BeforeStep()
	w.l.BeforeStepResult(r)
	w.l.StepName(r)
	if r.DocString != nil {
		w.l.DocString(r.DocString)
	}
	if r.Table != nil {
		w.l.BeforeMultilineArg(r.Table)
		for _, cells := range r.Table.Rows {
			w.row(cells, event.MaybeStatus{})
		}
		w.l.AfterMultilineArg()
	}
	w.l.AfterStep()
}

func elementName(name, description string) string {
	if description == "" {
		return name
	}
	var lines []string
	for _, l := range strings.Split(description, "\n") {
		lines = append(lines, strings.TrimSpace(l))
	}
	return name + "\n" + strings.Join(lines, "\n")
}

// sourceIndents returns, for the title line followed by each step, the
// padding that puts every "# file:line" comment in the same column.
func sourceIndents(keyword, name string, steps []parser.Step) []int {
	widths := make([]int, 0, len(steps)+1)
	title := keyword + ":"
	if name != "" {
		title += " " + name
	}
	widths = append(widths, titleMargin+text.Width(title))
	for _, s := range steps {
		widths = append(widths, stepMargin+text.Width(s.Keyword+" "+s.Text))
	}
	longest := 0
	for _, w := range widths {
		if w > longest {
			longest = w
		}
	}
	indents := make([]int, len(widths))
	for i, w := range widths {
		indents[i] = longest - w + 1
	}
	return indents
}
