// Package replay reads a recorded event stream and plays it back into an
// event.Listener.
//
// A stream is a YAML (or JSON) list of records. Each record names the
// listener method in snake_case under "event" and carries that method's
// payload, for example
//
//	[{event: feature_name, keyword: Feature, name: Login},
//	 {event: before_step_result,
//	  step: {keyword: Given, text: a user, status: failed,
//	         exception: {id: e1, message: boom, class: RuntimeError}}}]
//
// Exceptions with the same id decode to the same *event.Exception.
package replay

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/chriserin/ftfmt/internal/event"
)

type exceptionRecord struct {
	ID        string   `yaml:"id"`
	Message   string   `yaml:"message"`
	Class     string   `yaml:"class"`
	Backtrace []string `yaml:"backtrace"`
}

type argRecord struct {
	Offset int    `yaml:"offset"`
	Value  string `yaml:"value"`
}

type docRecord struct {
	MediaType string `yaml:"media_type"`
	Content   string `yaml:"content"`
}

type stepRecord struct {
	Keyword       string           `yaml:"keyword"`
	Text          string           `yaml:"text"`
	Pattern       string           `yaml:"pattern"`
	Args          []argRecord      `yaml:"args"`
	MatchLocation string           `yaml:"match_location"`
	Status        string           `yaml:"status"`
	Exception     *exceptionRecord `yaml:"exception"`
	Background    bool             `yaml:"background"`
	Location      string           `yaml:"location"`
	SourceIndent  int              `yaml:"source_indent"`
	DocString     *docRecord       `yaml:"doc_string"`
	Table         [][]string       `yaml:"table"`
}

type rowRecord struct {
	Cells     []string         `yaml:"cells"`
	Status    string           `yaml:"status"`
	Exception *exceptionRecord `yaml:"exception"`
}

type record struct {
	Event        string           `yaml:"event"`
	Keyword      string           `yaml:"keyword"`
	Name         string           `yaml:"name"`
	Text         string           `yaml:"text"`
	Location     string           `yaml:"location"`
	SourceIndent int              `yaml:"source_indent"`
	Step         *stepRecord      `yaml:"step"`
	Table        [][]string       `yaml:"table"`
	DocString    *docRecord       `yaml:"doc_string"`
	Row          *rowRecord       `yaml:"row"`
	Value        string           `yaml:"value"`
	Status       string           `yaml:"status"`
	Exception    *exceptionRecord `yaml:"exception"`
	Messages     []string         `yaml:"messages"`
}

// Stream is a decoded event stream ready to be played.
type Stream struct {
	calls []func(event.Listener)
}

// Len returns the number of events in the stream.
func (s *Stream) Len() int {
	return len(s.calls)
}

// Play sends every event to l in order.
func (s *Stream) Play(l event.Listener) {
	for _, call := range s.calls {
		call(l)
	}
}

// Load decodes a whole stream. Nothing is played if any record is
// invalid.
func Load(r io.Reader) (*Stream, error) {
	var records []record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return &Stream{}, nil
		}
		return nil, fmt.Errorf("decoding event stream: %w", err)
	}

	d := &decoder{exceptions: make(map[string]*event.Exception)}
	s := &Stream{calls: make([]func(event.Listener), 0, len(records))}
	for i := range records {
		call, err := d.call(&records[i])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		s.calls = append(s.calls, call)
	}
	return s, nil
}

// Replay loads a stream from r and plays it into l.
func Replay(r io.Reader, l event.Listener) error {
	s, err := Load(r)
	if err != nil {
		return err
	}
	s.Play(l)
	return nil
}

type decoder struct {
	exceptions map[string]*event.Exception
}

func (d *decoder) exception(rec *exceptionRecord) *event.Exception {
	if rec == nil {
		return nil
	}
	if rec.ID != "" {
		if e, ok := d.exceptions[rec.ID]; ok {
			return e
		}
	}
	e := &event.Exception{Message: rec.Message, Class: rec.Class, Backtrace: rec.Backtrace}
	if rec.ID != "" {
		d.exceptions[rec.ID] = e
	}
	return e
}

func maybeStatus(name string) event.MaybeStatus {
	if name == "" {
		return event.MaybeStatus{}
	}
	return event.Known(event.ParseStatus(name))
}

func table(rows [][]string) *event.Table {
	if rows == nil {
		return nil
	}
	return &event.Table{Rows: rows}
}

func docString(rec *docRecord) *event.DocString {
	if rec == nil {
		return nil
	}
	return &event.DocString{MediaType: rec.MediaType, Content: rec.Content}
}

func (d *decoder) header(rec *record) event.ElementHeader {
	return event.ElementHeader{
		Keyword:      rec.Keyword,
		Name:         rec.Name,
		Location:     event.ParseLocation(rec.Location),
		SourceIndent: rec.SourceIndent,
	}
}

func (d *decoder) step(rec *record) (*event.StepResult, error) {
	s := rec.Step
	if s == nil {
		return nil, fmt.Errorf("%s: missing step", rec.Event)
	}
	r := &event.StepResult{
		Keyword: s.Keyword,
		Match: event.StepMatch{
			Text:    s.Text,
			Pattern: s.Pattern,
		},
		Status:       event.ParseStatus(s.Status),
		Exception:    d.exception(s.Exception),
		Background:   s.Background,
		SourceIndent: s.SourceIndent,
		DocString:    docString(s.DocString),
		Table:        table(s.Table),
	}
	if s.MatchLocation != "" {
		r.Match.Location = event.ParseLocation(s.MatchLocation)
	}
	if s.Location != "" {
		r.Location = event.ParseLocation(s.Location)
	}
	for _, a := range s.Args {
		r.Match.Args = append(r.Match.Args, event.Argument{Offset: a.Offset, Value: a.Value})
	}
	return r, nil
}

func (d *decoder) row(rec *record) *event.TableRow {
	if rec.Row == nil {
		return &event.TableRow{}
	}
	return &event.TableRow{
		Cells:     rec.Row.Cells,
		Status:    maybeStatus(rec.Row.Status),
		Exception: d.exception(rec.Row.Exception),
	}
}

func (d *decoder) call(rec *record) (func(event.Listener), error) {
	switch rec.Event {
	case "before_features":
		return event.Listener.BeforeFeatures, nil
	case "after_features":
		return event.Listener.AfterFeatures, nil
	case "before_feature":
		return event.Listener.BeforeFeature, nil
	case "after_feature":
		return event.Listener.AfterFeature, nil
	case "comment_line":
		return func(l event.Listener) { l.CommentLine(rec.Text) }, nil
	case "tag_name":
		return func(l event.Listener) { l.TagName(rec.Name) }, nil
	case "after_tags":
		return event.Listener.AfterTags, nil
	case "feature_name":
		return func(l event.Listener) { l.FeatureName(rec.Keyword, rec.Name) }, nil

	case "before_background":
		return event.Listener.BeforeBackground, nil
	case "background_name":
		h := d.header(rec)
		return func(l event.Listener) { l.BackgroundName(h) }, nil
	case "after_background":
		return event.Listener.AfterBackground, nil
	case "before_feature_element":
		return event.Listener.BeforeFeatureElement, nil
	case "scenario_name":
		h := d.header(rec)
		return func(l event.Listener) { l.ScenarioName(h) }, nil
	case "after_feature_element":
		return event.Listener.AfterFeatureElement, nil

	case "before_examples_array":
		return event.Listener.BeforeExamplesArray, nil
	case "examples_name":
		return func(l event.Listener) { l.ExamplesName(rec.Keyword, rec.Name) }, nil
	case "before_outline_table":
		t := table(rec.Table)
		return func(l event.Listener) { l.BeforeOutlineTable(t) }, nil
	case "after_outline_table":
		return event.Listener.AfterOutlineTable, nil

	case "before_test_case":
		return event.Listener.BeforeTestCase, nil
	case "before_step":
		return event.Listener.BeforeStep, nil
	case "before_step_result", "step_name", "after_test_step":
		r, err := d.step(rec)
		if err != nil {
			return nil, err
		}
		switch rec.Event {
		case "before_step_result":
			return func(l event.Listener) { l.BeforeStepResult(r) }, nil
		case "step_name":
			return func(l event.Listener) { l.StepName(r) }, nil
		}
		return func(l event.Listener) { l.AfterTestStep(r) }, nil
	case "doc_string":
		ds := docString(rec.DocString)
		if ds == nil {
			return nil, fmt.Errorf("doc_string: missing doc_string")
		}
		return func(l event.Listener) { l.DocString(ds) }, nil
	case "exception":
		e := d.exception(rec.Exception)
		if e == nil {
			return nil, fmt.Errorf("exception: missing exception")
		}
		status := event.ParseStatus(rec.Status)
		return func(l event.Listener) { l.Exception(e, status) }, nil
	case "after_step":
		return event.Listener.AfterStep, nil

	case "before_multiline_arg":
		t := table(rec.Table)
		return func(l event.Listener) { l.BeforeMultilineArg(t) }, nil
	case "after_multiline_arg":
		return event.Listener.AfterMultilineArg, nil
	case "before_table_row":
		row := d.row(rec)
		return func(l event.Listener) { l.BeforeTableRow(row) }, nil
	case "table_cell_value":
		status := maybeStatus(rec.Status)
		return func(l event.Listener) { l.TableCellValue(rec.Value, status) }, nil
	case "after_table_row":
		row := d.row(rec)
		return func(l event.Listener) { l.AfterTableRow(row) }, nil

	case "puts":
		return func(l event.Listener) { l.Puts(rec.Messages...) }, nil
	case "":
		return nil, fmt.Errorf("missing event name")
	}
	return nil, fmt.Errorf("unknown event %q", rec.Event)
}
