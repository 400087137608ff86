package replay

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftfmt/internal/event"
	"github.com/chriserin/ftfmt/internal/pretty"
)

// exceptionCatcher only implements the events the identity tests send.
type exceptionCatcher struct {
	event.Listener
	steps []*event.StepResult
	rows  []*event.TableRow
}

func (c *exceptionCatcher) BeforeStepResult(r *event.StepResult) { c.steps = append(c.steps, r) }
func (c *exceptionCatcher) AfterTableRow(row *event.TableRow)    { c.rows = append(c.rows, row) }

const loginStream = `
- event: before_features
- event: before_feature
- event: tag_name
  name: "@auth"
- event: after_tags
- event: feature_name
  keyword: Feature
  name: Login
- event: before_feature_element
- event: before_test_case
- event: scenario_name
  keyword: Scenario
  name: User logs in
  location: login.ft:3
- event: before_step
- event: before_step_result
  step: {keyword: Given, text: a user, status: passed}
- event: step_name
  step: {keyword: Given, text: a user, status: passed}
- event: after_step
- event: after_test_step
  step: {keyword: Given, text: a user, status: passed}
- event: after_feature_element
- event: after_feature
- event: after_features
`

func TestReplay_RendersThroughFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := pretty.New(&buf, pretty.Options{})

	err := Replay(strings.NewReader(loginStream), f)
	require.NoError(t, err)
	require.NoError(t, f.Err())

	assert.Equal(t, "@auth\nFeature: Login\n\n  Scenario: User logs in\n    Given a user\n\n", buf.String())
}

func TestLoad_CountsEvents(t *testing.T) {
	s, err := Load(strings.NewReader(loginStream))
	require.NoError(t, err)
	assert.Equal(t, 16, s.Len())
}

func TestLoad_AcceptsJSON(t *testing.T) {
	stream := `[{"event": "before_feature"}, {"event": "feature_name", "keyword": "Feature", "name": "JSON"}]`
	var buf bytes.Buffer
	f := pretty.New(&buf, pretty.Options{})

	require.NoError(t, Replay(strings.NewReader(stream), f))
	assert.Equal(t, "Feature: JSON\n\n", buf.String())
}

func TestLoad_EmptyStream(t *testing.T) {
	s, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestLoad_SameIDSameException(t *testing.T) {
	stream := `
- event: before_step_result
  step:
    keyword: Given
    text: it breaks
    status: failed
    exception: {id: e1, message: boom, class: RuntimeError, backtrace: ["steps.rb:3"]}
- event: after_table_row
  row:
    cells: ["1"]
    status: failed
    exception: {id: e1}
- event: after_table_row
  row:
    cells: ["2"]
    exception: {message: boom}
`
	c := &exceptionCatcher{}
	require.NoError(t, Replay(strings.NewReader(stream), c))

	require.Len(t, c.steps, 1)
	require.Len(t, c.rows, 2)
	e := c.steps[0].Exception
	require.NotNil(t, e)
	assert.Equal(t, "boom", e.Message)
	assert.Equal(t, []string{"steps.rb:3"}, e.Backtrace)
	assert.Same(t, e, c.rows[0].Exception)
	assert.NotSame(t, e, c.rows[1].Exception)
	assert.Equal(t, event.Known(event.Failed), c.rows[0].Status)
	assert.False(t, c.rows[1].Status.Valid)
}

func TestLoad_StepFields(t *testing.T) {
	stream := `
- event: before_step_result
  step:
    keyword: "Given "
    text: I have 42 cukes
    pattern: I have (\d+) cukes
    args: [{offset: 7, value: "42"}]
    match_location: steps/cukes.go:10
    location: cukes.ft:4
    source_indent: 3
    status: undefined
    background: true
    doc_string: {media_type: json, content: "{}"}
    table: [[a, b], ["1", "2"]]
`
	c := &exceptionCatcher{}
	require.NoError(t, Replay(strings.NewReader(stream), c))

	require.Len(t, c.steps, 1)
	r := c.steps[0]
	assert.Equal(t, "Given ", r.Keyword)
	assert.Equal(t, event.Undefined, r.Status)
	assert.True(t, r.Background)
	assert.Equal(t, []event.Argument{{Offset: 7, Value: "42"}}, r.Match.Args)
	assert.Equal(t, event.Location{File: "steps/cukes.go", Line: 10}, r.Match.Location)
	assert.Equal(t, event.Location{File: "cukes.ft", Line: 4}, r.Location)
	assert.Equal(t, 3, r.SourceIndent)
	assert.Equal(t, &event.DocString{MediaType: "json", Content: "{}"}, r.DocString)
	assert.Equal(t, &event.Table{Rows: [][]string{{"a", "b"}, {"1", "2"}}}, r.Table)
	assert.Nil(t, r.Exception)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		stream string
		err    string
	}{
		{"unknown event", "- event: before_feature\n- event: launch_rockets\n", `record 1: unknown event "launch_rockets"`},
		{"missing name", "- name: nothing\n", "record 0: missing event name"},
		{"missing step", "- event: step_name\n", "record 0: step_name: missing step"},
		{"missing exception", "- event: exception\n  status: failed\n", "record 0: exception: missing exception"},
		{"not a list", "event: before_feature\n", "decoding event stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.stream))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestReplay_InvalidStreamRendersNothing(t *testing.T) {
	var buf bytes.Buffer
	f := pretty.New(&buf, pretty.Options{})

	err := Replay(strings.NewReader("- event: before_feature\n- event: feature_name\n  keyword: Feature\n  name: x\n- event: bogus\n"), f)
	require.Error(t, err)
	assert.Empty(t, buf.String())
}
