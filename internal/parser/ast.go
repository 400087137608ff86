package parser

import "fmt"

// Layer 1: Gherkin AST types

type Document struct {
	Feature *Feature
}

type Feature struct {
	Header     FeatureHeader
	Background *Background
	Scenarios  []ScenarioDefinition
}

type FeatureHeader struct {
	Comments    []string // comment lines above the feature, verbatim
	Tags        []Tag
	Keyword     string
	Name        string
	Description string
	Line        int
}

type Background struct {
	Keyword     string
	Name        string
	Description string
	Line        int
	Steps       []Step
}

type ScenarioDefinition struct {
	Tags     []Tag
	Scenario Scenario
	Line     int // 1-based line number of Scenario: line
}

type Scenario struct {
	Keyword     string // Scenario or Scenario Outline
	Name        string
	Description string
	Steps       []Step
	Outline     bool
	Examples    []Examples
}

type Examples struct {
	Tags    []Tag
	Keyword string
	Name    string
	Line    int
	Table   *DataTable
}

type Tag struct {
	Name string // e.g. "@smoke", "@ft:42"
}

type Step struct {
	Keyword  string // Given, When, Then, And, But, *
	Text     string
	Line     int
	Argument *StepArgument
}

type StepArgument struct {
	DocString *DocString
	DataTable *DataTable
}

type DocString struct {
	MediaType string
	Content   string
}

type DataTable struct {
	HeaderRow []string
	Rows      [][]string
}

// AllRows returns the header followed by the body rows.
func (t *DataTable) AllRows() [][]string {
	if t == nil {
		return nil
	}
	rows := make([][]string, 0, len(t.Rows)+1)
	rows = append(rows, t.HeaderRow)
	return append(rows, t.Rows...)
}

type ParseError struct {
	Line    int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}
