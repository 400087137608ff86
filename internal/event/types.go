package event

import (
	"fmt"
	"strings"
)

// Location points at a line in a source file.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	if l.Line == 0 {
		return l.File
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// ParseLocation reads a "file:line" string. A missing or malformed line
// number leaves Line at zero.
func ParseLocation(s string) Location {
	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return Location{File: s}
	}
	var line int
	if _, err := fmt.Sscanf(s[idx+1:], "%d", &line); err != nil {
		return Location{File: s}
	}
	return Location{File: s[:idx], Line: line}
}

// Exception is an error raised by a step. Exceptions are compared by
// pointer identity: two exceptions with the same message are still
// different occurrences.
type Exception struct {
	Message   string
	Class     string
	Backtrace []string
}

func (e *Exception) Error() string {
	if e.Class == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Class)
}

// Argument is a captured group of a step match.
type Argument struct {
	Offset int // byte offset into the step text
	Value  string
}

// StepMatch is the step text as matched by a step definition.
type StepMatch struct {
	Text     string
	Pattern  string
	Args     []Argument
	Location Location // of the step definition, empty when undefined
}

// ElementHeader describes the title line of a background, scenario or
// scenario outline.
type ElementHeader struct {
	Keyword      string
	Name         string
	Location     Location
	SourceIndent int
}

// StepResult is what the engine knows about a step once it has run.
// Listeners must not keep it beyond the callback.
type StepResult struct {
	Keyword      string
	Match        StepMatch
	Status       Status
	Exception    *Exception
	Background   bool
	Location     Location // of the step in the feature file
	SourceIndent int
	DocString    *DocString
	Table        *Table
}

// DocString is a free-form multi-line step argument.
type DocString struct {
	MediaType string
	Content   string
}

// Table is a step argument table or an examples table. The first row is
// the header.
type Table struct {
	Rows [][]string
}

// TableRow is the per-row payload of a table. Examples rows carry the
// status and exception of the scenario they were run as.
type TableRow struct {
	Cells     []string
	Status    MaybeStatus
	Exception *Exception
}
