// Package summary accumulates per-step results for the end-of-run
// statistics and the list of steps that still need step definitions.
package summary

import (
	"strings"
	"time"

	"github.com/chriserin/ftfmt/internal/event"
)

// Scenario identifies the test case a step ran in.
type Scenario struct {
	Keyword  string
	Name     string
	Location event.Location
}

// Entry is one completed step.
type Entry struct {
	Scenario Scenario
	Keyword  string // concrete keyword, And/But resolved
	Text     string
	Pattern  string
	Status   event.Status
	Location event.Location
}

// SnippetInput is what a snippet generator needs for an undefined step.
type SnippetInput struct {
	Keyword   string
	Text      string
	Location  event.Location
	DocString bool
	Table     bool
}

// ScenarioResult is the worst step status seen in a test case.
type ScenarioResult struct {
	Scenario Scenario
	Status   event.Status
}

// Summary is everything collected during a run.
type Summary struct {
	Entries   []Entry
	Steps     map[event.Status]int
	Scenarios []ScenarioResult
	Snippets  []SnippetInput
	Duration  time.Duration
}

// StepCount returns the number of steps collected.
func (s *Summary) StepCount() int {
	return len(s.Entries)
}

// ScenarioCounts tallies scenarios by status.
func (s *Summary) ScenarioCounts() map[event.Status]int {
	counts := make(map[event.Status]int)
	for _, sc := range s.Scenarios {
		counts[sc.Status]++
	}
	return counts
}

// WithStatus returns the scenarios that ended with status.
func (s *Summary) WithStatus(status event.Status) []Scenario {
	var out []Scenario
	for _, sc := range s.Scenarios {
		if sc.Status == status {
			out = append(out, sc.Scenario)
		}
	}
	return out
}

// severity orders statuses for deciding a scenario's overall status.
var severity = map[event.Status]int{
	event.Unknown:   0,
	event.Passed:    1,
	event.Skipped:   2,
	event.Pending:   3,
	event.Undefined: 4,
	event.Failed:    5,
}

// Collector accumulates step results. It does no validation.
type Collector struct {
	entries     []Entry
	counts      map[event.Status]int
	scenarios   []ScenarioResult
	snippets    []SnippetInput
	seen        map[string]bool
	current     int
	prevKeyword string
}

func NewCollector() *Collector {
	c := &Collector{}
	c.reset()
	return c
}

func (c *Collector) reset() {
	c.entries = nil
	c.counts = make(map[event.Status]int)
	c.scenarios = nil
	c.snippets = nil
	c.seen = make(map[string]bool)
	c.current = -1
	c.prevKeyword = ""
}

// BeginTestCase starts a new test case: the next step opens a new
// scenario result and And/But keywords stop resolving to the previous
// test case's keyword.
func (c *Collector) BeginTestCase() {
	c.current = -1
	c.prevKeyword = ""
}

// Add records a completed step.
func (c *Collector) Add(sc Scenario, r *event.StepResult) {
	if r == nil {
		return
	}
	if c.current < 0 || c.scenarios[c.current].Scenario.Name != sc.Name {
		c.scenarios = append(c.scenarios, ScenarioResult{Scenario: sc, Status: event.Unknown})
		c.current = len(c.scenarios) - 1
	}
	if severity[r.Status] > severity[c.scenarios[c.current].Status] {
		c.scenarios[c.current].Status = r.Status
	}

	keyword := c.actualKeyword(r.Keyword)
	c.entries = append(c.entries, Entry{
		Scenario: sc,
		Keyword:  keyword,
		Text:     r.Match.Text,
		Pattern:  r.Match.Pattern,
		Status:   r.Status,
		Location: r.Location,
	})
	c.counts[r.Status]++

	if r.Status == event.Undefined {
		key := keyword + " " + r.Match.Text
		if !c.seen[key] {
			c.seen[key] = true
			c.snippets = append(c.snippets, SnippetInput{
				Keyword:   keyword,
				Text:      r.Match.Text,
				Location:  r.Location,
				DocString: r.DocString != nil,
				Table:     r.Table != nil,
			})
		}
	}
}

// actualKeyword resolves conjunction keywords to the last concrete one.
func (c *Collector) actualKeyword(keyword string) string {
	keyword = strings.TrimSpace(keyword)
	switch keyword {
	case "And", "But", "*":
		if c.prevKeyword != "" {
			return c.prevKeyword
		}
		return keyword
	}
	c.prevKeyword = keyword
	return keyword
}

// Drain returns the collected summary and empties the collector.
func (c *Collector) Drain() *Summary {
	s := &Summary{
		Entries:   c.entries,
		Steps:     c.counts,
		Scenarios: c.scenarios,
		Snippets:  c.snippets,
	}
	c.reset()
	return s
}
