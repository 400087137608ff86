package parser

import (
	"strings"
)

// ExampleRun is one examples row of a scenario outline, with every
// <placeholder> replaced by the row's value.
type ExampleRun struct {
	Examples *Examples
	Row      []string
	Name     string
	Steps    []Step
}

// Expand turns a scenario outline into the concrete runs its examples
// describe. A plain scenario expands to nothing.
func Expand(s *Scenario) []ExampleRun {
	if !s.Outline {
		return nil
	}
	var runs []ExampleRun
	for i := range s.Examples {
		ex := &s.Examples[i]
		if ex.Table == nil {
			continue
		}
		header := ex.Table.HeaderRow
		for _, row := range ex.Table.Rows {
			run := ExampleRun{
				Examples: ex,
				Row:      row,
				Name:     substitute(s.Name, header, row),
			}
			for _, step := range s.Steps {
				run.Steps = append(run.Steps, substituteStep(step, header, row))
			}
			runs = append(runs, run)
		}
	}
	return runs
}

func substituteStep(step Step, header, row []string) Step {
	out := step
	out.Text = substitute(step.Text, header, row)
	if step.Argument == nil {
		return out
	}
	arg := &StepArgument{}
	if ds := step.Argument.DocString; ds != nil {
		arg.DocString = &DocString{
			MediaType: ds.MediaType,
			Content:   substitute(ds.Content, header, row),
		}
	}
	if dt := step.Argument.DataTable; dt != nil {
		arg.DataTable = &DataTable{HeaderRow: substituteAll(dt.HeaderRow, header, row)}
		for _, r := range dt.Rows {
			arg.DataTable.Rows = append(arg.DataTable.Rows, substituteAll(r, header, row))
		}
	}
	out.Argument = arg
	return out
}

func substituteAll(cells, header, row []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = substitute(c, header, row)
	}
	return out
}

// substitute replaces <name> with the value of column name. Placeholders
// without a matching column are left as they are.
func substitute(text string, header, row []string) string {
	if !strings.Contains(text, "<") {
		return text
	}
	pairs := make([]string, 0, 2*len(header))
	for i, name := range header {
		if i >= len(row) {
			break
		}
		pairs = append(pairs, "<"+name+">", row[i])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
