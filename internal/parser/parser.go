package parser

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`@[^@\s]+`)

var stepKeywords = []string{"Given", "When", "Then", "And", "But", "*"}

type parser struct {
	lines  []string
	errors []ParseError
}

func (p *parser) fail(line int, msg string) {
	p.errors = append(p.errors, ParseError{Line: line, Message: msg})
}

// Parse parses a .ft file and returns a Document AST and any parse errors.
func Parse(filename string, content []byte) (*Document, []ParseError) {
	p := &parser{lines: strings.Split(string(content), "\n")}
	lines := p.lines

	doc := &Document{}
	feature := &Feature{}
	doc.Feature = feature

	i := 0

	// Skip leading blanks, keep comments
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			i++
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			feature.Header.Comments = append(feature.Header.Comments, trimmed)
			i++
			continue
		}
		break
	}

	// Collect feature-level tags
	var featureTags []Tag
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if isTagLine(trimmed) {
			featureTags = append(featureTags, parseTags(trimmed)...)
			i++
			continue
		}
		break
	}
	feature.Header.Tags = featureTags
	feature.Header.Keyword = "Feature"

	// Look for Feature: line
	if i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "Feature:") {
		trimmed := strings.TrimSpace(lines[i])
		feature.Header.Name = strings.TrimSpace(strings.TrimPrefix(trimmed, "Feature:"))
		feature.Header.Line = i + 1
		i++
		var desc []string
		desc, i = scanDescription(lines, i)
		feature.Header.Description = strings.Join(desc, "\n")
	} else {
		// No Feature: line, use filename without extension
		feature.Header.Name = filenameWithoutExt(filename)
	}

	// Body loop
	var pendingTags []Tag
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])

		// Skip stray doc strings
		if isDocStringDelimiter(trimmed) {
			i = skipDocString(lines, i)
			continue
		}

		// Skip blank lines and comments in body
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			i++
			continue
		}

		// Tag line
		if isTagLine(trimmed) {
			pendingTags = append(pendingTags, parseTags(trimmed)...)
			i++
			continue
		}

		// Background:
		if strings.HasPrefix(trimmed, "Background:") {
			pendingTags = nil // Background doesn't get tags
			if feature.Background != nil {
				p.fail(i+1, "only one Background is allowed")
			}
			bg := &Background{
				Keyword: "Background",
				Name:    strings.TrimSpace(strings.TrimPrefix(trimmed, "Background:")),
				Line:    i + 1,
			}
			i++
			bg.Description, bg.Steps, i = p.parseSteps(i)
			feature.Background = bg
			continue
		}

		// Scenario: and Scenario Outline:
		if kw, ok := scenarioKeyword(trimmed); ok {
			sd := ScenarioDefinition{
				Tags: pendingTags,
				Scenario: Scenario{
					Keyword: kw,
					Name:    strings.TrimSpace(strings.TrimPrefix(trimmed, kw+":")),
					Outline: kw == "Scenario Outline",
				},
				Line: i + 1,
			}
			pendingTags = nil
			i++
			sd.Scenario.Description, sd.Scenario.Steps, i = p.parseSteps(i)
			if sd.Scenario.Outline {
				sd.Scenario.Examples, i = p.parseExamples(i)
			}
			feature.Scenarios = append(feature.Scenarios, sd)
			continue
		}

		// Unsupported keywords
		if strings.HasPrefix(trimmed, "Rule:") {
			p.fail(i+1, "Rule is not supported")
			i++
			i = consumeBlock(lines, i)
			continue
		}
		if strings.HasPrefix(trimmed, "Examples:") {
			p.fail(i+1, "Examples without Scenario Outline")
			i++
			i = consumeBlock(lines, i)
			continue
		}

		p.fail(i+1, "unexpected line: "+trimmed)
		i++
	}

	return doc, p.errors
}

// parseSteps reads the description and steps of a background or scenario,
// starting right after its title line.
func (p *parser) parseSteps(i int) (string, []Step, int) {
	lines := p.lines
	var desc []string
	desc, i = scanDescription(lines, i)

	var steps []Step
	for i < len(lines) {
		t := strings.TrimSpace(lines[i])
		if t == "" || strings.HasPrefix(t, "#") {
			i++
			continue
		}
		if isKeyword(t) || isTagLine(t) {
			break
		}
		kw, text, ok := splitStep(t)
		if !ok {
			if isDocStringDelimiter(t) {
				p.fail(i+1, "doc string without a step")
				i = skipDocString(lines, i)
				continue
			}
			p.fail(i+1, "unexpected line: "+t)
			i++
			continue
		}
		step := Step{Keyword: kw, Text: text, Line: i + 1}
		i++
		step.Argument, i = p.parseArgument(i)
		steps = append(steps, step)
	}
	return strings.Join(desc, "\n"), steps, i
}

// parseArgument reads a doc string or data table directly below a step.
func (p *parser) parseArgument(i int) (*StepArgument, int) {
	lines := p.lines
	j := i
	for j < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[j]), "#") {
		j++
	}
	if j >= len(lines) {
		return nil, i
	}
	t := strings.TrimSpace(lines[j])
	switch {
	case isDocStringDelimiter(t):
		ds, next := p.parseDocString(j)
		return &StepArgument{DocString: ds}, next
	case isTableLine(t):
		dt, next := p.parseTable(j)
		return &StepArgument{DataTable: dt}, next
	}
	return nil, i
}

// parseDocString reads a doc string. i points at the opening delimiter.
// Content lines lose as much indentation as the delimiter has.
func (p *parser) parseDocString(i int) (*DocString, int) {
	lines := p.lines
	opener := lines[i]
	trimmed := strings.TrimSpace(opener)
	delimiter := `"""`
	if strings.HasPrefix(trimmed, "```") {
		delimiter = "```"
	}
	margin := len(opener) - len(strings.TrimLeft(opener, " \t"))
	ds := &DocString{MediaType: strings.TrimSpace(strings.TrimPrefix(trimmed, delimiter))}

	var content []string
	for j := i + 1; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == delimiter {
			ds.Content = strings.Join(content, "\n")
			return ds, j + 1
		}
		content = append(content, stripMargin(lines[j], margin))
	}
	p.fail(i+1, "unterminated doc string")
	ds.Content = strings.Join(content, "\n")
	return ds, len(lines)
}

// parseTable reads consecutive table rows starting at i.
func (p *parser) parseTable(i int) (*DataTable, int) {
	lines := p.lines
	dt := &DataTable{}
	first := true
	for i < len(lines) {
		t := strings.TrimSpace(lines[i])
		if strings.HasPrefix(t, "#") {
			i++
			continue
		}
		if !isTableLine(t) {
			break
		}
		cells := parseRow(t)
		if first {
			dt.HeaderRow = cells
			first = false
		} else {
			if len(cells) != len(dt.HeaderRow) {
				p.fail(i+1, "inconsistent cell count")
			}
			dt.Rows = append(dt.Rows, cells)
		}
		i++
	}
	return dt, i
}

// parseExamples reads the Examples blocks following an outline's steps.
func (p *parser) parseExamples(i int) ([]Examples, int) {
	lines := p.lines
	var all []Examples
	for i < len(lines) {
		start := i
		var tags []Tag
		for i < len(lines) {
			t := strings.TrimSpace(lines[i])
			if t == "" || strings.HasPrefix(t, "#") {
				i++
				continue
			}
			if isTagLine(t) {
				tags = append(tags, parseTags(t)...)
				i++
				continue
			}
			break
		}
		if i >= len(lines) || !strings.HasPrefix(strings.TrimSpace(lines[i]), "Examples:") {
			// Tags belong to whatever comes next
			return all, start
		}
		t := strings.TrimSpace(lines[i])
		ex := Examples{
			Tags:    tags,
			Keyword: "Examples",
			Name:    strings.TrimSpace(strings.TrimPrefix(t, "Examples:")),
			Line:    i + 1,
		}
		i++
		_, i = scanDescription(lines, i)
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			i++
		}
		if i < len(lines) && isTableLine(strings.TrimSpace(lines[i])) {
			ex.Table, i = p.parseTable(i)
		} else {
			p.fail(ex.Line, "Examples without a table")
		}
		all = append(all, ex)
	}
	return all, i
}

// scanDescription collects free text lines up to the first step, keyword,
// tag or table. Surrounding blank lines are dropped.
func scanDescription(lines []string, i int) ([]string, int) {
	var desc []string
	for i < len(lines) {
		t := strings.TrimSpace(lines[i])
		if isKeyword(t) || isTagLine(t) || isTableLine(t) || isDocStringDelimiter(t) || strings.HasPrefix(t, "#") {
			break
		}
		if _, _, ok := splitStep(t); ok {
			break
		}
		desc = append(desc, strings.TrimRight(lines[i], " \t"))
		i++
	}
	for len(desc) > 0 && desc[0] == "" {
		desc = desc[1:]
	}
	for len(desc) > 0 && desc[len(desc)-1] == "" {
		desc = desc[:len(desc)-1]
	}
	return desc, i
}

func scenarioKeyword(trimmed string) (string, bool) {
	switch {
	case strings.HasPrefix(trimmed, "Scenario Outline:"):
		return "Scenario Outline", true
	case strings.HasPrefix(trimmed, "Scenario:"):
		return "Scenario", true
	}
	return "", false
}

// splitStep splits a step line into keyword and text.
func splitStep(trimmed string) (string, string, bool) {
	for _, kw := range stepKeywords {
		rest, ok := strings.CutPrefix(trimmed, kw)
		if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		return kw, strings.TrimSpace(rest), true
	}
	return "", "", false
}

// parseRow splits a table line into cells, undoing the \|, \\ and \n
// escapes.
func parseRow(trimmed string) []string {
	body := strings.TrimPrefix(trimmed, "|")
	var cells []string
	var cell strings.Builder
	for j := 0; j < len(body); j++ {
		c := body[j]
		switch {
		case c == '\\' && j+1 < len(body):
			j++
			switch body[j] {
			case 'n':
				cell.WriteByte('\n')
			case '|', '\\':
				cell.WriteByte(body[j])
			default:
				cell.WriteByte('\\')
				cell.WriteByte(body[j])
			}
		case c == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(c)
		}
	}
	return cells
}

func stripMargin(line string, margin int) string {
	n := 0
	for n < margin && n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return line[n:]
}

func filenameWithoutExt(filename string) string {
	name := filename
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}

func parseTags(line string) []Tag {
	matches := tagPattern.FindAllString(line, -1)
	var tags []Tag
	for _, m := range matches {
		tags = append(tags, Tag{Name: m})
	}
	return tags
}

func isTagLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "@")
}

func isTableLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "|")
}

func isKeyword(trimmed string) bool {
	return strings.HasPrefix(trimmed, "Feature:") ||
		strings.HasPrefix(trimmed, "Background:") ||
		strings.HasPrefix(trimmed, "Scenario:") ||
		strings.HasPrefix(trimmed, "Scenario Outline:") ||
		strings.HasPrefix(trimmed, "Rule:") ||
		strings.HasPrefix(trimmed, "Examples:")
}

func isDocStringDelimiter(trimmed string) bool {
	return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "```")
}

// skipDocString advances past a doc string block. i points at the opening delimiter.
// Returns the index of the line after the closing delimiter.
func skipDocString(lines []string, i int) int {
	opener := strings.TrimSpace(lines[i])
	delimiter := `"""`
	if strings.HasPrefix(opener, "```") {
		delimiter = "```"
	}
	i++ // move past opening delimiter
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == delimiter {
			return i + 1 // past the closing delimiter
		}
		i++
	}
	return i // EOF without closing delimiter
}

// consumeBlock advances past content lines, skipping over doc strings,
// until the next keyword, tag line, or EOF.
func consumeBlock(lines []string, i int) int {
	for i < len(lines) {
		t := strings.TrimSpace(lines[i])
		if isDocStringDelimiter(t) {
			i = skipDocString(lines, i)
			continue
		}
		if isKeyword(t) || isTagLine(t) {
			break
		}
		i++
	}
	return i
}
