package ui

import "github.com/chriserin/ftfmt/internal/event"

// Style describes how a piece of report text is decorated. Colors are
// ANSI color numbers understood by lipgloss.
type Style struct {
	Color string
	Bold  bool
	Faint bool
}

var (
	Comment = Style{Color: "8"}
	Tag     = Style{Color: "6"}
)

var statusStyles = map[event.Status]Style{
	event.Passed:    {Color: "2"},
	event.Failed:    {Color: "1"},
	event.Skipped:   {Color: "6"},
	event.Undefined: {Color: "3"},
	event.Pending:   {Color: "3"},
	event.Unknown:   {Faint: true},
}

// ForStatus returns the style a status is rendered in.
func ForStatus(s event.Status) Style {
	if st, ok := statusStyles[s]; ok {
		return st
	}
	return statusStyles[event.Unknown]
}

// ForParam returns the style of a matched step argument: the status
// color, in bold.
func ForParam(s event.Status) Style {
	st := ForStatus(s)
	st.Bold = true
	return st
}

// Prefixes maps a status to a short marker printed before table cells,
// e.g. for colorblind-friendly output.
type Prefixes map[event.Status]string

// For returns the marker for s, or "" when none is configured.
func (p Prefixes) For(s event.Status) string {
	return p[s]
}

// ParsePrefixes converts a status-name keyed map, as read from config.
// Unrecognised names are ignored.
func ParsePrefixes(raw map[string]string) Prefixes {
	p := make(Prefixes, len(raw))
	for name, marker := range raw {
		s := event.ParseStatus(name)
		if s == event.Unknown && name != event.Unknown.String() {
			continue
		}
		p[s] = marker
	}
	return p
}
