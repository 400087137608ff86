package ui

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Painter applies Styles to text. A disabled Painter returns text as is.
type Painter struct {
	enabled  bool
	renderer *lipgloss.Renderer
	styles   map[Style]lipgloss.Style
}

// NewPainter returns a Painter writing styles for w. Whether color is on
// is decided by the caller.
func NewPainter(w io.Writer, enabled bool) *Painter {
	r := lipgloss.NewRenderer(w)
	if enabled {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Painter{
		enabled:  enabled,
		renderer: r,
		styles:   make(map[Style]lipgloss.Style),
	}
}

func (p *Painter) Enabled() bool {
	return p.enabled
}

// Paint styles every line of s separately so multi-line blocks keep
// their layout. Empty lines stay empty.
func (p *Painter) Paint(s string, st Style) string {
	if !p.enabled || s == "" {
		return s
	}
	ls := p.style(st)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = ls.Render(line)
	}
	return strings.Join(lines, "\n")
}

// Reset prefixes s with an SGR reset so s never inherits a color.
func (p *Painter) Reset(s string) string {
	if !p.enabled {
		return s
	}
	return termenv.CSI + termenv.ResetSeq + "m" + s
}

func (p *Painter) style(st Style) lipgloss.Style {
	if ls, ok := p.styles[st]; ok {
		return ls
	}
	ls := p.renderer.NewStyle().TabWidth(lipgloss.NoTabConversion)
	if st.Color != "" {
		ls = ls.Foreground(lipgloss.Color(st.Color))
	}
	if st.Bold {
		ls = ls.Bold(true)
	}
	if st.Faint {
		ls = ls.Faint(true)
	}
	p.styles[st] = ls
	return ls
}

// ColorMode is the user's color preference.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// UseColor resolves a ColorMode for output f: auto means color only on a
// terminal that supports it and when NO_COLOR is unset.
func UseColor(mode ColorMode, f *os.File) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if f == nil || (!isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())) {
		return false
	}
	return termenv.NewOutput(f).Profile != termenv.Ascii
}
