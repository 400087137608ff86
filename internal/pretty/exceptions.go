package pretty

import (
	"strings"

	"github.com/chriserin/ftfmt/internal/event"
	"github.com/chriserin/ftfmt/internal/text"
	"github.com/chriserin/ftfmt/internal/ui"
)

// exceptionSet remembers which exceptions were already printed in the
// current feature.
type exceptionSet struct {
	seen map[*event.Exception]struct{}
}

func (x *exceptionSet) Reset() {
	x.seen = make(map[*event.Exception]struct{})
}

func (x *exceptionSet) Seen(e *event.Exception) bool {
	_, ok := x.seen[e]
	return ok
}

// RecordAndShouldPrint reports whether e is new in this feature and
// records it.
func (x *exceptionSet) RecordAndShouldPrint(e *event.Exception) bool {
	if e == nil {
		return false
	}
	if x.seen == nil {
		x.Reset()
	}
	if x.Seen(e) {
		return false
	}
	x.seen[e] = struct{}{}
	return true
}

// formatException lays out the message, class and backtrace of e. The
// caller decides whether e should be printed at all.
func formatException(e *event.Exception, indent int) string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Class != "" {
		b.WriteString(" (" + e.Class + ")")
	}
	for _, frame := range e.Backtrace {
		b.WriteString("\n" + frame)
	}
	return text.Indent(b.String(), indent)
}

func (f *Formatter) printException(e *event.Exception, status event.Status, indent int) {
	if e == nil {
		return
	}
	f.puts(f.paint.Paint(formatException(e, indent), ui.ForStatus(status)))
}
