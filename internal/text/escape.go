package text

import "strings"

// Escaper makes a cell value safe to print between pipe delimiters.
type Escaper interface {
	EscapeCell(value string) string
}

var cellReplacer = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "|", `\|`)

// CellEscaper escapes backslashes, newlines and pipes the way they are
// written in feature files.
type CellEscaper struct{}

func (CellEscaper) EscapeCell(value string) string {
	return cellReplacer.Replace(value)
}
