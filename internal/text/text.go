package text

import (
	"strings"
	"unicode/utf8"
)

// Width returns the number of code points in s.
func Width(s string) int {
	return utf8.RuneCountInString(s)
}

// Pad appends spaces to s until it is width code points wide. Strings
// already at or over width are returned unchanged.
func Pad(s string, width int) string {
	n := width - Width(s)
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}

// Indent prefixes every line of s with n spaces. A negative n removes up
// to -n leading spaces from every line instead. The empty remainder after
// a trailing newline is not treated as a line.
func Indent(s string, n int) string {
	if n == 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	last := len(lines)
	if lines[last-1] == "" {
		last--
	}
	for i := 0; i < last; i++ {
		if n > 0 {
			lines[i] = strings.Repeat(" ", n) + lines[i]
			continue
		}
		trim := 0
		for trim < -n && trim < len(lines[i]) && lines[i][trim] == ' ' {
			trim++
		}
		lines[i] = lines[i][trim:]
	}
	return strings.Join(lines, "\n")
}

// IsBlank reports whether s has content but only whitespace.
func IsBlank(s string) bool {
	return s != "" && strings.TrimSpace(s) == ""
}
