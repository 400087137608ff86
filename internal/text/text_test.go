package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWidth_CountsCodePoints(t *testing.T) {
	assert.Equal(t, 0, Width(""))
	assert.Equal(t, 3, Width("abc"))
	assert.Equal(t, 8, Width("Büsingen"))
	assert.Equal(t, 2, Width("日本"))
}

func TestPad_AppendsSpaces(t *testing.T) {
	assert.Equal(t, "ab  ", Pad("ab", 4))
	assert.Equal(t, "    ", Pad("", 4))
	assert.Equal(t, "Straße ", Pad("Straße", 7))
}

func TestPad_NeverTruncates(t *testing.T) {
	assert.Equal(t, "abcdef", Pad("abcdef", 3))
	assert.Equal(t, "日本語", Pad("日本語", 2))
}

func TestIndent_Positive(t *testing.T) {
	assert.Equal(t, "  a\n  b", Indent("a\nb", 2))
	assert.Equal(t, "  a\n  \n  b", Indent("a\n\nb", 2))
}

func TestIndent_TrailingNewlineIsNotALine(t *testing.T) {
	assert.Equal(t, "  a\n", Indent("a\n", 2))
}

func TestIndent_Negative(t *testing.T) {
	assert.Equal(t, "|", Indent("  |", -2))
	assert.Equal(t, "a\n b", Indent(" a\n   b", -2))
	assert.Equal(t, "x", Indent("x", -4))
}

func TestIndent_ZeroAndEmpty(t *testing.T) {
	assert.Equal(t, "a", Indent("a", 0))
	assert.Equal(t, "", Indent("", 3))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank("   "))
	assert.True(t, IsBlank("\t"))
	assert.False(t, IsBlank(""))
	assert.False(t, IsBlank(" x "))
}

func TestCellEscaper(t *testing.T) {
	var e Escaper = CellEscaper{}
	assert.Equal(t, `a\|b`, e.EscapeCell("a|b"))
	assert.Equal(t, `a\nb`, e.EscapeCell("a\nb"))
	assert.Equal(t, `a\\b`, e.EscapeCell(`a\b`))
	assert.Equal(t, "plain", e.EscapeCell("plain"))
}
