package display

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// dirtyRune reports whether a rune must not reach the terminal as-is.
// Control characters (except tab), broken UTF-8 and the non-breaking
// space all qualify; speaker metadata comes from arbitrary streams and
// is not trustworthy enough to print raw.
func dirtyRune(r rune) bool {
	if r == utf8.RuneError || r == '\u00a0' {
		return true
	}
	return r != '\t' && unicode.IsControl(r)
}

// Sanitize strips control characters and invalid UTF-8 from a string
// and turns non-breaking spaces into plain ones. Clean strings are
// returned unchanged without allocating.
func Sanitize(s string) string {
	if strings.IndexFunc(s, dirtyRune) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\u00a0':
			b.WriteByte(' ')
		case !dirtyRune(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Truncate sanitizes s and shortens it to maxWidth terminal cells,
// ellipsis included. Wide characters count per cell.
func Truncate(s string, maxWidth int) string {
	return runewidth.Truncate(Sanitize(s), maxWidth, "...")
}

// Pad right-fills s with spaces up to width cells.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// TruncateAndPad yields exactly width cells.
func TruncateAndPad(s string, width int) string {
	return Pad(Truncate(s, width), width)
}

// Row lays out left- and right-aligned content on one line of the
// given width, keeping at least one space between them. Both sides may
// carry ANSI styling.
func Row(left, right string, width int) string {
	gap := max(width-ansi.StringWidth(left)-ansi.StringWidth(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Separator draws a horizontal rule of the given width.
func Separator(width int) string {
	return strings.Repeat("─", width)
}
