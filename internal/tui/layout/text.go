package layout

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes terminal escape sequences.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// Width returns the number of terminal cells s occupies, ignoring escapes.
func Width(s string) int {
	return ansi.StringWidth(s)
}

// Truncate shortens text to fit width cells, ending it with ellipsis when
// there is room for one. The bool reports whether anything was cut.
// Styled input keeps its escape sequences.
func Truncate(text string, width int, ellipsis string) (string, bool) {
	if width <= 0 {
		return "", text != ""
	}
	if Width(text) <= width {
		return text, false
	}
	if width <= Width(ellipsis) {
		return ansi.Truncate(text, width, ""), true
	}
	return ansi.Truncate(text, width, ellipsis), true
}

// PadRight pads text with spaces to width cells.
// Text that is already wider is returned unchanged.
func PadRight(text string, width int) string {
	gap := width - Width(text)
	if gap <= 0 {
		return text
	}
	return text + strings.Repeat(" ", gap)
}

// Highlight renders every case-insensitive occurrence of term in text with
// mark and the remaining segments with plain.
func Highlight(text, term string, plain, mark func(string) string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return plain(text)
	}

	lowerText := strings.ToLower(text)
	lowerTerm := strings.ToLower(term)
	// Lowercasing can change byte lengths for some scripts; slicing at those
	// offsets would split runes.
	if len(lowerText) != len(text) || len(lowerTerm) != len(term) {
		return plain(text)
	}

	var b strings.Builder
	rest := 0
	for {
		idx := strings.Index(lowerText[rest:], lowerTerm)
		if idx < 0 {
			break
		}
		start := rest + idx
		end := start + len(term)
		if start > rest {
			b.WriteString(plain(text[rest:start]))
		}
		b.WriteString(mark(text[start:end]))
		rest = end
	}
	if rest < len(text) {
		b.WriteString(plain(text[rest:]))
	}
	return b.String()
}
