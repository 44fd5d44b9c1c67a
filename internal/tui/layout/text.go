package layout

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// resetCode clears any styling left open by a cut.
const resetCode = "\x1b[0m"

// StripANSI removes ANSI escape sequences from a string.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// VisibleLength returns the number of terminal cells s occupies, ignoring
// escape sequences. Wide characters count as two.
func VisibleLength(s string) int {
	return ansi.StringWidth(s)
}

// TruncateText truncates plain text to maxWidth cells with ellipsis.
// Returns the truncated text and whether truncation occurred.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", text != ""
	}
	if VisibleLength(text) <= maxWidth {
		return text, false
	}

	// Not enough room for any text + ellipsis
	if maxWidth <= VisibleLength(cfg.Ellipsis) {
		return ansi.Truncate(cfg.Ellipsis, maxWidth, ""), true
	}

	return ansi.Truncate(text, maxWidth, cfg.Ellipsis), true
}

// TruncateANSIAware truncates styled text to maxWidth cells, keeping escape
// sequences intact. A reset code is appended after a cut so styles don't
// bleed into the ellipsis or following text.
func TruncateANSIAware(styledText string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisibleLength(styledText) <= maxWidth {
		return styledText
	}

	ellipsis := cfg.Ellipsis
	if maxWidth <= VisibleLength(ellipsis) {
		ellipsis = ""
	}

	cut := ansi.Truncate(styledText, maxWidth-VisibleLength(ellipsis), "")
	if strings.Contains(cut, "\x1b") {
		cut += resetCode
	}
	return cut + ellipsis
}

// PadRight pads s with spaces up to width cells.
func PadRight(s string, width int) string {
	if n := width - VisibleLength(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
