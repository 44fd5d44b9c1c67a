package view

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"

	"github.com/nikbrunner/bmdash/internal/model"
)

// DateLayout is used for bookmarks older than a week.
const DateLayout = "02 Jan 2006"

// Unknown stands in for a date that could not be parsed.
const Unknown = "-"

// FormatRelative renders t relative to now. Future instants read as
// "0 min ago".
func FormatRelative(t, now time.Time) string {
	if t.IsZero() {
		return Unknown
	}

	d := now.Sub(t)
	if d < 0 {
		d = 0
	}

	switch {
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d h ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d d ago", int(d/(24*time.Hour)))
	default:
		return t.Local().Format(DateLayout)
	}
}

// FormatCreated renders a record's creation date relative to now.
func FormatCreated(b model.Bookmark, now time.Time) string {
	return FormatRelative(instant(b), now)
}

// Sanitize makes backend text safe to print on a terminal. Escape sequences
// and control characters are removed; everything else, markup included, is
// kept as written. Newlines and tabs survive.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// SingleLine sanitizes s and collapses all whitespace runs into one space,
// for the compact row layout.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(Sanitize(s)), " ")
}
