package model

import (
	"fmt"
	"net/url"
	"time"
)

const (
	// PlaceholderID marks an item whose id could not be read. Never stored.
	PlaceholderID = "unknown"

	// PlaceholderContent is shown for items that arrive without text.
	PlaceholderContent = "No content"

	// SourceStatusURL is the permalink template on the source site.
	SourceStatusURL = "https://x.com/i/status/%s"
)

// Bookmark is a normalized record of a saved post.
type Bookmark struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt string    `json:"created_at"`          // as received, RFC 3339
	AuthorID  string    `json:"author_id,omitempty"` // passthrough
	Created   time.Time `json:"-"`                   // zero when CreatedAt does not parse
}

// HasTime reports whether CreatedAt parsed to a valid instant.
func (b Bookmark) HasTime() bool {
	return !b.Created.IsZero()
}

// SourceURL returns the bookmark's permalink on the source site.
func (b Bookmark) SourceURL() string {
	return fmt.Sprintf(SourceStatusURL, url.PathEscape(b.ID))
}

// ParseCreatedAt parses a backend timestamp. Returns the zero time when the
// value is not a recognised ISO-8601 form.
func ParseCreatedAt(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
