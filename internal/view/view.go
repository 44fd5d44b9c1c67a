// Package view derives what the dashboard shows from its state: the
// filtered and sorted rows, counts and display strings.
package view

import (
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nikbrunner/bmdash/internal/model"
	"github.com/nikbrunner/bmdash/internal/search"
)

// Stats are the counters shown above the rows.
type Stats struct {
	Total   int
	Visible int
}

// Projection is the visible sequence plus its counters.
type Projection struct {
	Rows  []model.Bookmark
	Stats Stats
}

// Projector computes projections. The zero value collates with the root
// locale.
type Projector struct {
	Locale language.Tag
}

// Project filters then sorts records. records is not modified.
func (p Projector) Project(records []model.Bookmark, term string, mode model.SortMode) Projection {
	rows := p.Sort(search.Filter(records, term), mode)
	return Projection{
		Rows:  rows,
		Stats: Stats{Total: len(records), Visible: len(rows)},
	}
}

// ProjectDashboard projects the dashboard's current state.
func (p Projector) ProjectDashboard(d *model.Dashboard) Projection {
	return p.Project(d.Records(), d.SearchTerm(), d.SortMode())
}

// Sort returns a stably sorted copy of records.
// Records without a parsable date sort as the earliest instant.
func (p Projector) Sort(records []model.Bookmark, mode model.SortMode) []model.Bookmark {
	sorted := slices.Clone(records)
	if sorted == nil {
		sorted = []model.Bookmark{}
	}

	switch mode {
	case model.SortLatest:
		slices.SortStableFunc(sorted, func(a, b model.Bookmark) int {
			return instant(b).Compare(instant(a))
		})
	case model.SortOldest:
		slices.SortStableFunc(sorted, func(a, b model.Bookmark) int {
			return instant(a).Compare(instant(b))
		})
	case model.SortAlpha:
		c := collate.New(p.Locale)
		slices.SortStableFunc(sorted, func(a, b model.Bookmark) int {
			return c.CompareString(a.Content, b.Content)
		})
	case model.SortReverseAlpha:
		c := collate.New(p.Locale)
		slices.SortStableFunc(sorted, func(a, b model.Bookmark) int {
			return c.CompareString(b.Content, a.Content)
		})
	}
	return sorted
}

// instant is the record's creation time, zero when unparsable.
func instant(b model.Bookmark) time.Time {
	if b.HasTime() {
		return b.Created
	}
	return model.ParseCreatedAt(b.CreatedAt)
}
