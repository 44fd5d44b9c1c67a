package model

import (
	"errors"
	"fmt"
)

// SortMode determines display order.
type SortMode int

const (
	SortLatest SortMode = iota
	SortOldest
	SortAlpha
	SortReverseAlpha
)

var sortModeNames = []string{"latest", "oldest", "alpha", "reverse_alpha"}

// SortModes lists every sort mode in cycle order.
var SortModes = []SortMode{SortLatest, SortOldest, SortAlpha, SortReverseAlpha}

func (s SortMode) String() string {
	if int(s) < 0 || int(s) >= len(sortModeNames) {
		return fmt.Sprintf("SortMode(%d)", int(s))
	}
	return sortModeNames[s]
}

// Next returns the following mode, wrapping around.
func (s SortMode) Next() SortMode {
	return SortModes[(int(s)+1)%len(SortModes)]
}

// ParseSortMode parses a mode name such as "reverse_alpha".
func ParseSortMode(name string) (SortMode, error) {
	for i, n := range sortModeNames {
		if n == name {
			return SortMode(i), nil
		}
	}
	return SortLatest, fmt.Errorf("%w: %q", ErrUnknownSortMode, name)
}

// ViewMode is the row density. Cosmetic only.
type ViewMode int

const (
	ViewCompact ViewMode = iota
	ViewExpanded
)

func (v ViewMode) String() string {
	if v == ViewExpanded {
		return "expanded"
	}
	return "compact"
}

// Toggle switches between compact and expanded.
func (v ViewMode) Toggle() ViewMode {
	if v == ViewCompact {
		return ViewExpanded
	}
	return ViewCompact
}

// ParseViewMode parses "compact" or "expanded".
func ParseViewMode(name string) (ViewMode, error) {
	switch name {
	case "compact":
		return ViewCompact, nil
	case "expanded":
		return ViewExpanded, nil
	}
	return ViewCompact, fmt.Errorf("%w: %q", ErrUnknownViewMode, name)
}

var (
	ErrUnknownSortMode = errors.New("unknown sort mode")
	ErrUnknownViewMode = errors.New("unknown view mode")
)

// Dashboard holds the fetched bookmarks and the user's display choices.
// Records keep the order of the last successful fetch; display order is
// derived, never applied in place.
type Dashboard struct {
	records    []Bookmark
	searchTerm string
	sortMode   SortMode
	viewMode   ViewMode
	loaded     bool
}

// NewDashboardParams holds the initial display choices.
type NewDashboardParams struct {
	SortMode SortMode
	ViewMode ViewMode
}

// NewDashboard creates an empty dashboard.
func NewDashboard(params NewDashboardParams) *Dashboard {
	return &Dashboard{
		records:  []Bookmark{},
		sortMode: params.SortMode,
		viewMode: params.ViewMode,
	}
}

// Records returns the stored records in fetch order.
func (d *Dashboard) Records() []Bookmark { return d.records }

// SearchTerm returns the current filter text.
func (d *Dashboard) SearchTerm() string { return d.searchTerm }

// SortMode returns the current sort mode.
func (d *Dashboard) SortMode() SortMode { return d.sortMode }

// ViewMode returns the current view mode.
func (d *Dashboard) ViewMode() ViewMode { return d.viewMode }

// Loaded reports whether a fetch has ever populated the dashboard.
func (d *Dashboard) Loaded() bool { return d.loaded }

// Replace swaps in the result of a successful fetch.
func (d *Dashboard) Replace(records []Bookmark) {
	if records == nil {
		records = []Bookmark{}
	}
	d.records = records
	d.loaded = true
}

// SetSearchTerm updates the filter text.
func (d *Dashboard) SetSearchTerm(term string) { d.searchTerm = term }

// SetSortMode updates the sort mode.
func (d *Dashboard) SetSortMode(mode SortMode) { d.sortMode = mode }

// SetViewMode updates the view mode.
func (d *Dashboard) SetViewMode(mode ViewMode) { d.viewMode = mode }

// Remove drops a record locally. Returns false if no record has that id.
func (d *Dashboard) Remove(id string) bool {
	for i := range d.records {
		if d.records[i].ID == id {
			d.records = append(d.records[:i:i], d.records[i+1:]...)
			return true
		}
	}
	return false
}

// Get finds a record by id, returns nil if not found.
func (d *Dashboard) Get(id string) *Bookmark {
	for i := range d.records {
		if d.records[i].ID == id {
			return &d.records[i]
		}
	}
	return nil
}
