package view_test

import (
	"testing"

	"golang.org/x/text/language"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/bmdash/internal/model"
	"github.com/nikbrunner/bmdash/internal/view"
)

func ids(bs []model.Bookmark) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.ID
	}
	return out
}

func dated(id, content, createdAt string) model.Bookmark {
	return model.Bookmark{ID: id, Content: content, CreatedAt: createdAt, Created: model.ParseCreatedAt(createdAt)}
}

func TestSort_ByDate(t *testing.T) {
	recs := []model.Bookmark{
		dated("A", "x", "2024-01-02T00:00:00Z"),
		dated("B", "y", "2024-01-01T00:00:00Z"),
		dated("C", "z", "2024-01-03T00:00:00Z"),
	}
	var p view.Projector

	assert.DeepEqual(t, ids(p.Sort(recs, model.SortLatest)), []string{"C", "A", "B"})
	assert.DeepEqual(t, ids(p.Sort(recs, model.SortOldest)), []string{"B", "A", "C"})
	// input untouched
	assert.DeepEqual(t, ids(recs), []string{"A", "B", "C"})
}

func TestSort_UnparsableDatesAreEarliest(t *testing.T) {
	recs := []model.Bookmark{
		dated("bad", "x", "yesterday-ish"),
		dated("new", "y", "2024-01-03T00:00:00Z"),
		dated("old", "z", "1999-01-01T00:00:00Z"),
	}
	var p view.Projector

	assert.DeepEqual(t, ids(p.Sort(recs, model.SortLatest)), []string{"new", "old", "bad"})
	assert.DeepEqual(t, ids(p.Sort(recs, model.SortOldest)), []string{"bad", "old", "new"})
}

func TestSort_UsesCreatedAtWhenCreatedUnset(t *testing.T) {
	recs := []model.Bookmark{
		{ID: "1", CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "2", CreatedAt: "2024-06-01T00:00:00Z"},
	}
	var p view.Projector

	assert.DeepEqual(t, ids(p.Sort(recs, model.SortLatest)), []string{"2", "1"})
}

func TestSort_Stable(t *testing.T) {
	same := "2024-01-01T00:00:00Z"
	recs := []model.Bookmark{
		dated("1", "same", same),
		dated("2", "same", same),
		dated("3", "same", same),
	}
	var p view.Projector

	for _, mode := range model.SortModes {
		assert.DeepEqual(t, ids(p.Sort(recs, mode)), []string{"1", "2", "3"})
	}
}

func TestSort_Alpha(t *testing.T) {
	recs := []model.Bookmark{
		{ID: "1", Content: "banana"},
		{ID: "2", Content: "Apple"},
		{ID: "3", Content: "cherry"},
		{ID: "4", Content: "Éclair"},
	}
	p := view.Projector{Locale: language.English}

	assert.DeepEqual(t, ids(p.Sort(recs, model.SortAlpha)), []string{"2", "1", "3", "4"})
	assert.DeepEqual(t, ids(p.Sort(recs, model.SortReverseAlpha)), []string{"4", "3", "1", "2"})
}

func TestSort_Empty(t *testing.T) {
	var p view.Projector
	got := p.Sort(nil, model.SortLatest)
	assert.Assert(t, got != nil)
	assert.Check(t, is.Len(got, 0))
}

func TestProject_FilterThenSort(t *testing.T) {
	recs := []model.Bookmark{
		dated("1", "Learning Go", "2024-01-01T00:00:00Z"),
		dated("2", "Rust tips", "2024-01-02T00:00:00Z"),
		dated("3", "go routines", "2024-01-03T00:00:00Z"),
	}
	var p view.Projector

	proj := p.Project(recs, "go", model.SortOldest)

	assert.DeepEqual(t, ids(proj.Rows), []string{"1", "3"})
	assert.Equal(t, proj.Stats, view.Stats{Total: 3, Visible: 2})
}

func TestProject_VisibleNeverExceedsTotal(t *testing.T) {
	recs := []model.Bookmark{
		dated("1", "a", "2024-01-01T00:00:00Z"),
		dated("2", "b", "2024-01-02T00:00:00Z"),
	}
	var p view.Projector

	for _, term := range []string{"", "a", "zzz", "1"} {
		for _, mode := range model.SortModes {
			st := p.Project(recs, term, mode).Stats
			assert.Assert(t, st.Visible <= st.Total, "term %q mode %s", term, mode)
			assert.Equal(t, st.Total, 2)
		}
	}
}

func TestProjectDashboard(t *testing.T) {
	d := model.NewDashboard(model.NewDashboardParams{SortMode: model.SortAlpha})
	d.Replace([]model.Bookmark{{ID: "1", Content: "b"}, {ID: "2", Content: "a"}, {ID: "3", Content: "c"}})
	d.SetSearchTerm("")

	var p view.Projector
	proj := p.ProjectDashboard(d)

	assert.DeepEqual(t, ids(proj.Rows), []string{"2", "1", "3"})
}
