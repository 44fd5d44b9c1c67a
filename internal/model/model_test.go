package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nikbrunner/bmdash/internal/model"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNormalize_DropsItemsWithoutID(t *testing.T) {
	raw := []model.RawItem{
		{ID: "1", Text: "hello", CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "", Text: "x"},
		{ID: "2", Text: "world", CreatedAt: "2024-01-02T00:00:00Z"},
		{ID: model.PlaceholderID, Text: "placeholder"},
	}

	got := model.Normalize(raw, testNow)

	assert.Assert(t, len(got) <= len(raw))
	assert.Equal(t, len(got), 2)
	assert.Equal(t, got[0].ID, "1")
	assert.Equal(t, got[1].ID, "2")
}

func TestNormalize_Defaults(t *testing.T) {
	got := model.Normalize([]model.RawItem{{ID: "42"}}, testNow)

	assert.Equal(t, len(got), 1)
	assert.Equal(t, got[0].Content, model.PlaceholderContent)
	assert.Equal(t, got[0].CreatedAt, "2024-03-01T12:00:00Z")
	assert.Assert(t, got[0].Created.Equal(testNow))
	assert.Equal(t, got[0].AuthorID, "")
}

func TestNormalize_KeepsAuthorAndOrder(t *testing.T) {
	raw := []model.RawItem{
		{ID: "3", Text: "c", CreatedAt: "2024-01-03T00:00:00Z", AuthorID: "u1"},
		{ID: "1", Text: "a", CreatedAt: "2024-01-01T00:00:00Z"},
		{ID: "2", Text: "b", CreatedAt: "2024-01-02T00:00:00Z"},
	}

	got := model.Normalize(raw, testNow)

	ids := make([]string, len(got))
	for i, b := range got {
		ids[i] = b.ID
	}
	assert.DeepEqual(t, ids, []string{"3", "1", "2"})
	assert.Equal(t, got[0].AuthorID, "u1")
}

func TestNormalize_DuplicateIDLastWins(t *testing.T) {
	raw := []model.RawItem{
		{ID: "1", Text: "first"},
		{ID: "2", Text: "other"},
		{ID: "1", Text: "second"},
	}

	got := model.Normalize(raw, testNow)

	assert.Equal(t, len(got), 2)
	assert.Equal(t, got[0].ID, "2")
	assert.Equal(t, got[1].ID, "1")
	assert.Equal(t, got[1].Content, "second")
}

func TestNormalize_UnparsableDate(t *testing.T) {
	got := model.Normalize([]model.RawItem{{ID: "1", Text: "x", CreatedAt: "yesterday"}}, testNow)

	assert.Equal(t, got[0].CreatedAt, "yesterday")
	assert.Assert(t, !got[0].HasTime())
}

func TestRawItem_DecodesStringAndNumberIDs(t *testing.T) {
	payload := `[
		{"id": "1790000000000000001", "text": "string id"},
		{"id": 17, "text": "number id", "author_id": 99},
		{"id": null, "text": "null id"},
		{"text": "missing id"}
	]`

	var raw []model.RawItem
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	got := model.Normalize(raw, testNow)
	if len(got) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(got))
	}
	if got[0].ID != "1790000000000000001" {
		t.Errorf("expected string id preserved, got %q", got[0].ID)
	}
	if got[1].ID != "17" || got[1].AuthorID != "99" {
		t.Errorf("expected numeric ids as text, got id=%q author=%q", got[1].ID, got[1].AuthorID)
	}
}

func TestRawItem_RejectsObjectID(t *testing.T) {
	var raw []model.RawItem
	err := json.Unmarshal([]byte(`[{"id": {"nested": true}}]`), &raw)
	assert.Assert(t, err != nil)
}

func TestParseCreatedAt(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2024-01-02T03:04:05.123Z", time.Date(2024, 1, 2, 3, 4, 5, 123000000, time.UTC)},
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"not a date", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := model.ParseCreatedAt(tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("ParseCreatedAt(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBookmark_SourceURL(t *testing.T) {
	tests := []struct {
		id, want string
	}{
		{"123", "https://x.com/i/status/123"},
		{"../../evil?x=1#f", "https://x.com/i/status/..%2F..%2Fevil%3Fx=1%23f"},
		{"a b", "https://x.com/i/status/a%20b"},
	}
	for _, tt := range tests {
		assert.Equal(t, model.Bookmark{ID: tt.id}.SourceURL(), tt.want)
	}
}

func TestSortMode_ParseAndCycle(t *testing.T) {
	for _, mode := range model.SortModes {
		parsed, err := model.ParseSortMode(mode.String())
		assert.NilError(t, err)
		assert.Equal(t, parsed, mode)
	}

	_, err := model.ParseSortMode("random")
	assert.ErrorIs(t, err, model.ErrUnknownSortMode)

	assert.Equal(t, model.SortLatest.Next(), model.SortOldest)
	assert.Equal(t, model.SortReverseAlpha.Next(), model.SortLatest)
}

func TestViewMode_ParseAndToggle(t *testing.T) {
	v, err := model.ParseViewMode("expanded")
	assert.NilError(t, err)
	assert.Equal(t, v, model.ViewExpanded)
	assert.Equal(t, v.Toggle(), model.ViewCompact)

	_, err = model.ParseViewMode("grid")
	assert.ErrorIs(t, err, model.ErrUnknownViewMode)
}

func TestDashboard_ReplaceAndRemove(t *testing.T) {
	d := model.NewDashboard(model.NewDashboardParams{})
	assert.Assert(t, !d.Loaded())
	assert.Assert(t, is.Len(d.Records(), 0))

	d.Replace([]model.Bookmark{{ID: "1"}, {ID: "2"}, {ID: "3"}})
	assert.Assert(t, d.Loaded())
	assert.Assert(t, is.Len(d.Records(), 3))

	assert.Assert(t, d.Remove("2"))
	assert.Assert(t, !d.Remove("2"))
	assert.Equal(t, d.Records()[1].ID, "3")
	assert.Assert(t, d.Get("2") == nil)
	assert.Equal(t, d.Get("3").ID, "3")

	d.Replace(nil)
	assert.Assert(t, is.Len(d.Records(), 0))
}

func TestDashboard_RemoveDoesNotAliasPreviousSlice(t *testing.T) {
	original := []model.Bookmark{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	d := model.NewDashboard(model.NewDashboardParams{})
	d.Replace(original)

	d.Remove("1")

	assert.Equal(t, original[0].ID, "1")
	assert.Equal(t, original[1].ID, "2")
}

func TestDashboard_Settings(t *testing.T) {
	d := model.NewDashboard(model.NewDashboardParams{
		SortMode: model.SortAlpha,
		ViewMode: model.ViewExpanded,
	})
	assert.Equal(t, d.SortMode(), model.SortAlpha)
	assert.Equal(t, d.ViewMode(), model.ViewExpanded)

	d.SetSearchTerm("wor")
	d.SetSortMode(model.SortOldest)
	d.SetViewMode(model.ViewCompact)

	assert.Equal(t, d.SearchTerm(), "wor")
	assert.Equal(t, d.SortMode(), model.SortOldest)
	assert.Equal(t, d.ViewMode(), model.ViewCompact)
}
