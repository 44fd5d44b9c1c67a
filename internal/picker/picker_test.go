package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/bmdash/internal/model"
	"github.com/nikbrunner/bmdash/internal/search"
	"github.com/nikbrunner/bmdash/internal/view"
)

func twoResults() []search.Result {
	return []search.Result{
		{Bookmark: &model.Bookmark{ID: "1", Content: "Learning Go generics"}},
		{Bookmark: &model.Bookmark{ID: "2", Content: "Go routines explained"}},
	}
}

func TestPicker_InitialState(t *testing.T) {
	p := New(twoResults(), "go")

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
	if len(p.results) != 2 {
		t.Errorf("expected 2 results, got %d", len(p.results))
	}
}

func TestPicker_NavigateDown(t *testing.T) {
	p := New(twoResults(), "go")
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}

	newModel, _ := p.Update(msg)
	p = newModel.(Picker)

	if p.cursor != 1 {
		t.Errorf("expected cursor at 1, got %d", p.cursor)
	}
}

func TestPicker_NavigateUp(t *testing.T) {
	p := New(twoResults(), "go")
	p.cursor = 1

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	newModel, _ := p.Update(msg)
	p = newModel.(Picker)

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
}

func TestPicker_BoundsCheck(t *testing.T) {
	results := []search.Result{
		{Bookmark: &model.Bookmark{ID: "1", Content: "only"}},
	}

	p := New(results, "o")

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	newModel, _ := p.Update(msg)
	p = newModel.(Picker)
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}

	msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	newModel, _ = p.Update(msg)
	p = newModel.(Picker)
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 (only 1 item), got %d", p.cursor)
	}
}

func TestPicker_SelectItem(t *testing.T) {
	p := New(twoResults(), "go")
	p.cursor = 1

	newModel, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	p = newModel.(Picker)

	if !p.selected {
		t.Error("expected selected to be true after Enter")
	}
	if cmd == nil {
		t.Error("expected quit command after selection")
	}
	if got := p.SelectedBookmark(); got == nil || got.ID != "2" {
		t.Errorf("expected bookmark 2, got %v", got)
	}
}

func TestPicker_Cancel(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
	} {
		p := New(twoResults(), "go")
		newModel, cmd := p.Update(msg)
		p = newModel.(Picker)

		if !p.Cancelled() {
			t.Errorf("%s: expected cancelled", msg)
		}
		if cmd == nil {
			t.Errorf("%s: expected quit command", msg)
		}
		if p.SelectedBookmark() != nil {
			t.Errorf("%s: expected nil selection when cancelled", msg)
		}
	}
}

func TestPicker_ArrowKeys(t *testing.T) {
	p := New(twoResults(), "go")

	newModel, _ := p.Update(tea.KeyMsg{Type: tea.KeyDown})
	p = newModel.(Picker)
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1 after down arrow, got %d", p.cursor)
	}

	newModel, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p = newModel.(Picker)
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 after up arrow, got %d", p.cursor)
	}
}

func TestPicker_ScrollsWithCursor(t *testing.T) {
	var results []search.Result
	for i := 0; i < 20; i++ {
		results = append(results, search.Result{Bookmark: &model.Bookmark{ID: string(rune('a' + i)), Content: "item"}})
	}

	p := New(results, "item")
	newModel, _ := p.Update(tea.WindowSizeMsg{Width: 80, Height: 11})
	p = newModel.(Picker)

	for i := 0; i < 10; i++ {
		newModel, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
		p = newModel.(Picker)
	}

	if p.cursor != 10 {
		t.Fatalf("expected cursor at 10, got %d", p.cursor)
	}
	if p.cursor < p.offset || p.cursor >= p.offset+p.visibleRows() {
		t.Errorf("cursor %d outside visible window [%d, %d)", p.cursor, p.offset, p.offset+p.visibleRows())
	}
}

func TestPicker_ViewShowsContentAndSourceURL(t *testing.T) {
	results := search.Fuzzy([]model.Bookmark{
		{ID: "123", Content: "line one\nline two"},
	}, "line", view.SingleLine)

	out := New(results, "line").View()

	if !strings.Contains(out, "https://x.com/i/status/123") {
		t.Errorf("expected source url in view:\n%s", out)
	}
	if !strings.Contains(out, "1 results") {
		t.Errorf("expected result count in view:\n%s", out)
	}
	if strings.Contains(out, "line one\nline two") {
		t.Error("expected content flattened to a single line")
	}
}

func TestPicker_ViewShowsSanitizedLiteralText(t *testing.T) {
	results := search.Fuzzy([]model.Bookmark{
		{ID: "7", Content: "\x1b[31mbuy\x1b[0m milk <now> & eggs"},
	}, "milk", view.SingleLine)

	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}

	out := New(results, "milk").View()

	if strings.Contains(out, "[31m") || strings.Contains(out, "[0m") {
		t.Errorf("escape sequence remnants in view:\n%s", out)
	}
	if !strings.Contains(out, "buy milk <now> & eggs") {
		t.Errorf("expected literal content in view:\n%s", out)
	}
}
