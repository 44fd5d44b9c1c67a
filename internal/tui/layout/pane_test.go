package layout

import "testing"

func TestCalculatePaneHeight(t *testing.T) {
	cfg := DefaultConfig().Pane

	tests := []struct {
		name           string
		terminalHeight int
		want           int
	}{
		{"normal terminal", 24, 17},               // 24 - 7 = 17
		{"large terminal", 50, 43},                // 50 - 7 = 43
		{"small terminal enforces min", 8, 3},     // 8 - 7 = 1, min is 3
		{"exactly at reduction", 7, 3},            // 7 - 7 = 0, min is 3
		{"terminal smaller than reduction", 4, 3}, // negative clamps to min
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePaneHeight(tt.terminalHeight, cfg)
			if got != tt.want {
				t.Errorf("CalculatePaneHeight(%d) = %d, want %d",
					tt.terminalHeight, got, tt.want)
			}
		})
	}
}

func TestCalculatePaneWidth(t *testing.T) {
	cfg := DefaultConfig().Pane

	tests := []struct {
		name          string
		terminalWidth int
		want          int
	}{
		{"normal width", 80, 74},
		{"wide", 200, 194},
		{"tiny clamps to one", 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePaneWidth(tt.terminalWidth, cfg)
			if got != tt.want {
				t.Errorf("CalculatePaneWidth(%d) = %d, want %d", tt.terminalWidth, got, tt.want)
			}
		})
	}
}

func TestCalculateItemWidth(t *testing.T) {
	cfg := DefaultConfig().Pane

	tests := []struct {
		paneWidth int
		want      int
	}{
		{74, 72},
		{3, 1},
		{0, 1},
	}

	for _, tt := range tests {
		got := CalculateItemWidth(tt.paneWidth, cfg)
		if got != tt.want {
			t.Errorf("CalculateItemWidth(%d) = %d, want %d", tt.paneWidth, got, tt.want)
		}
	}
}

func TestCalculateVisibleRows(t *testing.T) {
	tests := []struct {
		name       string
		paneHeight int
		rowHeight  int
		want       int
	}{
		{"compact rows", 17, 1, 17},
		{"expanded rows", 17, 5, 3},
		{"row taller than pane", 3, 5, 1},
		{"zero row height treated as one", 10, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateVisibleRows(tt.paneHeight, tt.rowHeight)
			if got != tt.want {
				t.Errorf("CalculateVisibleRows(%d, %d) = %d, want %d",
					tt.paneHeight, tt.rowHeight, got, tt.want)
			}
		})
	}
}

func TestExpandedHeight(t *testing.T) {
	row := DefaultConfig().Row
	if got := row.ExpandedHeight(); got != 5 {
		t.Errorf("ExpandedHeight() = %d, want 5", got)
	}
}

func TestCalculateViewportOffset(t *testing.T) {
	tests := []struct {
		name           string
		selected       int
		total          int
		viewportHeight int
		want           int
	}{
		{"all items fit", 5, 10, 20, 0},
		{"at start", 0, 100, 20, 0},
		{"near start", 5, 100, 20, 0},     // 5 - 10 = -5, clamp to 0
		{"middle", 50, 100, 20, 40},       // 50 - 10 = 40
		{"near end", 95, 100, 20, 80},     // 95 - 10 = 85, max is 80
		{"at end", 99, 100, 20, 80},       // max offset
		{"exactly fits", 5, 20, 20, 0},    // total == viewport
		{"one more than fits", 10, 21, 20, 0},
		{"one more than fits end", 20, 21, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateViewportOffset(tt.selected, tt.total, tt.viewportHeight)
			if got != tt.want {
				t.Errorf("CalculateViewportOffset(%d, %d, %d) = %d, want %d",
					tt.selected, tt.total, tt.viewportHeight, got, tt.want)
			}
		})
	}
}
