package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Pane  PaneConfig
	Row   RowConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// PaneConfig holds dimensions of the bookmark pane.
type PaneConfig struct {
	// HeightReduction is subtracted from terminal height for pane content.
	// Accounts for: app padding (1) + header (1) + search line (1) +
	// pane borders (2) + help bar (2) = 7
	HeightReduction int

	// MinHeight is the minimum pane height.
	MinHeight int

	// WidthReduction is subtracted from terminal width for the pane.
	// Accounts for app padding (2 + 2) and pane borders (2).
	WidthReduction int

	// ContentPadding is subtracted from pane width for row rendering.
	ContentPadding int
}

// RowConfig holds bookmark row layout.
type RowConfig struct {
	// DateWidth is the width of the relative date column.
	DateWidth int

	// ExpandedContentLines caps how many wrapped content lines an
	// expanded row shows.
	ExpandedContentLines int
}

// ExpandedHeight is the height of one expanded row: content lines, a meta
// line and a spacer.
func (r RowConfig) ExpandedHeight() int {
	return r.ExpandedContentLines + 2
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// DefaultWidthPercent is the standard modal width as percentage of terminal width.
	DefaultWidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// HelpLeftColumnWidth: width for help overlay left column.
	HelpLeftColumnWidth int

	// HelpRightColumnWidth: width for help overlay right column.
	HelpRightColumnWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	SearchCharLimit int
	SearchWidth     int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Pane: PaneConfig{
			HeightReduction: 7,
			MinHeight:       3,
			WidthReduction:  6,
			ContentPadding:  2,
		},
		Row: RowConfig{
			DateWidth:            12,
			ExpandedContentLines: 3,
		},
		Modal: ModalConfig{
			DefaultWidthPercent:  40,
			MinWidth:             40,
			MaxWidth:             80,
			HelpLeftColumnWidth:  32,
			HelpRightColumnWidth: 26,
		},
		Input: InputConfig{
			SearchCharLimit: 100,
			SearchWidth:     40,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
