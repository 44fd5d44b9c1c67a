package layout

// CalculatePaneHeight computes the content height of the bookmark pane.
// Returns at least MinHeight.
func CalculatePaneHeight(terminalHeight int, cfg PaneConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// CalculatePaneWidth computes the content width of the bookmark pane.
func CalculatePaneWidth(terminalWidth int, cfg PaneConfig) int {
	width := terminalWidth - cfg.WidthReduction
	if width < 1 {
		return 1
	}
	return width
}

// CalculateItemWidth computes the width available for row content.
func CalculateItemWidth(paneWidth int, cfg PaneConfig) int {
	width := paneWidth - cfg.ContentPadding
	if width < 1 {
		return 1
	}
	return width
}

// CalculateVisibleRows computes how many rows of rowHeight lines fit in a
// pane of paneHeight lines. Always at least one.
func CalculateVisibleRows(paneHeight, rowHeight int) int {
	if rowHeight < 1 {
		rowHeight = 1
	}
	rows := paneHeight / rowHeight
	if rows < 1 {
		return 1
	}
	return rows
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected item visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - viewportHeight
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}
