package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nikbrunner/bmdash/internal/api"
	"github.com/nikbrunner/bmdash/internal/model"
	"github.com/nikbrunner/bmdash/internal/search"
	"github.com/nikbrunner/bmdash/internal/tui/layout"
	"github.com/nikbrunner/bmdash/internal/view"
)

const (
	highlightOn  = "\033[1;4m"
	highlightOff = "\033[22;24m"
)

// renderView creates the complete dashboard view.
func (a App) renderView() string {
	switch a.mode {
	case ModeHelp:
		return a.renderHelpOverlay()
	case ModeConfirmDelete, ModeConfirmLogout:
		return a.renderConfirm()
	}

	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	paneWidth := layout.CalculatePaneWidth(a.width, a.layoutConfig.Pane)

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			a.renderHeader(),
			a.renderSearchLine(),
			a.renderPane(paneWidth, paneHeight),
			a.renderHelpBar(),
		),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// renderHeader renders title, user, counters and the mode indicators.
func (a App) renderHeader() string {
	var header strings.Builder

	header.WriteString(a.styles.Title.Render("bmdash"))
	if a.username != "" {
		header.WriteString(" " + a.styles.Username.Render("@"+view.SingleLine(a.username)))
	}

	if a.phase == PhaseReady {
		var stats string
		if a.dashboard.SearchTerm() != "" {
			stats = fmt.Sprintf("%d of %d", a.stats.Visible, a.stats.Total)
		} else {
			stats = fmt.Sprintf("%d bookmarks", a.stats.Total)
		}
		header.WriteString("  " + a.styles.Stats.Render(stats))
	}

	header.WriteString("  " + a.styles.Stats.Render(
		fmt.Sprintf("[sort:%s] [view:%s]", a.dashboard.SortMode(), a.dashboard.ViewMode()),
	))

	// App padding takes 4 columns.
	return layout.TruncateANSIAware(header.String(), a.width-4, a.layoutConfig.Text)
}

// renderSearchLine shows the search box, the active term or a prompt.
func (a App) renderSearchLine() string {
	if a.mode == ModeSearch {
		return a.search.Input.View()
	}
	if term := a.dashboard.SearchTerm(); term != "" {
		return a.styles.Search.Render("/" + view.SingleLine(term))
	}
	return a.styles.HintDesc.Render("/ search")
}

func (a App) renderPane(width, height int) string {
	itemWidth := layout.CalculateItemWidth(width, a.layoutConfig.Pane)

	var body string
	switch a.phase {
	case PhaseChecking:
		body = a.spinner.View() + " " + a.styles.Empty.Render("Checking session...")
	case PhaseLoading:
		body = a.spinner.View() + " " + a.styles.Empty.Render("Loading bookmarks...")
	case PhaseFailed:
		body = a.renderFailure("Failed to load bookmarks.", itemWidth)
	case PhaseBusy:
		body = a.renderFailure("Service is busy, please try again later.", itemWidth)
	default:
		body = a.renderRows(itemWidth, height)
	}

	return a.styles.Pane.
		Width(width).
		Height(height).
		Render(body)
}

func (a App) renderFailure(headline string, width int) string {
	var content strings.Builder
	content.WriteString(a.styles.Failure.Render(headline) + "\n")

	if a.loadErr != nil && !errors.Is(a.loadErr, api.ErrRateLimited) {
		detail, _ := layout.TruncateText(view.SingleLine(a.loadErr.Error()), width, a.layoutConfig.Text)
		content.WriteString(a.styles.Meta.Render(detail) + "\n")
	}

	content.WriteString("\n")
	content.WriteString(a.styles.HintKey.Render("r") + " " + a.styles.HintDesc.Render("to retry"))
	return content.String()
}

func (a App) renderRows(width, height int) string {
	if a.stats.Total == 0 {
		return a.styles.Empty.Render("(no bookmarks yet)")
	}
	if len(a.rows) == 0 {
		return a.styles.Empty.Render(fmt.Sprintf("(no bookmarks match %q)", view.SingleLine(a.dashboard.SearchTerm())))
	}

	visible := layout.CalculateVisibleRows(height, a.rowHeight())
	offset := layout.CalculateViewportOffset(a.cursor, len(a.rows), visible)

	expanded := a.dashboard.ViewMode() == model.ViewExpanded
	var lines []string
	for i := offset; i < len(a.rows) && i < offset+visible; i++ {
		if expanded {
			lines = append(lines, a.renderExpandedRow(a.rows[i], i == a.cursor, width))
		} else {
			lines = append(lines, a.renderCompactRow(a.rows[i], i == a.cursor, width))
		}
	}
	return strings.Join(lines, "\n")
}

// renderCompactRow renders one line: relative date column then content.
func (a App) renderCompactRow(b model.Bookmark, isCursor bool, width int) string {
	dateWidth := a.layoutConfig.Row.DateWidth
	date := layout.PadRight(view.FormatCreated(b, a.now()), dateWidth)

	text := a.highlight(view.SingleLine(b.Content))
	text = layout.TruncateANSIAware(text, width-dateWidth, a.layoutConfig.Text)

	if isCursor {
		return a.styles.ItemSelected.Render(layout.PadRight(date+text, width))
	}
	return a.styles.Date.Render(date) + a.styles.Content.Render(text)
}

// renderExpandedRow renders wrapped content capped at a fixed number of
// lines, a meta line and a spacer, so every row has the same height.
func (a App) renderExpandedRow(b model.Bookmark, isCursor bool, width int) string {
	maxLines := a.layoutConfig.Row.ExpandedContentLines

	wrapped := ansi.Wrap(a.highlight(view.Sanitize(b.Content)), width, "")
	contentLines := strings.Split(wrapped, "\n")
	if len(contentLines) > maxLines {
		contentLines = contentLines[:maxLines]
		ellipsis := a.layoutConfig.Text.Ellipsis
		last := contentLines[maxLines-1]
		if layout.VisibleLength(last)+layout.VisibleLength(ellipsis) > width {
			last = ansi.Truncate(last, width-layout.VisibleLength(ellipsis), "")
		}
		contentLines[maxLines-1] = last + highlightOff + ellipsis
	}
	for len(contentLines) < maxLines {
		contentLines = append(contentLines, "")
	}

	var rendered []string
	for _, line := range contentLines {
		if isCursor {
			rendered = append(rendered, a.styles.ItemSelected.Render(layout.PadRight(line, width)))
		} else {
			rendered = append(rendered, a.styles.Content.Render(line))
		}
	}

	meta := []string{"#" + view.SingleLine(b.ID)}
	if b.AuthorID != "" {
		meta = append(meta, "author "+view.SingleLine(b.AuthorID))
	}
	meta = append(meta, view.FormatCreated(b, a.now()), b.SourceURL())
	metaLine, _ := layout.TruncateText(strings.Join(meta, " · "), width, a.layoutConfig.Text)
	rendered = append(rendered, a.styles.Meta.Render(metaLine), "")

	return strings.Join(rendered, "\n")
}

// highlight wraps every occurrence of the search term in bold/underline.
func (a App) highlight(text string) string {
	idx := search.Highlight(text, a.dashboard.SearchTerm())
	if len(idx) == 0 {
		return text
	}

	matchSet := make(map[int]bool, len(idx))
	for _, i := range idx {
		matchSet[i] = true
	}

	var line strings.Builder
	for i, r := range []rune(text) {
		if matchSet[i] {
			line.WriteString(highlightOn)
			line.WriteRune(r)
			line.WriteString(highlightOff)
		} else {
			line.WriteRune(r)
		}
	}
	return line.String()
}

func (a App) rowHeight() int {
	if a.dashboard.ViewMode() == model.ViewExpanded {
		return a.layoutConfig.Row.ExpandedHeight()
	}
	return 1
}

func (a App) visibleRows() int {
	paneHeight := layout.CalculatePaneHeight(a.height, a.layoutConfig.Pane)
	return layout.CalculateVisibleRows(paneHeight, a.rowHeight())
}

func (a App) renderHelpBar() string {
	var lines []string

	// Line 1: Empty spacer OR message (message replaces the gap)
	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	// Line 2: keyboard hints for the current mode
	lines = append(lines, a.renderHints(a.getContextualHints()))

	return strings.Join(lines, "\n")
}

// renderMessageLine renders the styled message with prefix icon based on type.
func (a App) renderMessageLine() string {
	var msgStyle lipgloss.Style
	var prefix string

	switch a.messageType {
	case MessageError:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC3333", Dark: "#FF6666"}).
			Bold(true)
		prefix = "✗ "
	case MessageWarning:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#CC8800", Dark: "#FFAA00"}).
			Bold(true)
		prefix = "⚠ "
	case MessageSuccess:
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#338833", Dark: "#66CC66"}).
			Bold(true)
		prefix = "✓ "
	default: // MessageInfo
		msgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}).
			Bold(true)
		prefix = ""
	}

	return msgStyle.Render(prefix + a.messageText)
}

// renderConfirm renders the delete or logout confirmation modal.
func (a App) renderConfirm() string {
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}
	modalWidth := layout.CalculateModalWidth(a.width, a.layoutConfig.Modal.DefaultWidthPercent, a.layoutConfig.Modal)
	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(modalWidth)

	var content strings.Builder
	switch a.mode {
	case ModeConfirmDelete:
		content.WriteString(a.styles.Title.Render("Delete bookmark?") + "\n\n")
		// Border and padding take 6 columns.
		preview, _ := layout.TruncateText(a.confirm.Preview, modalWidth-6, a.layoutConfig.Text)
		content.WriteString(a.styles.Content.Render(preview) + "\n")
		content.WriteString(a.styles.Meta.Render("Removed from this view only.") + "\n\n")
	case ModeConfirmLogout:
		content.WriteString(a.styles.Title.Render("Log out?") + "\n\n")
		content.WriteString(a.styles.Meta.Render("The stored session will be cleared.") + "\n\n")
	}
	content.WriteString(a.renderHintsInline(a.getContextualHints().All()))

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		modalStyle.Render(content.String()),
	)
}

// renderHelpOverlay renders all key bindings in two columns.
func (a App) renderHelpOverlay() string {
	modalStyle := lipgloss.NewStyle().
		Padding(1, 2)

	// Left column: Navigation + View
	var left strings.Builder
	left.WriteString(a.styles.Title.Render("nav") + "\n")
	left.WriteString("j/k     move\n")
	left.WriteString("gg      top\n")
	left.WriteString("G       bottom\n")
	left.WriteString("ctrl+d  half page down\n")
	left.WriteString("ctrl+u  half page up\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Title.Render("view") + "\n")
	left.WriteString("/       search\n")
	left.WriteString("esc     clear search\n")
	left.WriteString("o       cycle sort\n")
	left.WriteString("1-4     latest/oldest/a-z/z-a\n")
	left.WriteString("v       compact/expanded\n")

	// Right column: Actions + Session
	var right strings.Builder
	right.WriteString(a.styles.Title.Render("act") + "\n")
	right.WriteString("l/enter open on x.com\n")
	right.WriteString("Y       yank link\n")
	right.WriteString("e       edit\n")
	right.WriteString("d       delete\n")
	right.WriteString("r       reload\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Title.Render("session") + "\n")
	right.WriteString("L       logout\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Help.Render("[?/esc] close  [q] quit"))

	leftCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpLeftColumnWidth).Render(left.String())
	rightCol := lipgloss.NewStyle().Width(a.layoutConfig.Modal.HelpRightColumnWidth).Render(right.String())
	cols := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol)

	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Left,
		lipgloss.Top,
		modalStyle.Render(cols),
	)
}
