package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"

	"github.com/nikbrunner/bmdash/internal/exporter"
	"github.com/nikbrunner/bmdash/internal/logger"
	"github.com/nikbrunner/bmdash/internal/model"
	"github.com/nikbrunner/bmdash/internal/picker"
	"github.com/nikbrunner/bmdash/internal/search"
	"github.com/nikbrunner/bmdash/internal/view"
)

// listContentWidth caps the content column of `list`.
const listContentWidth = 80

// exportFolder names the single folder of an export file.
const exportFolder = "bmdash"

// listOutput is the JSON shape of `list --json`.
type listOutput struct {
	Total     int              `json:"total"`
	Visible   int              `json:"visible"`
	Bookmarks []model.Bookmark `json:"bookmarks"`
}

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	rt, err := setup(c.globals)
	if err != nil {
		return err
	}
	defer rt.Close()

	userID, err := rt.authenticate(c.env.ctx, c.globals.UserID)
	if err != nil {
		return err
	}

	proj, err := rt.project(c.env.ctx, userID, c.Sort, c.Search)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(c.env.out)
		enc.SetIndent("", "  ")
		return enc.Encode(listOutput{
			Total:     proj.Stats.Total,
			Visible:   proj.Stats.Visible,
			Bookmarks: proj.Rows,
		})
	}

	if len(proj.Rows) == 0 {
		if proj.Stats.Total == 0 {
			fmt.Fprintln(c.env.out, "No bookmarks yet.")
		} else {
			fmt.Fprintf(c.env.out, "No bookmarks match '%s'.\n", c.Search)
		}
		return nil
	}

	now := rt.clock()
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("CREATED", "ID", "CONTENT")
	for _, b := range proj.Rows {
		t.Row(
			view.FormatCreated(b, now),
			view.SingleLine(b.ID),
			ansi.Truncate(view.SingleLine(b.Content), listContentWidth, "..."),
		)
	}

	fmt.Fprintln(c.env.out, t.String())
	fmt.Fprintf(c.env.out, "%d of %d bookmarks\n", proj.Stats.Visible, proj.Stats.Total)
	return nil
}

// Execute implements the go-flags Commander interface for SearchCommand.
func (c *SearchCommand) Execute(args []string) error {
	query := strings.Join(c.Args.Query, " ")

	rt, err := setup(c.globals)
	if err != nil {
		return err
	}
	defer rt.Close()

	userID, err := rt.authenticate(c.env.ctx, c.globals.UserID)
	if err != nil {
		return err
	}

	records, err := rt.fetch(c.env.ctx, userID)
	if err != nil {
		return err
	}

	results := search.Fuzzy(records, query, view.SingleLine)
	if len(results) == 0 {
		fmt.Fprintf(c.env.out, "No bookmarks found for '%s'\n", query)
		return nil
	}

	var selected *model.Bookmark
	if len(results) == 1 {
		// Single result - select it directly
		selected = results[0].Bookmark
	} else {
		p := picker.New(results, query)
		finalModel, err := tea.NewProgram(p, tea.WithContext(c.env.ctx)).Run()
		if err != nil {
			return fmt.Errorf("run picker: %w", err)
		}
		finalPicker := finalModel.(picker.Picker)
		if finalPicker.Cancelled() {
			return nil
		}
		selected = finalPicker.SelectedBookmark()
	}

	if selected == nil {
		return nil
	}

	fmt.Fprintf(c.env.out, "Opening: %s\n", ansi.Truncate(view.SingleLine(selected.Content), listContentWidth, "..."))
	if err := c.env.open(selected.SourceURL()); err != nil {
		rt.log.Warn("open bookmark failed", logger.String("id", selected.ID), logger.Error(err))
		return fmt.Errorf("open %s: %w", selected.SourceURL(), err)
	}
	return nil
}

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	outputPath := c.Args.Path
	if outputPath == "" {
		var err error
		outputPath, err = exporter.DefaultExportPath()
		if err != nil {
			return fmt.Errorf("get default export path: %w", err)
		}
	}

	rt, err := setup(c.globals)
	if err != nil {
		return err
	}
	defer rt.Close()

	userID, err := rt.authenticate(c.env.ctx, c.globals.UserID)
	if err != nil {
		return err
	}

	proj, err := rt.project(c.env.ctx, userID, c.Sort, c.Search)
	if err != nil {
		return err
	}

	html := exporter.ExportHTML(proj.Rows, exportFolder)
	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Fprintf(c.env.out, "Exported %d bookmarks to %s\n", len(proj.Rows), outputPath)
	return nil
}

// Execute implements the go-flags Commander interface for LogoutCommand.
// Local state is cleared even when the backend call fails.
func (c *LogoutCommand) Execute(args []string) error {
	rt, err := setup(c.globals)
	if err != nil {
		return err
	}
	defer rt.Close()

	userID, err := rt.guard.Resolve(c.globals.UserID)
	if err != nil {
		return err
	}
	if userID == "" {
		fmt.Fprintln(c.env.out, "No session to log out.")
		return nil
	}

	if err := rt.guard.Logout(c.env.ctx, userID); err != nil {
		fmt.Fprintf(c.env.errOut, "warning: %v\n", err)
	}
	fmt.Fprintln(c.env.out, "Logged out.")
	return nil
}

// Execute implements the go-flags Commander interface for VersionCommand.
func (c *VersionCommand) Execute(args []string) error {
	fmt.Fprintf(c.env.out, "bmdash %s\n", c.env.version)
	return nil
}
