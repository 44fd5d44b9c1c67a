package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/bmdash/internal/logger"
	"github.com/nikbrunner/bmdash/internal/session"
	"github.com/nikbrunner/bmdash/internal/tui"
)

// runDashboard runs the interactive TUI.
func runDashboard(e *env, g *GlobalFlags) error {
	rt, err := setup(g)
	if err != nil {
		return err
	}
	defer rt.Close()

	userID, err := rt.guard.Resolve(g.UserID)
	if err != nil {
		return err
	}
	// Leave before the alt screen flashes up.
	if userID == "" {
		return loginError(session.ErrNoSession)
	}

	dashboard, err := rt.newDashboard("")
	if err != nil {
		return err
	}

	loader := rt.newLoader()
	defer loader.Stop()

	app := tui.NewApp(tui.AppParams{
		Context:   e.ctx,
		Guard:     rt.guard,
		Loader:    loader,
		UserID:    userID,
		Dashboard: dashboard,
		Projector: rt.projector,
		Logger:    rt.log,
		OpenURL:   e.open,
	})

	rt.log.Info("dashboard starting", logger.String("base_url", rt.cfg.BaseURL))

	finalModel, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(e.ctx)).Run()
	if err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}

	finalApp := finalModel.(tui.App)
	switch finalApp.ExitReason() {
	case tui.ExitNoSession, tui.ExitSessionExpired:
		return fmt.Errorf("%w: %s", ErrLoginRequired, finalApp.ExitMessage())
	case tui.ExitLoggedOut:
		fmt.Fprintln(e.out, finalApp.ExitMessage())
	}
	return nil
}
