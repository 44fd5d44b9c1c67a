package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/bmdash/internal/api"
	"github.com/nikbrunner/bmdash/internal/browser"
	"github.com/nikbrunner/bmdash/internal/logger"
	"github.com/nikbrunner/bmdash/internal/model"
	"github.com/nikbrunner/bmdash/internal/pipeline"
	"github.com/nikbrunner/bmdash/internal/session"
	"github.com/nikbrunner/bmdash/internal/tui/layout"
	"github.com/nikbrunner/bmdash/internal/view"
)

// App is the bubbletea model for the bookmark dashboard.
type App struct {
	ctx       context.Context
	guard     *session.Guard
	loader    *pipeline.Loader
	projector view.Projector
	userID    string
	username  string

	dashboard *model.Dashboard
	rows      []model.Bookmark // projected rows, in display order
	stats     view.Stats
	cursor    int

	// For gg command
	lastKeyWasG bool

	mode       Mode
	phase      Phase
	generation uint64 // generation of the load the dashboard waits for
	loadErr    error

	messageText string
	messageType MessageType

	search  SearchState
	confirm ConfirmState
	spinner spinner.Model

	exitReason ExitReason

	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig
	log          logger.Logger
	openURL      browser.Opener
	copyText     func(string) error
	now          func() time.Time

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Context   context.Context // optional, defaults to context.Background
	Guard     *session.Guard  // optional, the session check is skipped when nil
	Loader    *pipeline.Loader
	UserID    string
	Dashboard *model.Dashboard // optional, starts empty with default modes
	Projector view.Projector
	Logger    logger.Logger // optional

	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil

	OpenURL  browser.Opener     // optional, defaults to browser.Open
	CopyText func(string) error // optional, defaults to the system clipboard
	Now      func() time.Time   // optional, for relative dates
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}

	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}

	dashboard := params.Dashboard
	if dashboard == nil {
		dashboard = model.NewDashboard(model.NewDashboardParams{})
	}

	log := params.Logger
	if log == nil {
		log = logger.Nop()
	}

	openURL := params.OpenURL
	if openURL == nil {
		openURL = browser.Open
	}

	copyText := params.CopyText
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	now := params.Now
	if now == nil {
		now = time.Now
	}

	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = styles.Search

	app := App{
		ctx:          ctx,
		guard:        params.Guard,
		loader:       params.Loader,
		projector:    params.Projector,
		userID:       params.UserID,
		dashboard:    dashboard,
		phase:        PhaseChecking,
		search:       NewSearchState(layoutCfg),
		spinner:      spin,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutCfg,
		log:          log,
		openURL:      openURL,
		copyText:     copyText,
		now:          now,
		width:        80,
		height:       24,
	}

	app.reproject()
	return app
}

// WithDimensions returns a copy of the app sized to width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Rows returns the projected rows in display order.
func (a App) Rows() []model.Bookmark {
	return a.rows
}

// Stats returns the current counters.
func (a App) Stats() view.Stats {
	return a.stats
}

// Dashboard returns the dashboard state.
func (a App) Dashboard() *model.Dashboard {
	return a.dashboard
}

// Mode returns the current input mode.
func (a App) Mode() Mode {
	return a.mode
}

// Phase returns the current load phase.
func (a App) Phase() Phase {
	return a.phase
}

// Generation returns the generation of the load the app is waiting for.
func (a App) Generation() uint64 {
	return a.generation
}

// Username returns the display name reported by the session check.
func (a App) Username() string {
	return a.username
}

// Message returns the text of the message line.
func (a App) Message() string {
	return a.messageText
}

// ExitReason tells why the app quit.
func (a App) ExitReason() ExitReason {
	return a.exitReason
}

// ExitMessage is printed after the program ends. Empty for a plain quit.
func (a App) ExitMessage() string {
	switch a.exitReason {
	case ExitNoSession:
		return "No session found. " + session.LoginHint
	case ExitSessionExpired:
		return "Session expired. " + session.LoginHint
	case ExitLoggedOut:
		return "Logged out."
	default:
		return ""
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.checkSession())
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case spinner.TickMsg:
		if a.phase != PhaseChecking && a.phase != PhaseLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case SessionCheckedMsg:
		return a.handleSessionChecked(msg)

	case LoadedMsg:
		return a.handleLoaded(msg)

	case LoggedOutMsg:
		if msg.Err != nil {
			a.log.Warn("logout finished with error", logger.Error(msg.Err))
		}
		a.exitReason = ExitLoggedOut
		return a, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a.quit(ExitQuit)
		}

		switch a.mode {
		case ModeSearch:
			return a.handleSearchMode(msg)
		case ModeConfirmDelete, ModeConfirmLogout:
			return a.handleConfirmMode(msg)
		case ModeHelp:
			return a.handleHelpMode(msg)
		default:
			return a.handleNormalMode(msg)
		}
	}

	return a, nil
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}

func (a App) checkSession() tea.Cmd {
	guard, ctx, userID := a.guard, a.ctx, a.userID
	return func() tea.Msg {
		if guard == nil {
			if userID == "" {
				return SessionCheckedMsg{Err: session.ErrNoSession}
			}
			return SessionCheckedMsg{Result: &session.Result{UserID: userID}}
		}
		res, err := guard.Check(ctx, userID)
		return SessionCheckedMsg{Result: res, Err: err}
	}
}

func (a App) handleSessionChecked(msg SessionCheckedMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, session.ErrNoSession):
		return a.quit(ExitNoSession)
	case errors.Is(msg.Err, session.ErrSessionExpired), errors.Is(msg.Err, api.ErrUnauthorized):
		return a.quit(ExitSessionExpired)
	case msg.Err != nil:
		// Only a canceled context gets here.
		return a.quit(ExitQuit)
	}

	if msg.Result != nil {
		a.username = msg.Result.Username
		if msg.Result.Optimistic {
			a.setMessage(MessageWarning, "Could not verify session, continuing")
		}
	}

	return a, a.startLoad()
}

// startLoad begins a new retrieval, superseding any run still in flight.
func (a *App) startLoad() tea.Cmd {
	if a.loader == nil {
		a.phase = PhaseReady
		return nil
	}

	run := a.loader.Start(a.ctx)
	a.generation = run.Generation
	a.phase = PhaseLoading
	a.loadErr = nil

	userID := a.userID
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		return LoadedMsg{Outcome: run.Execute(userID)}
	})
}

func (a App) handleLoaded(msg LoadedMsg) (tea.Model, tea.Cmd) {
	out := msg.Outcome
	if out.Generation != a.generation {
		a.log.Debug("dropping stale outcome",
			logger.Uint64("generation", out.Generation),
			logger.Uint64("current", a.generation),
		)
		return a, nil
	}

	switch out.Kind {
	case pipeline.Populated, pipeline.Empty:
		a.dashboard.Replace(out.Records)
		a.phase = PhaseReady
		a.reproject()
		if out.Retries > 0 {
			a.setMessage(MessageInfo, fmt.Sprintf("Loaded after %d retries", out.Retries))
		}

	case pipeline.Failed:
		a.phase = PhaseFailed
		a.loadErr = out.Err

	case pipeline.Busy:
		a.phase = PhaseBusy
		a.loadErr = out.Err

	case pipeline.Unauthorized:
		if a.guard != nil {
			a.guard.Clear()
		}
		return a.quit(ExitSessionExpired)

	case pipeline.Canceled:
		// A newer run or shutdown owns the screen.
	}

	return a, nil
}

func (a App) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			// This is the second g - go to top
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		// First g - wait for second
		a.lastKeyWasG = true
		return a, nil
	}

	// Reset g flag for any other key
	a.lastKeyWasG = false
	a.clearMessage()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit(ExitQuit)

	case key.Matches(msg, a.keys.Down):
		if len(a.rows) > 0 && a.cursor < len(a.rows)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(a.rows) > 0 {
			a.cursor = len(a.rows) - 1
		}

	case key.Matches(msg, a.keys.PageDown):
		a.moveCursor(a.halfPage())

	case key.Matches(msg, a.keys.PageUp):
		a.moveCursor(-a.halfPage())

	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		a.search.Input.SetValue(a.dashboard.SearchTerm())
		a.search.Input.CursorEnd()
		return a, a.search.Input.Focus()

	case key.Matches(msg, a.keys.ClearSearch):
		a.search.Input.SetValue("")
		a.applySearch("")

	case key.Matches(msg, a.keys.Sort):
		a.applySort(a.dashboard.SortMode().Next())

	case key.Matches(msg, a.keys.SortLatest):
		a.applySort(model.SortLatest)

	case key.Matches(msg, a.keys.SortOldest):
		a.applySort(model.SortOldest)

	case key.Matches(msg, a.keys.SortAlpha):
		a.applySort(model.SortAlpha)

	case key.Matches(msg, a.keys.SortReverseAlpha):
		a.applySort(model.SortReverseAlpha)

	case key.Matches(msg, a.keys.ToggleView):
		a.dashboard.SetViewMode(a.dashboard.ViewMode().Toggle())

	case key.Matches(msg, a.keys.Open):
		if b := a.selected(); b != nil {
			if err := a.openURL(b.SourceURL()); err != nil {
				a.log.Warn("open bookmark failed", logger.String("id", b.ID), logger.Error(err))
				a.setMessage(MessageError, "Could not open browser")
			} else {
				a.setMessage(MessageInfo, "Opened "+b.SourceURL())
			}
		}

	case key.Matches(msg, a.keys.YankURL):
		if b := a.selected(); b != nil {
			if err := a.copyText(b.SourceURL()); err != nil {
				a.log.Warn("copy link failed", logger.Error(err))
				a.setMessage(MessageError, "Could not copy to clipboard")
			} else {
				a.setMessage(MessageSuccess, "Copied link")
			}
		}

	case key.Matches(msg, a.keys.Edit):
		if a.selected() != nil {
			a.setMessage(MessageInfo, "Editing bookmarks is coming soon")
		}

	case key.Matches(msg, a.keys.Delete):
		if b := a.selected(); b != nil {
			a.confirm = ConfirmState{BookmarkID: b.ID, Preview: view.SingleLine(b.Content)}
			a.mode = ModeConfirmDelete
		}

	case key.Matches(msg, a.keys.Reload):
		if a.phase != PhaseChecking {
			return a, a.startLoad()
		}

	case key.Matches(msg, a.keys.Logout):
		a.confirm = ConfirmState{}
		a.mode = ModeConfirmLogout

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

// handleSearchMode filters live on every keystroke. Esc clears the search;
// enter keeps the term.
func (a App) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.search.Input.SetValue("")
		a.search.Input.Blur()
		a.mode = ModeNormal
		a.applySearch("")
		return a, nil

	case tea.KeyEnter:
		a.search.Input.Blur()
		a.mode = ModeNormal
		return a, nil
	}

	var cmd tea.Cmd
	a.search.Input, cmd = a.search.Input.Update(msg)
	a.applySearch(a.search.Input.Value())
	return a, cmd
}

func (a App) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Confirm):
		mode := a.mode
		target := a.confirm
		a.mode = ModeNormal
		a.confirm = ConfirmState{}

		if mode == ModeConfirmLogout {
			return a, a.logout()
		}

		if a.dashboard.Remove(target.BookmarkID) {
			a.reproject()
			a.setMessage(MessageSuccess, "Bookmark removed (local only)")
		} else {
			a.setMessage(MessageWarning, "Bookmark no longer exists")
		}

	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
		a.confirm = ConfirmState{}
	}

	return a, nil
}

func (a App) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit(ExitQuit)
	case key.Matches(msg, a.keys.Help), msg.Type == tea.KeyEsc:
		a.mode = ModeNormal
	}
	return a, nil
}

func (a App) logout() tea.Cmd {
	if a.loader != nil {
		a.loader.Stop()
	}
	guard, ctx, userID := a.guard, a.ctx, a.userID
	return func() tea.Msg {
		if guard == nil {
			return LoggedOutMsg{}
		}
		return LoggedOutMsg{Err: guard.Logout(ctx, userID)}
	}
}

func (a App) quit(reason ExitReason) (tea.Model, tea.Cmd) {
	if a.loader != nil {
		a.loader.Stop()
	}
	a.exitReason = reason
	return a, tea.Quit
}

func (a *App) applySearch(term string) {
	if term == a.dashboard.SearchTerm() {
		return
	}
	a.dashboard.SetSearchTerm(term)
	a.cursor = 0
	a.reproject()
}

func (a *App) applySort(mode model.SortMode) {
	if mode == a.dashboard.SortMode() {
		return
	}
	a.dashboard.SetSortMode(mode)
	a.cursor = 0
	a.reproject()
}

// reproject recomputes the visible rows and keeps the cursor in range.
func (a *App) reproject() {
	p := a.projector.ProjectDashboard(a.dashboard)
	a.rows = p.Rows
	a.stats = p.Stats

	if a.cursor >= len(a.rows) {
		a.cursor = len(a.rows) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) moveCursor(delta int) {
	if len(a.rows) == 0 {
		return
	}
	a.cursor += delta
	if a.cursor < 0 {
		a.cursor = 0
	}
	if a.cursor > len(a.rows)-1 {
		a.cursor = len(a.rows) - 1
	}
}

func (a App) halfPage() int {
	n := a.visibleRows() / 2
	if n < 1 {
		return 1
	}
	return n
}

func (a App) selected() *model.Bookmark {
	if a.phase != PhaseReady || a.cursor >= len(a.rows) {
		return nil
	}
	return &a.rows[a.cursor]
}

func (a *App) setMessage(t MessageType, text string) {
	a.messageType = t
	a.messageText = text
}

func (a *App) clearMessage() {
	a.messageText = ""
}
