package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/bmdash/internal/pipeline"
	"github.com/nikbrunner/bmdash/internal/session"
	"github.com/nikbrunner/bmdash/internal/tui/layout"
)

// Mode represents the current input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeConfirmDelete
	ModeConfirmLogout
	ModeHelp
)

// Phase is where the dashboard is in its load lifecycle.
type Phase int

const (
	PhaseChecking Phase = iota // validating the session
	PhaseLoading               // a load is in flight
	PhaseReady                 // records (possibly none) are shown
	PhaseFailed                // retries exhausted
	PhaseBusy                  // backend still rate limited
)

// MessageType determines the styling of the message line.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

// ExitReason tells the caller why the dashboard closed.
type ExitReason int

const (
	ExitQuit           ExitReason = iota // user quit
	ExitNoSession                        // no identifier to work with
	ExitSessionExpired                   // backend rejected the session
	ExitLoggedOut                        // user logged out
)

// SessionCheckedMsg carries the result of the session check.
type SessionCheckedMsg struct {
	Result *session.Result
	Err    error
}

// LoadedMsg carries the outcome of one load.
type LoadedMsg struct {
	Outcome pipeline.Outcome
}

// LoggedOutMsg reports the end of the logout request.
type LoggedOutMsg struct {
	Err error
}

// SearchState holds the search box.
type SearchState struct {
	Input textinput.Model
}

// NewSearchState creates a SearchState with an initialized input.
func NewSearchState(cfg layout.LayoutConfig) SearchState {
	input := textinput.New()
	input.Placeholder = "Search bookmarks..."
	input.Prompt = "/"
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.SearchWidth

	return SearchState{Input: input}
}

// ConfirmState holds the target of a pending confirmation.
type ConfirmState struct {
	BookmarkID string
	Preview    string
}
