// Package session resolves the session identifier and checks it against the
// backend before the dashboard loads.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikbrunner/bmdash/internal/api"
	"github.com/nikbrunner/bmdash/internal/logger"
	"github.com/nikbrunner/bmdash/internal/storage"
)

// Key is the store key holding the session identifier.
const Key = "user_id"

// logoutTimeout bounds the fire-and-forget logout request.
const logoutTimeout = 5 * time.Second

var (
	// ErrNoSession means no identifier was supplied or stored.
	ErrNoSession = errors.New("no session found")

	// ErrSessionExpired means the backend reported the session as not
	// authenticated. Errors carrying it also match api.ErrUnauthorized.
	ErrSessionExpired = errors.New("session expired")
)

// Backend is the subset of the API client the guard needs.
type Backend interface {
	Session(ctx context.Context, userID string) (*api.SessionInfo, error)
	Logout(ctx context.Context, userID string) error
}

// Result describes a session that may proceed to loading bookmarks.
type Result struct {
	UserID   string
	Username string
	// Optimistic is set when the check itself failed and the session was
	// assumed valid.
	Optimistic bool
}

// Guard owns the session identifier.
type Guard struct {
	store   storage.Store
	backend Backend
	log     logger.Logger
}

// GuardParams holds parameters for creating a new Guard.
type GuardParams struct {
	Store   storage.Store
	Backend Backend
	Logger  logger.Logger // optional
}

// NewGuard creates a Guard.
func NewGuard(params GuardParams) *Guard {
	log := params.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Guard{store: params.Store, backend: params.Backend, log: log}
}

// Resolve picks the session identifier. A non-empty flag value wins and is
// persisted; otherwise the stored value is used. Returns "" when neither
// exists. A failed write is logged and does not stop the flag value from
// being used.
func (g *Guard) Resolve(flagValue string) (string, error) {
	if flagValue != "" {
		if err := g.store.Set(Key, flagValue); err != nil {
			g.log.Warn("could not persist session id", logger.Error(err))
		}
		return flagValue, nil
	}

	stored, ok, err := g.store.Get(Key)
	if err != nil {
		return "", fmt.Errorf("read stored session: %w", err)
	}
	if !ok {
		return "", nil
	}
	return stored, nil
}

// Check validates userID against the backend.
func (g *Guard) Check(ctx context.Context, userID string) (*Result, error) {
	if userID == "" {
		return nil, ErrNoSession
	}

	info, err := g.backend.Session(ctx, userID)
	switch {
	case err != nil && ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, api.ErrUnauthorized):
		return nil, g.expire()
	case err != nil:
		g.log.Warn("session check failed, continuing optimistically", logger.Error(err))
		return &Result{UserID: userID, Optimistic: true}, nil
	case !info.Authenticated:
		return nil, g.expire()
	}

	return &Result{UserID: userID, Username: info.Username}, nil
}

func (g *Guard) expire() error {
	g.log.Info("session not authenticated, clearing stored id")
	g.Clear()
	return fmt.Errorf("%w: %w", ErrSessionExpired, api.ErrUnauthorized)
}

// Clear forgets the stored identifier.
func (g *Guard) Clear() {
	if err := g.store.Delete(Key); err != nil {
		g.log.Warn("could not clear stored session id", logger.Error(err))
	}
}

// Logout notifies the backend and clears the stored identifier whatever the
// backend says. The returned error is informational only.
func (g *Guard) Logout(ctx context.Context, userID string) error {
	defer g.Clear()

	if userID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, logoutTimeout)
	defer cancel()

	if err := g.backend.Logout(ctx, userID); err != nil {
		g.log.Warn("logout request failed", logger.Error(err))
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// LoginHint is shown whenever the user has to sign in again.
const LoginHint = "Sign in through the web flow, then run: bmdash --user-id <id>"
