package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nikbrunner/bmdash/internal/api"
	"github.com/nikbrunner/bmdash/internal/logger"
	"github.com/nikbrunner/bmdash/internal/model"
	"github.com/nikbrunner/bmdash/internal/pipeline"
	"github.com/nikbrunner/bmdash/internal/session"
	"github.com/nikbrunner/bmdash/internal/storage"
	"github.com/nikbrunner/bmdash/internal/view"
)

// logFileName lives next to the session store.
const logFileName = "bmdash.log"

// ErrLoginRequired is returned when a command needs a session and none is
// usable.
var ErrLoginRequired = errors.New("login required")

// runtime holds everything a command needs to talk to the backend.
type runtime struct {
	cfg       *storage.Config
	log       logger.Logger
	store     storage.Store
	client    *api.Client
	guard     *session.Guard
	projector view.Projector
	clock     func() time.Time
}

// stateDir returns the --state-dir value or ~/.config/bmdash.
func stateDir(g *GlobalFlags) (string, error) {
	if g.StateDir != "" {
		return g.StateDir, nil
	}
	return storage.DefaultDir()
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(g *GlobalFlags) (*storage.Config, error) {
	path := g.Config
	if path == "" {
		if g.StateDir != "" {
			path = filepath.Join(g.StateDir, storage.ConfigFileName)
		} else {
			var err error
			if path, err = storage.DefaultConfigFilePath(); err != nil {
				return nil, fmt.Errorf("get config path: %w", err)
			}
		}
	}

	cfg, err := storage.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if g.BaseURL != "" {
		cfg.BaseURL = g.BaseURL
	}
	if g.LogLevel != "" {
		if !logger.ValidLevel(g.LogLevel) {
			return nil, fmt.Errorf("invalid --log-level %q", g.LogLevel)
		}
		cfg.LogLevel = g.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// setup opens config, log, store and backend client.
func setup(g *GlobalFlags) (*runtime, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}

	dir, err := stateDir(g)
	if err != nil {
		return nil, fmt.Errorf("get state directory: %w", err)
	}

	log, err := logger.New(cfg.LogLevel, filepath.Join(dir, logFileName))
	if err != nil {
		return nil, err
	}

	store, err := storage.OpenStoreKind(dir, g.Store)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open session store: %w", err)
	}

	client, err := api.NewClient(api.ClientParams{BaseURL: cfg.BaseURL, Logger: log})
	if err != nil {
		if cerr := store.Close(); cerr != nil {
			log.Warn("close store", logger.Error(cerr))
		}
		_ = log.Sync()
		return nil, err
	}

	return &runtime{
		cfg:    cfg,
		log:    log,
		store:  store,
		client: client,
		guard:  session.NewGuard(session.GuardParams{Store: store, Backend: client, Logger: log}),
		clock:  time.Now,
	}, nil
}

// Close releases the store and flushes the log.
func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.log.Warn("close store", logger.Error(err))
	}
	_ = r.log.Sync()
}

func (r *runtime) newLoader() *pipeline.Loader {
	return pipeline.NewLoader(pipeline.LoaderParams{
		Fetcher:    r.client,
		Logger:     r.log,
		MaxResults: r.cfg.MaxResults,
	})
}

// newDashboard builds an empty dashboard with the configured modes. A
// non-empty sortFlag wins over the config.
func (r *runtime) newDashboard(sortFlag string) (*model.Dashboard, error) {
	name := r.cfg.DefaultSort
	if sortFlag != "" {
		name = sortFlag
	}
	sortMode, err := model.ParseSortMode(name)
	if err != nil {
		return nil, err
	}
	viewMode, err := model.ParseViewMode(r.cfg.DefaultView)
	if err != nil {
		return nil, err
	}
	return model.NewDashboard(model.NewDashboardParams{SortMode: sortMode, ViewMode: viewMode}), nil
}

// authenticate resolves and checks the session for a one-shot command.
func (r *runtime) authenticate(ctx context.Context, flagValue string) (string, error) {
	userID, err := r.guard.Resolve(flagValue)
	if err != nil {
		return "", err
	}

	if _, err := r.guard.Check(ctx, userID); err != nil {
		return "", loginError(err)
	}
	return userID, nil
}

// fetch runs one retrieval and maps the outcome to records or an error.
func (r *runtime) fetch(ctx context.Context, userID string) ([]model.Bookmark, error) {
	out := r.newLoader().Load(ctx, userID)

	switch out.Kind {
	case pipeline.Populated, pipeline.Empty:
		return out.Records, nil
	case pipeline.Unauthorized:
		r.guard.Clear()
		return nil, loginError(fmt.Errorf("%w: %w", session.ErrSessionExpired, out.Err))
	case pipeline.Busy:
		return nil, fmt.Errorf("service busy after %d retries, try again later: %w", out.Retries, out.Err)
	case pipeline.Canceled:
		return nil, fmt.Errorf("load canceled: %w", out.Err)
	default:
		return nil, fmt.Errorf("load bookmarks after %d retries: %w", out.Retries, out.Err)
	}
}

// project fetches and projects records with the command's sort and search.
func (r *runtime) project(ctx context.Context, userID, sortFlag, term string) (view.Projection, error) {
	dashboard, err := r.newDashboard(sortFlag)
	if err != nil {
		return view.Projection{}, err
	}

	records, err := r.fetch(ctx, userID)
	if err != nil {
		return view.Projection{}, err
	}

	dashboard.Replace(records)
	dashboard.SetSearchTerm(term)
	return r.projector.ProjectDashboard(dashboard), nil
}

func loginError(err error) error {
	switch {
	case errors.Is(err, session.ErrNoSession):
		return fmt.Errorf("%w: no session found. %s", ErrLoginRequired, session.LoginHint)
	case errors.Is(err, session.ErrSessionExpired), errors.Is(err, api.ErrUnauthorized):
		return fmt.Errorf("%w: session expired. %s", ErrLoginRequired, session.LoginHint)
	}
	return err
}
