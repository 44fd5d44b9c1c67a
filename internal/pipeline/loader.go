package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nikbrunner/bmdash/internal/api"
	"github.com/nikbrunner/bmdash/internal/logger"
	"github.com/nikbrunner/bmdash/internal/model"
)

// Fetcher retrieves one page of raw bookmarks.
type Fetcher interface {
	Bookmarks(ctx context.Context, userID string, maxResults int) (*api.BookmarksPage, error)
}

// Kind classifies how a load ended.
type Kind int

const (
	Populated    Kind = iota // at least one valid record
	Empty                    // fetch succeeded, nothing to show
	Failed                   // transient failures exhausted the retries
	Busy                     // still rate limited after the last retry
	Unauthorized             // backend rejected the session
	Canceled                 // superseded by a newer load or shut down
)

func (k Kind) String() string {
	switch k {
	case Populated:
		return "populated"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	case Busy:
		return "busy"
	case Unauthorized:
		return "unauthorized"
	case Canceled:
		return "canceled"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome is the terminal state of one load.
type Outcome struct {
	Generation uint64
	Kind       Kind
	Records    []model.Bookmark
	Retries    int
	Err        error
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Loader runs the fetch-retry-normalize sequence. Starting a load cancels
// the one before it; outcomes carry a generation so late arrivals can be
// told apart from the current load.
type Loader struct {
	fetcher        Fetcher
	log            logger.Logger
	maxResults     int
	attemptTimeout time.Duration
	now            func() time.Time
	wait           WaitFunc

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// LoaderParams holds parameters for creating a new Loader.
type LoaderParams struct {
	Fetcher        Fetcher
	Logger         logger.Logger    // optional
	MaxResults     int              // sent as max_results; 0 omits it
	AttemptTimeout time.Duration    // optional, defaults to AttemptTimeout
	Now            func() time.Time // optional, for normalization defaults
	Wait           WaitFunc         // optional, defaults to a timer
}

// NewLoader creates a Loader.
func NewLoader(params LoaderParams) *Loader {
	l := &Loader{
		fetcher:        params.Fetcher,
		log:            params.Logger,
		maxResults:     params.MaxResults,
		attemptTimeout: params.AttemptTimeout,
		now:            params.Now,
		wait:           params.Wait,
	}
	if l.log == nil {
		l.log = logger.Nop()
	}
	if l.attemptTimeout <= 0 {
		l.attemptTimeout = AttemptTimeout
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.wait == nil {
		l.wait = sleep
	}
	return l
}

// Run is a single load started by Start.
type Run struct {
	Generation uint64

	loader *Loader
	ctx    context.Context
	cancel context.CancelFunc
}

// Start begins a new load generation and cancels any load still running.
func (l *Loader) Start(parent context.Context) *Run {
	ctx, cancel := context.WithCancel(parent)

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.generation++
	l.cancel = cancel
	gen := l.generation
	l.mu.Unlock()

	return &Run{Generation: gen, loader: l, ctx: ctx, cancel: cancel}
}

// Current returns the generation of the most recent Start.
func (l *Loader) Current() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generation
}

// IsCurrent reports whether gen is the latest generation.
func (l *Loader) IsCurrent(gen uint64) bool {
	return l.Current() == gen
}

// Stop cancels the running load, if any.
func (l *Loader) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Load is Start followed by Execute.
func (l *Loader) Load(ctx context.Context, userID string) Outcome {
	return l.Start(ctx).Execute(userID)
}

// Execute performs the load. Blocks through retries and backoff waits.
func (r *Run) Execute(userID string) Outcome {
	defer r.cancel()

	l := r.loader
	out := Outcome{Generation: r.Generation}

	for attempt := 0; ; attempt++ {
		out.Retries = attempt

		if r.ctx.Err() != nil {
			return r.canceled(out)
		}

		page, err := r.fetch(userID)

		if r.ctx.Err() != nil {
			return r.canceled(out)
		}

		switch {
		case err != nil && errors.Is(err, api.ErrUnauthorized):
			l.log.Warn("bookmarks request unauthorized",
				logger.Uint64("generation", r.Generation),
				logger.Int("attempt", attempt))
			out.Kind = Unauthorized
			out.Err = err
			return out

		case err != nil:
			if attempt >= MaxRetries {
				l.log.Error("giving up on bookmarks",
					logger.Uint64("generation", r.Generation),
					logger.Int("retries", attempt),
					logger.Error(err))
				out.Kind = Failed
				out.Err = fmt.Errorf("no bookmarks after %d retries: %w", attempt, err)
				return out
			}
			delay := BackoffDelay(attempt)
			l.log.Warn("bookmarks request failed, retrying",
				logger.Uint64("generation", r.Generation),
				logger.Int("attempt", attempt+1),
				logger.Int("max_retries", MaxRetries),
				logger.Duration("next_retry_in", delay),
				logger.Error(err))
			if err := l.wait(r.ctx, delay); err != nil {
				return r.canceled(out)
			}

		case page.RateLimited:
			if attempt >= MaxRetries {
				l.log.Error("backend still rate limited",
					logger.Uint64("generation", r.Generation),
					logger.Int("retries", attempt),
					logger.String("message", page.Message))
				out.Kind = Busy
				out.Err = fmt.Errorf("%w: %s", api.ErrRateLimited, page.Message)
				return out
			}
			delay := RateLimitDelay(attempt)
			l.log.Warn("backend rate limited, waiting",
				logger.Uint64("generation", r.Generation),
				logger.Int("attempt", attempt+1),
				logger.Duration("next_retry_in", delay),
				logger.String("message", page.Message))
			if err := l.wait(r.ctx, delay); err != nil {
				return r.canceled(out)
			}

		default:
			out.Records = model.Normalize(page.Items, l.now())
			out.Kind = Populated
			if len(out.Records) == 0 {
				out.Kind = Empty
			}
			l.log.Info("bookmarks loaded",
				logger.Uint64("generation", r.Generation),
				logger.Int("raw", len(page.Items)),
				logger.Int("valid", len(out.Records)),
				logger.Int("retries", attempt))
			return out
		}
	}
}

// fetch performs one attempt under the per-attempt deadline.
func (r *Run) fetch(userID string) (*api.BookmarksPage, error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.loader.attemptTimeout)
	defer cancel()

	page, err := r.loader.fetcher.Bookmarks(ctx, userID, r.loader.maxResults)
	if err == nil && page == nil {
		err = fmt.Errorf("%w: %w", api.ErrTransient, api.ErrInvalidResponse)
	}
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && r.ctx.Err() == nil {
		err = fmt.Errorf("%w: attempt timed out after %s: %w", api.ErrTransient, r.loader.attemptTimeout, err)
	}
	return page, err
}

func (r *Run) canceled(out Outcome) Outcome {
	out.Kind = Canceled
	out.Records = nil
	out.Err = r.ctx.Err()
	return out
}
