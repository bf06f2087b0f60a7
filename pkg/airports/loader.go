package airports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/unklstewy/flightlog/internal/logging"
)

// Origin records where a loaded catalog came from.
type Origin string

const (
	OriginNone     Origin = ""
	OriginCache    Origin = "cache"
	OriginRemote   Origin = "remote"
	OriginFallback Origin = "fallback"
)

// Loader produces the session's airport list, trying the disk cache, then
// the remote source, then the built-in fallback list. The result is loaded
// once and reused; concurrent Load calls share a single in-flight load.
type Loader struct {
	remote Source
	cache  *DiskCache
	logger *slog.Logger

	group singleflight.Group

	mu       sync.Mutex
	airports []Airport
	origin   Origin
}

// NewLoader creates a loader. remote and cache may each be nil.
func NewLoader(remote Source, cache *DiskCache, logger *slog.Logger) *Loader {
	return &Loader{
		remote: remote,
		cache:  cache,
		logger: logging.OrDiscard(logger),
	}
}

// loadTimeout bounds a shared load once it no longer belongs to any one
// caller.
const loadTimeout = 2 * time.Minute

// Load returns the airport list, loading it on first use. It never fails
// for lack of data: when neither cache nor remote can serve, the fallback
// list is returned and the failure is logged. The only error is a
// cancelled ctx; a caller giving up does not cancel the load for others
// waiting on it.
func (l *Loader) Load(ctx context.Context) ([]Airport, error) {
	if airports, ok := l.loaded(); ok {
		return airports, nil
	}

	return l.shared(ctx, "load", func(ctx context.Context) ([]Airport, error) {
		if airports, ok := l.loaded(); ok {
			return airports, nil
		}

		airports, origin := l.load(ctx)

		l.mu.Lock()
		l.airports, l.origin = airports, origin
		l.mu.Unlock()
		return airports, nil
	})
}

// Refresh downloads the remote dataset regardless of what is loaded or
// cached, and updates both on success. On failure the previously loaded
// data is kept and the error wraps ErrCatalogUnavailable.
func (l *Loader) Refresh(ctx context.Context) ([]Airport, error) {
	return l.shared(ctx, "refresh", func(ctx context.Context) ([]Airport, error) {
		airports, err := l.fetchRemote(ctx)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.airports, l.origin = airports, OriginRemote
		l.mu.Unlock()
		return airports, nil
	})
}

// shared runs fn once per key for all concurrent callers. fn gets a
// context detached from any single caller; each caller stops waiting
// when its own ctx is done.
func (l *Loader) shared(ctx context.Context, key string, fn func(context.Context) ([]Airport, error)) ([]Airport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := l.group.DoChan(key, func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return fn(lctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Airport), nil
	}
}

// LoadInto loads the airport list and populates c with it.
func (l *Loader) LoadInto(ctx context.Context, c *Catalog) error {
	airports, err := l.Load(ctx)
	if err != nil {
		return err
	}
	c.Populate(airports)
	return nil
}

// Origin reports where the loaded list came from, or OriginNone before the
// first successful Load.
func (l *Loader) Origin() Origin {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.origin
}

func (l *Loader) loaded() ([]Airport, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.airports, l.origin != OriginNone
}

func (l *Loader) load(ctx context.Context) ([]Airport, Origin) {
	if l.cache != nil {
		airports, fetched, err := l.cache.Load()
		switch {
		case err == nil && len(airports) > 0:
			l.logger.Info("Loaded airports from cache",
				slog.String("path", l.cache.Path()),
				slog.Int("count", len(airports)),
				slog.Time("fetched", fetched))
			return airports, OriginCache
		case errors.Is(err, os.ErrNotExist):
			l.logger.Debug("No airport cache", slog.String("path", l.cache.Path()))
		case err != nil:
			l.logger.Warn("Ignoring airport cache", slog.String("path", l.cache.Path()), slog.Any("error", err))
		}
	}

	airports, err := l.fetchRemote(ctx)
	if err == nil {
		return airports, OriginRemote
	}

	l.logger.Warn("Using built-in fallback airports", slog.Any("error", err))
	return Fallback(), OriginFallback
}

func (l *Loader) fetchRemote(ctx context.Context) ([]Airport, error) {
	if l.remote == nil {
		return nil, fmt.Errorf("%w: no remote source configured", ErrCatalogUnavailable)
	}

	airports, err := l.remote.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	if l.cache != nil {
		source := "remote"
		if hs, ok := l.remote.(*HTTPSource); ok {
			source = hs.URL()
		}
		if err := l.cache.Store(airports, source); err != nil {
			l.logger.Warn("Failed to cache airports", slog.String("path", l.cache.Path()), slog.Any("error", err))
		}
	}
	return airports, nil
}
