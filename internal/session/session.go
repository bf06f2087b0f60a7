// Package session wires configuration, storage, the airport catalog and
// the flight store into the object the flightlog binaries work with.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/unklstewy/flightlog/internal/logging"
	"github.com/unklstewy/flightlog/internal/storage"
	"github.com/unklstewy/flightlog/pkg/airports"
	"github.com/unklstewy/flightlog/pkg/config"
	"github.com/unklstewy/flightlog/pkg/flights"
	"github.com/unklstewy/flightlog/pkg/stats"
)

// ErrUnknownAirport is returned when a code typed by the user is not in
// the loaded catalog.
var ErrUnknownAirport = errors.New("unknown airport")

// Session owns one flight history and the catalog used to interpret it.
type Session struct {
	Catalog *airports.Catalog
	Loader  *airports.Loader
	Store   *flights.Store

	slot   storage.Slot
	logger *slog.Logger
}

// Open builds a session from cfg: it opens the configured storage slot,
// restores the flight history from it, and prepares (but does not start)
// the airport loader.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Session, error) {
	logger = logging.OrDiscard(logger)

	slot, err := storage.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	loader, err := NewLoader(cfg.Airports, logger)
	if err != nil {
		slot.Close()
		return nil, err
	}

	s, err := New(ctx, slot, loader, logger)
	if err != nil {
		slot.Close()
		return nil, err
	}

	logger.Info("Session opened",
		slog.String("storage", slot.Describe()),
		slog.Int("flights", s.Store.Len()))
	return s, nil
}

// New assembles a session from already-built parts.
func New(ctx context.Context, slot storage.Slot, loader *airports.Loader, logger *slog.Logger) (*Session, error) {
	logger = logging.OrDiscard(logger)

	store, err := flights.Open(ctx, slot, logger)
	if err != nil {
		return nil, err
	}

	return &Session{
		Catalog: airports.NewCatalog(),
		Loader:  loader,
		Store:   store,
		slot:    slot,
		logger:  logger,
	}, nil
}

// NewLoader builds the cache → remote → fallback airport loader for cfg.
func NewLoader(cfg config.AirportsConfig, logger *slog.Logger) (*airports.Loader, error) {
	cachePath := cfg.CachePath
	if cachePath == "" {
		var err error
		if cachePath, err = airports.DefaultCachePath(); err != nil {
			return nil, fmt.Errorf("failed to find airport cache path: %w", err)
		}
	}

	retry := airports.DefaultRetryConfig()
	retry.MaxRetries = cfg.MaxRetries

	remote := airports.NewHTTPSource(airports.HTTPConfig{
		URL:               cfg.SourceURL,
		Timeout:           cfg.Timeout(),
		RequestsPerMinute: cfg.RequestsPerMinute,
		Retry:             retry,
	}, logger)

	return airports.NewLoader(remote, airports.NewDiskCache(cachePath, cfg.CacheMaxAge()), logger), nil
}

// LoadAirports populates the catalog, blocking until it is loaded.
func (s *Session) LoadAirports(ctx context.Context) error {
	return s.Loader.LoadInto(ctx, s.Catalog)
}

// LoadAirportsAsync populates the catalog in the background and calls done
// (if non-nil) from that goroutine when finished.
func (s *Session) LoadAirportsAsync(ctx context.Context, done func(error)) {
	go func() {
		err := s.LoadAirports(ctx)
		if err != nil {
			s.logger.Error("Airport load failed", slog.Any("error", err))
		}
		if done != nil {
			done(err)
		}
	}()
}

// RefreshAirports re-downloads the catalog and repopulates it.
func (s *Session) RefreshAirports(ctx context.Context) (int, error) {
	list, err := s.Loader.Refresh(ctx)
	if err != nil {
		return 0, err
	}
	s.Catalog.Populate(list)
	return len(list), nil
}

// Airport looks up a user-typed code.
func (s *Session) Airport(code string) (airports.Airport, error) {
	code = strings.TrimSpace(code)
	a, ok := s.Catalog.Lookup(code)
	if !ok {
		return airports.Airport{}, fmt.Errorf("%w %q", ErrUnknownAirport, strings.ToUpper(code))
	}
	return a, nil
}

// AddFlight logs a flight between two catalog airports.
func (s *Session) AddFlight(ctx context.Context, origin, destination, date string) (flights.Flight, error) {
	from, err := s.Airport(origin)
	if err != nil {
		return flights.Flight{}, err
	}
	to, err := s.Airport(destination)
	if err != nil {
		return flights.Flight{}, err
	}

	f, err := flights.New(from, to, date)
	if err != nil {
		return flights.Flight{}, err
	}
	if err := s.Store.Add(ctx, f); err != nil {
		return flights.Flight{}, err
	}
	s.logger.Info("Flight added", slog.String("id", f.ID), slog.String("route", f.Route()), slog.String("date", f.Date))
	return f, nil
}

// EditFlight rebuilds flight id with any non-empty replacement fields. The
// distance and country names are recomputed from the catalog. A missing id
// reports false without error.
func (s *Session) EditFlight(ctx context.Context, id, origin, destination, date string) (flights.Flight, bool, error) {
	old, ok := s.Store.Get(id)
	if !ok {
		return flights.Flight{}, false, nil
	}

	if origin == "" {
		origin = old.Origin
	}
	if destination == "" {
		destination = old.Destination
	}
	if date == "" {
		date = old.Date
	}

	from, err := s.Airport(origin)
	if err != nil {
		return flights.Flight{}, true, err
	}
	to, err := s.Airport(destination)
	if err != nil {
		return flights.Flight{}, true, err
	}

	f, err := flights.NewFlight(id, from, to, date)
	if err != nil {
		return flights.Flight{}, true, err
	}
	if _, err := s.Store.Update(ctx, f); err != nil {
		return flights.Flight{}, true, err
	}
	s.logger.Info("Flight updated", slog.String("id", f.ID), slog.String("route", f.Route()), slog.String("date", f.Date))
	return f, true, nil
}

// RemoveFlight deletes flight id, reporting whether it existed.
func (s *Session) RemoveFlight(ctx context.Context, id string) (bool, error) {
	removed, err := s.Store.Remove(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.Info("Flight removed", slog.String("id", id))
	}
	return removed, nil
}

// Summary computes statistics over the current history.
func (s *Session) Summary() stats.Summary {
	return stats.ComputeWithCatalog(s.Store.List(), s.Catalog)
}

// StorageName describes where the history is kept.
func (s *Session) StorageName() string {
	return s.slot.Describe()
}

// Close releases the storage slot.
func (s *Session) Close() error {
	return s.slot.Close()
}
