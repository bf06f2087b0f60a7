package flights

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mohae/deepcopy"

	"github.com/unklstewy/flightlog/internal/logging"
)

// Store is the authoritative flight collection, newest flight first.
// Every mutation is followed by a synchronous save of the whole collection.
// Store is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	flights []Flight
	storage Storage
	logger  *slog.Logger
}

// Open creates a store initialized from storage. An empty slot gives an
// empty store, and so does unreadable data, which is logged as a warning.
// Errors reaching the storage itself are returned so that a transient
// failure is not mistaken for an empty history and overwritten.
func Open(ctx context.Context, storage Storage, logger *slog.Logger) (*Store, error) {
	s := &Store{
		flights: []Flight{},
		storage: storage,
		logger:  logging.OrDiscard(logger),
	}

	data, err := storage.Load(ctx)
	switch {
	case errors.Is(err, ErrNoData):
		s.logger.Info("No saved flights, starting empty")
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load flights: %w", err)
	}

	flights, err := Decode(data)
	if err != nil {
		s.logger.Warn("Discarding malformed saved flights",
			slog.Int("bytes", len(data)),
			slog.Any("error", err))
		return s, nil
	}
	if flights != nil {
		s.flights = flights
	}

	s.logger.Info("Loaded flights", slog.Int("count", len(s.flights)))
	return s, nil
}

// Add makes f the newest flight.
func (s *Store) Add(ctx context.Context, f Flight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flights = append([]Flight{f}, s.flights...)
	s.logger.Debug("Added flight", slog.String("id", f.ID), slog.String("route", f.Route()))
	return s.saveLocked(ctx)
}

// Remove deletes the flight with the given id, reporting whether it was
// present. Removing an unknown id leaves the collection unchanged.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Flight, 0, len(s.flights))
	for _, f := range s.flights {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	removed := len(kept) != len(s.flights)
	s.flights = kept

	if removed {
		s.logger.Debug("Removed flight", slog.String("id", id))
	}
	return removed, s.saveLocked(ctx)
}

// Update replaces the flight with f's id, keeping its position, and
// reports whether it was present.
func (s *Store) Update(ctx context.Context, f Flight) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := false
	for i := range s.flights {
		if s.flights[i].ID == f.ID {
			s.flights[i] = f
			updated = true
		}
	}

	if updated {
		s.logger.Debug("Updated flight", slog.String("id", f.ID))
	}
	return updated, s.saveLocked(ctx)
}

// List returns a copy of the collection, newest first.
func (s *Store) List() []Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deepcopy.Copy(s.flights).([]Flight)
}

// Get returns the flight with the given id.
func (s *Store) Get(id string) (Flight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.flights {
		if f.ID == id {
			return f, true
		}
	}
	return Flight{}, false
}

// Len returns the number of flights.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flights)
}

func (s *Store) saveLocked(ctx context.Context) error {
	data, err := Encode(s.flights)
	if err != nil {
		return err
	}
	if err := s.storage.Save(ctx, data); err != nil {
		s.logger.Error("Failed to save flights", slog.Any("error", err))
		return fmt.Errorf("failed to save flights: %w", err)
	}
	return nil
}
