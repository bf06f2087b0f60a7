// Package storage provides the durable slots a flights.Store saves into:
// a JSON file on disk, a row in PostgreSQL, or process memory.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/unklstewy/flightlog/internal/logging"
	"github.com/unklstewy/flightlog/pkg/config"
	"github.com/unklstewy/flightlog/pkg/flights"
)

// Slot is a flights.Storage that may hold resources until closed.
type Slot interface {
	flights.Storage
	Close() error
	// Describe names where the data lives, for status lines and logs.
	Describe() string
}

// Open returns the slot selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Slot, error) {
	logger = logging.OrDiscard(logger)

	switch cfg.Driver {
	case "", "file":
		dir := cfg.DataDir
		if dir == "" {
			var err error
			if dir, err = DefaultDataDir(); err != nil {
				return nil, err
			}
		}
		return NewFileSlot(dir, cfg.Slot)

	case "postgres":
		db, err := ReconnectWithRetry(ctx, cfg.Database, cfg.Database.ConnectRetries, connectDelay, logger)
		if err != nil {
			return nil, err
		}
		if err := db.InitSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return NewPostgresSlot(db, cfg.Slot, logger), nil

	case "memory":
		return memorySlot{flights.NewMemoryStorage()}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// DefaultDataDir is the flightlog directory under the user config dir.
func DefaultDataDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to find user config dir: %w", err)
	}
	return filepath.Join(dir, "flightlog"), nil
}

type memorySlot struct {
	*flights.MemoryStorage
}

func (memorySlot) Close() error     { return nil }
func (memorySlot) Describe() string { return "memory" }
