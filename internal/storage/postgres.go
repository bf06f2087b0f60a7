package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/unklstewy/flightlog/internal/logging"
	"github.com/unklstewy/flightlog/pkg/config"
	"github.com/unklstewy/flightlog/pkg/flights"
)

//go:embed schema.sql
var schemaSQL embed.FS

// DB wraps a database connection with helper methods.
type DB struct {
	*sql.DB
	config config.DatabaseConfig
}

// connString builds the lib/pq keyword/value connection string.
func connString(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		cfg.SSLMode,
	)
}

// Connect establishes a connection to the PostgreSQL database.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	sqlDB, err := sql.Open("postgres", connString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB, config: cfg}, nil
}

// InitSchema creates the slots table if it does not exist.
// This should be called once at application startup.
func (db *DB) InitSchema(ctx context.Context) error {
	schemaBytes, err := schemaSQL.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaBytes)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// PostgresSlot keeps a slot as one row of the slots table.
type PostgresSlot struct {
	db     *DB
	name   string
	logger *slog.Logger
}

// NewPostgresSlot returns the slot called name in db.
func NewPostgresSlot(db *DB, name string, logger *slog.Logger) *PostgresSlot {
	return &PostgresSlot{db: db, name: name, logger: logging.OrDiscard(logger)}
}

func (s *PostgresSlot) Describe() string {
	return fmt.Sprintf("postgres://%s:%d/%s#%s", s.db.config.Host, s.db.config.Port, s.db.config.Database, s.name)
}

func (s *PostgresSlot) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := WithRetry(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			`SELECT value FROM slots WHERE name = $1`,
			s.name,
		).Scan(&data)
	}, 2, s.logger)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, flights.ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", s.name, err)
	}
	return data, nil
}

func (s *PostgresSlot) Save(ctx context.Context, data []byte) error {
	err := WithRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO slots (name, value, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (name) DO UPDATE
			SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
		`, s.name, data)
		return err
	}, 2, s.logger)
	if err != nil {
		return fmt.Errorf("failed to save slot %s: %w", s.name, err)
	}
	return nil
}

func (s *PostgresSlot) Close() error {
	return s.db.Close()
}
