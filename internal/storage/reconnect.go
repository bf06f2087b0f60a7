package storage

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/unklstewy/flightlog/internal/logging"
	"github.com/unklstewy/flightlog/pkg/config"
)

const (
	connectDelay    = time.Second
	maxConnectDelay = 60 * time.Second
)

// ReconnectWithRetry connects to the database with exponential backoff.
//
// Parameters:
//   - cfg: Database configuration
//   - maxRetries: Maximum number of connection attempts (0 = until ctx is done)
//   - initialDelay: Initial wait time between attempts
//
// Returns: Connected database or the last error once attempts are exhausted
func ReconnectWithRetry(ctx context.Context, cfg config.DatabaseConfig, maxRetries int, initialDelay time.Duration, logger *slog.Logger) (*DB, error) {
	logger = logging.OrDiscard(logger)
	delay := initialDelay
	attempt := 0

	for {
		attempt++
		logger.Debug("database connection attempt", "attempt", attempt, "host", cfg.Host)

		db, err := Connect(ctx, cfg)
		if err == nil {
			if attempt > 1 {
				logger.Info("database connected", "attempts", attempt)
			}
			return db, nil
		}

		if maxRetries > 0 && attempt >= maxRetries {
			logger.Error("database connection failed", "attempts", attempt, "error", err)
			return nil, err
		}

		logger.Warn("database connection failed", "error", err, "retry_in", delay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		// Exponential backoff with cap
		delay = min(delay*2, maxConnectDelay)
	}
}

// HealthCheck reports whether the database answers a trivial query.
func HealthCheck(ctx context.Context, db *DB) bool {
	if db == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return false
	}
	return result == 1
}

// connErrors are substrings of errors worth retrying.
var connErrors = []string{
	"connection refused",
	"broken pipe",
	"no connection",
	"connection reset",
	"bad connection",
	"eof",
	"timeout",
}

func isConnError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range connErrors {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// WithRetry runs operation, retrying up to maxRetries times when it fails
// with what looks like a lost connection. Other errors return immediately.
func WithRetry(ctx context.Context, operation func() error, maxRetries int, logger *slog.Logger) error {
	logger = logging.OrDiscard(logger)
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isConnError(err) {
			return err
		}

		if attempt < maxRetries {
			waitTime := time.Duration(attempt+1) * retryUnit
			logger.Warn("database operation failed",
				"attempt", attempt+1, "max_attempts", maxRetries+1, "error", err, "retry_in", waitTime)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitTime):
			}
		}
	}

	return lastErr
}

// retryUnit scales the linear WithRetry backoff; tests shorten it.
var retryUnit = time.Second
