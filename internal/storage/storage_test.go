package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/unklstewy/flightlog/pkg/config"
	"github.com/unklstewy/flightlog/pkg/flights"
)

func TestFileSlot(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")

	slot, err := NewFileSlot(dir, "safr_flights")
	if err != nil {
		t.Fatalf("NewFileSlot: %v", err)
	}
	if filepath.Base(slot.Path()) != "safr_flights.json" {
		t.Errorf("Path() = %s", slot.Path())
	}

	t.Run("Empty slot", func(t *testing.T) {
		if _, err := slot.Load(ctx); !errors.Is(err, flights.ErrNoData) {
			t.Errorf("Load on empty slot: err = %v, want ErrNoData", err)
		}
	})

	t.Run("Save and load", func(t *testing.T) {
		if err := slot.Save(ctx, []byte(`{"version":1,"flights":[]}`)); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if err := slot.Save(ctx, []byte(`[]`)); err != nil {
			t.Fatalf("second Save: %v", err)
		}
		data, err := slot.Load(ctx)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if string(data) != "[]" {
			t.Errorf("Load = %q, want the last save", data)
		}
	})

	t.Run("No temp files left behind", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), ".tmp") {
				t.Errorf("leftover temp file %s", e.Name())
			}
		}
	})

	t.Run("Cancelled save", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if err := slot.Save(cctx, []byte("x")); err == nil {
			t.Error("Save with cancelled context should fail")
		}
	})
}

func TestFileSlotInvalidName(t *testing.T) {
	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		if _, err := NewFileSlot(t.TempDir(), name); err == nil {
			t.Errorf("NewFileSlot(%q) should fail", name)
		}
	}
}

func TestFileSlotWithStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	slot, err := NewFileSlot(dir, "trips")
	if err != nil {
		t.Fatal(err)
	}
	s, err := flights.Open(ctx, slot, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f := flights.Flight{ID: "1", Origin: "JFK", Destination: "LHR", Date: "2024-03-01", Distance: 5555, Year: 2024}
	if err := s.Add(ctx, f); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// A second store over the same file sees the flight
	again, _ := NewFileSlot(dir, "trips")
	s2, err := flights.Open(ctx, again, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if s2.Len() != 1 || s2.List()[0].ID != "1" {
		t.Errorf("reopened store has %v", s2.List())
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("File driver", func(t *testing.T) {
		dir := t.TempDir()
		slot, err := Open(ctx, config.StorageConfig{Driver: "file", DataDir: dir, Slot: "safr_flights"}, nil)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		defer slot.Close()
		if slot.Describe() != filepath.Join(dir, "safr_flights.json") {
			t.Errorf("Describe() = %s", slot.Describe())
		}
	})

	t.Run("Memory driver", func(t *testing.T) {
		slot, err := Open(ctx, config.StorageConfig{Driver: "memory", Slot: "x"}, nil)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if _, err := slot.Load(ctx); !errors.Is(err, flights.ErrNoData) {
			t.Errorf("fresh memory slot: err = %v", err)
		}
		if err := slot.Save(ctx, []byte("[]")); err != nil {
			t.Fatal(err)
		}
		if data, _ := slot.Load(ctx); string(data) != "[]" {
			t.Errorf("Load = %q", data)
		}
	})

	t.Run("Unknown driver", func(t *testing.T) {
		if _, err := Open(ctx, config.StorageConfig{Driver: "sqlite"}, nil); err == nil {
			t.Error("expected error for unknown driver")
		}
	})
}

func TestConnString(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "db.local",
		Port:     5433,
		Username: "pilot",
		Password: "secret",
		Database: "flightlog",
		SSLMode:  "require",
	}
	want := "host=db.local port=5433 user=pilot password=secret dbname=flightlog sslmode=require"
	if got := connString(cfg); got != want {
		t.Errorf("connString = %q, want %q", got, want)
	}
}

// TestPostgresSlot runs against a live database when one is reachable
// with the default configuration, and is skipped otherwise.
func TestPostgresSlot(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	cfg := config.DefaultConfig().Storage.Database
	if pw := os.Getenv("FLIGHTLOG_DB_PASSWORD"); pw != "" {
		cfg.Password = pw
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Connect(ctx, cfg)
	if err != nil {
		t.Skipf("no database available: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	if !HealthCheck(ctx, db) {
		t.Fatal("HealthCheck failed on a live connection")
	}

	name := "test_" + time.Now().Format("150405.000000")
	slot := NewPostgresSlot(db, name, nil)
	defer db.ExecContext(context.Background(), `DELETE FROM slots WHERE name = $1`, name)

	if _, err := slot.Load(ctx); !errors.Is(err, flights.ErrNoData) {
		t.Errorf("Load on empty slot: err = %v, want ErrNoData", err)
	}
	for _, payload := range []string{`[]`, `{"version":1,"flights":[]}`} {
		if err := slot.Save(ctx, []byte(payload)); err != nil {
			t.Fatalf("Save: %v", err)
		}
		data, err := slot.Load(ctx)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if string(data) != payload {
			t.Errorf("Load = %q, want %q", data, payload)
		}
	}
}

func TestHealthCheckNil(t *testing.T) {
	if HealthCheck(context.Background(), nil) {
		t.Error("HealthCheck(nil) = true")
	}
}

func TestWithRetry(t *testing.T) {
	retryUnit = time.Millisecond
	defer func() { retryUnit = time.Second }()
	ctx := context.Background()

	t.Run("Retries connection errors", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.New("dial tcp: connection refused")
			}
			return nil
		}, 3, nil)
		if err != nil {
			t.Errorf("err = %v", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("Gives up after max retries", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			return errors.New("read: connection reset by peer")
		}, 2, nil)
		if err == nil {
			t.Error("expected error")
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("Other errors are not retried", func(t *testing.T) {
		calls := 0
		err := WithRetry(ctx, func() error {
			calls++
			return errors.New(`pq: relation "slots" does not exist`)
		}, 5, nil)
		if err == nil || calls != 1 {
			t.Errorf("err = %v, calls = %d, want one failing call", err, calls)
		}
	})
}

func TestIsConnError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("Connection Refused"), true},
		{errors.New("unexpected EOF"), true},
		{errors.New("i/o timeout"), true},
		{errors.New("duplicate key value"), false},
	}
	for _, tt := range tests {
		if got := isConnError(tt.err); got != tt.want {
			t.Errorf("isConnError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
