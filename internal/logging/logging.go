// Package logging sets up the structured logger shared by the flightlog
// binaries: JSON records written to a size-rotated file.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much the logger writes.
type Options struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string

	// Dir is the directory holding the log file. Empty means the flightlog
	// directory under the user config dir.
	Dir string

	// Filename within Dir (default: flightlog.slog)
	Filename string

	// MaxSizeMB is the size at which the file is rotated (default: 16)
	MaxSizeMB int

	// MaxBackups is the number of rotated files to keep (default: 2)
	MaxBackups int
}

// Logger is a *slog.Logger that also knows where it writes, so binaries can
// show the path and close the file on exit.
type Logger struct {
	*slog.Logger
	LogFile string

	w *lumberjack.Logger
}

// New opens a rotating JSON log according to opts and writes a short
// startup record describing the build.
func New(opts Options) (*Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	dir := opts.Dir
	if dir == "" {
		cd, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to find user config dir: %w", err)
		}
		dir = filepath.Join(cd, "flightlog")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	if opts.Filename == "" {
		opts.Filename = "flightlog.slog"
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 16
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 2
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, opts.Filename),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	}

	l := &Logger{
		Logger:  slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})),
		LogFile: w.Filename,
		w:       w,
	}

	l.Info("Hello logging",
		slog.String("GOARCH", runtime.GOARCH),
		slog.String("GOOS", runtime.GOOS),
		slog.String("level", lvl.String()))
	if bi, ok := debug.ReadBuildInfo(); ok {
		l.Info("Build",
			slog.String("go_version", bi.GoVersion),
			slog.String("path", bi.Path),
			slog.String("version", bi.Main.Version))
	}

	return l, nil
}

// Close flushes and closes the underlying log file.
func (l *Logger) Close() error {
	if l == nil || l.w == nil {
		return nil
	}
	return l.w.Close()
}

// ParseLevel converts a config level string to a slog.Level. The empty
// string means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
}

// NewWriter returns a text logger writing to w, for tests and for the TUI
// log panel.
func NewWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// OrDiscard returns l, or a logger that drops everything when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.New(discardHandler{})
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// Tee returns a handler that passes each record to every handler that has
// the record's level enabled.
func Tee(handlers ...slog.Handler) slog.Handler {
	return teeHandler(handlers)
}

type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
