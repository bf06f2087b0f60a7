package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// LogManager shows recent log records in a scrolling panel. It is an
// slog.Handler so the session's logger can write to it directly.
type LogManager struct {
	// textView is the tview component for displaying logs
	textView *tview.TextView

	level slog.Leveler
	attrs []slog.Attr
	group string

	// mu serializes writes so lines do not interleave
	mu *sync.Mutex
}

// NewLogManager creates a log panel keeping at most maxLines lines and
// showing records at level or above.
func NewLogManager(maxLines int, level slog.Leveler) *LogManager {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetMaxLines(maxLines)

	textView.SetBorder(true).SetTitle(" Logs ")

	return &LogManager{
		textView: textView,
		level:    level,
		mu:       &sync.Mutex{},
	}
}

// GetView returns the tview component
func (lm *LogManager) GetView() *tview.TextView {
	return lm.textView
}

func (lm *LogManager) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lm.level.Level()
}

// Handle writes one line: time, colored level, message and attributes.
func (lm *LogManager) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)

	write := func(a slog.Attr, group string) {
		if a.Equal(slog.Attr{}) {
			return
		}
		key := a.Key
		if group != "" {
			key = group + "." + key
		}
		fmt.Fprintf(&b, " [gray]%s=[-]%s", key, tview.Escape(a.Value.String()))
	}
	for _, a := range lm.attrs {
		write(a, "")
	}
	r.Attrs(func(a slog.Attr) bool {
		write(a, lm.group)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	line := fmt.Sprintf("[gray]%s[-] [%s]%-5s[-] %s\n",
		ts.Format("15:04:05"), colorForLevel(r.Level), levelName(r.Level), b.String())

	lm.mu.Lock()
	defer lm.mu.Unlock()
	if _, err := fmt.Fprint(lm.textView, line); err != nil {
		return err
	}
	lm.textView.ScrollToEnd()
	return nil
}

func (lm *LogManager) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *lm
	c.attrs = append([]slog.Attr(nil), lm.attrs...)
	for _, a := range attrs {
		// Attributes keep the group that was open when they were added.
		if c.group != "" {
			a.Key = c.group + "." + a.Key
		}
		c.attrs = append(c.attrs, a)
	}
	return &c
}

func (lm *LogManager) WithGroup(name string) slog.Handler {
	c := *lm
	if c.group != "" {
		name = c.group + "." + name
	}
	c.group = name
	return &c
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// colorForLevel returns the tview color tag for a log level
func colorForLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "red"
	case level >= slog.LevelWarn:
		return "yellow"
	case level >= slog.LevelInfo:
		return "white"
	default:
		return "gray"
	}
}
