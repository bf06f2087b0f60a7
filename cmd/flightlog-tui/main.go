package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/paulmach/orb/geojson"

	"github.com/unklstewy/flightlog/internal/logging"
	"github.com/unklstewy/flightlog/internal/session"
	"github.com/unklstewy/flightlog/pkg/config"
	"github.com/unklstewy/flightlog/pkg/countries"
)

var (
	// Version information (set by build flags)
	version = "dev"
	commit  = "unknown"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Path to configuration file (.json, .yaml or .yml)")
	boundariesPath := flag.String("boundaries", "", "Country boundaries GeoJSON (overrides animation.boundaries_path)")
	showVersion := flag.Bool("version", false, "Show version information")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.Usage = printHelp
	flag.Parse()

	if *showVersion {
		fmt.Printf("flightlog-tui version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	logs := NewLogManager(200, level)

	// Records go to the log panel and, when it can be opened, the log file.
	handler := slog.Handler(logs)
	fileLogger, err := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		Dir:        cfg.Logging.Dir,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err == nil {
		defer fileLogger.Close()
		handler = logging.Tee(fileLogger.Handler(), logs)
	}
	logger := slog.New(handler)
	if err != nil {
		logger.Warn("Log file unavailable", slog.Any("error", err))
	}

	logger.Info("Starting flightlog-tui",
		slog.String("version", version),
		slog.String("config", *configPath),
		slog.String("storage_driver", cfg.Storage.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess, err := session.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open flight history: %v", err)
	}
	defer sess.Close()

	path := cfg.Animation.BoundariesPath
	if *boundariesPath != "" {
		path = *boundariesPath
	}
	boundaries, err := loadBoundaries(path)
	if err != nil {
		logger.Warn("Country boundaries not loaded", slog.String("path", path), slog.Any("error", err))
	}

	app := NewApp(ctx, &AppConfig{
		Config:     cfg,
		Session:    sess,
		Logger:     logger,
		Logs:       logs,
		Boundaries: boundaries,
	})

	if err := app.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

// loadBoundaries reads a boundaries file; an empty path loads nothing.
func loadBoundaries(path string) (*geojson.FeatureCollection, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return countries.LoadBoundaries(f)
}

// printHelp prints usage information
func printHelp() {
	fmt.Println("flightlog-tui - Interactive flight history globe")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  flightlog-tui [options]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -config string")
	fmt.Printf("        Path to configuration file (default: %s)\n", config.DefaultPath())
	fmt.Println("  -boundaries string")
	fmt.Println("        Country boundaries GeoJSON for visited-country highlighting")
	fmt.Println("  -version")
	fmt.Println("        Show version information")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println()
	fmt.Println("KEYBOARD SHORTCUTS:")
	fmt.Println("  ←/↑/↓/→        Rotate the globe (pauses auto-rotation)")
	fmt.Println("  v              Toggle globe / Mercator map")
	fmt.Println("  +/-, 0         Zoom in/out, reset")
	fmt.Println("  TAB            Switch focus between globe and flight list")
	fmt.Println("  a              Add a flight")
	fmt.Println("  d              Delete the selected flight")
	fmt.Println("  r              Re-download the airport list")
	fmt.Println("  q or ESC       Quit")
}
