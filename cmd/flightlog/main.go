package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/unklstewy/flightlog/internal/logging"
	"github.com/unklstewy/flightlog/internal/session"
	"github.com/unklstewy/flightlog/pkg/config"
)

var (
	// Version information (set by build flags)
	version = "dev"
	commit  = "unknown"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Path to configuration file (.json, .yaml or .yml)")
	showVersion := flag.Bool("version", false, "Show version information")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.Usage = printHelp
	flag.Parse()

	if *showVersion {
		fmt.Printf("flightlog version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	args := flag.Args()
	if *showHelp || len(args) == 0 {
		printHelp()
		os.Exit(0)
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "flightlog: unknown command %q\n\n", args[0])
		printHelp()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := openLogger(cfg.Logging)
	logger.Info("Starting flightlog",
		slog.String("version", version),
		slog.String("command", args[0]),
		slog.String("config", *configPath),
		slog.String("storage_driver", cfg.Storage.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess, err := session.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open flight history: %v", err)
	}
	defer sess.Close()

	env := &env{
		ctx:    ctx,
		cfg:    cfg,
		sess:   sess,
		logger: logger,
		out:    os.Stdout,
	}
	if err := cmd.run(env, args[1:]); err != nil {
		logger.Error("Command failed", slog.String("command", args[0]), slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "flightlog %s: %v\n", args[0], err)
		sess.Close()
		os.Exit(1)
	}
}

// openLogger writes to the configured log file, or to stderr at warn level
// when the file cannot be opened.
func openLogger(cfg config.LoggingConfig) *slog.Logger {
	lg, err := logging.New(logging.Options{
		Level:      cfg.Level,
		Dir:        cfg.Dir,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	})
	if err != nil {
		fallback := logging.NewWriter(os.Stderr, slog.LevelWarn)
		fallback.Warn("Logging to stderr", slog.Any("error", err))
		return fallback
	}
	return lg.Logger
}

func printHelp() {
	fmt.Println("flightlog - Personal flight history tracker")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  flightlog [options] <command> [arguments]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -config string")
	fmt.Printf("        Path to configuration file (default: %s)\n", config.DefaultPath())
	fmt.Println("  -version")
	fmt.Println("        Show version information")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println()
	fmt.Println("COMMANDS:")
	for _, name := range commandOrder {
		c := commands[name]
		fmt.Printf("  %-36s %s\n", name+" "+c.usage, c.summary)
	}
	fmt.Println()
	fmt.Println("ENVIRONMENT:")
	fmt.Println("  FLIGHTLOG_STORAGE_DRIVER   file, postgres or memory")
	fmt.Println("  FLIGHTLOG_DATA_DIR         Directory for the file driver")
	fmt.Println("  FLIGHTLOG_DB_PASSWORD      PostgreSQL password")
	fmt.Println("  FLIGHTLOG_AIRPORTS_URL     OpenFlights airports.dat location")
	fmt.Println("  FLIGHTLOG_LOG_LEVEL        debug, info, warn or error")
}
