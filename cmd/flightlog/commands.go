package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/unklstewy/flightlog/internal/session"
	"github.com/unklstewy/flightlog/pkg/animation"
	"github.com/unklstewy/flightlog/pkg/config"
	"github.com/unklstewy/flightlog/pkg/countries"
	"github.com/unklstewy/flightlog/pkg/flights"
	"github.com/unklstewy/flightlog/pkg/stats"
)

// env is what every command runs against.
type env struct {
	ctx    context.Context
	cfg    *config.Config
	sess   *session.Session
	logger *slog.Logger
	out    io.Writer
}

type command struct {
	usage   string
	summary string
	run     func(e *env, args []string) error
}

var commands = map[string]command{
	"add":      {"ORIGIN DEST DATE | -i", "Log a flight (DATE is YYYY-MM-DD)", runAdd},
	"list":     {"", "List flights, newest first", runList},
	"remove":   {"ID", "Delete a flight", runRemove},
	"edit":     {"ID [-origin X] [-dest Y] [-date D]", "Change a flight", runEdit},
	"stats":    {"[-json]", "Show travel statistics", runStats},
	"search":   {"QUERY", "Search the airport catalog", runSearch},
	"export":   {"[-frame N] [-boundaries FILE] [-o FILE]", "Write GeoJSON paths or visited countries", runExport},
	"airports": {"refresh", "Re-download the airport catalog", runAirports},
}

var commandOrder = []string{"add", "list", "remove", "edit", "stats", "search", "export", "airports"}

var errUsage = errors.New("invalid arguments")

func runAdd(e *env, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	interactive := fs.Bool("i", false, "Pick airports interactively")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := e.sess.LoadAirports(e.ctx); err != nil {
		return err
	}

	if *interactive {
		return runPicker(e)
	}

	if fs.NArg() != 3 {
		return fmt.Errorf("%w: add ORIGIN DEST DATE", errUsage)
	}
	f, err := e.sess.AddFlight(e.ctx, fs.Arg(0), fs.Arg(1), fs.Arg(2))
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Added %s  %s  %s  %s\n", shortID(f.ID), f.Date, f.Route(), formatKm(f.Distance))
	return nil
}

func runPicker(e *env) error {
	m := newPickerModel(e.sess.Catalog, time.Now())
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}

	pm := final.(pickerModel)
	if pm.cancelled {
		fmt.Fprintln(e.out, "Cancelled")
		return nil
	}
	f, err := e.sess.AddFlight(e.ctx, pm.origin.Code, pm.destination.Code, pm.date)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Added %s  %s  %s  %s\n", shortID(f.ID), f.Date, f.Route(), formatKm(f.Distance))
	return nil
}

func runList(e *env, args []string) error {
	list := e.sess.Store.List()
	if len(list) == 0 {
		fmt.Fprintln(e.out, "No flights logged")
		return nil
	}

	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tROUTE\tCOUNTRIES\tDISTANCE")
	for _, f := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			shortID(f.ID), f.Date, f.Route(),
			f.OriginCountry+" → "+f.DestinationCountry, formatKm(f.Distance))
	}
	return tw.Flush()
}

func runRemove(e *env, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: remove ID", errUsage)
	}
	id, err := resolveID(e.sess.Store.List(), args[0])
	if err != nil {
		return err
	}
	removed, err := e.sess.RemoveFlight(e.ctx, id)
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintf(e.out, "Removed %s\n", shortID(id))
	}
	return nil
}

func runEdit(e *env, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: edit ID [-origin X] [-dest Y] [-date D]", errUsage)
	}
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	origin := fs.String("origin", "", "New origin airport code")
	dest := fs.String("dest", "", "New destination airport code")
	date := fs.String("date", "", "New date (YYYY-MM-DD)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	id, err := resolveID(e.sess.Store.List(), args[0])
	if err != nil {
		return err
	}
	if err := e.sess.LoadAirports(e.ctx); err != nil {
		return err
	}

	f, ok, err := e.sess.EditFlight(e.ctx, id, *origin, *dest, *date)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("flight %s not found", args[0])
	}
	fmt.Fprintf(e.out, "Updated %s  %s  %s  %s\n", shortID(f.ID), f.Date, f.Route(), formatKm(f.Distance))
	return nil
}

func runStats(e *env, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Print JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := e.sess.LoadAirports(e.ctx); err != nil {
		return err
	}
	sum := e.sess.Summary()

	if *asJSON {
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}
	fmt.Fprintln(e.out, renderSummary(sum))
	return nil
}

func runSearch(e *env, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: search QUERY", errUsage)
	}
	if err := e.sess.LoadAirports(e.ctx); err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results := e.sess.Catalog.Search(query)
	if len(results) == 0 {
		fmt.Fprintf(e.out, "No airports match %q\n", query)
		return nil
	}

	tw := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
	for _, a := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Code, a.Name, a.City, a.Country)
	}
	return tw.Flush()
}

func runExport(e *env, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	frame := fs.Int("frame", animation.DrawFrames, "Animation frame to export")
	boundaries := fs.String("boundaries", e.cfg.Animation.BoundariesPath, "Country boundaries GeoJSON; exports them with visited countries marked")
	output := fs.String("o", "", "Output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := e.sess.LoadAirports(e.ctx); err != nil {
		return err
	}
	list := e.sess.Store.List()

	var fc *geojson.FeatureCollection
	if *boundaries != "" {
		var err error
		fc, err = visitedBoundaries(*boundaries, stats.VisitedCodes(list, e.sess.Catalog))
		if err != nil {
			return err
		}
	} else {
		fc = animation.FeatureCollection(animation.Frame(list, e.sess.Catalog, *frame))
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %w", err)
	}
	data = append(data, '\n')

	if *output == "" {
		_, err = e.out.Write(data)
		return err
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", *output, err)
	}
	fmt.Fprintf(e.out, "Wrote %d features to %s\n", len(fc.Features), *output)
	return nil
}

func visitedBoundaries(path string, visited map[string]bool) (*geojson.FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fc, err := countries.LoadBoundaries(f)
	if err != nil {
		return nil, err
	}
	countries.Highlight(fc, visited)
	return fc, nil
}

func runAirports(e *env, args []string) error {
	if len(args) != 1 || args[0] != "refresh" {
		return fmt.Errorf("%w: airports refresh", errUsage)
	}
	n, err := e.sess.RefreshAirports(e.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Loaded %d airports\n", n)
	return nil
}

// resolveID accepts a full flight id or a unique prefix of one, as shown
// by list.
func resolveID(list []flights.Flight, prefix string) (string, error) {
	var match string
	for _, f := range list {
		if f.ID == prefix {
			return f.ID, nil
		}
		if strings.HasPrefix(f.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("flight id %q is ambiguous", prefix)
			}
			match = f.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("flight %q not found", prefix)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var printer = message.NewPrinter(language.English)

func formatKm(km float64) string {
	return printer.Sprintf("%.0f km", km)
}
