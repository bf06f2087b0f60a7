package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb/geojson"
	"github.com/rivo/tview"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/unklstewy/flightlog/internal/logging"
	"github.com/unklstewy/flightlog/internal/session"
	"github.com/unklstewy/flightlog/pkg/airports"
	"github.com/unklstewy/flightlog/pkg/animation"
	"github.com/unklstewy/flightlog/pkg/config"
	"github.com/unklstewy/flightlog/pkg/coordinates"
	"github.com/unklstewy/flightlog/pkg/flights"
	"github.com/unklstewy/flightlog/pkg/stats"
)

const (
	pageMain    = "main"
	pageAdd     = "add"
	pageConfirm = "confirm"

	zoomStep = 1.2

	// Number of airport suggestions offered while typing.
	maxSuggestions = 8
)

var printer = message.NewPrinter(language.English)

// AppConfig holds everything the application needs to start.
type AppConfig struct {
	Config     *config.Config
	Session    *session.Session
	Logger     *slog.Logger
	Logs       *LogManager
	Boundaries *geojson.FeatureCollection
}

// App represents the main application
type App struct {
	ctx     context.Context
	config  *config.Config
	session *session.Session
	logger  *slog.Logger

	// UI components
	tviewApp *tview.Application
	pages    *tview.Pages
	globe    *GlobeView
	stats    *tview.TextView
	list     *tview.List
	controls *tview.TextView
	logs     *LogManager

	clock    *animation.Clock
	rotation *animation.Rotation

	// rows holds the flights behind the list entries, in list order
	mu   sync.Mutex
	rows []flights.Flight

	updateTimer *time.Ticker
	stopChan    chan struct{}
	stopOnce    sync.Once
}

// NewApp creates a new application instance
func NewApp(ctx context.Context, cfg *AppConfig) *App {
	logs := cfg.Logs
	if logs == nil {
		logs = NewLogManager(200, slog.LevelInfo)
	}

	app := &App{
		ctx:      ctx,
		config:   cfg.Config,
		session:  cfg.Session,
		logger:   logging.OrDiscard(cfg.Logger),
		logs:     logs,
		clock:    &animation.Clock{},
		rotation: animation.NewRotation(coordinates.Geographic{Latitude: 20}, cfg.Config.Animation.Cooldown()),
		stopChan: make(chan struct{}),
	}

	app.setupUI()
	app.globe.SetBoundaries(cfg.Boundaries)
	app.refreshSidebar()
	return app
}

// setupUI initializes the user interface
func (a *App) setupUI() {
	a.tviewApp = tview.NewApplication()

	a.globe = NewGlobeView(a.session.Store, a.session.Catalog, a.clock, a.rotation)

	a.stats = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	a.stats.SetBorder(true).SetTitle(" Stats ")

	a.list = tview.NewList().
		ShowSecondaryText(true).
		SetHighlightFullLine(true)
	a.list.SetBorder(true).SetTitle(" Flights ")

	a.controls = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	a.controls.SetBorder(true).SetTitle(" Controls ")
	a.controls.SetText(`[yellow]a[-] Add  [yellow]d[-] Delete  [yellow]v[-] Globe/Map
[yellow]←↑↓→[-] Pan  [yellow]+/-/0[-] Zoom  [yellow]TAB[-] Focus
[yellow]r[-] Refresh airports  [yellow]q[-] Quit`)

	sidebar := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.stats, 0, 3, false).
		AddItem(a.list, 0, 4, false).
		AddItem(a.controls, 5, 0, false).
		AddItem(a.logs.GetView(), 0, 3, false)

	root := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.globe, 0, 7, true).
		AddItem(sidebar, 0, 3, false)

	a.pages = tview.NewPages().AddPage(pageMain, root, true, true)
	a.tviewApp.SetRoot(a.pages, true).SetFocus(a.globe)
	a.tviewApp.SetInputCapture(a.handleKeyboard)
}

// handleKeyboard handles keyboard input
func (a *App) handleKeyboard(event *tcell.EventKey) *tcell.EventKey {
	// Dialogs get every key; Esc closes them.
	if name, _ := a.pages.GetFrontPage(); name != pageMain {
		if event.Key() == tcell.KeyEscape {
			a.closeDialog(name)
			return nil
		}
		return event
	}

	key := event.Key()
	r := event.Rune()

	switch {
	case key == tcell.KeyEscape || r == 'q':
		a.Stop()
		return nil
	case key == tcell.KeyTab:
		a.toggleFocus()
		return nil
	case r == 'v':
		a.toggleView()
		return nil
	case r == 'a':
		a.showAddForm()
		return nil
	case r == 'd':
		a.confirmDelete()
		return nil
	case r == 'r':
		a.refreshAirports()
		return nil
	case r == '+' || r == '=':
		a.logger.Debug("Zoom", slog.Float64("zoom", a.globe.Zoom(zoomStep)))
		return nil
	case r == '-':
		a.logger.Debug("Zoom", slog.Float64("zoom", a.globe.Zoom(1/zoomStep)))
		return nil
	case r == '0':
		a.globe.Zoom(0)
		return nil
	}

	return event
}

func (a *App) toggleFocus() {
	if a.tviewApp.GetFocus() == a.globe {
		a.tviewApp.SetFocus(a.list)
	} else {
		a.tviewApp.SetFocus(a.globe)
	}
}

func (a *App) toggleView() {
	if a.globe.ToggleMercator() {
		a.logger.Info("Switched to map view")
	} else {
		a.logger.Info("Switched to globe view")
	}
}

// refreshSidebar redraws stats and the flight list from the store. It must
// run on the UI goroutine.
func (a *App) refreshSidebar() {
	summary := a.session.Summary()

	visited := make(map[string]bool, len(summary.CountryCodes))
	for _, code := range summary.CountryCodes {
		visited[code] = true
	}
	a.globe.UpdateVisited(visited)

	a.stats.SetText(statsText(summary, a.session.StorageName(), a.session.Catalog.Len(), string(a.session.Loader.Origin())))

	list := a.session.Store.List()
	current := a.list.GetCurrentItem()

	a.mu.Lock()
	a.rows = list
	a.mu.Unlock()

	a.list.Clear()
	for _, f := range list {
		title, detail := flightRow(f)
		a.list.AddItem(title, detail, 0, nil)
	}
	if current >= len(list) {
		current = len(list) - 1
	}
	if current >= 0 {
		a.list.SetCurrentItem(current)
	}
	a.list.SetTitle(fmt.Sprintf(" Flights (%d) ", len(list)))
}

// selectedFlight returns the flight under the list cursor.
func (a *App) selectedFlight() (flights.Flight, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.list.GetCurrentItem()
	if i < 0 || i >= len(a.rows) {
		return flights.Flight{}, false
	}
	return a.rows[i], true
}

func (a *App) confirmDelete() {
	f, ok := a.selectedFlight()
	if !ok {
		a.logger.Warn("No flight selected")
		return
	}

	dialog := tview.NewModal().
		SetText(fmt.Sprintf("Delete %s on %s?", f.Route(), f.Date)).
		AddButtons([]string{"Delete", "Cancel"}).
		SetDoneFunc(func(_ int, label string) {
			if label == "Delete" {
				a.deleteFlight(f.ID)
			}
			a.closeDialog(pageConfirm)
		})
	a.pages.AddPage(pageConfirm, dialog, true, true)
}

func (a *App) deleteFlight(id string) {
	removed, err := a.session.RemoveFlight(a.ctx, id)
	if err != nil {
		a.logger.Error("Delete failed", slog.String("id", id), slog.Any("error", err))
		return
	}
	if removed {
		a.refreshSidebar()
	}
}

// addFlight adds a flight from form values. Airport fields may hold a
// full suggestion line; only the leading code is used.
func (a *App) addFlight(origin, destination, date string) error {
	if strings.TrimSpace(date) == "" {
		date = time.Now().Format(flights.DateLayout)
	}
	f, err := a.session.AddFlight(a.ctx, codeFromOption(origin), codeFromOption(destination), date)
	if err != nil {
		return err
	}
	a.logger.Info("Flight added", slog.String("route", f.Route()), slog.String("date", f.Date))
	a.refreshSidebar()
	return nil
}

func (a *App) showAddForm() {
	form := tview.NewForm()
	status := tview.NewTextView().SetDynamicColors(true)

	from := a.airportField("From")
	to := a.airportField("To")
	date := tview.NewInputField().
		SetLabel("Date").
		SetPlaceholder(time.Now().Format(flights.DateLayout)).
		SetFieldWidth(12)

	form.AddFormItem(from).
		AddFormItem(to).
		AddFormItem(date).
		AddButton("Add", func() {
			if err := a.addFlight(from.GetText(), to.GetText(), date.GetText()); err != nil {
				status.SetText("[red]" + tview.Escape(err.Error()) + "[-]")
				return
			}
			a.closeDialog(pageAdd)
		}).
		AddButton("Cancel", func() {
			a.closeDialog(pageAdd)
		})

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(status, 1, 0, false)
	layout.SetBorder(true).SetTitle(" Add flight ")

	a.pages.AddPage(pageAdd, modal(layout, 64, 13), true, true)
	a.tviewApp.SetFocus(form)
}

// airportField is an input that suggests catalog matches as the user types.
func (a *App) airportField(label string) *tview.InputField {
	field := tview.NewInputField().
		SetLabel(label).
		SetPlaceholder("code, city or name").
		SetFieldWidth(40)

	field.SetAutocompleteFunc(func(current string) []string {
		return airportOptions(a.session.Catalog, current)
	})
	field.SetAutocompletedFunc(func(text string, _ int, source int) bool {
		if source != tview.AutocompletedNavigate {
			field.SetText(text)
		}
		return source == tview.AutocompletedEnter || source == tview.AutocompletedClick
	})
	return field
}

func (a *App) closeDialog(name string) {
	a.pages.RemovePage(name)
	a.tviewApp.SetFocus(a.globe)
}

func (a *App) refreshAirports() {
	a.logger.Info("Refreshing airports")
	go func() {
		n, err := a.session.RefreshAirports(a.ctx)
		if err != nil {
			a.logger.Error("Airport refresh failed", slog.Any("error", err))
			return
		}
		a.logger.Info("Airports refreshed", slog.Int("count", n))
		a.tviewApp.QueueUpdateDraw(a.refreshSidebar)
	}()
}

// Run starts the application
func (a *App) Run() error {
	a.updateTimer = time.NewTicker(a.config.Animation.FrameInterval())
	go a.renderLoop()

	a.session.LoadAirportsAsync(a.ctx, func(err error) {
		if err == nil {
			a.logger.Info("Airports loaded",
				slog.Int("count", a.session.Catalog.Len()),
				slog.String("source", string(a.session.Loader.Origin())))
		}
		a.tviewApp.QueueUpdateDraw(a.refreshSidebar)
	})

	go func() {
		select {
		case <-a.ctx.Done():
			a.Stop()
		case <-a.stopChan:
		}
	}()

	return a.tviewApp.Run()
}

// renderLoop advances the animation clock and rotation once per frame.
func (a *App) renderLoop() {
	speed := a.config.Animation.RotationDegreesPerSecond
	last := time.Now()
	for {
		select {
		case now := <-a.updateTimer.C:
			dt := now.Sub(last).Seconds()
			last = now
			a.clock.Tick()
			a.rotation.Advance(now, speed*dt)
			a.tviewApp.Draw()
		case <-a.stopChan:
			return
		}
	}
}

// Stop stops the application
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		a.logger.Info("Shutting down")
		if a.updateTimer != nil {
			a.updateTimer.Stop()
		}
		close(a.stopChan)
		a.tviewApp.Stop()
	})
}

// modal centers p in a box of the given size.
func modal(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}

// airportOptions formats catalog matches for query as suggestion lines
// that start with the airport code.
func airportOptions(catalog *airports.Catalog, query string) []string {
	results := catalog.Search(query)
	if len(results) == 0 {
		return nil
	}
	n := min(len(results), maxSuggestions)
	out := make([]string, 0, n)
	for _, ap := range results[:n] {
		out = append(out, fmt.Sprintf("%s  %s, %s", ap.Code, ap.Name, ap.Country))
	}
	return out
}

// codeFromOption extracts the code from a suggestion line or typed text.
func codeFromOption(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

func flightRow(f flights.Flight) (string, string) {
	title := fmt.Sprintf("%s  %s", f.Date, f.Route())
	detail := fmt.Sprintf("  %s → %s  %s", f.OriginCountry, f.DestinationCountry, formatKm(f.Distance))
	return title, detail
}

func statsText(s stats.Summary, storage string, airportCount int, origin string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]Countries:[-] [white]%d[-]\n", s.Countries)
	fmt.Fprintf(&b, "[yellow]Flights:[-]   [white]%d[-]\n", s.Flights)
	fmt.Fprintf(&b, "[yellow]Distance:[-]  [white]%s[-]\n", formatKm(s.DistanceKm))
	if s.TopCountry != "" {
		fmt.Fprintf(&b, "[yellow]Top:[-]       [white]%s[-]\n", tview.Escape(s.TopCountry))
	}
	if s.Longest != nil {
		fmt.Fprintf(&b, "[yellow]Longest:[-]   [white]%s %s[-]\n", s.Longest.Route(), formatKm(s.Longest.Distance))
	}
	for _, y := range s.ByYear {
		fmt.Fprintf(&b, "  [gray]%d[-] %d flights, %s\n", y.Year, y.Flights, formatKm(y.DistanceKm))
	}
	if origin == "" {
		origin = "loading"
	}
	fmt.Fprintf(&b, "\n[gray]Airports: %d (%s)[-]\n", airportCount, origin)
	fmt.Fprintf(&b, "[gray]Storage: %s[-]", tview.Escape(storage))
	return b.String()
}

func formatKm(km float64) string {
	return printer.Sprintf("%.0f km", km)
}
