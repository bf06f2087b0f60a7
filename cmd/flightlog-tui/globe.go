package main

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rivo/tview"

	"github.com/unklstewy/flightlog/pkg/airports"
	"github.com/unklstewy/flightlog/pkg/animation"
	"github.com/unklstewy/flightlog/pkg/coordinates"
	"github.com/unklstewy/flightlog/pkg/countries"
	"github.com/unklstewy/flightlog/pkg/flights"
)

const (
	minZoom = 0.5
	maxZoom = 4.0

	// Terminal cells are about twice as tall as they are wide.
	cellAspect = 2.0

	// Arc distance from the subsolar point beyond which it is night.
	terminatorKm = coordinates.EarthRadiusKm * math.Pi / 2

	// At most this many vertices are plotted per boundary ring.
	maxRingPoints = 120
)

// GlobeView is a custom tview primitive that renders the flight paths on
// an orthographic globe or a Mercator map using tcell.
type GlobeView struct {
	*tview.Box

	store    *flights.Store
	catalog  *airports.Catalog
	clock    *animation.Clock
	rotation *animation.Rotation
	now      func() time.Time

	mu         sync.RWMutex
	mercator   bool
	zoom       float64
	boundaries *geojson.FeatureCollection
}

// NewGlobeView creates a globe over the given history and catalog.
func NewGlobeView(store *flights.Store, catalog *airports.Catalog, clock *animation.Clock, rotation *animation.Rotation) *GlobeView {
	g := &GlobeView{
		Box:      tview.NewBox(),
		store:    store,
		catalog:  catalog,
		clock:    clock,
		rotation: rotation,
		now:      time.Now,
		zoom:     1.0,
	}
	g.SetBorder(true)
	return g
}

// ToggleMercator switches between globe and map and returns true for map.
func (g *GlobeView) ToggleMercator() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mercator = !g.mercator
	return g.mercator
}

// Zoom multiplies the globe radius by factor, within limits. A factor of 0
// resets it.
func (g *GlobeView) Zoom(factor float64) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if factor == 0 {
		g.zoom = 1.0
	} else {
		g.zoom = max(minZoom, min(maxZoom, g.zoom*factor))
	}
	return g.zoom
}

// SetBoundaries installs country outlines to draw.
func (g *GlobeView) SetBoundaries(fc *geojson.FeatureCollection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.boundaries = fc
}

// UpdateVisited marks the boundaries of visited countries and returns how
// many matched.
func (g *GlobeView) UpdateVisited(visited map[string]bool) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return countries.Highlight(g.boundaries, visited)
}

// viewport maps geographic positions to screen cells.
type viewport struct {
	x, y, width, height int
	mercator            bool
	center              coordinates.Geographic
	zoom                float64
}

func (v viewport) radius() float64 {
	return min(float64(v.width)/2, float64(v.height)*cellAspect/2) * 0.95 * v.zoom
}

// project returns the cell for p and whether it is drawable.
func (v viewport) project(p coordinates.Geographic) (int, int, bool) {
	var px, py int
	if v.mercator {
		shifted := coordinates.Geographic{
			Latitude:  p.Latitude,
			Longitude: coordinates.NormalizeLongitude(p.Longitude - v.center.Longitude),
		}
		mx, my := coordinates.Mercator(shifted, float64(v.width), float64(v.height)*cellAspect)
		px = v.x + int(mx)
		py = v.y + int(my/cellAspect)
		px = min(px, v.x+v.width-1)
		py = min(py, v.y+v.height-1)
	} else {
		ox, oy, visible := coordinates.Orthographic(p, v.center)
		if !visible {
			return 0, 0, false
		}
		r := v.radius()
		px = v.x + v.width/2 + int(math.Round(ox*r))
		py = v.y + v.height/2 - int(math.Round(oy*r/cellAspect))
	}

	if px < v.x || px >= v.x+v.width || py < v.y || py >= v.y+v.height {
		return 0, 0, false
	}
	return px, py, true
}

// connects reports whether a segment between two projected cells should be
// drawn. On the map, segments jumping across the seam are skipped.
func (v viewport) connects(x0, x1 int) bool {
	return !v.mercator || abs(x1-x0) < v.width/2
}

func (g *GlobeView) viewport() viewport {
	x, y, width, height := g.GetInnerRect()
	g.mu.RLock()
	defer g.mu.RUnlock()
	return viewport{
		x: x, y: y, width: width, height: height,
		mercator: g.mercator,
		center:   g.rotation.Center(),
		zoom:     g.zoom,
	}
}

// Draw renders graticule, boundaries, animated paths and airports.
func (g *GlobeView) Draw(screen tcell.Screen) {
	g.Box.DrawForSubclass(screen, g)

	vp := g.viewport()
	if vp.width <= 0 || vp.height <= 0 {
		return
	}

	if vp.mercator {
		g.SetTitle(" Map - Mercator ")
	} else {
		g.SetTitle(fmt.Sprintf(" Globe %s ", formatPosition(vp.center)))
	}

	g.drawGraticule(screen, vp, coordinates.SubsolarPoint(g.now()))
	if !vp.mercator {
		g.drawLimb(screen, vp)
	}
	g.drawBoundaries(screen, vp)

	list := g.store.List()
	g.drawPaths(screen, vp, animation.Frame(list, g.catalog, g.clock.Frame()))
	g.drawAirports(screen, vp, list)
}

func (g *GlobeView) drawGraticule(screen tcell.Screen, vp viewport, sun coordinates.Geographic) {
	dayStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	nightStyle := tcell.StyleDefault.Foreground(tcell.ColorNavy)

	plot := func(p coordinates.Geographic) {
		if x, y, ok := vp.project(p); ok {
			style := dayStyle
			if coordinates.DistanceKm(p, sun) > terminatorKm {
				style = nightStyle
			}
			screen.SetContent(x, y, '·', nil, style)
		}
	}

	for lat := -60.0; lat <= 60; lat += 30 {
		for lon := -180.0; lon < 180; lon += 3 {
			plot(coordinates.Geographic{Latitude: lat, Longitude: lon})
		}
	}
	for lon := -180.0; lon < 180; lon += 30 {
		for lat := -80.0; lat <= 80; lat += 3 {
			plot(coordinates.Geographic{Latitude: lat, Longitude: lon})
		}
	}
}

// drawLimb outlines the edge of the globe.
func (g *GlobeView) drawLimb(screen tcell.Screen, vp viewport) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	r := vp.radius()
	cx := vp.x + vp.width/2
	cy := vp.y + vp.height/2
	for deg := 0.0; deg < 360; deg += 2 {
		a := deg * coordinates.DegreesToRadians
		x := cx + int(math.Round(r*math.Cos(a)))
		y := cy - int(math.Round(r*math.Sin(a)/cellAspect))
		if x >= vp.x && x < vp.x+vp.width && y >= vp.y && y < vp.y+vp.height {
			screen.SetContent(x, y, '○', nil, style)
		}
	}
}

func (g *GlobeView) drawBoundaries(screen tcell.Screen, vp viewport) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.boundaries == nil {
		return
	}

	plainStyle := tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
	visitedStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)

	for _, f := range g.boundaries.Features {
		style, char := plainStyle, '.'
		if v, _ := f.Properties[countries.VisitedProperty].(bool); v {
			style, char = visitedStyle, '▪'
		}
		for _, ring := range rings(f.Geometry) {
			step := max(1, len(ring)/maxRingPoints)
			for i := 0; i < len(ring); i += step {
				p := coordinates.Geographic{Latitude: ring[i].Lat(), Longitude: ring[i].Lon()}
				if x, y, ok := vp.project(p); ok {
					screen.SetContent(x, y, char, nil, style)
				}
			}
		}
	}
}

func (g *GlobeView) drawPaths(screen tcell.Screen, vp viewport, paths []animation.Path) {
	for _, p := range paths {
		style := tcell.StyleDefault.Foreground(pathColor(p.Opacity))

		px, py, pok := 0, 0, false
		for _, pt := range p.Points {
			x, y, ok := vp.project(pt)
			if ok && pok && vp.connects(px, x) {
				drawLine(screen, px, py, x, y, '•', style)
			} else if ok {
				screen.SetContent(x, y, '•', nil, style)
			}
			px, py, pok = x, y, ok
		}

		// Leading edge of a path that is still drawing
		if p.Progress < 1 && pok {
			screen.SetContent(px, py, '✈', nil, style.Bold(true))
		}
	}
}

func (g *GlobeView) drawAirports(screen tcell.Screen, vp viewport, list []flights.Flight) {
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	labelStyle := tcell.StyleDefault.Foreground(tcell.ColorLightYellow)

	seen := make(map[string]bool)
	for _, f := range list {
		for _, code := range []string{f.Origin, f.Destination} {
			if seen[code] {
				continue
			}
			seen[code] = true

			a, ok := g.catalog.Lookup(code)
			if !ok {
				continue
			}
			x, y, ok := vp.project(a.Position())
			if !ok {
				continue
			}
			screen.SetContent(x, y, '●', nil, style)
			drawText(screen, x+1, y, vp.x+vp.width, a.Code, labelStyle)
		}
	}
}

// InputHandler pans the globe with the arrow keys.
func (g *GlobeView) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return g.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		now := g.now()
		switch event.Key() {
		case tcell.KeyUp:
			g.rotation.Pan(now, 5, 0)
		case tcell.KeyDown:
			g.rotation.Pan(now, -5, 0)
		case tcell.KeyLeft:
			g.rotation.Pan(now, 0, -10)
		case tcell.KeyRight:
			g.rotation.Pan(now, 0, 10)
		}
	})
}

// pathColor fades a path from bright cyan toward the background.
func pathColor(opacity float64) tcell.Color {
	opacity = max(0, min(1, opacity))
	v := int32(60 + 195*opacity)
	return tcell.NewRGBColor(0, v, v)
}

// rings returns the outer and inner rings of polygonal geometry.
func rings(geom orb.Geometry) []orb.Ring {
	switch g := geom.(type) {
	case orb.Polygon:
		return g
	case orb.MultiPolygon:
		var out []orb.Ring
		for _, p := range g {
			out = append(out, p...)
		}
		return out
	case orb.LineString:
		return []orb.Ring{orb.Ring(g)}
	default:
		return nil
	}
}

func formatPosition(p coordinates.Geographic) string {
	ns, ew := 'N', 'E'
	if p.Latitude < 0 {
		ns = 'S'
	}
	if p.Longitude < 0 {
		ew = 'W'
	}
	return fmt.Sprintf("%.0f°%c %.0f°%c", math.Abs(p.Latitude), ns, math.Abs(p.Longitude), ew)
}
