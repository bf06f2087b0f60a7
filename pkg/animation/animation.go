// Package animation turns a flight history into per-frame path geometry:
// each flight's great-circle path draws itself, holds, fades out and
// starts over, with flights staggered so they do not move in lockstep.
package animation

import (
	"math"

	"github.com/unklstewy/flightlog/pkg/airports"
	"github.com/unklstewy/flightlog/pkg/coordinates"
	"github.com/unklstewy/flightlog/pkg/flights"
)

// Frame timing, in ticks of the animation clock.
const (
	// Stagger delays each successive flight's cycle.
	Stagger = 50

	// Cycle is the full period of one flight's animation.
	Cycle = 200

	// DrawFrames is the length of the drawing phase.
	DrawFrames = 150

	// FadeFrames is the length of the fade phase that follows drawing.
	FadeFrames = Cycle - DrawFrames

	// Segments is the number of great-circle segments in a full path.
	Segments = 50

	// ClockModulus is where the frame counter wraps. It is a multiple of
	// Cycle so wrapping does not cause a visible jump.
	ClockModulus = Cycle * 1_000_000
)

// Catalog resolves airport codes. *airports.Catalog satisfies it.
type Catalog interface {
	Lookup(code string) (airports.Airport, bool)
}

// Path is the geometry of one flight for one frame.
type Path struct {
	FlightID string

	// Points are the drawn part of the path, origin first.
	Points []coordinates.Geographic

	// Opacity is 1 while drawing and falls to 0 over the fade phase.
	Opacity float64

	// Progress is the drawn fraction of the path, in [0, 1].
	Progress float64
}

// LocalFrame returns where flight i is within its own cycle at frame t.
func LocalFrame(t, i int) int {
	local := (t + i*Stagger) % Cycle
	if local < 0 {
		local += Cycle
	}
	return local
}

// Frame computes the paths to draw at frame t. Flights whose origin or
// destination is not in the catalog are skipped, as are flights with
// nothing drawn yet; both reappear on later frames without any caching.
func Frame(fs []flights.Flight, catalog Catalog, t int) []Path {
	var paths []Path
	for i, f := range fs {
		from, ok := catalog.Lookup(f.Origin)
		if !ok {
			continue
		}
		to, ok := catalog.Lookup(f.Destination)
		if !ok {
			continue
		}

		p, ok := pathAt(f.ID, from.Position(), to.Position(), LocalFrame(t, i))
		if ok {
			paths = append(paths, p)
		}
	}
	return paths
}

func pathAt(id string, from, to coordinates.Geographic, local int) (Path, bool) {
	points := coordinates.SampleGreatCircle(from, to, Segments)

	if local < DrawFrames {
		progress := float64(local) / DrawFrames
		n := int(math.Ceil(progress * Segments))
		if n == 0 {
			return Path{}, false
		}
		return Path{
			FlightID: id,
			Points:   points[:n],
			Opacity:  1,
			Progress: progress,
		}, true
	}

	return Path{
		FlightID: id,
		Points:   points,
		Opacity:  1 - float64(local-DrawFrames)/FadeFrames,
		Progress: 1,
	}, true
}
