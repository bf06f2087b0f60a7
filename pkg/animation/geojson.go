package animation

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection converts paths to GeoJSON LineStrings for external
// renderers. Each feature carries flight_id, opacity and progress
// properties. Single-point paths become Points.
func FeatureCollection(paths []Path) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range paths {
		if len(p.Points) == 0 {
			continue
		}

		var g orb.Geometry
		if len(p.Points) == 1 {
			g = orb.Point(p.Points[0].LonLat())
		} else {
			ls := make(orb.LineString, len(p.Points))
			for i, pt := range p.Points {
				ls[i] = orb.Point(pt.LonLat())
			}
			g = ls
		}

		f := geojson.NewFeature(g)
		f.ID = p.FlightID
		f.Properties["flight_id"] = p.FlightID
		f.Properties["opacity"] = p.Opacity
		f.Properties["progress"] = p.Progress
		fc.Append(f)
	}
	return fc
}
