package coordinates

import (
	"math"
)

// Vector3 is a point in the globe's 3D scene space (Y up).
type Vector3 struct {
	X, Y, Z float64
}

// ToCartesian places a geographic position on a sphere of the given radius.
// phi is the polar angle from the north pole and theta the azimuth measured
// from the antimeridian, which matches the texture orientation of a standard
// equirectangular globe.
func ToCartesian(g Geographic, radius float64) Vector3 {
	phi := (90 - g.Latitude) * DegreesToRadians
	theta := (g.Longitude + 180) * DegreesToRadians

	return Vector3{
		X: -(radius * math.Sin(phi) * math.Cos(theta)),
		Y: radius * math.Cos(phi),
		Z: radius * math.Sin(phi) * math.Sin(theta),
	}
}

// Mercator projects a position onto a width x height Web Mercator canvas.
// x grows eastward from the antimeridian; y grows southward and is clamped
// to [0, height] since the poles project to infinity.
func Mercator(g Geographic, width, height float64) (x, y float64) {
	x = (g.Longitude + 180) * (width / 360)

	latRad := g.Latitude * DegreesToRadians
	y = height/2 - width*math.Log(math.Tan(math.Pi/4+latRad/2))/(2*math.Pi)

	return x, math.Max(0, math.Min(height, y))
}

// Orthographic projects a position onto the visible hemisphere of a globe
// centered on center, as seen from infinitely far away.
// Returns normalized coordinates in [-1, 1] (x east, y north) and whether the
// point is on the near side of the globe.
func Orthographic(g, center Geographic) (x, y float64, visible bool) {
	lat, lon := g.ToRadians()
	lat0, lon0 := center.ToRadians()

	dLon := lon - lon0
	cosC := math.Sin(lat0)*math.Sin(lat) + math.Cos(lat0)*math.Cos(lat)*math.Cos(dLon)

	x = math.Cos(lat) * math.Sin(dLon)
	y = math.Cos(lat0)*math.Sin(lat) - math.Sin(lat0)*math.Cos(lat)*math.Cos(dLon)

	return x, y, cosC >= 0
}
