// Package coordinates provides the geodesy used by flightlog: great-circle
// distance, bearing and interpolation on a spherical Earth, plus the globe
// and map projections the renderers draw with.
package coordinates

import (
	"math"
)

// Constants for coordinate calculations
const (
	// DegreesToRadians converts degrees to radians
	DegreesToRadians = math.Pi / 180.0

	// RadiansToDegrees converts radians to degrees
	RadiansToDegrees = 180.0 / math.Pi

	// EarthRadiusKm is the Earth's mean radius in kilometers
	EarthRadiusKm = 6371.0

	// KmPerNauticalMile converts nautical miles to kilometers
	KmPerNauticalMile = 1.852
)

// Geographic represents a position on Earth's surface.
type Geographic struct {
	// Latitude in decimal degrees (-90 to +90)
	// Positive = North, Negative = South
	Latitude float64 `json:"lat" msgpack:"lat"`

	// Longitude in decimal degrees (-180 to +180)
	// Positive = East, Negative = West
	Longitude float64 `json:"lon" msgpack:"lon"`
}

// ToRadians converts the Geographic coordinates to radians.
// Returns (latRad, lonRad).
func (g Geographic) ToRadians() (float64, float64) {
	return g.Latitude * DegreesToRadians, g.Longitude * DegreesToRadians
}

// LonLat returns the position as a [lon, lat] pair, the axis order used by
// GeoJSON and most map renderers.
func (g Geographic) LonLat() [2]float64 {
	return [2]float64{g.Longitude, g.Latitude}
}

// NormalizeLongitude wraps a longitude into the range [-180, 180).
func NormalizeLongitude(lon float64) float64 {
	l := math.Mod(lon+180.0, 360.0)
	if l < 0 {
		l += 360.0
	}
	return l - 180.0
}

// NormalizeAzimuth ensures azimuth is in the range [0, 360).
func NormalizeAzimuth(azimuth float64) float64 {
	az := math.Mod(azimuth, 360.0)
	if az < 0 {
		az += 360.0
	}
	return az
}

// Distance calculates the great-circle distance in kilometers between two
// points given in decimal degrees.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	return DistanceKm(
		Geographic{Latitude: lat1, Longitude: lon1},
		Geographic{Latitude: lat2, Longitude: lon2},
	)
}

// DistanceKm calculates the great-circle distance between two points.
// Uses the Haversine formula for accuracy over short and long distances.
// The result is symmetric and zero only for coincident points.
func DistanceKm(from, to Geographic) float64 {
	lat1Rad, lon1Rad := from.ToRadians()
	lat2Rad, lon2Rad := to.ToRadians()

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	// Haversine formula
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	// Rounding can push a a hair outside [0, 1] for antipodal points
	a = math.Max(0, math.Min(1, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// DistanceNauticalMiles calculates the great-circle distance between two points.
// Returns distance in nautical miles.
func DistanceNauticalMiles(from, to Geographic) float64 {
	return DistanceKm(from, to) / KmPerNauticalMile
}

// Bearing calculates the initial bearing (forward azimuth) from one point to another.
// Uses spherical trigonometry to calculate the bearing along a great circle.
// Returns bearing in degrees (0-360), where 0/360 = North, 90 = East, 180 = South, 270 = West.
func Bearing(from, to Geographic) float64 {
	lat1, lon1 := from.ToRadians()
	lat2, lon2 := to.ToRadians()

	dLon := lon2 - lon1
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return NormalizeAzimuth(math.Atan2(y, x) * RadiansToDegrees)
}

// InterpolateGreatCircle returns a function mapping a fraction t in [0, 1]
// to the point that far along the great circle from a to b.
// fn(0) is a and fn(1) is b; t outside [0, 1] is clamped.
// Antipodal points have no unique great circle; one through a heading east
// is used.
//
// The angular distance and trig terms are computed once so the returned
// function can be sampled cheaply every frame.
func InterpolateGreatCircle(a, b Geographic) func(t float64) Geographic {
	lat1, lon1 := a.ToRadians()
	lat2, lon2 := b.ToRadians()

	cosLat1, cosLat2 := math.Cos(lat1), math.Cos(lat2)
	x1, y1, z1 := cosLat1*math.Cos(lon1), cosLat1*math.Sin(lon1), math.Sin(lat1)
	x2, y2, z2 := cosLat2*math.Cos(lon2), cosLat2*math.Sin(lon2), math.Sin(lat2)

	// u is the unit vector perpendicular to a in the plane of the path,
	// pointing toward b.
	dot := x1*x2 + y1*y2 + z1*z2
	ux, uy, uz := x2-dot*x1, y2-dot*y1, z2-dot*z1
	norm := math.Sqrt(ux*ux + uy*uy + uz*uz)

	// Angular distance between the two points
	d := math.Atan2(norm, dot)

	if d < 1e-12 {
		// Coincident (or numerically indistinguishable) points
		return func(t float64) Geographic {
			if t >= 1 {
				return b
			}
			return a
		}
	}

	if norm < 1e-9 {
		// Antipodal: every great circle through a reaches b. Head east,
		// or along the prime meridian when a is a pole.
		ux, uy, uz = -y1, x1, 0
		norm = math.Hypot(ux, uy)
		if norm < 1e-9 {
			ux, uy, uz, norm = 1, 0, 0, 1
		}
	}
	ux, uy, uz = ux/norm, uy/norm, uz/norm

	return func(t float64) Geographic {
		switch {
		case t <= 0:
			return a
		case t >= 1:
			return b
		}

		// Rotate a toward b by t*d within the plane of the path
		c, s := math.Cos(t*d), math.Sin(t*d)
		x := c*x1 + s*ux
		y := c*y1 + s*uy
		z := c*z1 + s*uz

		lat := math.Atan2(z, math.Sqrt(x*x+y*y))
		lon := math.Atan2(y, x)

		return Geographic{
			Latitude:  lat * RadiansToDegrees,
			Longitude: lon * RadiansToDegrees,
		}
	}
}

// SampleGreatCircle returns segments+1 evenly spaced points along the great
// circle from a to b, both endpoints included.
func SampleGreatCircle(a, b Geographic, segments int) []Geographic {
	if segments < 1 {
		segments = 1
	}
	fn := InterpolateGreatCircle(a, b)
	points := make([]Geographic, segments+1)
	for i := 0; i <= segments; i++ {
		points[i] = fn(float64(i) / float64(segments))
	}
	return points
}
