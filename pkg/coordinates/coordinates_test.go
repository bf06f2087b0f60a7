package coordinates

import (
	"math"
	"testing"
	"time"

	"github.com/umahmood/haversine"
)

var (
	jfk = Geographic{Latitude: 40.6413, Longitude: -73.7781}
	lhr = Geographic{Latitude: 51.4700, Longitude: -0.4543}
	syd = Geographic{Latitude: -33.9399, Longitude: 151.1753}
	sfo = Geographic{Latitude: 37.6213, Longitude: -122.3790}
)

// TestDistanceKnownValues checks the haversine distance against published
// great-circle distances and an independent implementation.
func TestDistanceKnownValues(t *testing.T) {
	tests := []struct {
		name      string
		from, to  Geographic
		wantKm    float64
		tolerance float64 // fraction of wantKm
	}{
		{"JFK to LHR", jfk, lhr, 5550, 0.01},
		{"SFO to SYD", sfo, syd, 11940, 0.01},
		{"Same point", jfk, jfk, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.from, tt.to)
			if math.Abs(got-tt.wantKm) > tt.wantKm*tt.tolerance {
				t.Errorf("DistanceKm = %.1f km, want %.1f km (±%.0f%%)", got, tt.wantKm, tt.tolerance*100)
			}

			// Cross-check against a reference implementation using the same radius
			_, refKm := haversine.Distance(
				haversine.Coord{Lat: tt.from.Latitude, Lon: tt.from.Longitude},
				haversine.Coord{Lat: tt.to.Latitude, Lon: tt.to.Longitude},
			)
			if math.Abs(got-refKm) > 1e-6 {
				t.Errorf("DistanceKm = %.6f km, reference = %.6f km", got, refKm)
			}
		})
	}
}

// TestDistanceSymmetryAndIdentity verifies d(A,B) == d(B,A) and d(A,A) == 0.
func TestDistanceSymmetryAndIdentity(t *testing.T) {
	points := []Geographic{
		jfk, lhr, syd, sfo,
		{Latitude: 90, Longitude: 0},
		{Latitude: -90, Longitude: 45},
		{Latitude: 0, Longitude: 180},
		{Latitude: 0, Longitude: -180},
	}

	for _, a := range points {
		if d := DistanceKm(a, a); d != 0 {
			t.Errorf("DistanceKm(%v, %v) = %v, want 0", a, a, d)
		}
		for _, b := range points {
			ab := DistanceKm(a, b)
			ba := DistanceKm(b, a)
			if ab != ba {
				t.Errorf("asymmetric distance: d(%v,%v)=%v, d(%v,%v)=%v", a, b, ab, b, a, ba)
			}
			if ab < 0 {
				t.Errorf("negative distance %v between %v and %v", ab, a, b)
			}
		}
	}
}

// TestDistanceWrapper verifies the degree-argument convenience form.
func TestDistanceWrapper(t *testing.T) {
	got := Distance(jfk.Latitude, jfk.Longitude, lhr.Latitude, lhr.Longitude)
	if want := DistanceKm(jfk, lhr); got != want {
		t.Errorf("Distance = %v, want %v", got, want)
	}
	if nm := DistanceNauticalMiles(jfk, lhr); math.Abs(nm*KmPerNauticalMile-got) > 1e-9 {
		t.Errorf("DistanceNauticalMiles = %v, inconsistent with %v km", nm, got)
	}
}

// TestBearing tests cardinal bearings.
func TestBearing(t *testing.T) {
	origin := Geographic{Latitude: 0, Longitude: 0}
	tests := []struct {
		name string
		to   Geographic
		want float64
	}{
		{"North", Geographic{Latitude: 10, Longitude: 0}, 0},
		{"East", Geographic{Latitude: 0, Longitude: 10}, 90},
		{"South", Geographic{Latitude: -10, Longitude: 0}, 180},
		{"West", Geographic{Latitude: 0, Longitude: -10}, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(origin, tt.to)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("Bearing = %.2f, want %.2f", got, tt.want)
			}
		})
	}
}

// TestInterpolateGreatCircle tests endpoints, midpoints and clamping.
func TestInterpolateGreatCircle(t *testing.T) {
	const tolerance = 1e-9

	t.Run("Endpoints", func(t *testing.T) {
		fn := InterpolateGreatCircle(jfk, lhr)
		if got := fn(0); got != jfk {
			t.Errorf("fn(0) = %v, want %v", got, jfk)
		}
		if got := fn(1); got != lhr {
			t.Errorf("fn(1) = %v, want %v", got, lhr)
		}
		if got := fn(-0.5); got != jfk {
			t.Errorf("fn(-0.5) = %v, want clamp to %v", got, jfk)
		}
		if got := fn(1.5); got != lhr {
			t.Errorf("fn(1.5) = %v, want clamp to %v", got, lhr)
		}
	})

	t.Run("Equator midpoint", func(t *testing.T) {
		fn := InterpolateGreatCircle(
			Geographic{Latitude: 0, Longitude: 0},
			Geographic{Latitude: 0, Longitude: 90},
		)
		mid := fn(0.5)
		if math.Abs(mid.Latitude) > tolerance || math.Abs(mid.Longitude-45) > tolerance {
			t.Errorf("fn(0.5) = %+v, want (0, 45)", mid)
		}
	})

	t.Run("Meridian quarter", func(t *testing.T) {
		fn := InterpolateGreatCircle(
			Geographic{Latitude: 0, Longitude: 10},
			Geographic{Latitude: 80, Longitude: 10},
		)
		q := fn(0.25)
		if math.Abs(q.Latitude-20) > tolerance || math.Abs(q.Longitude-10) > tolerance {
			t.Errorf("fn(0.25) = %+v, want (20, 10)", q)
		}
	})

	t.Run("Points lie on the path", func(t *testing.T) {
		fn := InterpolateGreatCircle(jfk, lhr)
		total := DistanceKm(jfk, lhr)
		for _, frac := range []float64{0.1, 0.33, 0.5, 0.9} {
			p := fn(frac)
			fromStart := DistanceKm(jfk, p)
			toEnd := DistanceKm(p, lhr)
			if math.Abs(fromStart-frac*total) > 1e-6 {
				t.Errorf("t=%.2f: distance from start %.3f, want %.3f", frac, fromStart, frac*total)
			}
			if math.Abs(fromStart+toEnd-total) > 1e-6 {
				t.Errorf("t=%.2f: point is off the great circle (%.3f + %.3f != %.3f)", frac, fromStart, toEnd, total)
			}
		}
	})

	t.Run("Antipodal points", func(t *testing.T) {
		a := Geographic{Latitude: 10, Longitude: 20}
		b := Geographic{Latitude: -10, Longitude: -160}
		fn := InterpolateGreatCircle(a, b)
		half := math.Pi * EarthRadiusKm

		for _, frac := range []float64{0.25, 0.5, 0.75} {
			p := fn(frac)
			if got := DistanceKm(a, p); math.Abs(got-frac*half) > 1e-6 {
				t.Errorf("t=%.2f: %.3f km from start, want %.3f", frac, got, frac*half)
			}
			if got := DistanceKm(p, b); math.Abs(got-(1-frac)*half) > 1e-6 {
				t.Errorf("t=%.2f: %.3f km from end, want %.3f", frac, got, (1-frac)*half)
			}
		}

		points := SampleGreatCircle(a, b, 50)
		if points[1] == a || points[49] == a {
			t.Error("antipodal path collapsed onto its origin")
		}
	})

	t.Run("Antipodal poles", func(t *testing.T) {
		fn := InterpolateGreatCircle(Geographic{Latitude: 90}, Geographic{Latitude: -90})
		if mid := fn(0.5); math.Abs(mid.Latitude) > tolerance {
			t.Errorf("fn(0.5) = %+v, want a point on the equator", mid)
		}
	})

	t.Run("Coincident points", func(t *testing.T) {
		fn := InterpolateGreatCircle(syd, syd)
		if got := fn(0.5); got != syd {
			t.Errorf("fn(0.5) = %v, want %v", got, syd)
		}
	})
}

// TestSampleGreatCircle verifies the sample count and endpoints.
func TestSampleGreatCircle(t *testing.T) {
	points := SampleGreatCircle(jfk, lhr, 50)
	if len(points) != 51 {
		t.Fatalf("len(points) = %d, want 51", len(points))
	}
	if points[0] != jfk || points[50] != lhr {
		t.Errorf("endpoints = %v, %v; want %v, %v", points[0], points[50], jfk, lhr)
	}

	if got := len(SampleGreatCircle(jfk, lhr, 0)); got != 2 {
		t.Errorf("segments=0 produced %d points, want 2", got)
	}
}

// TestNormalizeLongitude tests wrap-around.
func TestNormalizeLongitude(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{179, 179},
		{180, -180},
		{190, -170},
		{-190, 170},
		{540, -180},
	}
	for _, tt := range tests {
		if got := NormalizeLongitude(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeLongitude(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestProjections checks the globe and map projections at reference points.
func TestProjections(t *testing.T) {
	t.Run("Mercator equator/prime meridian is canvas center", func(t *testing.T) {
		x, y := Mercator(Geographic{}, 1000, 500)
		if math.Abs(x-500) > 1e-9 || math.Abs(y-250) > 1e-9 {
			t.Errorf("Mercator = (%v, %v), want (500, 250)", x, y)
		}
	})

	t.Run("Mercator clamps near the poles", func(t *testing.T) {
		_, y := Mercator(Geographic{Latitude: 89.9}, 1000, 500)
		if y != 0 {
			t.Errorf("y = %v, want clamp to 0", y)
		}
		_, y = Mercator(Geographic{Latitude: -89.9}, 1000, 500)
		if y != 500 {
			t.Errorf("y = %v, want clamp to 500", y)
		}
	})

	t.Run("Cartesian north pole is +Y", func(t *testing.T) {
		v := ToCartesian(Geographic{Latitude: 90}, 2)
		if math.Abs(v.Y-2) > 1e-9 || math.Abs(v.X) > 1e-9 || math.Abs(v.Z) > 1e-9 {
			t.Errorf("ToCartesian(north pole) = %+v, want (0, 2, 0)", v)
		}
	})

	t.Run("Cartesian points lie on the sphere", func(t *testing.T) {
		for _, g := range []Geographic{jfk, lhr, syd, sfo} {
			v := ToCartesian(g, 2)
			r := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
			if math.Abs(r-2) > 1e-9 {
				t.Errorf("|ToCartesian(%v)| = %v, want 2", g, r)
			}
		}
	})

	t.Run("Orthographic center and antipode", func(t *testing.T) {
		x, y, visible := Orthographic(lhr, lhr)
		if !visible || math.Abs(x) > 1e-9 || math.Abs(y) > 1e-9 {
			t.Errorf("Orthographic(center) = (%v, %v, %v), want (0, 0, true)", x, y, visible)
		}
		antipode := Geographic{Latitude: -lhr.Latitude, Longitude: NormalizeLongitude(lhr.Longitude + 180)}
		if _, _, visible := Orthographic(antipode, lhr); visible {
			t.Error("antipode should be on the far side of the globe")
		}
	})
}

// TestSubsolarPoint checks the sun's declination at an equinox and a solstice.
func TestSubsolarPoint(t *testing.T) {
	tests := []struct {
		name      string
		time      time.Time
		wantLat   float64
		tolerance float64
	}{
		{"March equinox", time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC), 0, 0.5},
		{"June solstice", time.Date(2024, 6, 20, 20, 51, 0, 0, time.UTC), 23.44, 0.5},
		{"December solstice", time.Date(2024, 12, 21, 9, 20, 0, 0, time.UTC), -23.44, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sun := SubsolarPoint(tt.time)
			if math.Abs(sun.Latitude-tt.wantLat) > tt.tolerance {
				t.Errorf("subsolar latitude = %.2f, want %.2f (±%.1f)", sun.Latitude, tt.wantLat, tt.tolerance)
			}
		})
	}

	t.Run("Noon UTC is near the prime meridian", func(t *testing.T) {
		// The equation of time keeps the offset within ~4 degrees
		sun := SubsolarPoint(time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC))
		if math.Abs(sun.Longitude) > 5 {
			t.Errorf("subsolar longitude at 12:00 UTC = %.2f, want within 5 of 0", sun.Longitude)
		}
		if !IsDaylight(Geographic{Latitude: 0, Longitude: 0}, time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)) {
			t.Error("expected daylight on the equator at the prime meridian at noon UTC")
		}
		if IsDaylight(Geographic{Latitude: 0, Longitude: 180}, time.Date(2024, 4, 15, 12, 0, 0, 0, time.UTC)) {
			t.Error("expected night on the antimeridian at noon UTC")
		}
	})
}
