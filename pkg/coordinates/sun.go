package coordinates

import (
	"math"
	"time"
)

// SubsolarPoint returns the point on Earth where the sun is directly overhead
// at time t. Renderers use it to shade the night side of the globe.
// Uses simplified NOAA solar algorithms, accurate to a fraction of a degree.
func SubsolarPoint(t time.Time) Geographic {
	jd := julianDate(t.UTC())

	// Julian century from J2000.0
	jc := (jd - 2451545.0) / 36525.0

	// Sun's geometric mean longitude (degrees)
	L0 := math.Mod(280.46646+jc*(36000.76983+jc*0.0003032), 360.0)

	// Sun's mean anomaly (degrees)
	M := 357.52911 + jc*(35999.05029-0.0001537*jc)
	Mrad := M * DegreesToRadians

	// Sun's equation of center
	C := math.Sin(Mrad)*(1.914602-jc*(0.004817+0.000014*jc)) +
		math.Sin(2*Mrad)*(0.019993-0.000101*jc) +
		math.Sin(3*Mrad)*0.000289

	// Apparent longitude, corrected for aberration and nutation
	omega := 125.04 - 1934.136*jc
	lambda := (L0 + C - 0.00569 - 0.00478*math.Sin(omega*DegreesToRadians)) * DegreesToRadians

	// Obliquity of ecliptic
	epsilon0 := 23.0 + (26.0+(21.448-jc*(46.815+jc*(0.00059-jc*0.001813))))/60.0/60.0
	epsilon := (epsilon0 + 0.00256*math.Cos(omega*DegreesToRadians)) * DegreesToRadians

	ra := math.Atan2(math.Cos(epsilon)*math.Sin(lambda), math.Cos(lambda)) * RadiansToDegrees
	dec := math.Asin(math.Sin(epsilon)*math.Sin(lambda)) * RadiansToDegrees

	// Greenwich mean sidereal time (degrees)
	gmst := math.Mod(280.46061837+360.98564736629*(jd-2451545.0)+
		0.000387933*jc*jc-jc*jc*jc/38710000.0, 360.0)

	return Geographic{
		Latitude:  dec,
		Longitude: NormalizeLongitude(ra - gmst),
	}
}

// IsDaylight reports whether the sun is above the horizon at g at time t.
func IsDaylight(g Geographic, t time.Time) bool {
	sun := SubsolarPoint(t)
	// Within 90 degrees of arc of the subsolar point, plus ~0.833 degrees
	// for refraction and the solar disc.
	return DistanceKm(g, sun)/EarthRadiusKm*RadiansToDegrees < 90.833
}

// julianDate converts a UTC time to a Julian Date.
func julianDate(t time.Time) float64 {
	year := t.Year()
	month := int(t.Month())
	day := float64(t.Day()) +
		(float64(t.Hour())+
			float64(t.Minute())/60.0+
			float64(t.Second())/3600.0)/24.0

	// Adjust for January/February
	if month <= 2 {
		year--
		month += 12
	}

	a := year / 100
	b := 2 - a + a/4

	return math.Floor(365.25*float64(year+4716)) +
		math.Floor(30.6001*float64(month+1)) +
		day + float64(b) - 1524.5
}
