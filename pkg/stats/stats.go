// Package stats derives summary figures from a flight history.
// Everything here is a pure function of its inputs and is recomputed on
// every call.
package stats

import (
	"sort"

	"github.com/unklstewy/flightlog/pkg/airports"
	"github.com/unklstewy/flightlog/pkg/countries"
	"github.com/unklstewy/flightlog/pkg/flights"
)

// Catalog resolves airport codes. *airports.Catalog satisfies it.
type Catalog interface {
	Lookup(code string) (airports.Airport, bool)
}

// Summary aggregates a flight history.
type Summary struct {
	// Countries is the number of distinct origin/destination country names
	// recorded on the flights.
	Countries int `json:"countries"`

	// Flights is the number of flights.
	Flights int `json:"flights"`

	// DistanceKm is the sum of the stored flight distances.
	DistanceKm float64 `json:"distanceKm"`

	// TopCountry is the country appearing most often as an origin or
	// destination. Ties go to the alphabetically first name.
	TopCountry string `json:"topCountry,omitempty"`

	// ByYear holds per-year totals in ascending year order.
	ByYear []YearTotal `json:"byYear,omitempty"`

	// Longest is the flight with the greatest distance, nil when there are
	// no flights.
	Longest *flights.Flight `json:"longest,omitempty"`

	// CountryCodes lists the ISO alpha-3 codes of visited countries, sorted.
	// Only filled by ComputeWithCatalog.
	CountryCodes []string `json:"countryCodes,omitempty"`
}

// YearTotal is the flight count and distance for one calendar year.
type YearTotal struct {
	Year       int     `json:"year"`
	Flights    int     `json:"flights"`
	DistanceKm float64 `json:"distanceKm"`
}

// Compute summarizes fs. Country counts use the names captured on each
// flight, so later catalog changes do not alter past results.
func Compute(fs []flights.Flight) Summary {
	s := Summary{Flights: len(fs)}

	visits := make(map[string]int)
	years := make(map[int]*YearTotal)

	for i, f := range fs {
		s.DistanceKm += f.Distance
		visits[f.OriginCountry]++
		visits[f.DestinationCountry]++

		yt, ok := years[f.Year]
		if !ok {
			yt = &YearTotal{Year: f.Year}
			years[f.Year] = yt
		}
		yt.Flights++
		yt.DistanceKm += f.Distance

		if s.Longest == nil || f.Distance > s.Longest.Distance {
			s.Longest = &fs[i]
		}
	}

	s.Countries = len(visits)
	s.TopCountry = topCountry(visits)

	for _, yt := range years {
		s.ByYear = append(s.ByYear, *yt)
	}
	sort.Slice(s.ByYear, func(i, j int) bool { return s.ByYear[i].Year < s.ByYear[j].Year })

	if s.Longest != nil {
		longest := *s.Longest
		s.Longest = &longest
	}
	return s
}

// ComputeWithCatalog is Compute plus the visited country codes, which need
// the catalog to map airports to ISO codes.
func ComputeWithCatalog(fs []flights.Flight, catalog Catalog) Summary {
	s := Compute(fs)

	for code := range VisitedCodes(fs, catalog) {
		s.CountryCodes = append(s.CountryCodes, code)
	}
	sort.Strings(s.CountryCodes)
	return s
}

// VisitedCodes returns the alpha-3 codes of every country a flight started
// or ended in. The catalog's code for the airport is preferred; airports
// the catalog does not know fall back to resolving the country name stored
// on the flight.
func VisitedCodes(fs []flights.Flight, catalog Catalog) map[string]bool {
	visited := make(map[string]bool)

	add := func(code, country string) {
		if catalog != nil {
			if a, ok := catalog.Lookup(code); ok && a.CountryCode != "" {
				visited[a.CountryCode] = true
				return
			}
		}
		if c := countries.Resolve(country); c != "" {
			visited[c] = true
		}
	}

	for _, f := range fs {
		add(f.Origin, f.OriginCountry)
		add(f.Destination, f.DestinationCountry)
	}
	return visited
}

func topCountry(visits map[string]int) string {
	top, best := "", 0
	for name, n := range visits {
		if name == "" {
			continue
		}
		if n > best || (n == best && name < top) {
			top, best = name, n
		}
	}
	return top
}
