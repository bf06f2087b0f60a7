// Package airports holds the airport reference catalog: an in-memory index
// with code lookup and text search, and the loader that populates it from
// the OpenFlights dataset, a local cache, or a small built-in list.
package airports

import (
	"errors"
	"fmt"

	"github.com/unklstewy/flightlog/pkg/coordinates"
)

// ErrCatalogUnavailable is returned when no remote or cached airport data
// could be loaded.
var ErrCatalogUnavailable = errors.New("airport catalog unavailable")

// Airport is an immutable reference record for one airport.
type Airport struct {
	// Code is the 3-letter IATA code (e.g., "JFK")
	Code string `json:"code" msgpack:"code"`

	Name    string `json:"name" msgpack:"name"`
	City    string `json:"city" msgpack:"city"`
	Country string `json:"country" msgpack:"country"`

	// CountryCode is the ISO alpha-3 code resolved from Country at load time.
	// May be a best-effort guess for countries missing from the table.
	CountryCode string `json:"countryCode,omitempty" msgpack:"country_code"`

	// Lat in decimal degrees (-90 to +90)
	Lat float64 `json:"lat" msgpack:"lat"`

	// Lon in decimal degrees (-180 to +180)
	Lon float64 `json:"lon" msgpack:"lon"`
}

// Position returns the airport's location.
func (a Airport) Position() coordinates.Geographic {
	return coordinates.Geographic{Latitude: a.Lat, Longitude: a.Lon}
}

func (a Airport) String() string {
	return fmt.Sprintf("%s %s (%s, %s)", a.Code, a.Name, a.City, a.Country)
}
