package airports

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/unklstewy/flightlog/pkg/countries"
)

// DefaultSourceURL is the OpenFlights airport database.
const DefaultSourceURL = "https://raw.githubusercontent.com/jpatokal/openflights/master/data/airports.dat"

// Column layout of airports.dat:
// ID, Name, City, Country, IATA, ICAO, Latitude, Longitude, Altitude,
// Timezone, DST, Tz database timezone, Type, Source
const (
	colName    = 1
	colCity    = 2
	colCountry = 3
	colIATA    = 4
	colLat     = 6
	colLon     = 7
	minColumns = 8
)

// openFlightsNull marks a missing value in airports.dat.
const openFlightsNull = `\N`

// ParseOpenFlights reads airports in the OpenFlights airports.dat format.
// Only records with a 3-character IATA code and a valid position are kept;
// everything else (heliports, ICAO-only fields, short rows) is skipped.
func ParseOpenFlights(r io.Reader) ([]Airport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var airports []Airport
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse airports: %w", err)
		}

		if a, ok := parseRecord(rec); ok {
			airports = append(airports, a)
		}
	}

	return airports, nil
}

func parseRecord(rec []string) (Airport, bool) {
	if len(rec) < minColumns {
		return Airport{}, false
	}

	code := rec[colIATA]
	if code == openFlightsNull || len(code) != 3 {
		return Airport{}, false
	}

	lat, err := strconv.ParseFloat(rec[colLat], 64)
	if err != nil || lat < -90 || lat > 90 {
		return Airport{}, false
	}
	lon, err := strconv.ParseFloat(rec[colLon], 64)
	if err != nil || lon < -180 || lon > 180 {
		return Airport{}, false
	}

	country := nullable(rec[colCountry])
	return Airport{
		Code:        code,
		Name:        nullable(rec[colName]),
		City:        nullable(rec[colCity]),
		Country:     country,
		CountryCode: countries.Resolve(country),
		Lat:         lat,
		Lon:         lon,
	}, true
}

func nullable(s string) string {
	if s == openFlightsNull {
		return ""
	}
	return s
}
