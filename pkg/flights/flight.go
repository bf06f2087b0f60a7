// Package flights holds the user's logged flights: the Flight record, the
// Store that owns the collection, and the persisted encoding.
package flights

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/unklstewy/flightlog/pkg/airports"
	"github.com/unklstewy/flightlog/pkg/coordinates"
)

// DateLayout is the calendar date format of Flight.Date.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a flight date is not a YYYY-MM-DD date.
var ErrInvalidDate = errors.New("invalid flight date")

// Flight is one logged flight. Flights are replaced, never modified in
// place; the country names and distance are captured when the flight is
// created and not re-derived from the catalog.
type Flight struct {
	ID string `json:"id"`

	// Origin and Destination are IATA codes. They are not checked against
	// the catalog, which may still be loading when a flight is added.
	Origin             string `json:"origin"`
	OriginCountry      string `json:"originCountry"`
	Destination        string `json:"destination"`
	DestinationCountry string `json:"destinationCountry"`

	// Date is a calendar date (YYYY-MM-DD) with no time or zone.
	Date string `json:"date"`

	// Distance is the great-circle distance in kilometers.
	Distance float64 `json:"distance"`

	// Year always equals the year of Date.
	Year int `json:"year"`
}

// NewFlight builds a flight between two catalog airports.
func NewFlight(id string, origin, destination airports.Airport, date string) (Flight, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Flight{}, err
	}

	return Flight{
		ID:                 id,
		Origin:             origin.Code,
		OriginCountry:      origin.Country,
		Destination:        destination.Code,
		DestinationCountry: destination.Country,
		Date:               d.Format(DateLayout),
		Distance:           coordinates.DistanceKm(origin.Position(), destination.Position()),
		Year:               d.Year(),
	}, nil
}

// New is NewFlight with a freshly generated id.
func New(origin, destination airports.Airport, date string) (Flight, error) {
	return NewFlight(uuid.NewString(), origin, destination, date)
}

// ParseDate parses a YYYY-MM-DD flight date.
func ParseDate(date string) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: want YYYY-MM-DD", ErrInvalidDate, date)
	}
	return d, nil
}

// Route returns "ORIGIN → DESTINATION".
func (f Flight) Route() string {
	return f.Origin + " → " + f.Destination
}
