package flights

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// FormatVersion is the version written by Encode.
const FormatVersion = 1

// ErrUnsupportedVersion is returned by Decode for data written by a newer
// format version.
var ErrUnsupportedVersion = errors.New("unsupported flight data version")

type envelope struct {
	Version int      `json:"version"`
	Flights []Flight `json:"flights"`
}

// Encode serializes flights, head first, inside a versioned envelope.
func Encode(flights []Flight) ([]byte, error) {
	if flights == nil {
		flights = []Flight{}
	}
	b, err := json.Marshal(envelope{Version: FormatVersion, Flights: flights})
	if err != nil {
		return nil, fmt.Errorf("failed to encode flights: %w", err)
	}
	return b, nil
}

// Decode parses data written by Encode. A bare JSON array of flights, the
// layout used before the envelope existed, is also accepted.
func Decode(data []byte) ([]Flight, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to decode flights: empty data")
	}

	if data[0] == '[' {
		var flights []Flight
		if err := json.Unmarshal(data, &flights); err != nil {
			return nil, fmt.Errorf("failed to decode flights: %w", err)
		}
		return flights, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode flights: %w", err)
	}
	if env.Version < 1 || env.Version > FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	return env.Flights, nil
}
