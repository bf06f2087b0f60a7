package countries

import (
	"fmt"
	"io"

	"github.com/paulmach/orb/geojson"
)

// VisitedProperty is the boolean feature property set by Highlight.
const VisitedProperty = "visited"

// Feature properties that may carry a country's alpha-3 code, in the order
// they are tried. Natural Earth uses "-99" when a code is not assigned.
var alpha3Keys = []string{"ISO_A3", "iso_a3", "ADM0_A3", "adm0_a3"}

var alpha2Keys = []string{"ISO_A2", "iso_a2"}

// LoadBoundaries parses a GeoJSON FeatureCollection of country boundaries.
func LoadBoundaries(r io.Reader) (*geojson.FeatureCollection, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read boundaries: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse boundaries: %w", err)
	}
	return fc, nil
}

// FeatureCode returns the alpha-3 code of a boundary feature, converting an
// alpha-2 property when no alpha-3 property is present.
func FeatureCode(f *geojson.Feature) (string, bool) {
	for _, key := range alpha3Keys {
		if code, ok := getProp[string](f.Properties, key); ok && code != "" && code != "-99" {
			return code, true
		}
	}
	for _, key := range alpha2Keys {
		if code, ok := getProp[string](f.Properties, key); ok && code != "" && code != "-99" {
			return FromAlpha2(code)
		}
	}
	return "", false
}

// Highlight sets the visited property on every feature in fc, true when the
// feature's code is in visited. Returns the number of visited features.
func Highlight(fc *geojson.FeatureCollection, visited map[string]bool) int {
	if fc == nil {
		return 0
	}

	n := 0
	for _, f := range fc.Features {
		if f.Properties == nil {
			f.Properties = geojson.Properties{}
		}
		code, ok := FeatureCode(f)
		hit := ok && visited[code]
		f.Properties[VisitedProperty] = hit
		if hit {
			n++
		}
	}
	return n
}

func getProp[T any](m map[string]interface{}, name string) (T, bool) {
	p, ok := m[name]
	if !ok {
		var t T
		return t, false
	}

	pv, ok := p.(T)
	if !ok {
		var t T
		return t, false
	}

	return pv, true
}
