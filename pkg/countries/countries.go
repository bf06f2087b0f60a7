// Package countries maps the free-text country names found in airport
// records to ISO 3166-1 alpha-3 codes, and uses those codes to mark visited
// countries in boundary datasets.
package countries

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	byName   map[string]entry
	byAlpha2 map[string]string

	upper = cases.Upper(language.Und)
)

func init() {
	byName = make(map[string]entry, len(table))
	byAlpha2 = make(map[string]string, len(table))
	for _, e := range table {
		byName[e.name] = e
		byAlpha2[e.alpha2] = e.alpha3
	}
}

// Resolve returns the ISO alpha-3 code for a country name.
//
// Names missing from the curated table fall back to their first three
// characters, upper-cased ("Narnia" -> "NAR"). The fallback is a best-effort
// guess and is often not a real ISO code; it only affects map highlighting.
// An empty name resolves to "".
func Resolve(name string) string {
	if code, ok := Lookup(name); ok {
		return code
	}

	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return upper.String(string(runes))
}

// Lookup returns the alpha-3 code for name and whether the curated table
// contains it. Matching is exact, as names come verbatim from the dataset.
func Lookup(name string) (string, bool) {
	e, ok := byName[name]
	if !ok {
		return "", false
	}
	return e.alpha3, true
}

// FromAlpha2 converts an ISO alpha-2 code to alpha-3 for countries in the
// curated table.
func FromAlpha2(code string) (string, bool) {
	alpha3, ok := byAlpha2[upper.String(code)]
	return alpha3, ok
}

// Len returns the number of curated country names.
func Len() int {
	return len(table)
}
