package airports

import (
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// MinQueryLength is the shortest query, in characters, Search will
	// answer.
	MinQueryLength = 2

	// MaxSearchResults caps the number of airports Search returns.
	MaxSearchResults = 50

	searchCacheSize = 256
)

// Catalog is the set of known airports. It is empty until Populate is
// called, and safe for concurrent use: a loader goroutine may populate it
// while other goroutines look up and search.
type Catalog struct {
	mu       sync.RWMutex
	airports []Airport
	byCode   map[string]int // upper-cased code -> index of first record

	searches *lru.Cache[string, []Airport]
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	// lru.New only fails for a non-positive size
	searches, _ := lru.New[string, []Airport](searchCacheSize)
	return &Catalog{
		byCode:   make(map[string]int),
		searches: searches,
	}
}

// Populate replaces the catalog contents. The catalog keeps its own copy of
// the slice. When a code appears more than once, the first record wins.
func (c *Catalog) Populate(airports []Airport) {
	byCode := make(map[string]int, len(airports))
	for i, a := range airports {
		code := strings.ToUpper(a.Code)
		if _, dup := byCode[code]; !dup {
			byCode[code] = i
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.airports = slices.Clone(airports)
	c.byCode = byCode
	c.searches.Purge()
}

// Lookup finds an airport by code, ignoring case.
func (c *Catalog) Lookup(code string) (Airport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byCode[strings.ToUpper(code)]
	if !ok {
		return Airport{}, false
	}
	return c.airports[i], true
}

// Search returns airports whose code, city, name or country contains query,
// ignoring case, in catalog order and capped at MaxSearchResults.
// Queries shorter than MinQueryLength return nothing.
func (c *Catalog) Search(query string) []Airport {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil
	}
	q := strings.ToLower(query)

	c.mu.RLock()
	defer c.mu.RUnlock()

	if hit, ok := c.searches.Get(q); ok {
		return slices.Clone(hit)
	}

	var results []Airport
	for _, a := range c.airports {
		if matches(a, q) {
			results = append(results, a)
			if len(results) == MaxSearchResults {
				break
			}
		}
	}

	// Held under the read lock so a concurrent Populate cannot purge
	// between the scan and the insert.
	c.searches.Add(q, results)
	return slices.Clone(results)
}

func matches(a Airport, q string) bool {
	return strings.Contains(strings.ToLower(a.Code), q) ||
		strings.Contains(strings.ToLower(a.City), q) ||
		strings.Contains(strings.ToLower(a.Name), q) ||
		strings.Contains(strings.ToLower(a.Country), q)
}

// Len returns the number of airports loaded.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.airports)
}

// All returns a copy of every airport in load order.
func (c *Catalog) All() []Airport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.airports)
}
