package session

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/unklstewy/flightlog/internal/storage"
	"github.com/unklstewy/flightlog/pkg/airports"
	"github.com/unklstewy/flightlog/pkg/config"
	"github.com/unklstewy/flightlog/pkg/flights"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	ctx := context.Background()

	slot, err := storage.Open(ctx, config.StorageConfig{Driver: "memory", Slot: "test"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(ctx, slot, airports.NewLoader(nil, nil, nil), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.LoadAirports(ctx); err != nil {
		t.Fatalf("LoadAirports: %v", err)
	}
	return s
}

func TestAddFlight(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	f, err := s.AddFlight(ctx, "jfk", " LHR ", "2024-03-01")
	if err != nil {
		t.Fatalf("AddFlight: %v", err)
	}
	if f.Origin != "JFK" || f.Destination != "LHR" {
		t.Errorf("route = %s", f.Route())
	}
	if f.OriginCountry != "United States" || f.DestinationCountry != "United Kingdom" {
		t.Errorf("countries = %q, %q", f.OriginCountry, f.DestinationCountry)
	}
	if math.Abs(f.Distance-5550)/5550 > 0.01 {
		t.Errorf("distance = %.1f, want about 5550", f.Distance)
	}
	if f.Year != 2024 {
		t.Errorf("year = %d", f.Year)
	}
	if s.Store.Len() != 1 {
		t.Errorf("store has %d flights", s.Store.Len())
	}

	t.Run("Unknown airport", func(t *testing.T) {
		_, err := s.AddFlight(ctx, "JFK", "ZZZ", "2024-03-01")
		if !errors.Is(err, ErrUnknownAirport) {
			t.Errorf("err = %v, want ErrUnknownAirport", err)
		}
	})

	t.Run("Bad date", func(t *testing.T) {
		_, err := s.AddFlight(ctx, "JFK", "LHR", "03/01/2024")
		if !errors.Is(err, flights.ErrInvalidDate) {
			t.Errorf("err = %v, want ErrInvalidDate", err)
		}
	})

	if s.Store.Len() != 1 {
		t.Errorf("failed adds changed the store: %d flights", s.Store.Len())
	}
}

func TestEditFlight(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	f, err := s.AddFlight(ctx, "JFK", "LHR", "2024-03-01")
	if err != nil {
		t.Fatal(err)
	}

	edited, ok, err := s.EditFlight(ctx, f.ID, "", "CDG", "")
	if err != nil || !ok {
		t.Fatalf("EditFlight: ok=%v err=%v", ok, err)
	}
	if edited.ID != f.ID || edited.Origin != "JFK" || edited.Destination != "CDG" || edited.Date != f.Date {
		t.Errorf("edited = %+v", edited)
	}
	if edited.DestinationCountry != "France" {
		t.Errorf("destination country = %q, want France", edited.DestinationCountry)
	}
	if edited.Distance == f.Distance {
		t.Error("distance was not recomputed")
	}

	got, _ := s.Store.Get(f.ID)
	if got != edited {
		t.Errorf("store holds %+v, want %+v", got, edited)
	}

	if _, ok, err := s.EditFlight(ctx, "missing", "JFK", "", ""); ok || err != nil {
		t.Errorf("edit of missing id: ok=%v err=%v", ok, err)
	}
}

func TestRemoveFlight(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	f, _ := s.AddFlight(ctx, "SFO", "SYD", "2023-12-24")

	removed, err := s.RemoveFlight(ctx, f.ID)
	if err != nil || !removed {
		t.Fatalf("RemoveFlight: removed=%v err=%v", removed, err)
	}
	removed, err = s.RemoveFlight(ctx, f.ID)
	if err != nil || removed {
		t.Errorf("second RemoveFlight: removed=%v err=%v", removed, err)
	}
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)

	s.AddFlight(ctx, "JFK", "LHR", "2024-01-10")
	s.AddFlight(ctx, "LHR", "CDG", "2024-02-10")

	sum := s.Summary()
	if sum.Flights != 2 || sum.Countries != 3 {
		t.Errorf("summary = %d flights, %d countries; want 2, 3", sum.Flights, sum.Countries)
	}
	want := []string{"FRA", "GBR", "USA"}
	if len(sum.CountryCodes) != len(want) {
		t.Fatalf("country codes = %v, want %v", sum.CountryCodes, want)
	}
	for i := range want {
		if sum.CountryCodes[i] != want[i] {
			t.Errorf("country codes = %v, want %v", sum.CountryCodes, want)
			break
		}
	}
}

func TestOpenFromConfig(t *testing.T) {
	dat := `1,"John F Kennedy International Airport","New York","United States","JFK","KJFK",40.63980103,-73.77890015,13,-5,"A","America/New_York","airport","OurAirports"
2,"Heathrow Airport","London","United Kingdom","LHR","EGLL",51.4706,-0.461941,83,0,"E","Europe/London","airport","OurAirports"
`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(dat))
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Storage.DataDir = dir
	cfg.Airports.SourceURL = srv.URL
	cfg.Airports.CachePath = filepath.Join(dir, "airports.msgpack.zst")

	ctx := context.Background()
	s, err := Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if s.StorageName() != filepath.Join(dir, "safr_flights.json") {
		t.Errorf("StorageName() = %s", s.StorageName())
	}

	done := make(chan error, 1)
	s.LoadAirportsAsync(ctx, func(err error) { done <- err })
	if err := <-done; err != nil {
		t.Fatalf("async load: %v", err)
	}
	if s.Catalog.Len() != 2 || s.Loader.Origin() != airports.OriginRemote {
		t.Errorf("catalog has %d airports from %q", s.Catalog.Len(), s.Loader.Origin())
	}

	if _, err := s.AddFlight(ctx, "JFK", "LHR", "2024-05-05"); err != nil {
		t.Fatal(err)
	}

	// A second session over the same directory sees the flight and the
	// cached catalog without contacting the server.
	srv.Close()
	s2, err := Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if s2.Store.Len() != 1 {
		t.Errorf("reopened session has %d flights", s2.Store.Len())
	}
	if err := s2.LoadAirports(ctx); err != nil {
		t.Fatal(err)
	}
	if s2.Loader.Origin() != airports.OriginCache {
		t.Errorf("second load came from %q, want cache", s2.Loader.Origin())
	}
}
