package airports

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeSource counts fetches and optionally blocks until released.
type fakeSource struct {
	calls    atomic.Int32
	release  chan struct{}
	airports []Airport
	err      error
}

func (s *fakeSource) Fetch(ctx context.Context) ([]Airport, error) {
	s.calls.Add(1)
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.airports, s.err
}

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxRetries:   2,
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     20 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestLoaderDeduplicatesConcurrentLoads(t *testing.T) {
	src := &fakeSource{release: make(chan struct{}), airports: Fallback()[:3]}
	l := NewLoader(src, nil, nil)

	const callers = 10
	var wg sync.WaitGroup
	results := make([][]Airport, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			airports, err := l.Load(context.Background())
			if err != nil {
				t.Errorf("Load: %v", err)
			}
			results[i] = airports
		}(i)
	}

	// Give the callers a moment to pile up on the in-flight load
	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()

	if n := src.calls.Load(); n != 1 {
		t.Errorf("source fetched %d times, want 1", n)
	}
	for i, r := range results {
		if len(r) != 3 {
			t.Errorf("caller %d got %d airports, want 3", i, len(r))
		}
	}

	// Subsequent loads reuse the result
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n := src.calls.Load(); n != 1 {
		t.Errorf("source fetched %d times after reload, want 1", n)
	}
	if l.Origin() != OriginRemote {
		t.Errorf("Origin() = %q, want %q", l.Origin(), OriginRemote)
	}
}

func TestLoaderFallsBackOnFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("network unreachable")}
	l := NewLoader(src, nil, nil)

	airports, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load should not fail when the fallback is available: %v", err)
	}
	if len(airports) != len(Fallback()) {
		t.Errorf("got %d airports, want the %d fallback airports", len(airports), len(Fallback()))
	}
	if l.Origin() != OriginFallback {
		t.Errorf("Origin() = %q, want %q", l.Origin(), OriginFallback)
	}

	// The fallback result is kept for the session
	l.Load(context.Background())
	if n := src.calls.Load(); n != 1 {
		t.Errorf("source fetched %d times, want 1", n)
	}
}

func TestLoaderNoRemote(t *testing.T) {
	l := NewLoader(nil, nil, nil)

	c := NewCatalog()
	if err := l.LoadInto(context.Background(), c); err != nil {
		t.Fatalf("LoadInto: %v", err)
	}
	if _, ok := c.Lookup("SYD"); !ok {
		t.Error("catalog should contain fallback airports")
	}
}

func TestLoaderUsesCache(t *testing.T) {
	cache := NewDiskCache(filepath.Join(t.TempDir(), "airports.msgpack.zst"), time.Hour)

	src := &fakeSource{airports: Fallback()[:5]}
	first := NewLoader(src, cache, nil)
	if _, err := first.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if first.Origin() != OriginRemote {
		t.Fatalf("first Origin() = %q, want remote", first.Origin())
	}

	// A new session reads the cache written by the first
	second := NewLoader(src, cache, nil)
	airports, err := second.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if second.Origin() != OriginCache {
		t.Errorf("second Origin() = %q, want cache", second.Origin())
	}
	if len(airports) != 5 {
		t.Errorf("got %d airports from cache, want 5", len(airports))
	}
	if n := src.calls.Load(); n != 1 {
		t.Errorf("source fetched %d times, want 1", n)
	}
}

func TestLoaderRefresh(t *testing.T) {
	src := &fakeSource{err: errors.New("offline")}
	l := NewLoader(src, nil, nil)
	l.Load(context.Background())

	_, err := l.Refresh(context.Background())
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("Refresh error = %v, want ErrCatalogUnavailable", err)
	}
	if l.Origin() != OriginFallback {
		t.Errorf("failed refresh changed Origin() to %q", l.Origin())
	}

	src.err = nil
	src.airports = Fallback()[:2]
	airports, err := l.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(airports) != 2 || l.Origin() != OriginRemote {
		t.Errorf("Refresh loaded %d airports from %q, want 2 from remote", len(airports), l.Origin())
	}
}

func TestLoaderCancelled(t *testing.T) {
	src := &fakeSource{release: make(chan struct{})}
	l := NewLoader(src, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load error = %v, want context.Canceled", err)
	}
	if l.Origin() != OriginNone {
		t.Errorf("cancelled load set Origin() to %q", l.Origin())
	}
}

func TestLoaderCallerCancelDoesNotFailOthers(t *testing.T) {
	src := &fakeSource{release: make(chan struct{}), airports: Fallback()[:3]}
	l := NewLoader(src, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx)
		first <- err
	}()

	deadline := time.Now().Add(time.Second)
	for src.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("load never reached the source")
		}
		time.Sleep(time.Millisecond)
	}

	type result struct {
		airports []Airport
		err      error
	}
	second := make(chan result, 1)
	go func() {
		airports, err := l.Load(context.Background())
		second <- result{airports, err}
	}()

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller got %v, want context.Canceled", err)
	}

	close(src.release)
	res := <-second
	if res.err != nil {
		t.Fatalf("second caller failed: %v", res.err)
	}
	if len(res.airports) != 3 {
		t.Errorf("second caller got %d airports, want 3", len(res.airports))
	}
	if l.Origin() != OriginRemote {
		t.Errorf("Origin() = %q, want %q", l.Origin(), OriginRemote)
	}
	if n := src.calls.Load(); n != 1 {
		t.Errorf("source fetched %d times, want 1", n)
	}
}

func TestHTTPSourceFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleDat))
	}))
	defer server.Close()

	src := NewHTTPSource(HTTPConfig{URL: server.URL, RequestsPerMinute: 600, Retry: fastRetry()}, nil)
	airports, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(airports) != 4 {
		t.Errorf("fetched %d airports, want 4", len(airports))
	}
}

func TestHTTPSourceRetriesRateLimit(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(sampleDat))
	}))
	defer server.Close()

	src := NewHTTPSource(HTTPConfig{URL: server.URL, RequestsPerMinute: 6000, Retry: fastRetry()}, nil)
	airports, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(airports) != 4 {
		t.Errorf("fetched %d airports, want 4", len(airports))
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server hit %d times, want 2", n)
	}
}

func TestHTTPSourceServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	src := NewHTTPSource(HTTPConfig{URL: server.URL, RequestsPerMinute: 6000, Retry: fastRetry()}, nil)
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Error("expected error from failing server")
	}

	// Through the loader the failure degrades to the fallback list
	l := NewLoader(src, nil, nil)
	airports, err := l.Load(context.Background())
	if err != nil || len(airports) != 12 {
		t.Errorf("Load = %d airports, %v; want fallback", len(airports), err)
	}
}

func TestHTTPSourceNotFound(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	src := NewHTTPSource(HTTPConfig{URL: server.URL, RequestsPerMinute: 6000, Retry: fastRetry()}, nil)
	_, err := src.Fetch(context.Background())
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("Fetch error = %v, want a 404 StatusError", err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestDiskCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "airports.msgpack.zst")

	t.Run("Missing", func(t *testing.T) {
		c := NewDiskCache(path, 0)
		if _, _, err := c.Load(); err == nil {
			t.Error("expected error for missing cache")
		}
	})

	t.Run("Round trip", func(t *testing.T) {
		c := NewDiskCache(path, 0)
		want := Fallback()
		if err := c.Store(want, "test"); err != nil {
			t.Fatalf("Store: %v", err)
		}

		got, fetched, err := c.Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if time.Since(fetched) > time.Minute {
			t.Errorf("fetched time %v is not recent", fetched)
		}
		if len(got) != len(want) {
			t.Fatalf("Load returned %d airports, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("airport %d = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("Stale", func(t *testing.T) {
		c := NewDiskCache(path, time.Nanosecond)
		time.Sleep(time.Millisecond)
		if _, _, err := c.Load(); !errors.Is(err, ErrCacheStale) {
			t.Errorf("Load error = %v, want ErrCacheStale", err)
		}
	})
}
