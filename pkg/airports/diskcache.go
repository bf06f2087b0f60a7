package airports

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrCacheStale is returned by DiskCache.Load when the cached copy is older
// than the configured maximum age.
var ErrCacheStale = errors.New("airport cache is stale")

const cacheVersion = 1

// DiskCache stores a downloaded catalog as zstd-compressed msgpack so later
// sessions can start without a network round trip.
type DiskCache struct {
	path   string
	maxAge time.Duration
}

type cacheFile struct {
	Version  int       `msgpack:"version"`
	Source   string    `msgpack:"source"`
	Fetched  time.Time `msgpack:"fetched"`
	Airports []Airport `msgpack:"airports"`
}

// NewDiskCache returns a cache backed by path. A maxAge of zero means
// cached data never expires.
func NewDiskCache(path string, maxAge time.Duration) *DiskCache {
	return &DiskCache{path: path, maxAge: maxAge}
}

// DefaultCachePath is airports.msgpack.zst under the user cache dir.
func DefaultCachePath() (string, error) {
	cd, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cd, "flightlog", "airports.msgpack.zst"), nil
}

// Path returns the cache file location.
func (c *DiskCache) Path() string {
	return c.path
}

// Load reads the cached airports and the time they were fetched.
// A missing file yields an error satisfying errors.Is(err, os.ErrNotExist).
func (c *DiskCache) Load() ([]Airport, time.Time, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to open cache decoder: %w", err)
	}
	defer zr.Close()

	var cf cacheFile
	if err := msgpack.NewDecoder(zr).Decode(&cf); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode airport cache: %w", err)
	}
	if cf.Version != cacheVersion {
		return nil, time.Time{}, fmt.Errorf("unsupported airport cache version %d", cf.Version)
	}
	if c.maxAge > 0 && time.Since(cf.Fetched) > c.maxAge {
		return nil, cf.Fetched, ErrCacheStale
	}

	return cf.Airports, cf.Fetched, nil
}

// Store writes airports to the cache, replacing any previous copy.
func (c *DiskCache) Store(airports []Airport, source string) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".airports-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	zw, err := zstd.NewWriter(tmp, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("failed to open cache encoder: %w", err)
	}

	cf := cacheFile{
		Version:  cacheVersion,
		Source:   source,
		Fetched:  time.Now().UTC(),
		Airports: airports,
	}
	if err := msgpack.NewEncoder(zw).Encode(&cf); err != nil {
		zw.Close()
		return fmt.Errorf("failed to encode airport cache: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to flush airport cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write airport cache: %w", err)
	}

	return os.Rename(tmp.Name(), c.path)
}
