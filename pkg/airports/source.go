package airports

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/unklstewy/flightlog/internal/logging"
)

// Source produces a complete set of airports.
type Source interface {
	Fetch(ctx context.Context) ([]Airport, error)
}

const (
	// DefaultTimeout for a single download
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerMinute bounds how hard a refresh loop can hit the
	// dataset host.
	DefaultRequestsPerMinute = 6
)

// HTTPConfig configures an HTTPSource.
type HTTPConfig struct {
	// URL of an airports.dat file (default: DefaultSourceURL)
	URL string

	// Timeout for each request (default: DefaultTimeout)
	Timeout time.Duration

	// RequestsPerMinute limits request rate (default: DefaultRequestsPerMinute)
	RequestsPerMinute int

	Retry RetryConfig
}

// HTTPSource downloads and parses the OpenFlights airport database.
type HTTPSource struct {
	url         string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	retry       RetryConfig
	logger      *slog.Logger
}

// NewHTTPSource creates a rate-limited, retrying OpenFlights source.
func NewHTTPSource(cfg HTTPConfig, logger *slog.Logger) *HTTPSource {
	if cfg.URL == "" {
		cfg.URL = DefaultSourceURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if cfg.Retry == (RetryConfig{}) {
		cfg.Retry = DefaultRetryConfig()
	}

	// Allow a burst of 1 so the first request goes out immediately
	limiter := rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)

	return &HTTPSource{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: limiter,
		retry:       cfg.Retry,
		logger:      logging.OrDiscard(logger),
	}
}

// URL returns the dataset location.
func (s *HTTPSource) URL() string {
	return s.url
}

// Fetch downloads the dataset, retrying transient failures.
func (s *HTTPSource) Fetch(ctx context.Context) ([]Airport, error) {
	start := time.Now()
	airports, err := RetryWithBackoff(ctx, s.retry, s.logger, func() ([]Airport, error) {
		return s.fetchOnce(ctx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Fetched airports",
		slog.String("url", s.url),
		slog.Int("count", len(airports)),
		slog.Duration("elapsed", time.Since(start)))
	return airports, nil
}

func (s *HTTPSource) fetchOnce(ctx context.Context) ([]Airport, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header),
			Message:    "airport source rate limit exceeded",
		}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	airports, err := ParseOpenFlights(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(airports) == 0 {
		return nil, fmt.Errorf("airport source returned no usable records")
	}
	return airports, nil
}
