// Package fetcher provides the resilient HTTP primitive used for every
// upstream call: a single GET with a fixed client-side timeout, a bounded
// number of attempts, and pure exponential backoff between them.
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for upstream fetch operations.
var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Total upstream requests by host and status",
	}, []string{"host", "status"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Upstream fetch duration in seconds by host, retries included",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"host"})

	upstreamRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_retries_total",
		Help: "Total retry attempts by host",
	}, []string{"host"})

	upstreamRetryBackoffSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "upstream_retry_backoff_seconds",
		Help:    "Backoff duration inserted between retry attempts",
		Buckets: []float64{0.5, 1, 2, 4, 8, 16},
	})

	upstreamRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_retry_exhausted_total",
		Help: "Total fetches that exhausted all attempts by host",
	}, []string{"host"})
)

// DefaultUserAgent mimics a desktop browser. The Roblox web APIs reject
// requests carrying a default library agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds the fetcher configuration.
type Config struct {
	// MaxAttempts is the total number of attempts per fetch, the first
	// request included.
	MaxAttempts int

	// Timeout is the client-side timeout applied to each attempt.
	Timeout time.Duration

	// BackoffBase is the sleep before the second attempt; attempt i is
	// followed by BackoffBase * 2^i. No jitter is applied.
	BackoffBase time.Duration

	// UserAgent is sent on every request.
	UserAgent string
}

// DefaultConfig returns the default fetcher configuration: 3 attempts,
// 10s per-request timeout, 1s backoff base.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		Timeout:     10 * time.Second,
		BackoffBase: 1 * time.Second,
		UserAgent:   DefaultUserAgent,
	}
}

// Client issues resilient GET requests against the upstream platform.
// Retries are entirely internal to one FetchJSON call; no state is retained
// between calls beyond the underlying connection pool.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a fetcher client. Zero or negative config values fall back to
// the defaults.
func New(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = def.BackoffBase
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: log.With().Str("component", "fetcher").Logger(),
	}
}

// FetchJSON performs a GET against url and returns the decoded JSON body.
// Every failure mode of an attempt (network error, timeout, non-2xx status
// of any kind, malformed body) is retried uniformly until the attempt
// ceiling, then surfaced as a *FetchError carrying the last cause.
func (c *Client) FetchJSON(ctx context.Context, rawURL string) (json.RawMessage, error) {
	host := hostLabel(rawURL)

	start := time.Now()
	defer func() {
		upstreamRequestDuration.WithLabelValues(host).Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 0; attempt < c.config.MaxAttempts; attempt++ {
		payload, err := c.attempt(ctx, rawURL, host)
		if err == nil {
			if attempt > 0 {
				c.logger.Info().
					Str("url", rawURL).
					Int("attempt", attempt+1).
					Msg("Fetch succeeded after retry")
			}
			return payload, nil
		}
		lastErr = err

		c.logger.Warn().
			Err(err).
			Str("url", rawURL).
			Int("attempt", attempt+1).
			Int("max_attempts", c.config.MaxAttempts).
			Msg("Fetch attempt failed")

		if attempt == c.config.MaxAttempts-1 {
			break
		}

		// Pure exponential backoff: base * 2^attempt, no jitter.
		backoff := c.config.BackoffBase << uint(attempt)
		upstreamRetriesTotal.WithLabelValues(host).Inc()
		upstreamRetryBackoffSeconds.Observe(backoff.Seconds())

		select {
		case <-ctx.Done():
			c.logger.Warn().
				Str("url", rawURL).
				Int("attempt", attempt+1).
				Msg("Context cancelled during retry backoff")
			return nil, fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(backoff):
		}
	}

	upstreamRetryExhaustedTotal.WithLabelValues(host).Inc()
	c.logger.Warn().
		Err(lastErr).
		Str("url", rawURL).
		Int("max_attempts", c.config.MaxAttempts).
		Msg("Fetch attempts exhausted")

	return nil, &FetchError{URL: rawURL, Attempts: c.config.MaxAttempts, Err: lastErr}
}

// attempt performs one GET and decodes the body. A non-2xx status and a
// malformed JSON body are attempt failures like any network error.
func (c *Client) attempt(ctx context.Context, rawURL, host string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		upstreamRequestsTotal.WithLabelValues(host, "network_error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	upstreamRequestsTotal.WithLabelValues(host, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var payload json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed body: %w", err)
	}
	return payload, nil
}

// hostLabel extracts the host for metric labels, keeping cardinality bounded.
func hostLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}
