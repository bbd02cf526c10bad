// Package fetch is the retrying HTTP layer shared by the upstream clients.
// Every outbound request in the pipeline goes through a Client so retry,
// backoff and circuit-breaker behavior stay uniform across providers.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	crerr "github.com/cockroachdb/errors"

	"rugbydata/internal/platform/logging"
	"rugbydata/internal/platform/resilience"
)

const (
	defaultTimeout     = 20 * time.Second
	defaultMaxRetries  = 3
	defaultBaseDelay   = time.Second
	defaultUserAgent   = "RugbyDataBot/1.0 (match data updater)"
	maxResponseBytes   = 16 << 20
	breakerFailures    = 5
	breakerOpenTimeout = 30 * time.Second
)

// ErrTransient marks failures worth retrying: network errors, 5xx responses
// and rate limits. Non-transient failures abort the attempt loop immediately.
var ErrTransient = crerr.New("fetch transient failure")

// ErrUnavailable is returned when the circuit breaker rejects a request
// before it is sent.
var ErrUnavailable = crerr.New("upstream temporarily unavailable")

type ClientConfig struct {
	HTTPClient    *http.Client
	MaxRetries    int
	BaseDelay     time.Duration
	UserAgent     string
	Logger        *logging.Logger
	EnableBreaker bool
}

type Client struct {
	httpClient     *http.Client
	maxRetries     int
	baseDelay      time.Duration
	userAgent      string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	if cfg.MaxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		httpClient:     httpClient,
		maxRetries:     maxRetries,
		baseDelay:      baseDelay,
		userAgent:      userAgent,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerFailures, breakerOpenTimeout),
		circuitEnabled: cfg.EnableBreaker,
	}
}

// Get fetches fullURL, retrying transient failures with a linearly growing
// backoff. The body of the last response is returned on success; a typed
// error describes the final failure otherwise.
func (c *Client) Get(ctx context.Context, fullURL string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "circuit breaker rejected request", "url", fullURL, "state", c.breaker.State())
			return nil, crerr.Wrapf(ErrUnavailable, "url %s", fullURL)
		}
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if c.circuitEnabled {
		if err != nil && crerr.Is(err, ErrTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	return raw, err
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", ErrTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", ErrTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: upstream status=%d", ErrTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("upstream status=%d body=%s", resp.StatusCode, abbreviate(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * c.baseDelay
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("request failed")
	}
	c.logger.WarnContext(ctx, "request failed after retries", "url", fullURL, "attempts", c.maxRetries+1, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviate(raw []byte) string {
	const limit = 256
	if len(raw) <= limit {
		return string(raw)
	}
	return string(raw[:limit]) + "..."
}
