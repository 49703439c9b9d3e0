package httpclient

import (
	"fmt"
	"maps"
	"time"
)

const (
	// MaxRetryAttempts is the maximum allowed attempts for a single request.
	MaxRetryAttempts = 10

	// MaxRetryBackoff is the maximum allowed initial backoff duration.
	// Exponential growth is capped at MaxRetryInterval regardless of this value.
	MaxRetryBackoff = 10 * time.Second

	// MaxRetryInterval caps the delay between two attempts.
	MaxRetryInterval = 30 * time.Second
)

// RequestOption configures individual requests.
type RequestOption func(*requestConfig)

// requestConfig holds per-request configuration.
type requestConfig struct {
	retryEnabled     bool
	retryMaxAttempts int
	retryBackoff     time.Duration
	retryPolicy      RetryPolicy
	headers          map[string]string
}

// WithRetry enables retry for this request.
//
// Parameters:
//   - maxAttempts: Maximum number of attempts (1-10, 0 disables retry)
//   - backoff: Initial delay between attempts (must not be negative, max 10s)
//   - policy: Function that determines if retry should occur (required)
//
// Invalid configurations make Do return an error.
//
// Every attempt is a separate request for lifecycle hooks: each one gets its
// own started event followed by exactly one completed or error event.
//
// Example:
//
//	resp, err := session.Get(ctx, "https://api.example.com/balance",
//	    httpclient.WithRetry(3, time.Second, httpclient.DefaultRetryPolicy),
//	)
func WithRetry(maxAttempts int, backoff time.Duration, policy RetryPolicy) RequestOption {
	return func(cfg *requestConfig) {
		if maxAttempts <= 0 {
			cfg.retryEnabled = false
			return
		}

		cfg.retryEnabled = true
		cfg.retryMaxAttempts = maxAttempts
		cfg.retryBackoff = backoff
		cfg.retryPolicy = policy
	}
}

// validateRetryConfig validates retry configuration and returns error if invalid.
func validateRetryConfig(cfg *requestConfig) error {
	if cfg.retryMaxAttempts > MaxRetryAttempts {
		return fmt.Errorf("httpclient: maxAttempts %d exceeds maximum %d", cfg.retryMaxAttempts, MaxRetryAttempts)
	}
	if cfg.retryBackoff < 0 {
		return fmt.Errorf("httpclient: backoff cannot be negative: %v", cfg.retryBackoff)
	}
	if cfg.retryBackoff > MaxRetryBackoff {
		return fmt.Errorf("httpclient: backoff %v exceeds maximum %v", cfg.retryBackoff, MaxRetryBackoff)
	}
	if cfg.retryPolicy == nil {
		return fmt.Errorf("httpclient: retry policy cannot be nil")
	}
	return nil
}

// WithHeaders adds multiple headers to the request.
// Existing headers with the same key will be overwritten.
func WithHeaders(headers map[string]string) RequestOption {
	return func(cfg *requestConfig) {
		if cfg.headers == nil {
			cfg.headers = make(map[string]string)
		}
		maps.Copy(cfg.headers, headers)
	}
}

// WithHeader adds a single header to the request.
// If the header already exists, it will be overwritten.
//
// Example:
//
//	resp, err := session.Get(ctx, url,
//	    httpclient.WithHeader("Authorization", "Bearer token123"),
//	)
func WithHeader(key, value string) RequestOption {
	return func(cfg *requestConfig) {
		if cfg.headers == nil {
			cfg.headers = make(map[string]string)
		}
		cfg.headers[key] = value
	}
}
