package httpclient

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// SessionOption configures the Session.
// Used for global session configuration like timeout, transport, and body size limits.
type SessionOption func(*Session)

// WithTimeout sets the timeout for a whole exchange, response body read included.
// Default: 30 seconds (DefaultTimeout).
//
// Individual requests can shorten this using context.WithTimeout.
func WithTimeout(timeout time.Duration) SessionOption {
	return func(s *Session) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithMaxBodySize sets the maximum request body size for retry buffering.
// Default: 10MB (DefaultMaxRequestBodySize).
func WithMaxBodySize(size int64) SessionOption {
	return func(s *Session) {
		if size >= 0 {
			s.maxBodySize = size
		}
	}
}

// WithBaseTransport sets a custom base transport.
// Useful for custom connection pooling, TLS config, proxies, etc.
//
// The provided transport will be wrapped with the hooks and retry layers.
//
// Example:
//
//	session := httpclient.NewSession(
//	    httpclient.WithBaseTransport(&http.Transport{TLSClientConfig: tlsConfig}),
//	)
func WithBaseTransport(transport http.RoundTripper) SessionOption {
	return func(s *Session) {
		if transport != nil {
			s.baseTransport = transport
		}
	}
}

// WithDefaultRetry enables retry for every request made by the session.
// Per-request WithRetry overrides it; WithRetry(0, 0, nil) disables it for one request.
func WithDefaultRetry(maxAttempts int, backoff time.Duration, policy RetryPolicy) SessionOption {
	return func(s *Session) {
		s.defaultRequestOptions = append(s.defaultRequestOptions, WithRetry(maxAttempts, backoff, policy))
	}
}

// WithLogger sets the logger used for retry diagnostics.
// Default: zap.NewNop().
func WithLogger(logger *zap.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRequestID sets a random X-Request-Id header on every request that does not carry one.
func WithRequestID() SessionOption {
	return func(s *Session) {
		s.requestID = true
	}
}
