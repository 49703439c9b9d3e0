package httpclient

import (
	"errors"
	"time"
)

const (
	// DefaultTimeout is the default timeout for a whole exchange, body read included.
	// Can be shortened per-request using context.WithTimeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRequestBodySize is the maximum request body size for retry buffering.
	// Bodies larger than this will fail with ErrRequestBodyTooLarge.
	DefaultMaxRequestBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultMaxDrainSize is the maximum amount to drain from response body
	// before closing during retry.
	DefaultMaxDrainSize = 1 * 1024 * 1024 // 1MB

	// RequestIDHeader is set on outgoing requests when WithRequestID is enabled.
	RequestIDHeader = "X-Request-Id"
)

// ErrRequestBodyTooLarge is returned when request body exceeds maxBodySize
// and cannot be buffered for retry.
var ErrRequestBodyTooLarge = errors.New("httpclient: request body exceeds maximum allowed size for retry buffering")
