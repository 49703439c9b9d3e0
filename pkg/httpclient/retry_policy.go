package httpclient

import (
	"context"
	"errors"
	"net/http"
)

// RetryPolicy determines if a request attempt should be retried.
// It receives the error (if any) and response (if any) of the attempt.
//
// Return true to retry, false to stop.
type RetryPolicy func(err error, resp *http.Response) bool

// DefaultRetryPolicy retries on transport errors and 5xx server errors.
// Does NOT retry on 4xx client errors or on context errors (timeout, cancellation).
//
// Example:
//
//	resp, err := session.Get(ctx, url,
//	    httpclient.WithRetry(3, time.Second, httpclient.DefaultRetryPolicy),
//	)
var DefaultRetryPolicy RetryPolicy = func(err error, resp *http.Response) bool {
	if err != nil {
		return !isContextError(err)
	}

	if resp == nil {
		return false
	}

	return resp.StatusCode >= 500
}

// IdempotentRetryPolicy behaves like DefaultRetryPolicy and also retries
// rate limited (429) responses.
//
// Use it for GET, HEAD, OPTIONS, PUT and DELETE. Do NOT use it for POST
// requests unless they are idempotent.
var IdempotentRetryPolicy RetryPolicy = func(err error, resp *http.Response) bool {
	if err != nil {
		return !isContextError(err)
	}

	if resp == nil {
		return false
	}

	return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
}

// NoRetryPolicy never retries.
var NoRetryPolicy RetryPolicy = func(err error, resp *http.Response) bool {
	return false
}

// isContextError reports deliberate cancellation or deadline enforcement.
func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
