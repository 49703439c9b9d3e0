package httpclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

var errRetryableStatus = errors.New("httpclient: retryable response status")

// retryTransport replays a request while its policy asks for it.
// Only active when retry is configured for the session or the request.
//
// This transport:
//   - Buffers request body for replay (up to maxBodySize)
//   - Waits with exponential backoff and jitter between attempts
//   - Respects context deadline/cancellation
//   - Drains response bodies before retry to prevent connection leaks
type retryTransport struct {
	base        http.RoundTripper
	maxAttempts int
	backoff     time.Duration
	policy      RetryPolicy
	maxBodySize int64
	logger      *zap.Logger
}

// RoundTrip implements http.RoundTripper with retry logic.
// The original request is never mutated.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bodyBytes, err := t.bufferBody(req)
	if err != nil {
		return nil, err
	}

	var (
		resp    *http.Response
		lastErr error
		attempt int
	)

	operation := func() error {
		attempt++

		attemptReq := req
		if bodyBytes != nil {
			attemptReq = cloneRequest(req, bodyBytes)
		}

		resp, lastErr = t.base.RoundTrip(attemptReq)
		if !t.policy(lastErr, resp) {
			return nil
		}
		if lastErr != nil {
			return lastErr
		}
		return fmt.Errorf("%w: %d", errRetryableStatus, resp.StatusCode)
	}

	notify := func(err error, wait time.Duration) {
		drainBody(resp)
		resp, lastErr = nil, nil

		t.logger.Debug("retrying http request",
			zap.String("method", req.Method),
			zap.String("host", req.URL.Host),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", t.maxAttempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	err = backoff.RetryNotify(operation, t.newBackOff(req), notify)
	if err == nil {
		return resp, lastErr
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		drainBody(resp)
		return nil, ctxErr
	}

	t.logger.Warn("http request retries exhausted",
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.Int("attempts", attempt),
		zap.Error(err),
	)

	return resp, lastErr
}

// newBackOff builds a fresh schedule for one logical request.
func (t *retryTransport) newBackOff(req *http.Request) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = t.backoff
	exp.MaxInterval = MaxRetryInterval
	exp.MaxElapsedTime = 0

	var b backoff.BackOff = exp
	if t.backoff == 0 {
		b = &backoff.ZeroBackOff{}
	}

	b = backoff.WithMaxRetries(b, uint64(t.maxAttempts-1))
	return backoff.WithContext(b, req.Context())
}

// cloneRequest creates a shallow copy of the request with a fresh body.
func cloneRequest(req *http.Request, bodyBytes []byte) *http.Request {
	cloned := *req

	cloned.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	cloned.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(bodyBytes)), nil
	}

	return &cloned
}

// bufferBody buffers request body for retry.
// Returns ErrRequestBodyTooLarge if body exceeds maxBodySize.
// Closes the original body after reading.
func (t *retryTransport) bufferBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}

	defer req.Body.Close()

	limitedReader := io.LimitReader(req.Body, t.maxBodySize+1)
	bodyBytes, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read request body: %w", err)
	}

	if int64(len(bodyBytes)) > t.maxBodySize {
		return nil, ErrRequestBodyTooLarge
	}

	return bodyBytes, nil
}

// drainBody drains and closes response body to prevent connection leaks.
func drainBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}

	_, _ = io.CopyN(io.Discard, resp.Body, DefaultMaxDrainSize)
	_ = resp.Body.Close()
}
