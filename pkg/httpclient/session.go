package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is an HTTP client that exposes request lifecycle hooks.
// It is thread-safe and can be used concurrently.
//
// Observers registered with OnRequestStarted, OnResponseCompleted and
// OnRequestError are invoked for every request attempt made through the
// session, retries included.
//
// Example:
//
//	session := httpclient.NewSession(
//	    httpclient.WithTimeout(10*time.Second),
//	)
//	resp, err := session.Get(ctx, "https://api.example.com/users")
type Session struct {
	baseTransport         http.RoundTripper
	timeout               time.Duration
	maxBodySize           int64
	requestID             bool
	logger                *zap.Logger
	defaultRequestOptions []RequestOption
	hooks                 *hooks
}

// NewSession creates a new session. It is ready to use immediately.
func NewSession(opts ...SessionOption) *Session {
	session := &Session{
		baseTransport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			ForceAttemptHTTP2:     true,
		},
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxRequestBodySize,
		logger:      zap.NewNop(),
		hooks:       &hooks{},
	}

	for _, opt := range opts {
		opt(session)
	}

	return session
}

// OnRequestStarted registers fn to run before each request attempt is sent.
// The context fn returns is carried by the attempt and handed to the terminal hooks.
func (s *Session) OnRequestStarted(fn func(ctx context.Context, req *http.Request) context.Context) {
	if fn != nil {
		s.hooks.addStarted(fn)
	}
}

// OnResponseCompleted registers fn to run when an attempt receives a response.
// Every status code counts as a completed response.
func (s *Session) OnResponseCompleted(fn func(ctx context.Context, req *http.Request, resp *http.Response)) {
	if fn != nil {
		s.hooks.addCompleted(fn)
	}
}

// OnRequestError registers fn to run when an attempt fails without a response.
// The error passed to fn is a *RequestError.
func (s *Session) OnRequestError(fn func(ctx context.Context, req *http.Request, err error)) {
	if fn != nil {
		s.hooks.addErrored(fn)
	}
}

// Get performs an HTTP GET request.
//
// Example:
//
//	resp, err := session.Get(ctx, "https://api.example.com/users/123",
//	    httpclient.WithRetry(3, time.Second, httpclient.DefaultRetryPolicy),
//	    httpclient.WithHeader("Authorization", "Bearer token"),
//	)
func (s *Session) Get(ctx context.Context, url string, opts ...RequestOption) (*http.Response, error) {
	return s.newRequest(ctx, http.MethodGet, url, nil, opts)
}

// Post performs an HTTP POST request.
func (s *Session) Post(ctx context.Context, url string, body io.Reader, opts ...RequestOption) (*http.Response, error) {
	return s.newRequest(ctx, http.MethodPost, url, body, opts)
}

// Put performs an HTTP PUT request.
func (s *Session) Put(ctx context.Context, url string, body io.Reader, opts ...RequestOption) (*http.Response, error) {
	return s.newRequest(ctx, http.MethodPut, url, body, opts)
}

// Delete performs an HTTP DELETE request.
func (s *Session) Delete(ctx context.Context, url string, opts ...RequestOption) (*http.Response, error) {
	return s.newRequest(ctx, http.MethodDelete, url, nil, opts)
}

func (s *Session) newRequest(ctx context.Context, method, url string, body io.Reader, opts []RequestOption) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	return s.Do(ctx, req, opts...)
}

// Do executes an HTTP request with optional retry.
//
// The transport chain is built as:
//  1. Base transport (http.Transport or custom)
//  2. Hooks transport (always active, one notification set per attempt)
//  3. Retry transport (if retry is configured)
func (s *Session) Do(ctx context.Context, req *http.Request, opts ...RequestOption) (*http.Response, error) {
	cfg := s.buildRequestConfig(opts)

	if cfg.retryEnabled {
		if err := validateRetryConfig(cfg); err != nil {
			return nil, err
		}
	}

	req = req.Clone(ctx)
	s.applyHeaders(req, cfg.headers)

	httpClient := &http.Client{
		Transport: s.buildTransportChain(cfg),
		Timeout:   s.timeout,
	}

	return httpClient.Do(req)
}

// applyHeaders sets request headers from configuration.
func (s *Session) applyHeaders(req *http.Request, headers map[string]string) {
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if s.requestID && req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
}

// buildRequestConfig applies session defaults first, then request options.
func (s *Session) buildRequestConfig(opts []RequestOption) *requestConfig {
	cfg := &requestConfig{
		headers: make(map[string]string),
	}

	for _, opt := range s.defaultRequestOptions {
		opt(cfg)
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// buildTransportChain returns retryTransport -> hooksTransport -> baseTransport,
// omitting the retry layer when retry is disabled.
func (s *Session) buildTransportChain(cfg *requestConfig) http.RoundTripper {
	var transport http.RoundTripper = &hooksTransport{
		base:  s.baseTransport,
		hooks: s.hooks,
	}

	if cfg.retryEnabled {
		transport = &retryTransport{
			base:        transport,
			maxAttempts: cfg.retryMaxAttempts,
			backoff:     cfg.retryBackoff,
			policy:      cfg.retryPolicy,
			maxBodySize: s.maxBodySize,
			logger:      s.logger,
		}
	}

	return transport
}
