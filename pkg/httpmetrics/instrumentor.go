// Package httpmetrics records request, response, error and latency metrics for
// an HTTP client session by subscribing to its request lifecycle hooks.
//
// Example:
//
//	registry := prometheus.NewRegistry(prom.DefaultRegisterer)
//	instrumentor, err := httpmetrics.New(registry)
//	if err != nil {
//	    return err
//	}
//	session := httpmetrics.Instrument(instrumentor, httpclient.NewSession())
package httpmetrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JailtonJunior94/httpmetrics/pkg/metrics"
)

// DefaultGroup is the prefix shared by every instrument.
const DefaultGroup = "http_client"

// Instrument names within the group.
const (
	RequestsTotal   = "requests_total"
	ResponsesTotal  = "responses_total"
	ErrorsTotal     = "errors_total"
	RequestDuration = "request_duration"
)

// Label keys.
const (
	LabelHost       = "host"
	LabelMethod     = "method"
	LabelStatus     = "status"
	LabelErrorClass = "error_class"
)

// DefaultBuckets are the request_duration histogram boundaries, in seconds.
var DefaultBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 90}

// Session is an HTTP client exposing request lifecycle hooks.
// For every request attempt it must call the started observer first and then
// exactly one of the completed or error observers, with the context returned
// by the started observer.
type Session interface {
	OnRequestStarted(fn func(ctx context.Context, req *http.Request) context.Context)
	OnResponseCompleted(fn func(ctx context.Context, req *http.Request, resp *http.Response))
	OnRequestError(fn func(ctx context.Context, req *http.Request, err error))
}

type startKey struct{}

// Instrumentor owns the four request instruments and the observers that feed them.
// It is safe for concurrent use and may instrument any number of sessions.
type Instrumentor struct {
	group  string
	clock  Clock
	logger *zap.Logger

	requests  metrics.Counter
	responses metrics.Counter
	errors    metrics.Counter
	duration  metrics.Histogram
}

// New registers the request instruments on registry.
// It fails when registry is nil or rejects one of the definitions.
func New(registry metrics.Registry, opts ...Option) (*Instrumentor, error) {
	if registry == nil {
		return nil, errors.New("httpmetrics: registry cannot be nil")
	}

	i := &Instrumentor{
		group:  DefaultGroup,
		clock:  systemClock{},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(i)
	}

	if err := i.register(registry); err != nil {
		return nil, err
	}

	i.logger.Debug("http client metrics registered", zap.String("group", i.group))
	return i, nil
}

func (i *Instrumentor) register(registry metrics.Registry) error {
	group, err := metrics.NewGroup(registry, i.group)
	if err != nil {
		return fmt.Errorf("httpmetrics: %w", err)
	}

	i.requests, err = group.Counter(RequestsTotal,
		metrics.WithDescription("Total number of HTTP requests"),
		metrics.WithLabels(LabelHost, LabelMethod),
	)
	if err != nil {
		return fmt.Errorf("httpmetrics: %w", err)
	}

	i.responses, err = group.Counter(ResponsesTotal,
		metrics.WithDescription("Total number of HTTP responses"),
		metrics.WithLabels(LabelHost, LabelMethod, LabelStatus),
	)
	if err != nil {
		return fmt.Errorf("httpmetrics: %w", err)
	}

	i.errors, err = group.Counter(ErrorsTotal,
		metrics.WithDescription("Total number of HTTP client errors"),
		metrics.WithLabels(LabelHost, LabelMethod, LabelErrorClass),
	)
	if err != nil {
		return fmt.Errorf("httpmetrics: %w", err)
	}

	i.duration, err = group.Histogram(RequestDuration,
		metrics.WithDescription("HTTP request duration"),
		metrics.WithUnit(metrics.UnitSeconds),
		metrics.WithLabels(LabelHost, LabelMethod, LabelStatus),
		metrics.WithBuckets(DefaultBuckets...),
	)
	if err != nil {
		return fmt.Errorf("httpmetrics: %w", err)
	}

	return nil
}

// Group returns the metric group the instruments are registered under.
func (i *Instrumentor) Group() string {
	return i.group
}

// Attach subscribes the instrumentor to the lifecycle hooks of s.
// Attaching the same session twice counts every request twice.
func (i *Instrumentor) Attach(s Session) {
	s.OnRequestStarted(i.RequestStarted)
	s.OnResponseCompleted(i.ResponseCompleted)
	s.OnRequestError(i.RequestFailed)

	i.logger.Debug("http client session instrumented", zap.String("group", i.group))
}

// Instrument attaches i to s and returns s, so construction and
// instrumentation can be chained.
func Instrument[S Session](i *Instrumentor, s S) S {
	i.Attach(s)
	return s
}

// RequestStarted counts the request and returns a context carrying its start time.
func (i *Instrumentor) RequestStarted(ctx context.Context, req *http.Request) context.Context {
	ctx = context.WithValue(ctx, startKey{}, i.clock.Now())

	i.requests.Increment(ctx, metrics.Labels{
		LabelHost:   hostLabel(req.URL),
		LabelMethod: strings.ToUpper(req.Method),
	})

	return ctx
}

// ResponseCompleted counts the response and records the time elapsed since
// RequestStarted. Without a recorded start the duration is zero.
func (i *Instrumentor) ResponseCompleted(ctx context.Context, req *http.Request, resp *http.Response) {
	labels := metrics.Labels{
		LabelHost:   hostLabel(req.URL),
		LabelMethod: strings.ToUpper(req.Method),
		LabelStatus: strconv.Itoa(resp.StatusCode),
	}

	i.responses.Increment(ctx, labels)
	i.duration.Measure(ctx, labels, i.elapsed(ctx).Seconds())
}

// RequestFailed counts a request that ended without a response.
func (i *Instrumentor) RequestFailed(ctx context.Context, req *http.Request, err error) {
	i.errors.Increment(ctx, metrics.Labels{
		LabelHost:       hostLabel(req.URL),
		LabelMethod:     strings.ToUpper(req.Method),
		LabelErrorClass: ErrorClass(err),
	})
}

// hostLabel is the request host without its port. IPv6 literals keep their
// brackets so the label reads the same as in the request URI.
func hostLabel(u *url.URL) string {
	host := u.Hostname()
	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}
	return host
}

func (i *Instrumentor) elapsed(ctx context.Context) time.Duration {
	start, ok := ctx.Value(startKey{}).(time.Time)
	if !ok {
		return 0
	}

	if d := i.clock.Now().Sub(start); d > 0 {
		return d
	}
	return 0
}

// ErrorClass names the kind of failure err represents. Errors whose chain
// implements ErrorClass() string report that value; any other error reports
// its dynamic type name.
func ErrorClass(err error) string {
	var classified interface{ ErrorClass() string }
	if errors.As(err, &classified) {
		return classified.ErrorClass()
	}
	return fmt.Sprintf("%T", err)
}
