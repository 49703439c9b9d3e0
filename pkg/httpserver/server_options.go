package httpserver

import (
	"time"

	"go.uber.org/zap"
)

const (
	defaultHTTPPort        = "9090"
	defaultMetricsPath     = "/metrics"
	defaultHealthPath      = "/healthz"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultReadHeaderTime  = 5 * time.Second
	defaultMaxHeaderBytes  = 1 << 20 // 1MB
	defaultShutdownTimeout = 30 * time.Second
)

var defaultSettings = settings{
	port:              defaultHTTPPort,
	metricsPath:       defaultMetricsPath,
	healthPath:        defaultHealthPath,
	readTimeout:       defaultReadTimeout,
	writeTimeout:      defaultWriteTimeout,
	idleTimeout:       defaultIdleTimeout,
	readHeaderTimeout: defaultReadHeaderTime,
	maxHeaderBytes:    defaultMaxHeaderBytes,
	shutdownTimeout:   defaultShutdownTimeout,
}

type (
	Option   func(s settings) settings
	settings struct {
		port              string
		metricsPath       string
		healthPath        string
		readTimeout       time.Duration
		writeTimeout      time.Duration
		idleTimeout       time.Duration
		readHeaderTimeout time.Duration
		maxHeaderBytes    int
		shutdownTimeout   time.Duration
		routes            []Route
		globalMiddlewares []Middleware
		errorHandler      ErrorHandler
		logger            *zap.Logger
	}
)

// WithPort sets the server port.
// Default: "9090"
func WithPort(port string) Option {
	return func(s settings) settings {
		s.port = port
		return s
	}
}

// WithMetricsPath sets the path the exposition handler is mounted on.
// Default: "/metrics"
func WithMetricsPath(path string) Option {
	return func(s settings) settings {
		if path != "" {
			s.metricsPath = path
		}
		return s
	}
}

// WithHealthPath sets the liveness probe path.
// Default: "/healthz"
func WithHealthPath(path string) Option {
	return func(s settings) settings {
		if path != "" {
			s.healthPath = path
		}
		return s
	}
}

// WithReadTimeout sets the maximum duration for reading the entire request.
// Default: 15 seconds
func WithReadTimeout(timeout time.Duration) Option {
	return func(s settings) settings {
		s.readTimeout = timeout
		return s
	}
}

// WithWriteTimeout sets the maximum duration before timing out writes of the response.
// Routes that call slow upstreams need a larger value.
// Default: 15 seconds
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s settings) settings {
		s.writeTimeout = timeout
		return s
	}
}

// WithIdleTimeout sets the keep-alive idle timeout.
// Default: 60 seconds
func WithIdleTimeout(timeout time.Duration) Option {
	return func(s settings) settings {
		s.idleTimeout = timeout
		return s
	}
}

// WithReadHeaderTimeout sets the amount of time allowed to read request headers.
// Default: 5 seconds
func WithReadHeaderTimeout(timeout time.Duration) Option {
	return func(s settings) settings {
		s.readHeaderTimeout = timeout
		return s
	}
}

// WithMaxHeaderBytes sets the maximum size of request headers.
// Default: 1MB (1 << 20)
func WithMaxHeaderBytes(size int) Option {
	return func(s settings) settings {
		s.maxHeaderBytes = size
		return s
	}
}

// WithShutdownTimeout bounds how long Run waits for in-flight requests once
// its context is done. Non-positive values are ignored.
// Default: 30 seconds
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s settings) settings {
		if timeout > 0 {
			s.shutdownTimeout = timeout
		}
		return s
	}
}

// WithRoutes adds routes to the server.
func WithRoutes(routes ...Route) Option {
	return func(s settings) settings {
		s.routes = append(s.routes, routes...)
		return s
	}
}

// WithMiddlewares adds global middlewares that apply to every route,
// the metrics and health endpoints included.
func WithMiddlewares(middlewares ...Middleware) Option {
	return func(s settings) settings {
		s.globalMiddlewares = append(s.globalMiddlewares, middlewares...)
		return s
	}
}

// WithErrorHandler sets a custom error handler for route errors.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(s settings) settings {
		s.errorHandler = handler
		return s
	}
}

// WithLogger sets the server logger.
// Default: zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(s settings) settings {
		s.logger = logger
		return s
	}
}
