// Package httpserver serves the Prometheus exposition endpoint, a health probe
// and any extra routes an application wants to publish next to them.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type (
	// Server exposes collected metrics over HTTP.
	Server interface {
		// Run listens until ctx is done, then drains in-flight requests within
		// the shutdown timeout. A clean shutdown returns nil.
		Run(ctx context.Context) error
		http.Handler
	}

	server struct {
		http.Server
		router          *chi.Mux
		logger          *zap.Logger
		errorHandler    ErrorHandler
		shutdownTimeout time.Duration
	}

	// Middleware wraps an http.Handler.
	Middleware func(handler http.Handler) http.Handler
	// Handler handles HTTP requests and may return an error.
	// Errors returned are passed to the ErrorHandler.
	Handler func(w http.ResponseWriter, req *http.Request) error
	// ErrorHandler handles errors returned by route Handlers.
	ErrorHandler func(ctx context.Context, w http.ResponseWriter, err error)

	// Route defines an HTTP route with its handler and middlewares.
	Route struct {
		Path        string
		Method      string
		Handler     Handler
		Middlewares []Middleware
	}
)

// New creates a server exposing gatherer at the metrics path.
// A nil gatherer falls back to prometheus.DefaultGatherer.
//
// Default configuration:
//   - Port: 9090
//   - Metrics path: /metrics
//   - Health path: /healthz
//   - ReadTimeout: 15s
//   - WriteTimeout: 15s
//   - IdleTimeout: 60s
//   - ReadHeaderTimeout: 5s
func New(gatherer prometheus.Gatherer, options ...Option) Server {
	settings := defaultSettings
	for _, option := range options {
		settings = option(settings)
	}

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if settings.logger == nil {
		settings.logger = zap.NewNop()
	}

	router := chi.NewRouter()

	srv := &server{
		Server: http.Server{
			Addr:              fmt.Sprintf(":%s", settings.port),
			Handler:           Middlewares(router, settings.globalMiddlewares...),
			ReadTimeout:       settings.readTimeout,
			WriteTimeout:      settings.writeTimeout,
			IdleTimeout:       settings.idleTimeout,
			ReadHeaderTimeout: settings.readHeaderTimeout,
			MaxHeaderBytes:    settings.maxHeaderBytes,
		},
		router:          router,
		logger:          settings.logger,
		errorHandler:    settings.errorHandler,
		shutdownTimeout: settings.shutdownTimeout,
	}
	if srv.errorHandler == nil {
		srv.errorHandler = srv.defaultHandleError
	}

	router.Method(http.MethodGet, settings.metricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog:      zap.NewStdLog(settings.logger),
		ErrorHandling: promhttp.ContinueOnError,
	}))
	router.Method(http.MethodGet, settings.healthPath, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	for _, route := range settings.routes {
		srv.registerRoute(route)
	}

	return srv
}

func (s *server) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("metrics server listening", zap.String("addr", s.Server.Addr))
		serveErr <- s.Server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		s.logger.Error("metrics server stopped", zap.Error(err))
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	if err := s.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpserver: shutdown: %w", err)
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ServeHTTP implements http.Handler for testing purposes.
func (s *server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.Server.Handler.ServeHTTP(w, req)
}

// NewRoute creates a new Route with the given parameters.
func NewRoute(method, path string, handler Handler, middlewares ...Middleware) Route {
	return Route{
		Path:        path,
		Method:      method,
		Handler:     handler,
		Middlewares: middlewares,
	}
}

// Middlewares wraps a handler with the given middlewares.
// The first middleware in the list is the outermost wrapper.
func Middlewares(main http.Handler, middlewares ...Middleware) http.Handler {
	handler := main
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

func (s *server) registerRoute(route Route) {
	s.router.Method(
		route.Method,
		route.Path,
		Middlewares(
			newErrorHandler(s.errorHandler, route.Handler),
			route.Middlewares...,
		),
	)
}

// defaultHandleError logs the error and returns a 500 Internal Server Error.
func (s *server) defaultHandleError(ctx context.Context, w http.ResponseWriter, err error) {
	s.logger.Error("http handler error",
		zap.String("request_id", GetRequestID(ctx)),
		zap.Error(err),
	)
	w.WriteHeader(http.StatusInternalServerError)
}

func newErrorHandler(errorHandler ErrorHandler, handler Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		err := handler(w, req)
		if err == nil {
			return
		}
		errorHandler(req.Context(), w, err)
	})
}
