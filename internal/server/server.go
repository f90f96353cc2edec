// Package server serves floor plans, snapshots and maintenance requests over
// HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /api/buildings
//	GET  /api/layout?building=&floor=
//	GET  /api/blueprint?building=&floor=&format=&style=&grid=&dimensions=&status=&q=&selected=&scale=
//	GET  /api/rooms/{roomID}/requests
//	POST /api/rooms/{roomID}/requests
//
// Errors are JSON objects {"error", "code"} with the status derived from the
// error code.
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/facilitymap/pkg/backend"
	"github.com/matzehuels/facilitymap/pkg/pipeline"
)

// Timeouts for the HTTP listener.
const (
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// RequestService lists and files maintenance requests. *backend.Client
// implements it.
type RequestService interface {
	FetchRequests(ctx context.Context, roomID string) ([]backend.Request, error)
	SubmitRequest(ctx context.Context, n backend.NewRequest) (*backend.Request, error)
}

// Server wires the HTTP routes to a pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	requests RequestService
	logger   *log.Logger
	router   chi.Router
}

// New builds the router. requests may be nil when no backend is configured;
// the request routes then answer 503.
func New(runner *pipeline.Runner, requests RequestService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, requests: requests, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/buildings", s.handleBuildings)
		r.Get("/layout", s.handleLayout)
		r.Get("/blueprint", s.handleBlueprint)
		r.Get("/rooms/{roomID}/requests", s.handleListRequests)
		r.Post("/rooms/{roomID}/requests", s.handleSubmitRequest)
	})

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "offline", s.runner.Offline())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// logRequests writes one structured log record per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"took", time.Since(start).Round(time.Microsecond),
				"id", middleware.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}

// requestID assigns a UUID to requests that arrive without an X-Request-Id
// and echoes the id back. middleware.RequestID then stores it in the context.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(middleware.RequestIDHeader, id)
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
