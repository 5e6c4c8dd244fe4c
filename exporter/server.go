// Package exporter serves the monitor's published state over HTTP: a
// Prometheus scrape endpoint, a small JSON API and a health check. The
// process termination endpoint is disabled unless explicitly allowed.
package exporter

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"emperror.dev/errors"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/tinyland/lab/hostpulse/collectors/hostmetrics"
	"gitlab.com/tinyland/lab/hostpulse/monitor"
)

// StateReader is the read side of the monitor plus its termination gateway.
// *monitor.Monitor implements it.
type StateReader interface {
	Current() monitor.SystemState
	History() []float64
	Interval() time.Duration
	HostInfo(ctx context.Context) hostmetrics.HostInfo
	RequestTermination(ctx context.Context, pid int32) error
}

var _ StateReader = (*monitor.Monitor)(nil)

// Defaults for Options.
const (
	DefaultListen       = "127.0.0.1:9273"
	DefaultTopProcesses = 10

	shutdownTimeout = 5 * time.Second
)

// Options configures a Server.
type Options struct {
	// Listen is the host:port to bind. Empty selects DefaultListen.
	Listen string

	// AllowTerminate enables POST /api/processes/{pid}/terminate.
	AllowTerminate bool

	// TopProcesses is how many of the busiest processes get per-process
	// series on /metrics. Zero selects DefaultTopProcesses; negative
	// disables them.
	TopProcesses int

	// Logger for request and lifecycle logging. Nil is safe.
	Logger *slog.Logger
}

// Server is the HTTP front end of a running monitor.
type Server struct {
	src      StateReader
	opts     Options
	logger   *slog.Logger
	router   *mux.Router
	registry *prometheus.Registry

	requests   *prometheus.CounterVec
	terminates *prometheus.CounterVec

	// now is overridable for testing.
	now func() time.Time
}

// NewServer builds the router and a private metrics registry for src.
func NewServer(src StateReader, opts Options) *Server {
	if opts.Listen == "" {
		opts.Listen = DefaultListen
	}
	if opts.TopProcesses == 0 {
		opts.TopProcesses = DefaultTopProcesses
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		src:      src,
		opts:     opts,
		logger:   logger,
		router:   mux.NewRouter(),
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		terminates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "terminate_requests_total",
			Help:      "Process termination requests, by result.",
		}, []string{"result"}),
		now: time.Now,
	}

	s.registry.MustRegister(
		newStateCollector(src, opts.TopProcesses),
		s.requests,
		s.terminates,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s.registerRoutes()
	return s
}

// Registry returns the server's metrics registry.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.Use(s.instrument)

	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.state).Methods(http.MethodGet)
	api.HandleFunc("/history", s.history).Methods(http.MethodGet)
	api.HandleFunc("/info", s.info).Methods(http.MethodGet)
	api.HandleFunc("/processes", s.processes).Methods(http.MethodGet)
	api.HandleFunc("/processes/{pid}/terminate", s.terminate).Methods(http.MethodPost)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Listen)
	if err != nil {
		return errors.WrapIfWithDetails(err, "listen", "addr", s.opts.Listen)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("exporter: listening",
			"addr", ln.Addr().String(),
			"allow_terminate", s.opts.AllowTerminate,
		)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return errors.WrapIf(err, "serve")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.WrapIf(err, "shutdown")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WrapIf(err, "serve")
	}
	s.logger.Info("exporter: stopped")
	return nil
}

// instrument counts requests by matched route template and status code.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unknown"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		start := s.now()
		next.ServeHTTP(rec, r)

		s.requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		s.logger.Debug("exporter: request",
			"method", r.Method,
			"route", route,
			"code", rec.code,
			"duration", s.now().Sub(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}
