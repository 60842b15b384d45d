// Package api serves the stateless prediction HTTP API. It shares the
// engine and catalog with the TUI but never touches session history.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"strconv"
	"time"

	"cropcare/internal/core/app"
	"cropcare/internal/core/config"
	domainerrors "cropcare/internal/core/errors"
	"cropcare/internal/shared/observability"
	"cropcare/internal/shared/ratelimit"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type route struct {
	method  string
	path    string
	limited bool
	handler http.HandlerFunc
}

type Server struct {
	app       *app.App
	health    *app.HealthService
	limiters  *ratelimit.PerClient
	contract  []byte
	maxUpload int64
	addr      string
	handler   http.Handler
	server    *http.Server
}

// NewServer builds the API. It fails if the embedded contract is invalid or
// does not match the registered routes.
func NewServer(a *app.App, cfg config.API) (*Server, error) {
	doc, err := LoadContract()
	if err != nil {
		return nil, err
	}
	contract, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode api contract: %w", err)
	}

	s := &Server{
		app:       a,
		health:    app.NewHealthService(a),
		limiters:  ratelimit.New(cfg.RateLimit, cfg.Burst, cfg.LimiterTTL),
		contract:  contract,
		maxUpload: cfg.MaxUploadBytes,
		addr:      cfg.Address,
	}

	routes := s.routes()
	if err := checkContract(contractRoutes(doc), routes); err != nil {
		s.limiters.Close()
		return nil, err
	}

	mux := http.NewServeMux()
	for _, rt := range routes {
		pattern := rt.method + " " + rt.path
		if rt.path == "/" {
			pattern = rt.method + " /{$}"
		}
		h := http.Handler(rt.handler)
		if rt.limited {
			h = s.rateLimit(h)
		}
		mux.Handle(pattern, instrument(rt.path, h))
	}
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /openapi.json", s.handleContract)
	s.handler = withCORS(mux)
	return s, nil
}

func (s *Server) routes() []route {
	return []route{
		{method: http.MethodGet, path: "/", handler: s.handleRoot},
		{method: http.MethodGet, path: "/health", handler: s.handleHealth},
		{method: http.MethodGet, path: "/crops", limited: true, handler: s.handleCrops},
		{method: http.MethodGet, path: "/centers", limited: true, handler: s.handleCenters},
		{method: http.MethodPost, path: "/predict", limited: true, handler: s.handlePredict},
	}
}

func checkContract(documented []string, routes []route) error {
	registered := make(map[string]bool, len(routes))
	for _, rt := range routes {
		registered[rt.method+" "+rt.path] = true
	}
	var missing []string
	for _, key := range documented {
		if !registered[key] {
			missing = append(missing, key)
		}
		delete(registered, key)
	}
	for key := range registered {
		missing = append(missing, key)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("api routes and contract disagree on %v", missing)
	}
	return nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens in the background until Stop is called.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	slog.Info("api server starting", "addr", ln.Addr().String())

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api server failed", "error", err)
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	defer s.limiters.Close()
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Close releases background resources of a server that was never started.
func (s *Server) Close() {
	s.limiters.Close()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		observability.APIRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		slog.Debug("api request", "method", r.Method, "route", route, "status", rec.status, "duration", time.Since(start))
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := s.limiters.Take(clientKey(r))
		if !decision.Allowed {
			observability.APIRateLimitedTotal.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(decision.RetryAfterSeconds()))
			writeError(w, http.StatusTooManyRequests, domainerrors.CodeRateLimited, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
