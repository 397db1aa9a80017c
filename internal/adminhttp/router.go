// Package adminhttp is the scaffolding admin/health HTTP surface around C9
// (SPEC_FULL.md §6): liveness, readiness, and Prometheus scrape endpoints,
// modelled on the teacher's pkg/api/router.go chi wiring.
package adminhttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eppproxy/eppproxy/internal/logger"
)

// ReadyFunc reports whether the proxy is ready to serve; /readyz answers 200
// when it returns true and 503 otherwise.
type ReadyFunc func() bool

// Options configures NewRouter.
type Options struct {
	Ready ReadyFunc

	// Registry is the Prometheus registry /metrics serves. Nil disables the
	// route (404).
	Registry *prometheus.Registry

	// JWTSecret, if non-empty, requires a valid Bearer JWT on every route
	// except /healthz.
	JWTSecret string
}

// NewRouter builds the admin chi.Router, mirroring the teacher's middleware
// stack (request id, real IP, custom logger, recoverer, timeout).
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", handleLiveness)

	protected := func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(JWTAuth(opts.JWTSecret))
		}
		r.Get("/readyz", handleReadiness(opts.Ready))
		if opts.Registry != nil {
			r.Handle("/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
		}
	}
	r.Group(protected)

	return r
}

func handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReadiness(ready ReadyFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready == nil || !ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
}

// requestLogger mirrors the teacher's pkg/api/router.go requestLogger:
// DEBUG on start, INFO with status/duration on completion.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		logger.Debug("admin http request started",
			"request_id", requestID, "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Info("admin http request completed",
			"request_id", requestID, "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "bytes", ww.BytesWritten(), "duration", time.Since(start).String())
	})
}
