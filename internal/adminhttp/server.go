package adminhttp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/eppproxy/eppproxy/internal/config"
)

// NewServer builds an *http.Server serving the admin router, with timeouts
// from cfg (SPEC_FULL.md §6).
func NewServer(cfg config.AdminConfig, ready ReadyFunc, registry *prometheus.Registry) *http.Server {
	secret := ""
	if cfg.AuthEnabled {
		secret = cfg.JWTSecret
	}
	handler := NewRouter(Options{
		Ready:     ready,
		Registry:  registry,
		JWTSecret: secret,
	})
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// Shutdown gracefully stops srv, draining in-flight requests until ctx is
// done.
func Shutdown(ctx context.Context, srv *http.Server) error {
	return srv.Shutdown(ctx)
}
