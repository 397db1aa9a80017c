package commands

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/eppproxy/eppproxy/internal/adminhttp"
	"github.com/eppproxy/eppproxy/internal/auditlog"
	"github.com/eppproxy/eppproxy/internal/config"
	"github.com/eppproxy/eppproxy/internal/facade"
	"github.com/eppproxy/eppproxy/internal/logger"
	"github.com/eppproxy/eppproxy/internal/metrics"
	"github.com/eppproxy/eppproxy/internal/registry"
	"github.com/eppproxy/eppproxy/internal/router"
	"github.com/eppproxy/eppproxy/internal/session"
	"github.com/eppproxy/eppproxy/internal/telemetry"
	"github.com/eppproxy/eppproxy/internal/tlsmaterial"
	"github.com/eppproxy/eppproxy/pkg/eppgrpc"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the EPP proxy",
	Long: `Start the EPP proxy: connect and log in to every configured
registry, then serve the gRPC facade and the admin/health HTTP surface
until interrupted.`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryShutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	profilingShutdown, err := telemetry.InitProfiling(telemetry.ProfilingConfig{
		Enabled:        cfg.Telemetry.Profiling.Enabled,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: Version,
		Endpoint:       cfg.Telemetry.Profiling.Endpoint,
		ProfileTypes:   cfg.Telemetry.Profiling.ProfileTypes,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	defer func() {
		if err := profilingShutdown(); err != nil {
			logger.Error("profiling shutdown error", "error", err)
		}
	}()

	logger.Info("eppproxy starting", "version", Version, "commit", Commit)

	promReg := metrics.Init(cfg.Metrics.Enabled)
	collector := metrics.New()
	if cfg.Metrics.Enabled {
		logger.Info("metrics enabled")
	} else {
		logger.Info("metrics disabled")
	}

	sink, err := auditlog.Open(ctx, cfg.AuditLog)
	if err != nil {
		return fmt.Errorf("failed to open audit log sink: %w", err)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Error("audit log close error", "error", err)
		}
	}()
	logger.Info("audit log sink opened", "backend", cfg.AuditLog.Backend)

	reg := registry.New()
	rtr := router.New()

	managers := make([]*session.Manager, 0, len(cfg.Registries))
	for _, rc := range cfg.Registries {
		mgrCfg, err := buildSessionConfig(rc, sink, collector)
		if err != nil {
			return fmt.Errorf("registry %q: %w", rc.ID, err)
		}
		mgr := session.New(mgrCfg, reg)
		rtr.RegisterID(rc.ID, mgr)
		for _, zone := range rc.Zones {
			rtr.RegisterZone(zone, mgr, rc.ID)
		}
		managers = append(managers, mgr)
	}
	logger.Info("registries configured", "count", len(managers))

	sessionGroup, _ := errgroup.WithContext(ctx)
	for _, mgr := range managers {
		sessionGroup.Go(func() error {
			mgr.Run(ctx)
			return nil
		})
	}

	f := facade.New(rtr, collector)

	grpcLis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPC.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port %d: %w", cfg.GRPC.Port, err)
	}
	grpcServer := eppgrpc.NewServer(f)
	grpcDone := make(chan error, 1)
	go func() {
		logger.Info("gRPC server listening", "port", cfg.GRPC.Port)
		grpcDone <- grpcServer.Serve(grpcLis)
	}()

	var adminSrv *http.Server
	adminDone := make(chan error, 1)
	if cfg.Admin.Enabled {
		ready := func() bool {
			for _, m := range managers {
				if m.State() != session.Ready {
					return false
				}
			}
			return true
		}
		adminSrv = adminhttp.NewServer(cfg.Admin, ready, promReg)
		go func() {
			logger.Info("admin HTTP server listening", "port", cfg.Admin.Port)
			if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				adminDone <- err
				return
			}
			adminDone <- nil
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("eppproxy is running; press Ctrl+C to stop")

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, initiating graceful shutdown")
	case err := <-grpcDone:
		if err != nil {
			logger.Error("gRPC server stopped with error", "error", err)
		}
	case err := <-adminDone:
		if err != nil {
			logger.Error("admin HTTP server stopped with error", "error", err)
		}
	}

	cancel()
	grpcServer.GracefulStop()
	if adminSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := adminhttp.Shutdown(shutdownCtx, adminSrv); err != nil {
			logger.Error("admin HTTP shutdown error", "error", err)
		}
	}
	_ = sessionGroup.Wait()

	logger.Info("eppproxy stopped")
	return nil
}

func buildSessionConfig(rc config.RegistryConfig, sink auditlog.Sink, collector metrics.Collector) (session.Config, error) {
	tlsCfg, err := buildTLSConfig(rc)
	if err != nil {
		return session.Config{}, err
	}

	return session.Config{
		RegistryID:  rc.ID,
		Host:        rc.Host,
		SourceAddr:  rc.SourceAddr,
		LoginID:     rc.LoginID,
		Password:    rc.Password,
		NewPassword: rc.NewPassword,
		Pipelining:  rc.Pipelining,
		Errata:      rc.Errata,
		Zones:       rc.Zones,
		TLS:         tlsCfg,
		DialTimeout: rc.DialTimeout,
		AuditSink:   sink,
		Metrics:     collector,
	}, nil
}

// buildTLSConfig assembles the session's *tls.Config from a registry's
// cert/trust settings via internal/tlsmaterial. It builds no HSM-backed
// client cert (no tlsmaterial.HSMSigner is constructed here; see
// DESIGN.md); this path covers the PKCS#12 and plain-trust cases.
func buildTLSConfig(rc config.RegistryConfig) (*tls.Config, error) {
	trust := tlsmaterial.TrustConfig{
		RootCAFiles:         rc.RootCAPaths,
		ServerNameOverride:  rc.ServerNameOverride,
		InsecureSkipVerify:  rc.InsecureSkipVerify,
		DangerAllowInsecure: rc.InsecureSkipVerify,
	}

	var client *tlsmaterial.ClientCertSource
	if rc.ClientCertPath != "" {
		client = &tlsmaterial.ClientCertSource{
			PKCS12Path:       rc.ClientCertPath,
			PKCS12Passphrase: rc.ClientCertPassword,
		}
	}

	return tlsmaterial.Build(trust, client)
}
