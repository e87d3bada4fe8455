package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/scholar/internal/adapters/http/api"
	"github.com/okian/scholar/internal/adapters/http/swagger"
	service "github.com/okian/scholar/internal/app"
	"github.com/okian/scholar/internal/config"
	"github.com/okian/scholar/pkg/logger"
	"github.com/okian/scholar/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		// The logger may not be initialized yet.
		os.Stderr.WriteString("scholar: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel), logger.WithFormat(cfg.LogFormat)); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("main")

	svc, err := newService(cfg)
	if err != nil {
		return err
	}

	// Runtime collectors go on the service registry so /healthz exposes them.
	reg := metrics.GetRegistry()
	_ = reg.Register(collectors.NewGoCollector())
	_ = reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if path := os.Getenv(config.EnvFile); cfg.WatchConfig && path != "" {
		if err := config.Watch(ctx, path, reloader(ctx, svc, log)); err != nil {
			log.Warn(ctx, "config watch disabled", logger.String("path", path), logger.Error(err))
		} else {
			log.Info(ctx, "watching config file", logger.String("path", path))
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}

// newService builds the scoring service from a validated config.
func newService(cfg *config.Config) (*service.Service, error) {
	w, err := cfg.Weights()
	if err != nil {
		return nil, err
	}
	p, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	return service.New(
		service.WithLogger(logger.Named("service")),
		service.WithWeights(w),
		service.WithPolicy(p),
		service.WithParallelism(cfg.Parallelism),
		service.WithMaxApplicants(cfg.MaxApplicants),
	), nil
}

// newHandler mounts the API and its documentation on one router.
func newHandler(svc *service.Service) http.Handler {
	r := api.NewRouter(api.NewServer(svc, svc))
	swagger.Register(r)
	return r
}

// reloader returns the config watch callback. A rejected reload leaves the
// running configuration untouched.
func reloader(ctx context.Context, svc *service.Service, log logger.Logger) func(*config.Config, error) {
	return func(cfg *config.Config, err error) {
		if err == nil {
			err = apply(ctx, svc, cfg)
		}
		if err != nil {
			metrics.RecordConfigReload(metrics.ReloadRejected)
			log.Warn(ctx, "config reload rejected", logger.Error(err))
			return
		}
		metrics.RecordConfigReload(metrics.ReloadApplied)
		log.Info(ctx, "config reloaded",
			logger.Float64("academic_weight", cfg.AcademicWeight),
			logger.Float64("financial_weight", cfg.FinancialWeight),
			logger.Float64("engagement_weight", cfg.EngagementWeight),
			logger.Float64("partial_threshold", cfg.PartialThreshold),
			logger.Float64("full_threshold", cfg.FullThreshold),
		)
	}
}

func apply(ctx context.Context, svc *service.Service, cfg *config.Config) error {
	w, err := cfg.Weights()
	if err != nil {
		return err
	}
	p, err := cfg.Policy()
	if err != nil {
		return err
	}
	if err := svc.Reconfigure(ctx, w, p); err != nil {
		return err
	}
	return logger.SetLevelString(cfg.LogLevel)
}
