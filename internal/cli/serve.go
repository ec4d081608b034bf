package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/MalithGihan/flowgen-service/internal/api"
	"github.com/MalithGihan/flowgen-service/internal/config"
	"github.com/MalithGihan/flowgen-service/internal/ctxlog"
	"github.com/MalithGihan/flowgen-service/internal/metrics"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Port int
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.Port, "port", 0, "listen port (overrides PORT)")
	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	cfg, err := config.Load(opts.EnvFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Port != 0 {
		cfg.Port = opts.Port
	}

	logger := ctxlog.New(os.Stderr, cfg.Debug)
	logger.Info("configuration loaded",
		"app_name", cfg.AppName,
		"version", cfg.AppVersion,
		"debug", cfg.Debug,
		"allowed_origins", cfg.AllowedOrigins,
	)

	var meterProvider metric.MeterProvider = otel.GetMeterProvider()
	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		mp, h, err := metrics.NewPrometheusProvider()
		if err != nil {
			return err
		}
		defer func() {
			if err := mp.Shutdown(context.Background()); err != nil {
				logger.Error("meter provider shutdown error", "error", err)
			}
		}()
		otel.SetMeterProvider(mp)
		meterProvider, metricsHandler = mp, h
		logger.Info("metrics enabled", "path", "/metrics")
	}

	svc, err := newService(cfg, logger, false, meterProvider.Meter(metrics.Scope))
	if err != nil {
		return err
	}

	routes := api.NewServer(cfg, svc, logger).WithMetrics(metricsHandler).Routes()
	handler := otelhttp.NewHandler(routes, "flowgen", otelhttp.WithMeterProvider(meterProvider))
	addr := ":" + strconv.Itoa(cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting", "address", addr)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return server.Close()
	}
	logger.Info("server stopped gracefully")
	return nil
}
