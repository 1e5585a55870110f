// Command bod-dashboard is the backend data plane for the admin dashboard.
// It proxies the upstream JSONPlaceholder-style API, enriches records,
// caches list responses, and manages the demo login session.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/Ahmedsalem001/BOD-Dashboard/server"
	"github.com/Ahmedsalem001/BOD-Dashboard/telemetry"
)

var version = "dev"

type cli struct {
	Address            string        `help:"Address to listen on." default:":8080" env:"DASHBOARD_ADDRESS"`
	UpstreamURL        string        `help:"Upstream API base URL (default: jsonplaceholder.typicode.com)." env:"DASHBOARD_UPSTREAM_URL"`
	CacheTTL           time.Duration `help:"Validity window for cached list responses." default:"5m" env:"DASHBOARD_CACHE_TTL"`
	CacheCheckInterval time.Duration `help:"How often to sweep expired cache entries." default:"1m" env:"DASHBOARD_CACHE_CHECK_INTERVAL"`
	StatePath          string        `help:"Path to the persisted client-state database." default:"./dashboard.db" env:"DASHBOARD_STATE_PATH"`
	LogLevel           string        `help:"Log level (debug, info, warn, error)." default:"info" enum:"debug,info,warn,error" env:"DASHBOARD_LOG_LEVEL"`
	LogFormat          string        `help:"Log format (text, json)." default:"text" enum:"text,json" env:"DASHBOARD_LOG_FORMAT"`
	OTLPEndpoint       string        `help:"OTLP gRPC endpoint for metrics export (disabled when empty)." env:"DASHBOARD_OTLP_ENDPOINT"`
	Prometheus         bool          `help:"Serve Prometheus metrics on /metrics." env:"DASHBOARD_PROMETHEUS"`
	Version            kong.VersionFlag
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local development reads config from .env; absence is fine.
	_ = godotenv.Load()

	var flags cli
	kong.Parse(&flags,
		kong.Name("bod-dashboard"),
		kong.Description("Backend data plane for the admin dashboard."),
		kong.Vars{"version": version},
	)

	logger, err := newLogger(flags.LogLevel, flags.LogFormat)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsShutdown, err := telemetry.InitMetrics(ctx, telemetry.MetricsConfig{
		ServiceName:      "bod-dashboard",
		ServiceVersion:   version,
		OTLPEndpoint:     flags.OTLPEndpoint,
		EnablePrometheus: flags.Prometheus,
	})
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}

	srv, err := server.New(server.Config{
		Address:            flags.Address,
		UpstreamURL:        flags.UpstreamURL,
		CacheTTL:           flags.CacheTTL,
		CacheCheckInterval: flags.CacheCheckInterval,
		StatePath:          flags.StatePath,
		Logger:             logger,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	logger.Info("server started",
		"address", srv.Address(),
		"cache_ttl", flags.CacheTTL,
		"state_path", flags.StatePath,
	)

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		err := srv.Shutdown(shutdownCtx)
		if metricsErr := metricsShutdown(shutdownCtx); err == nil {
			err = metricsErr
		}
		return err
	case err := <-errCh:
		return err
	}
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	var handler slog.Handler
	switch format {
	case "text":
		handler = tint.NewHandler(os.Stdout, &tint.Options{Level: lvl})
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	return slog.New(handler), nil
}
