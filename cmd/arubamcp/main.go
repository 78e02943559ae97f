// Command arubamcp runs the Aruba Central tool-serving gateway: it resolves
// configuration and credentials, wires the auth/rate-limit/circuit-breaker/
// retry stack behind a single HTTP orchestrator, registers every read-only
// tool handler, and serves them over stdio via MCP.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/arubanetworks/central-mcp-gateway/internal/auth"
	"github.com/arubanetworks/central-mcp-gateway/internal/breaker"
	"github.com/arubanetworks/central-mcp-gateway/internal/config"
	"github.com/arubanetworks/central-mcp-gateway/internal/health"
	"github.com/arubanetworks/central-mcp-gateway/internal/logs"
	"github.com/arubanetworks/central-mcp-gateway/internal/observability"
	"github.com/arubanetworks/central-mcp-gateway/internal/orchestrator"
	"github.com/arubanetworks/central-mcp-gateway/internal/ratelimit"
	"github.com/arubanetworks/central-mcp-gateway/internal/registry"
	"github.com/arubanetworks/central-mcp-gateway/internal/retry"
	"github.com/arubanetworks/central-mcp-gateway/internal/secret"
	"github.com/arubanetworks/central-mcp-gateway/internal/tools"
	"github.com/arubanetworks/central-mcp-gateway/internal/toolserver"
)

// Exit codes. 0 is a clean shutdown; 1 is a fatal configuration or
// credential failure discovered before the server starts serving; 2 is a
// fatal runtime failure (the stdio transport closed unexpectedly).
const (
	ExitCodeSuccess      = 0
	ExitCodeConfigError  = 1
	ExitCodeRuntimeError = 2
)

// version is injected by -ldflags at build time.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "arubamcp: %v\n", err)
		return ExitCodeConfigError
	}

	creds, err := secret.NewResolver().LoadCredentials()
	if err != nil {
		fmt.Fprintf(os.Stderr, "arubamcp: %v\n", err)
		return ExitCodeConfigError
	}
	cfg.ClientID = creds.ClientID
	cfg.ClientSecret = creds.ClientSecret

	logger, sanitizer, err := logs.Setup(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "arubamcp: %v\n", err)
		return ExitCodeConfigError
	}
	defer func() { _ = logger.Sync() }()
	sanitizer.RegisterResolvedSecret(cfg.ClientSecret)

	obs, err := observability.New(cfg, version, logger)
	if err != nil {
		logger.Error("failed to initialize observability", zap.Error(err))
		return ExitCodeConfigError
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Tracer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown error", zap.Error(err))
		}
	}()

	tokens := auth.NewManager(cfg.BaseURL, cfg.ClientID, cfg.ClientSecret, logger,
		auth.WithRefreshBuffer(cfg.RefreshBuffer),
		auth.WithMetrics(obs.Metrics),
		auth.WithSecretRegistrar(sanitizer),
	)
	limiter := ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitWindow)
	circuit := breaker.New(
		breaker.WithThreshold(cfg.CircuitBreakerThreshold),
		breaker.WithOpenTimeout(cfg.CircuitBreakerTimeout),
	)
	retrier := retry.New(
		retry.WithMaxAttempts(cfg.MaxAttempts),
		retry.WithBaseWait(cfg.RetryBaseWait),
		retry.WithMaxWait(cfg.MaxRetryWait),
	)
	client := orchestrator.New(cfg.BaseURL, tokens, limiter, circuit, retrier,
		orchestrator.WithLogger(logger),
		orchestrator.WithTimeouts(cfg.APITimeout, cfg.APITimeout),
		orchestrator.WithMetrics(obs.Metrics),
	)
	probe := health.New(tokens, circuit, limiter, cfg.BaseURL, cfg.RefreshBuffer)

	reg := registry.New()
	for _, h := range tools.All(client) {
		reg.Register(h)
	}
	reg.Register(tools.NewServerHealthHandler(probe))

	dispatcher := registry.NewDispatcher(reg, obs.Tracer, obs.Metrics, logger)
	srv := toolserver.New(dispatcher, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	if cfg.ObservabilityEnabled && cfg.MetricsAddr != "" {
		metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: obs.MetricsHandler()}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("arubamcp starting", zap.String("base_url", cfg.BaseURL), zap.Int("tool_count", len(reg.List())))
	if err := srv.ServeStdio(ctx); err != nil {
		select {
		case <-ctx.Done():
			logger.Info("stdio transport closed during shutdown")
			return ExitCodeSuccess
		default:
			logger.Error("stdio transport closed unexpectedly", zap.Error(err))
			return ExitCodeRuntimeError
		}
	}

	return ExitCodeSuccess
}
