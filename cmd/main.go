package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/spotfinder/internal/adapters/azure"
	"github.com/okian/spotfinder/internal/adapters/cache"
	"github.com/okian/spotfinder/internal/adapters/http/api"
	app "github.com/okian/spotfinder/internal/app"
	"github.com/okian/spotfinder/internal/config"
	"github.com/okian/spotfinder/pkg/logger"
	"github.com/okian/spotfinder/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 60 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

// tokenEnvVar names the environment variable holding the ARM bearer token.
const tokenEnvVar = "AZURE_ACCESS_TOKEN"

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to flush logs: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	tokens := azure.StaticToken(os.Getenv(tokenEnvVar))

	computeClient := azure.NewComputeClient(cfg.SubscriptionID, tokens)
	pricingClient := azure.NewPricingClient(
		azure.WithBatchSize(cfg.PricingBatchSize),
		azure.WithRateLimit(cfg.ProviderRatePerSecond),
	)
	evictionClient := azure.NewEvictionClient(tokens)

	resultTTL := time.Duration(cfg.ResultCacheTTLMinutes) * time.Minute
	upstreamTTL := time.Duration(cfg.PricingCacheTTLMinutes) * time.Minute

	resultCache := cache.NewTTLStore(
		cache.WithName("results"),
		cache.WithMaxEntries(cfg.ResultCacheSize),
		cache.WithDefaultTTL(resultTTL),
	)
	upstreamCache := cache.NewTTLStore(
		cache.WithName("upstream"),
		cache.WithMaxEntries(cfg.PricingCacheSize),
		cache.WithDefaultTTL(upstreamTTL),
	)

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithComputeSource(computeClient),
		app.WithPriceSource(pricingClient),
		app.WithEvictionSource(evictionClient),
		app.WithResultCache(resultCache),
		app.WithUpstreamCache(upstreamCache),
		app.WithResultTTL(resultTTL),
		app.WithUpstreamTTL(upstreamTTL),
		app.WithDefaultCurrency(cfg.DefaultCurrency),
		app.WithTopN(cfg.RecommendationLimit),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc, cfg.MaxListLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
