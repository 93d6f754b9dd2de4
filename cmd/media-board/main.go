package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"media-board/internal/app"
	"media-board/internal/handlers"
	"media-board/internal/logging"
	"media-board/internal/memory"
	"media-board/internal/metrics"
	"media-board/internal/middleware"
	"media-board/internal/startup"
)

const (
	readTimeout      = 30 * time.Second
	writeTimeout     = 2 * time.Minute
	idleTimeout      = 60 * time.Second
	metricsTimeout   = 10 * time.Second
	metricsInterval  = time.Minute
	dbMetricsPeriod  = 15 * time.Second
	shutdownDeadline = 30 * time.Second
)

func main() {
	startTime := time.Now()

	memResult := memory.ConfigureFromEnv()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	config.Thumbs.MemoryLimit = memResult.Limit(config.Thumbs.MemoryLimit)
	startup.LogMemoryConfig(memResult, config.Thumbs.MemoryLimit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, config)
	if err != nil {
		startup.LogFatal("Failed to initialize: %v", err)
	}

	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
	collector := metrics.NewCollector(a.DB, metricsInterval)
	collector.Start(ctx)
	go updateDBMetrics(ctx, a)

	h := handlers.New(a)
	router := setupRouter(h)
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	srv := newServer(":"+config.Port, wrapHandler(router, config))

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = newMetricsServer(":" + config.MetricsPort)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			startup.LogFatal("Server error: %v", err)
		}
	}()
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	cancel()

	shutdown(sig.String(), srv, metricsSrv, collector, a)
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()
	h.Register(r)
	return r
}

// wrapHandler applies the middleware chain, outermost first: request id,
// access log, then metrics.
func wrapHandler(router *mux.Router, config *startup.Config) http.Handler {
	router.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	return middleware.RequestID(middleware.Logger(loggingConfig)(router))
}

func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}

func newMetricsServer(addr string) *http.Server {
	m := http.NewServeMux()
	m.Handle("/metrics", handlers.MetricsHandler())
	return &http.Server{
		Addr:         addr,
		Handler:      m,
		ReadTimeout:  metricsTimeout,
		WriteTimeout: metricsTimeout,
	}
}

func updateDBMetrics(ctx context.Context, a *app.App) {
	ticker := time.NewTicker(dbMetricsPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.DB.UpdateDBMetrics()
		case <-ctx.Done():
			return
		}
	}
}

func shutdown(sig string, srv, metricsSrv *http.Server, collector *metrics.Collector, a *app.App) {
	startup.LogShutdownInitiated(sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownDeadline)
	defer cancel()

	startup.ShutdownStep("HTTP server", func() error { return srv.Shutdown(ctx) })
	if metricsSrv != nil {
		startup.ShutdownStep("metrics server", func() error { return metricsSrv.Shutdown(ctx) })
	}
	startup.ShutdownStep("metrics collector", func() error {
		collector.Stop()
		return nil
	})
	startup.ShutdownStep("database and extensions", a.Close)

	startup.LogShutdownComplete()
}
