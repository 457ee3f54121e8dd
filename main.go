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

	"frameflow/internal/filesystem"
	"frameflow/internal/handlers"
	"frameflow/internal/logging"
	"frameflow/internal/memory"
	"frameflow/internal/metrics"
	"frameflow/internal/middleware"
	"frameflow/internal/probe"
	"frameflow/internal/protocol"
	"frameflow/internal/startup"
	"frameflow/internal/streaming"
	"frameflow/internal/transcoder"
	"frameflow/internal/workers"
)

// maxProxyWorkers caps concurrent ffmpeg encodes when PROXY_WORKERS is unset.
const maxProxyWorkers = 4

func main() {
	startTime := time.Now()

	// Memory limit must be set before anything allocates heavily
	memResult := memory.ConfigureFromEnv()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	startup.LogMemoryConfig(memResult)

	if config.LogDir != "" {
		closeLog, err := logging.OpenLogFile(config.LogDir)
		if err != nil {
			startup.LogFatal("Failed to open log file: %v", err)
		}
		defer closeLog()
	}

	// Metrics
	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
	filesystem.SetObserver(metrics.NewFilesystemObserver())
	collector := metrics.NewCollector(metrics.MemoryReaderFunc(memory.Available), config.MemorySampleInterval)
	collector.Start()

	// Media tools
	toolVersions := startup.LogToolsInit(config.FFmpegPath, config.FFprobePath)
	retry := filesystem.DefaultRetryConfig()
	prober, closeCache := newProber(config, retry)
	defer closeCache()
	trans := transcoder.New(config.FFmpegPath, workers.ForCPU(config.ProxyWorkers, maxProxyWorkers))
	startup.LogTranscoderInit(trans.MaxJobs())

	resource := protocol.NewHandler(protocol.NewResponder(retry), streaming.DefaultConfig())
	h := handlers.New(prober, trans, retry)
	h.SetToolVersions(toolVersions)

	router := setupRouter(h, resource)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	srv := &http.Server{
		Addr:              config.Addr(),
		Handler:           buildHandler(router, config),
		ReadHeaderTimeout: 10 * time.Second,
		// Media bodies set their own per-chunk write deadlines
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsRouter := mux.NewRouter()
		metricsRouter.Handle("/metrics", h.MetricsHandler()).Methods(http.MethodGet)
		metricsSrv = &http.Server{
			Addr:              config.MetricsAddr(),
			Handler:           metricsRouter,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	done := make(chan struct{})
	go handleShutdown(srv, metricsSrv, trans, collector, config.ShutdownTimeout, done)

	h.SetReady(true)
	startup.LogServerStarted(startup.ServerConfig{
		Addr:            config.Addr(),
		MetricsAddr:     config.MetricsAddr(),
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
	<-done
}

// newProber returns an ffprobe runner, fronted by the on-disk probe cache
// when enabled. A cache that cannot be opened is logged and skipped.
func newProber(config *startup.Config, retry filesystem.RetryConfig) (handlers.MetadataProber, func()) {
	base := probe.New(config.FFprobePath)
	if !config.ProbeCacheEnabled {
		return base, func() {}
	}

	dir, err := config.ProbeCachePath()
	if err != nil {
		logging.Warn("Probe cache disabled: %v", err)
		return base, func() {}
	}

	cache, err := probe.OpenCache(dir, config.ProbeCacheTTL)
	if err != nil {
		logging.Warn("Probe cache disabled: %v", err)
		return base, func() {}
	}
	logging.Info("  Probe cache: %s", dir)

	return probe.NewCachedProber(base, cache, retry), func() {
		if err := cache.Close(); err != nil {
			logging.Warn("Failed to close probe cache: %v", err)
		}
	}
}

func setupRouter(h *handlers.Handlers, resource http.Handler) *mux.Router {
	// Identifiers carry percent-encoded paths; cleaning would rewrite them
	r := mux.NewRouter().SkipClean(true)

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Compression(middleware.DefaultCompressionConfig()))
	api.HandleFunc("/metadata", h.GetMetadata).Methods(http.MethodGet)
	api.HandleFunc("/media/info", h.GetMediaInfo).Methods(http.MethodGet)
	api.HandleFunc("/proxy", h.CreateProxy).Methods(http.MethodPost)
	api.HandleFunc("/project/save", h.SaveProject).Methods(http.MethodPost)
	api.HandleFunc("/memory", h.GetAvailableMemory).Methods(http.MethodGet)
	api.HandleFunc("/lut", h.ParseLUT).Methods(http.MethodPost)

	r.Handle(protocol.QueryRoute, resource).Methods(http.MethodGet, http.MethodHead)
	r.PathPrefix(protocol.RoutePrefix).Handler(resource).Methods(http.MethodGet, http.MethodHead)

	return r
}

// buildHandler wraps the router, outermost first: CORS, request ID,
// metrics, access log.
func buildHandler(router http.Handler, config *startup.Config) http.Handler {
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks

	handler := middleware.Logger(loggingConfig)(router)
	handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	handler = middleware.RequestID(handler)
	return middleware.CORS(middleware.DefaultCORSConfig())(handler)
}

func handleShutdown(srv, metricsSrv *http.Server, trans *transcoder.Transcoder, collector *metrics.Collector, timeout time.Duration, done chan<- struct{}) {
	defer close(done)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	startup.LogShutdownStep("Cleaning up transcoder")
	trans.Cleanup()
	startup.LogShutdownStepComplete("Transcoder cleanup complete")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	collector.Stop()
	startup.LogShutdownComplete()
}
