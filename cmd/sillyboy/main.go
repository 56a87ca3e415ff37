// Package main is the entry point for the sillyboy service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Marshal-AM/sillyboy/internal/config"
	"github.com/Marshal-AM/sillyboy/internal/health"
	"github.com/Marshal-AM/sillyboy/internal/inference"
	"github.com/Marshal-AM/sillyboy/internal/observability"
	"github.com/Marshal-AM/sillyboy/internal/retry"
	"github.com/Marshal-AM/sillyboy/internal/server"
	"github.com/Marshal-AM/sillyboy/internal/swap"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	logger := initLogger(flags)
	defer func() { _ = logger.Sync() }()

	cfg := loadAndValidateConfig(flags.configPath, logger)
	app := initApplication(cfg, logger)

	run(app, flags.configPath, logger)
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("SILLYBOY_CONFIG_PATH", "configs/sillyboy.yaml"),
		"Path to configuration file")
	logLevel := flag.String("log-level", getEnvOrDefault("SILLYBOY_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", getEnvOrDefault("SILLYBOY_LOG_FORMAT", "json"),
		"Log format (json, console)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		showVersion: *showVersion,
	}
}

// printVersion prints version information and exits.
func printVersion() {
	fmt.Printf("sillyboy version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// initLogger initializes the logger.
func initLogger(flags cliFlags) observability.Logger {
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  flags.logLevel,
		Format: flags.logFormat,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	return logger
}

// loadAndValidateConfig loads configuration, applies environment
// overrides, and validates the result. The environment is read here
// once; nothing consults it afterwards.
func loadAndValidateConfig(configPath string, logger observability.Logger) *config.Config {
	logger.Info("starting sillyboy",
		observability.String("version", version),
		observability.String("config", configPath),
	)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", observability.Error(err))
	}

	cfg.ApplyEnv()

	if err := config.ValidateConfig(cfg); err != nil {
		logger.Fatal("invalid configuration", observability.Error(err))
	}

	logger.Info("configuration loaded",
		observability.Int("port", cfg.Server.Port),
		observability.Int("admin_port", cfg.Server.AdminPort),
		observability.String("inference_url", cfg.Inference.BaseURL),
		observability.String("relayer_url", cfg.Swap.RelayerURL),
		observability.Bool("relayer_key_set", cfg.Swap.AuthKey != ""),
	)

	return cfg
}

// application holds all application components.
type application struct {
	apiServer    *server.Server
	adminServer  *server.AdminServer
	orchestrator *swap.Orchestrator
	tracer       *observability.Tracer
	config       *config.Config

	// monitorCancel stops in-flight monitoring sessions at shutdown.
	monitorCancel context.CancelFunc
}

// initApplication initializes all application components.
func initApplication(cfg *config.Config, logger observability.Logger) *application {
	tracer := initTracer(cfg, logger)

	inferenceClient := inference.NewClient(
		cfg.Inference.BaseURL,
		cfg.Inference.Timeout.Duration(),
		inference.WithLogger(logger),
	)

	relayer := swap.NewRelayer(
		cfg.Swap.RelayerURL,
		cfg.Swap.AuthKey,
		cfg.Swap.SourceTag,
		cfg.Swap.Timeout.Duration(),
		swap.WithRelayerLogger(logger),
	)

	monitorCtx, monitorCancel := context.WithCancel(context.Background())

	orchestrator := swap.NewOrchestrator(
		relayer,
		retryConfigFromTunables(cfg.Tunables),
		monitorConfigFromTunables(cfg.Tunables),
		swap.Defaults{
			Amount:   cfg.Swap.DefaultAmount,
			SrcChain: cfg.Swap.DefaultSrcChain,
			DstChain: cfg.Swap.DefaultDstChain,
			SrcToken: cfg.Swap.DefaultSrcToken,
			DstToken: cfg.Swap.DefaultDstToken,
			RPCURL:   cfg.Swap.DefaultRPCURL,
		},
		swap.WithOrchestratorLogger(logger),
		swap.WithMonitorContext(monitorCtx),
	)

	checker := health.NewChecker(version)
	checker.RegisterNonCriticalCheck("inference",
		health.InferenceCheck(cfg.Inference.BaseURL, 5*time.Second))
	checker.RegisterNonCriticalCheck("relayer_config",
		health.RelayerConfigCheck(cfg.Swap.AuthKey))

	apiServer := server.New(cfg, inferenceClient, orchestrator, server.WithLogger(logger))
	adminServer := server.NewAdminServer(cfg.Server.AdminPort, cfg.Observability.MetricsPath, checker, logger)

	return &application{
		apiServer:     apiServer,
		adminServer:   adminServer,
		orchestrator:  orchestrator,
		tracer:        tracer,
		config:        cfg,
		monitorCancel: monitorCancel,
	}
}

// initTracer initializes the tracer.
func initTracer(cfg *config.Config, logger observability.Logger) *observability.Tracer {
	tracerCfg := observability.TracerConfig{
		ServiceName:  cfg.Observability.Tracing.ServiceName,
		Enabled:      cfg.Observability.Tracing.Enabled,
		SamplingRate: cfg.Observability.Tracing.SamplingRate,
		OTLPEndpoint: cfg.Observability.Tracing.OTLPEndpoint,
	}
	if tracerCfg.ServiceName == "" {
		tracerCfg.ServiceName = "sillyboy"
	}

	tracer, err := observability.NewTracer(tracerCfg)
	if err != nil {
		logger.Fatal("failed to initialize tracer", observability.Error(err))
	}

	return tracer
}

// retryConfigFromTunables maps configuration onto the retry executor.
func retryConfigFromTunables(t config.Tunables) *retry.Config {
	return &retry.Config{
		MaxRetries:     t.Retry.MaxRetries,
		InitialBackoff: t.Retry.InitialBackoff.Duration(),
		MaxBackoff:     t.Retry.MaxBackoff.Duration(),
	}
}

// monitorConfigFromTunables maps configuration onto the fill monitor.
func monitorConfigFromTunables(t config.Tunables) *swap.MonitorConfig {
	return &swap.MonitorConfig{
		Interval:    t.Monitor.Interval.Duration(),
		MaxAttempts: t.Monitor.MaxAttempts,
	}
}

// run starts the servers and blocks until shutdown.
func run(app *application, configPath string, logger observability.Logger) {
	go func() {
		if err := app.adminServer.Start(); err != nil {
			logger.Error("admin server error", observability.Error(err))
		}
	}()

	go func() {
		if err := app.apiServer.Start(context.Background()); err != nil {
			logger.Fatal("API server error", observability.Error(err))
		}
	}()

	watcher := startConfigWatcher(app, configPath, logger)

	waitForShutdown(app, watcher, logger)
}

// startConfigWatcher hot-reloads the tunables section when the
// configuration file changes.
func startConfigWatcher(app *application, configPath string, logger observability.Logger) *config.Watcher {
	watcher, err := config.NewWatcher(configPath, func(t config.Tunables) {
		logger.Info("tunables changed, applying",
			observability.Int("max_retries", t.Retry.MaxRetries),
			observability.Duration("initial_backoff", t.Retry.InitialBackoff.Duration()),
			observability.Duration("monitor_interval", t.Monitor.Interval.Duration()),
			observability.Int("monitor_max_attempts", t.Monitor.MaxAttempts),
		)
		app.orchestrator.UpdateTunables(retryConfigFromTunables(t), monitorConfigFromTunables(t))
		app.apiServer.ApplyTunables(t)
	}, config.WithWatcherLogger(logger))

	if err != nil {
		logger.Warn("failed to create config watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(context.Background()); err != nil {
		logger.Warn("failed to start config watcher", observability.Error(err))
	}

	return watcher
}

// waitForShutdown waits for a shutdown signal and stops everything
// gracefully.
func waitForShutdown(app *application, watcher *config.Watcher, logger observability.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", observability.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout.Duration())
	defer cancel()

	if watcher != nil {
		_ = watcher.Stop()
	}

	if err := app.apiServer.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop API server gracefully", observability.Error(err))
	}

	if err := app.adminServer.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop admin server gracefully", observability.Error(err))
	}

	app.monitorCancel()

	if err := app.tracer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown tracer", observability.Error(err))
	}

	logger.Info("sillyboy stopped")
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
