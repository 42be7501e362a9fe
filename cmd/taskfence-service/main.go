// cmd/taskfence-service/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/taskfence/taskfence/internal/cache"
	"github.com/taskfence/taskfence/internal/cache/dynamodb"
	"github.com/taskfence/taskfence/internal/cache/memory"
	"github.com/taskfence/taskfence/internal/cache/redis"
	"github.com/taskfence/taskfence/internal/cache/scylladb"
	"github.com/taskfence/taskfence/internal/config"
	"github.com/taskfence/taskfence/internal/locking"
	"github.com/taskfence/taskfence/internal/observability"
	"github.com/taskfence/taskfence/internal/scheduler"
)

// appConfig carries the backend-agnostic parts of a loaded configuration
type appConfig struct {
	backendOptions cache.Options
	observability  observability.Config
	logger         observability.LoggerConfig
	jobs           []config.JobConfig
}

func main() {
	ctx := context.Background()

	configPath := flag.String("config", "/etc/taskfence/config.yaml", "Path to configuration file")
	flag.Parse()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("taskfence: %v", err)
	}
}

func run(ctx context.Context, configPath string) error {
	backendType, err := config.DetectBackendType(configPath)
	if err != nil {
		return fmt.Errorf("failed to determine backend type: %w", err)
	}

	appCfg, err := loadAppConfig(backendType, configPath)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(appCfg.logger.Level.GetZapLevel())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	otelShutdown, err := observability.InitProvider(ctx, appCfg.observability)
	if err != nil {
		// Metrics export is optional at runtime; locks still work without it
		logger.Warnf("OpenTelemetry init failed, continuing without export: %v", err)
	} else {
		defer otelShutdown()
	}

	metrics, err := observability.NewMetricsClient(appCfg.observability, logger)
	if err != nil {
		return fmt.Errorf("failed to create metrics client: %w", err)
	}

	kv, err := cache.New(ctx, backendType, appCfg.backendOptions, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize %s backend: %w", backendType, err)
	}
	defer kv.Close()

	logger.Infof("Using %s backend, namespace %q", backendType, kv.GetConfig().GetNamespace())

	provider := locking.NewCacheProvider(kv, logger)
	executor := locking.NewExecutor(provider, logger, metrics)
	sched := scheduler.New(executor, logger)

	for _, job := range appCfg.jobs {
		if err := sched.AddJob(scheduler.Job{
			Name:           job.Name,
			Schedule:       job.Schedule,
			LockAtMostFor:  job.LockAtMostFor,
			LockAtLeastFor: job.LockAtLeastFor,
			Task:           commandTask(job.Command, logger),
		}); err != nil {
			return fmt.Errorf("failed to schedule job %q: %w", job.Name, err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signals
		logger.Infof("Received signal: %v", sig)
		cancel()
	}()

	if err := sched.Start(runCtx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// loadAppConfig loads the typed configuration for the detected backend
func loadAppConfig(backendType, configPath string) (*appConfig, error) {
	switch backendType {
	case redis.StoreName:
		return loadFor(configPath, config.RedisConfigLoader)
	case dynamodb.StoreName:
		return loadFor(configPath, config.DynamoConfigLoader)
	case scylladb.StoreName:
		return loadFor(configPath, config.ScyllaConfigLoader)
	case memory.StoreName:
		return loadFor(configPath, config.MemoryConfigLoader)
	default:
		return nil, fmt.Errorf("unsupported backend type %q (known: %v)", backendType, cache.Backends())
	}
}

func loadFor[T cache.Config](configPath string, loadFn config.ConfigLoadFn[T]) (*appConfig, error) {
	_, cfg, err := config.LoadConfig(configPath, loadFn)
	if err != nil {
		return nil, err
	}

	return &appConfig{
		backendOptions: cfg.Cache,
		observability:  cfg.Observability,
		logger:         cfg.Logger,
		jobs:           cfg.Jobs,
	}, nil
}

// commandTask wraps a shell command as a lock-guarded task
func commandTask(command string, logger *observability.SLogger) locking.Task {
	return func(ctx context.Context) error {
		cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
		output, err := cmd.CombinedOutput()
		if len(output) > 0 {
			logger.Debugf("Command output: %s", output)
		}
		if err != nil {
			return fmt.Errorf("command failed: %w", err)
		}
		return nil
	}
}
