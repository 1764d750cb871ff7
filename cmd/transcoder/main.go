package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/config"
	"github.com/IA-Ben/ode-islands-transcoder/internal/adapter/converter/ffmpeg"
	"github.com/IA-Ben/ode-islands-transcoder/internal/adapter/dispatch"
	"github.com/IA-Ben/ode-islands-transcoder/internal/adapter/dispatch/pubsub"
	HTTPAdapter "github.com/IA-Ben/ode-islands-transcoder/internal/adapter/http"
	"github.com/IA-Ben/ode-islands-transcoder/internal/adapter/storage/fsstore"
	"github.com/IA-Ben/ode-islands-transcoder/internal/adapter/storage/memory"
	"github.com/IA-Ben/ode-islands-transcoder/internal/adapter/storage/redisstore"
	sqlitestore "github.com/IA-Ben/ode-islands-transcoder/internal/adapter/storage/sqlite"
	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/logger"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/redisclient"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/telemetry"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
	"github.com/IA-Ben/ode-islands-transcoder/internal/service"
	"github.com/redis/go-redis/v9"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Configure(logger.Config{Version: version})
		log := logger.Base()
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Configure(logger.Config{Level: cfg.LogLevel, Version: version})
	log := logger.Base()

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("transcoder stopped")
	}
}

func run(cfg *config.Config) error {
	log := logger.WithComponent("main")
	log.Info().
		Int("port", cfg.Port).
		Str("strategy", cfg.Dispatch.Strategy).
		Str("job_store", cfg.JobStore).
		Str("ladder", cfg.Encode.Ladder).
		Msg("starting transcoder")

	for _, dir := range []string{cfg.DataDir, cfg.InputDir, cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracing, err := telemetry.NewProvider(ctx, telemetry.Config{
		ServiceName:    "ode-islands-transcoder",
		ServiceVersion: version,
		Exporter:       cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return err
	}

	strategy := cfg.Strategy()

	var rdb *redis.Client
	if strategy == domain.StrategyPubSub || cfg.JobStore == "redis" {
		rdb, err = redisclient.New(ctx, redisclient.Config{
			Addr:     cfg.Dispatch.RedisAddr,
			Password: cfg.Dispatch.RedisPassword,
			DB:       cfg.Dispatch.RedisDB,
		}, log)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
	}

	var (
		jobs  port.JobStore
		queue port.DispatchQueue
	)
	switch cfg.JobStore {
	case "sqlite":
		store, err := sqlitestore.NewStore(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("open job store: %w", err)
		}
		defer func() { _ = store.Close() }()
		if stale, err := store.ListByStatus(ctx, domain.JobStatusProcessing); err == nil && len(stale) > 0 {
			log.Warn().Int("jobs", len(stale)).Msg("jobs left processing by a previous run restart on redelivery")
		}
		jobs = store
		queue = sqlitestore.NewDispatchQueue(store)
	case "redis":
		jobs = redisstore.NewStore(rdb)
		queue = memory.NewQueue()
	default:
		jobs = memory.NewStore()
		queue = memory.NewQueue()
	}
	if strategy == domain.StrategyPubSub {
		queue = pubsub.NewQueue(rdb, cfg.Dispatch.Stream, cfg.Dispatch.Group)
	}

	dispatcher, err := dispatch.New(cfg.Dispatch, rdb)
	if err != nil {
		return err
	}
	trigger := service.NewTriggerService(dispatcher, jobs)

	eventBus := service.NewEventBus()
	pipeline := service.NewPipeline(ffmpeg.NewConverter(), jobs, eventBus, service.PipelineConfig{
		OutputRoot:              cfg.OutputDir,
		Ladder:                  cfg.Ladder(),
		EmptyLadderPolicy:       cfg.EmptyLadderPolicy(),
		Concurrency:             cfg.Encode.Concurrency,
		CancelSiblingsOnFailure: cfg.Encode.CancelSiblingsOnFailure,
		CleanupFailedRenditions: cfg.Encode.CleanupFailedRenditions,
		StaleAfter:              cfg.Encode.StaleJobAfter,
		ArchiveInput:            true,
	})

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	workerPool := service.NewWorkerPool(queue, pipeline, cfg.Workers)
	workerPool.Start(workerCtx)

	// With the watcher on, it is the only dispatcher for new inputs so an
	// upload is never triggered twice.
	var submitter service.Submitter = trigger
	watchDone := make(chan struct{})
	if cfg.WatchInput {
		submitter = nil
		watcher := service.NewWatcher(cfg.InputDir, trigger)
		go func() {
			defer close(watchDone)
			if err := watcher.Run(ctx); err != nil {
				log.Error().Err(err).Msg("input watcher stopped")
			}
		}()
	} else {
		close(watchDone)
	}

	uploads := service.NewUploadService(cfg.InputDir, domain.UploadConstraints{
		MaxSizeBytes: cfg.MaxUploadBytes(),
		AllowedMIME:  domain.DefaultAllowedMIME,
	}, submitter)

	statusSvc := service.NewStatusService(jobs, service.NewResolver(fsstore.NewStore(cfg.OutputDir)), service.StatusConfig{
		BatchMaxItems:   cfg.Status.BatchMaxItems,
		Fanout:          cfg.Status.BatchFanout,
		ChecksPerSecond: cfg.Status.ChecksPerSecond,
	})

	opts := HTTPAdapter.Options{
		Status:            statusSvc,
		Uploads:           uploads,
		Events:            eventBus,
		RequestsPerMinute: cfg.Status.RequestsPerMinute,
		Version:           version,
	}
	switch strategy {
	case domain.StrategyHTTP:
		opts.Intake = service.NewIntake(queue)
		opts.ProcessTokenHash = cfg.Dispatch.ProcessTokenHash
		if opts.ProcessTokenHash == "" {
			log.Warn().Msg("PROCESS_TOKEN_HASH is empty, POST /process is unauthenticated")
		}
	case domain.StrategyPubSub:
		// the http strategy's health check targets this server, so only
		// the redis-backed dispatcher is probed from /health
		opts.Health = trigger
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           HTTPAdapter.NewServer(opts),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}
	stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}

	// workers finish the job in hand before exiting
	workerCancel()
	workerPool.Wait()
	<-watchDone

	if err := tracing.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown error")
	}
	log.Info().Msg("shutdown complete")
	return nil
}
