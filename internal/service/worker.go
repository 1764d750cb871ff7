package service

import (
	"context"
	"sync"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/backoff"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/logger"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
	"github.com/rs/zerolog"
)

type JobRunner interface {
	Process(ctx context.Context, d *domain.Delivery) (*domain.TranscodeJob, error)
}

// WorkerPool claims dispatch deliveries and runs them through the pipeline.
type WorkerPool struct {
	queue   port.DispatchQueue
	runner  JobRunner
	workers int
	idle    time.Duration
	backoff *backoff.Backoff
	log     zerolog.Logger

	wg sync.WaitGroup
}

func NewWorkerPool(queue port.DispatchQueue, runner JobRunner, workers int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		queue:   queue,
		runner:  runner,
		workers: workers,
		idle:    500 * time.Millisecond,
		backoff: backoff.New(500*time.Millisecond, 30*time.Second, 2),
		log:     logger.WithComponent("worker"),
	}
}

// Start returns immediately. Workers stop claiming when ctx is done; a job
// already running is finished first, see Wait.
func (wp *WorkerPool) Start(ctx context.Context) {
	if err := wp.queue.ResetStalled(ctx); err != nil {
		wp.log.Error().Err(err).Msg("failed to reset stalled deliveries")
	}

	for i := range wp.workers {
		wp.wg.Add(1)
		go func() {
			defer wp.wg.Done()
			wp.runWorker(ctx, i)
		}()
	}
	wp.log.Info().Int("workers", wp.workers).Msg("workers started")
}

func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

func (wp *WorkerPool) runWorker(ctx context.Context, id int) {
	log := wp.log.With().Int("worker", id).Logger()
	failures := 0
	for {
		if ctx.Err() != nil {
			log.Info().Msg("worker shutting down")
			return
		}

		d, err := wp.queue.Claim(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			failures++
			log.Error().Err(err).Int("failures", failures).Msg("failed to claim delivery")
			_ = wp.backoff.Sleep(ctx, failures)
			continue
		}
		failures = 0

		if d == nil {
			wp.sleep(ctx, wp.idle)
			continue
		}

		wp.process(ctx, log, d)
	}
}

func (wp *WorkerPool) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (wp *WorkerPool) process(ctx context.Context, log zerolog.Logger, d *domain.Delivery) {
	// Shutdown must not abort an encode halfway and leave the job in error.
	runCtx := logger.ContextWithDeliveryID(context.WithoutCancel(ctx), d.ID)
	log = logger.FromContext(logger.ContextWithVideoID(runCtx, d.Message.VideoID), log)
	log.Info().Int64("attempts", d.Attempts).Str("input", logger.SanitizeForLog(d.Message.InputURI)).Msg("processing delivery")

	_, err := wp.runner.Process(runCtx, d)
	if err != nil {
		if ferr := wp.queue.Fail(runCtx, d.ID, err.Error()); ferr != nil {
			log.Error().Err(ferr).Msg("failed to mark delivery failed")
		}
		return
	}
	if cerr := wp.queue.Complete(runCtx, d.ID); cerr != nil {
		log.Error().Err(cerr).Msg("failed to ack delivery")
	}
}
