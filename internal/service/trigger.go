package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/logger"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/metrics"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/telemetry"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TriggerService asks compute to transcode a video and records the job as
// queued. It returns as soon as the dispatch is acknowledged.
type TriggerService struct {
	dispatcher port.Dispatcher
	jobs       port.JobStore
	now        func() time.Time
	log        zerolog.Logger
	tracer     trace.Tracer
}

func NewTriggerService(dispatcher port.Dispatcher, jobs port.JobStore) *TriggerService {
	return &TriggerService{
		dispatcher: dispatcher,
		jobs:       jobs,
		now:        time.Now,
		log:        logger.WithComponent("dispatch"),
		tracer:     telemetry.Tracer("dispatch"),
	}
}

// Submit records a queued job and dispatches it. A dispatch failure removes
// the record again and is returned as *domain.DispatchError; a job that
// already started or finished yields domain.ErrJobExists.
func (s *TriggerService) Submit(ctx context.Context, videoID, inputURI string) (domain.Strategy, error) {
	strategy := s.dispatcher.Strategy()
	if videoID == "" {
		return strategy, &domain.ValidationError{Field: "videoId", Reason: "required"}
	}
	if inputURI == "" {
		return strategy, &domain.ValidationError{Field: "inputUri", Reason: "required"}
	}

	ctx = logger.ContextWithVideoID(ctx, videoID)
	log := logger.FromContext(ctx, s.log)
	ctx, span := s.tracer.Start(ctx, "dispatch.trigger", trace.WithAttributes(
		attribute.String("video.id", videoID),
		attribute.String("dispatch.strategy", string(strategy)),
	))
	defer span.End()

	orientation := domain.OrientationFromPath(inputURI)
	key := domain.JobKey(videoID, orientation)
	created, err := s.recordQueued(ctx, videoID, inputURI, orientation)
	if err != nil {
		span.RecordError(err)
		return strategy, err
	}

	strategy, err = s.dispatcher.Trigger(ctx, videoID, inputURI)
	metrics.DispatchTotal.WithLabelValues(string(strategy), metrics.Outcome(err)).Inc()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if created {
			if derr := s.jobs.Delete(ctx, key); derr != nil {
				log.Warn().Err(derr).Msg("could not remove queued job after failed dispatch")
			}
		}
		var dispatchErr *domain.DispatchError
		if !errors.As(err, &dispatchErr) {
			err = &domain.DispatchError{Strategy: strategy, VideoID: videoID, Err: err}
		}
		log.Error().Err(err).Msg("dispatch failed")
		return strategy, err
	}

	log.Info().Str("strategy", string(strategy)).Str("orientation", string(orientation)).Msg("transcode dispatched")
	return strategy, nil
}

// recordQueued reports whether it created the record. An existing queued
// job is dispatched again since its earlier dispatch may have been lost.
func (s *TriggerService) recordQueued(ctx context.Context, videoID, inputURI string, o domain.Orientation) (bool, error) {
	existing, err := s.jobs.Get(ctx, domain.JobKey(videoID, o))
	switch {
	case err == nil && existing.Status == domain.JobStatusQueued:
		return false, nil
	case err == nil:
		return false, fmt.Errorf("%w: %s is %s", domain.ErrJobExists, videoID, existing.Status)
	case !errors.Is(err, domain.ErrNotFound):
		return false, fmt.Errorf("load job: %w", err)
	}

	job := domain.NewTranscodeJob(videoID, inputURI, o, s.now())
	if err := s.jobs.Set(ctx, job); err != nil {
		return false, fmt.Errorf("save job: %w", err)
	}
	return true, nil
}

func (s *TriggerService) HealthCheck(ctx context.Context) error {
	return s.dispatcher.HealthCheck(ctx)
}

func (s *TriggerService) Strategy() domain.Strategy {
	return s.dispatcher.Strategy()
}

// Intake is the compute side of the http strategy: POST /process lands here
// and is queued for the worker pool.
type Intake struct {
	queue port.DispatchQueue
	now   func() time.Time
}

func NewIntake(queue port.DispatchQueue) *Intake {
	return &Intake{queue: queue, now: time.Now}
}

func (i *Intake) Accept(ctx context.Context, req domain.ProcessRequest) (domain.DispatchMessage, error) {
	msg := req.Message(i.now())
	if err := msg.Validate(); err != nil {
		return msg, err
	}
	if _, err := domain.ParseOrientation(string(msg.Orientation)); err != nil {
		return msg, &domain.ValidationError{Field: "orientation", Reason: err.Error()}
	}
	if msg.Orientation == domain.OrientationNone {
		msg.Orientation = domain.OrientationFromPath(msg.InputURI)
	}
	if err := i.queue.Enqueue(ctx, msg); err != nil {
		return msg, fmt.Errorf("enqueue: %w", err)
	}
	return msg, nil
}
