package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/logger"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/metrics"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/telemetry"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var errSiblingFailed = errors.New("cancelled after a sibling task failed")

type PipelineConfig struct {
	// OutputRoot is the local root of the published tree; artifacts land
	// under <OutputRoot>/videos/<id>[/<orientation>].
	OutputRoot        string
	Ladder            domain.Ladder
	EmptyLadderPolicy domain.EmptyLadderPolicy
	// Concurrency bounds simultaneous ffmpeg processes. Zero runs every
	// planned task at once.
	Concurrency             int
	CancelSiblingsOnFailure bool
	CleanupFailedRenditions bool
	// ArchiveInput moves a source under pending/ to completed/ after success.
	ArchiveInput bool
	// StaleAfter is how long a processing record may go without an update
	// before a first delivery may restart it. Redeliveries always may.
	StaleAfter time.Duration
}

// Pipeline runs one transcode: probe, plan, encode every rendition and the
// poster in parallel, then publish the master playlist.
type Pipeline struct {
	converter port.MediaConverter
	store     port.JobStore
	events    EventPublisher
	cfg       PipelineConfig
	now       func() time.Time
	log       zerolog.Logger
	tracer    trace.Tracer

	mu     sync.Mutex
	active map[string]struct{}
}

func NewPipeline(converter port.MediaConverter, store port.JobStore, events EventPublisher, cfg PipelineConfig) *Pipeline {
	if len(cfg.Ladder) == 0 {
		cfg.Ladder = domain.StandardLadder
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = time.Hour
	}
	return &Pipeline{
		converter: converter,
		store:     store,
		events:    events,
		cfg:       cfg,
		now:       time.Now,
		log:       logger.WithComponent("pipeline"),
		tracer:    telemetry.Tracer("pipeline"),
		active:    make(map[string]struct{}),
	}
}

// Run processes msg to a terminal state as a first delivery. The returned job
// is a snapshot of the final record; the error is the first failure, if any.
// A duplicate of a job that is already running or finished is skipped and
// returns a nil error.
func (p *Pipeline) Run(ctx context.Context, msg domain.DispatchMessage) (*domain.TranscodeJob, error) {
	return p.run(ctx, msg, false)
}

// Process runs a claimed delivery. A redelivery may restart a job that a
// crashed worker left processing.
func (p *Pipeline) Process(ctx context.Context, d *domain.Delivery) (*domain.TranscodeJob, error) {
	return p.run(ctx, d.Message, d.Attempts > 0)
}

func (p *Pipeline) acquire(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.active[key]; busy {
		return false
	}
	p.active[key] = struct{}{}
	return true
}

func (p *Pipeline) release(key string) {
	p.mu.Lock()
	delete(p.active, key)
	p.mu.Unlock()
}

func (p *Pipeline) run(ctx context.Context, msg domain.DispatchMessage, redelivered bool) (*domain.TranscodeJob, error) {
	orientation := msg.Orientation
	if orientation == domain.OrientationNone {
		orientation = domain.OrientationFromPath(msg.InputURI)
	}
	ctx = logger.ContextWithVideoID(ctx, msg.VideoID)
	log := logger.FromContext(ctx, p.log).With().Str("orientation", string(orientation)).Logger()

	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("video.id", msg.VideoID),
		attribute.String("video.orientation", string(orientation)),
	))
	defer span.End()

	key := domain.JobKey(msg.VideoID, orientation)
	if !p.acquire(key) {
		log.Info().Msg("job already running on this worker, skipping delivery")
		return nil, nil
	}
	defer p.release(key)

	job, started, err := p.startJob(ctx, msg, orientation, redelivered)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if !started {
		log.Info().Str("status", string(job.Status)).Msg("job already terminal or running, skipping delivery")
		return job, nil
	}

	metrics.JobsInFlight.Inc()
	defer metrics.JobsInFlight.Dec()

	run := &jobRun{p: p, job: job, log: log}
	err = run.execute(ctx)

	final := run.snapshot()
	if run.isSuperseded() {
		log.Warn().Msg("job finished on another worker, discarding this run")
		return final, nil
	}
	outcome := string(final.Status)
	metrics.JobsTotal.WithLabelValues(outcome).Inc()
	span.SetAttributes(attribute.String("job.status", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error().Err(err).Msg("transcode failed")
		return final, err
	}

	log.Info().Int("renditions", len(final.Renditions)).Msg("transcode completed")
	if p.cfg.ArchiveInput {
		if path, perr := InputPath(msg.InputURI); perr == nil {
			if dst, aerr := archiveInput(path); aerr != nil {
				log.Warn().Err(aerr).Msg("could not archive input")
			} else if dst != "" {
				log.Debug().Str("path", dst).Msg("input archived")
			}
		}
	}
	return final, nil
}

// startJob loads or creates the job record and moves it to processing.
// started is false when the record is terminal or another worker is still
// updating it. A processing record is restarted from scratch only for a
// redelivery or once it went stale.
func (p *Pipeline) startJob(ctx context.Context, msg domain.DispatchMessage, o domain.Orientation, redelivered bool) (job *domain.TranscodeJob, started bool, err error) {
	now := p.now()
	job, err = p.store.Get(ctx, domain.JobKey(msg.VideoID, o))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		job = domain.NewTranscodeJob(msg.VideoID, msg.InputURI, o, now)
	case err != nil:
		return nil, false, fmt.Errorf("load job: %w", err)
	case job.Status.IsTerminal():
		return job, false, nil
	case job.Status == domain.JobStatusProcessing:
		if !redelivered && now.Sub(job.UpdatedAt) < p.cfg.StaleAfter {
			return job, false, nil
		}
		created := job.CreatedAt
		job = domain.NewTranscodeJob(msg.VideoID, msg.InputURI, o, now)
		job.CreatedAt = created
	}

	if err := job.Transition(domain.JobStatusProcessing, now); err != nil {
		return nil, false, err
	}
	if err := p.store.Set(ctx, job); err != nil {
		return nil, false, fmt.Errorf("save job: %w", err)
	}
	p.publish(job, "status")
	return job, true, nil
}

func (p *Pipeline) publish(job *domain.TranscodeJob, kind string) {
	if p.events != nil {
		p.events.Publish(job.VideoID, eventFromJob(kind, job))
	}
}

// jobRun owns the mutable job while its tasks execute. Every mutation and
// store write goes through mu.
type jobRun struct {
	p   *Pipeline
	log zerolog.Logger

	mu  sync.Mutex
	job *domain.TranscodeJob
	// superseded is set once the stored record turned terminal under
	// another run; nothing is written after that.
	superseded bool
}

func (r *jobRun) snapshot() *domain.TranscodeJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.job.Clone()
}

func (r *jobRun) isSuperseded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.superseded
}

// update applies fn and persists the job unless it is already terminal,
// here or in the store; terminal records are never rewritten.
func (r *jobRun) update(ctx context.Context, kind string, fn func(j *domain.TranscodeJob)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasTerminal := r.job.Status.IsTerminal()
	fn(r.job)
	if wasTerminal || r.superseded {
		return
	}
	stored, err := r.p.store.Get(ctx, r.job.Key())
	if err == nil && stored.Status.IsTerminal() {
		r.superseded = true
		r.log.Warn().Str("stored_status", string(stored.Status)).Msg("stored job is already terminal, not overwriting")
		return
	}
	r.job.UpdatedAt = r.p.now()
	if err := r.p.store.Set(ctx, r.job); err != nil {
		r.log.Warn().Err(err).Msg("could not persist job progress")
	}
	r.p.publish(r.job, kind)
}

// fail records cause as the job error if it is the first failure.
func (r *jobRun) fail(ctx context.Context, cause error) {
	r.update(ctx, "status", func(j *domain.TranscodeJob) {
		if j.Fail(cause, r.p.now()) {
			r.log.Warn().Err(cause).Msg("job failed")
		}
	})
}

func (r *jobRun) execute(ctx context.Context) error {
	inputPath, err := InputPath(r.job.InputURI)
	if err != nil {
		r.fail(ctx, err)
		return err
	}

	profiles, err := r.probeAndPlan(ctx, inputPath)
	if err != nil {
		r.fail(ctx, err)
		return err
	}
	root := r.outputRoot()
	r.update(ctx, "progress", func(j *domain.TranscodeJob) { j.Plan(profiles, root) })
	r.log.Info().Strs("profiles", profiles.Names()).Str("root", root).Msg("renditions planned")

	if err := r.encodeAll(ctx, inputPath, profiles); err != nil {
		r.cleanupFailed()
		return err
	}

	if err := r.publishMaster(ctx, root); err != nil {
		r.fail(ctx, err)
		return err
	}

	var terr error
	r.update(ctx, "status", func(j *domain.TranscodeJob) {
		terr = j.Transition(domain.JobStatusCompleted, r.p.now())
	})
	return terr
}

func (r *jobRun) outputRoot() string {
	prefix := domain.OutputPrefix(r.job.VideoID, r.job.Orientation)
	return filepath.Join(r.p.cfg.OutputRoot, filepath.FromSlash(prefix))
}

func (r *jobRun) probeAndPlan(ctx context.Context, inputPath string) (domain.Ladder, error) {
	ctx, span := r.p.tracer.Start(ctx, "pipeline.probe")
	defer span.End()

	probe, err := r.p.converter.Probe(ctx, inputPath)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("probe: %w", err)
	}
	w, h := probe.Dimensions()
	fps, duration := probe.FrameRate(), probe.DurationSeconds()
	span.SetAttributes(
		attribute.Int("source.width", w),
		attribute.Int("source.height", h),
		attribute.Float64("source.fps", fps),
		attribute.Float64("source.duration", duration),
	)
	r.update(ctx, "progress", func(j *domain.TranscodeJob) {
		j.Width, j.Height = w, h
		j.FrameRate, j.Duration = fps, duration
	})

	profiles, err := domain.PlanRenditions(r.p.cfg.Ladder.ForFrameRate(fps), w, h, r.p.cfg.EmptyLadderPolicy)
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// encodeAll runs one task per rendition plus the poster. The first failure
// marks the job as error at once; siblings keep running unless
// CancelSiblingsOnFailure is set.
func (r *jobRun) encodeAll(ctx context.Context, inputPath string, profiles domain.Ladder) error {
	taskCtx := ctx
	var cancel context.CancelFunc = func() {}
	if r.p.cfg.CancelSiblingsOnFailure {
		taskCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	var g errgroup.Group
	limit := r.p.cfg.Concurrency
	if limit <= 0 {
		limit = len(profiles) + 1
	}
	g.SetLimit(limit)

	onFailure := func(cause error) {
		r.fail(ctx, cause)
		cancel()
	}

	for _, profile := range profiles {
		g.Go(func() error {
			return r.encodeRendition(taskCtx, inputPath, profile, onFailure)
		})
	}
	g.Go(func() error {
		return r.extractPoster(taskCtx, inputPath, onFailure)
	})

	return g.Wait()
}

func (r *jobRun) encodeRendition(ctx context.Context, inputPath string, profile domain.QualityProfile, onFailure func(error)) error {
	var outDir string
	r.update(ctx, "progress", func(j *domain.TranscodeJob) {
		t := j.Rendition(profile.Name)
		t.Status = domain.TaskRunning
		outDir = t.OutputDir
	})

	err := ctx.Err()
	if err == nil {
		ctx, span := r.p.tracer.Start(ctx, "pipeline.encode", trace.WithAttributes(attribute.String("profile", profile.Name)))
		start := time.Now()
		err = r.p.converter.EncodeRendition(ctx, inputPath, outDir, profile)
		metrics.RenditionDuration.WithLabelValues(profile.Name).Observe(time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	} else {
		err = errSiblingFailed
	}
	metrics.RenditionsTotal.WithLabelValues(profile.Name, metrics.Outcome(err)).Inc()

	r.update(ctx, "progress", func(j *domain.TranscodeJob) {
		t := j.Rendition(profile.Name)
		if err != nil {
			t.Status = domain.TaskFailed
			t.Error = err.Error()
			return
		}
		t.Status = domain.TaskSucceeded
	})
	if err != nil {
		encErr := &domain.RenditionEncodeError{Profile: profile.Name, Err: err}
		onFailure(encErr)
		return encErr
	}
	r.log.Debug().Str("profile", profile.Name).Msg("rendition encoded")
	return nil
}

func (r *jobRun) extractPoster(ctx context.Context, inputPath string, onFailure func(error)) error {
	var path string
	r.update(ctx, "progress", func(j *domain.TranscodeJob) {
		j.Poster.Status = domain.TaskRunning
		path = j.Poster.Path
	})

	err := ctx.Err()
	if err == nil {
		ctx, span := r.p.tracer.Start(ctx, "pipeline.poster")
		err = r.p.converter.ExtractPoster(ctx, inputPath, path)
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	} else {
		err = errSiblingFailed
	}

	r.update(ctx, "progress", func(j *domain.TranscodeJob) {
		if err != nil {
			j.Poster.Status = domain.TaskFailed
			j.Poster.Error = err.Error()
			return
		}
		j.Poster.Status = domain.TaskSucceeded
	})
	if err != nil {
		err = fmt.Errorf("extract poster: %w", err)
		onFailure(err)
		return err
	}
	return nil
}

// cleanupFailed removes the output of renditions that did not succeed so a
// partial rendition is never mistaken for a usable one.
func (r *jobRun) cleanupFailed() {
	if !r.p.cfg.CleanupFailedRenditions {
		return
	}
	job := r.snapshot()
	for _, t := range job.Renditions {
		if t.Status == domain.TaskSucceeded {
			continue
		}
		if err := os.RemoveAll(t.OutputDir); err != nil {
			r.log.Warn().Err(err).Str("profile", t.Profile.Name).Msg("could not remove failed rendition")
		}
	}
}

func (r *jobRun) publishMaster(ctx context.Context, root string) error {
	_, span := r.p.tracer.Start(ctx, "pipeline.master")
	defer span.End()

	job := r.snapshot()
	if job.DeriveStatus() != domain.JobStatusCompleted {
		return fmt.Errorf("compose master: %w", domain.ErrNoRenditions)
	}
	master, err := domain.ComposeMaster(r.p.cfg.Ladder, job.SucceededProfiles())
	if err != nil {
		return fmt.Errorf("compose master: %w", err)
	}

	dir := filepath.Join(root, "manifest")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	if err := renameio.WriteFile(filepath.Join(dir, "master.m3u8"), []byte(master.Render()), 0644); err != nil {
		return fmt.Errorf("write master playlist: %w", err)
	}
	span.SetAttributes(attribute.Int("master.entries", len(master.Entries)))
	return nil
}

// InputPath turns a dispatch input URI into a local path. Plain paths and
// file:// URIs are accepted.
func InputPath(uri string) (string, error) {
	if uri == "" {
		return "", &domain.ValidationError{Field: "inputUri", Reason: "required"}
	}
	if !strings.Contains(uri, "://") {
		return filepath.Clean(uri), nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse input uri: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported input scheme %q", u.Scheme)
	}
	return filepath.Clean(filepath.FromSlash(u.Path)), nil
}

// archiveInput moves .../pending/<rest> to .../completed/<rest>. Inputs
// outside a pending directory are left alone.
func archiveInput(path string) (string, error) {
	parts := strings.Split(filepath.ToSlash(path), "/")
	idx := -1
	for i := len(parts) - 2; i >= 0; i-- {
		if parts[i] == "pending" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", nil
	}
	parts[idx] = "completed"
	dst := filepath.FromSlash(strings.Join(parts, "/"))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}
	if err := os.Rename(path, dst); err != nil {
		return "", err
	}
	return dst, nil
}
