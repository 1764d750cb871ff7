package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/metrics"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type StatusConfig struct {
	BatchMaxItems int
	// Fanout bounds concurrent lookups within one batch.
	Fanout int
	// ChecksPerSecond throttles storage existence checks across all
	// batches; zero disables the limit.
	ChecksPerSecond float64
}

// StatusService answers status queries from live job records, falling back
// to the published layout once no job is active.
type StatusService struct {
	jobs     port.JobStore
	resolver *Resolver
	cfg      StatusConfig
	limiter  *rate.Limiter
}

func NewStatusService(jobs port.JobStore, resolver *Resolver, cfg StatusConfig) *StatusService {
	if cfg.BatchMaxItems <= 0 {
		cfg.BatchMaxItems = 20
	}
	if cfg.Fanout <= 0 {
		cfg.Fanout = 8
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.ChecksPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ChecksPerSecond), cfg.BatchMaxItems)
	}
	return &StatusService{jobs: jobs, resolver: resolver, cfg: cfg, limiter: limiter}
}

func (s *StatusService) MaxBatch() int {
	return s.cfg.BatchMaxItems
}

func ValidateVideoID(id string) error {
	switch {
	case id == "":
		return &domain.ValidationError{Field: "videoId", Reason: "required"}
	case len(id) > 128:
		return &domain.ValidationError{Field: "videoId", Reason: "too long"}
	case strings.ContainsAny(id, "/\\\x00") || id == "." || id == "..":
		return &domain.ValidationError{Field: "videoId", Reason: "must be a single path element"}
	}
	return nil
}

func (s *StatusService) Status(ctx context.Context, videoID string) (domain.StatusReport, error) {
	return s.status(ctx, videoID, "single")
}

func (s *StatusService) status(ctx context.Context, videoID, kind string) (domain.StatusReport, error) {
	if err := ValidateVideoID(videoID); err != nil {
		return domain.StatusReport{}, err
	}

	jobs, err := s.loadJobs(ctx, videoID)
	if err != nil {
		return domain.StatusReport{}, err
	}
	if report, ok := fromJobs(videoID, jobs); ok {
		metrics.StatusLookups.WithLabelValues("job", kind).Inc()
		return report, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return domain.StatusReport{}, err
	}
	report, err := s.resolver.Resolve(ctx, videoID)
	if err != nil {
		return domain.StatusReport{}, err
	}
	metrics.StatusLookups.WithLabelValues("layout", kind).Inc()

	// a completed record outranks a layout this host cannot see yet, or a
	// single oriented layout the resolver does not recognise
	if report.Status != domain.JobStatusCompleted && len(jobs) > 0 {
		return completedFromJobs(videoID, jobs), nil
	}
	return report, nil
}

// loadJobs returns the legacy and per-orientation records that exist.
func (s *StatusService) loadJobs(ctx context.Context, videoID string) ([]*domain.TranscodeJob, error) {
	var jobs []*domain.TranscodeJob
	for _, o := range []domain.Orientation{domain.OrientationNone, domain.OrientationLandscape, domain.OrientationPortrait} {
		job, err := s.jobs.Get(ctx, domain.JobKey(videoID, o))
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load job %s: %w", videoID, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// fromJobs reports from live records. It declines when every record is
// completed so the layout decides has_portrait.
func fromJobs(videoID string, jobs []*domain.TranscodeJob) (domain.StatusReport, bool) {
	var active *domain.TranscodeJob
	hasPortrait := false
	oriented := false
	for _, j := range jobs {
		if j.Orientation != domain.OrientationNone {
			oriented = true
		}
		if j.Orientation == domain.OrientationPortrait {
			hasPortrait = true
		}
		switch {
		case j.Status == domain.JobStatusError:
			active = j
		case active == nil && !j.Status.IsTerminal():
			active = j
		case active != nil && active.Status == domain.JobStatusQueued && j.Status == domain.JobStatusProcessing:
			active = j
		}
	}
	if active == nil {
		return domain.StatusReport{}, false
	}

	report := active.Report()
	report.VideoID = videoID
	report.HasPortrait = nil
	if oriented {
		report.HasPortrait = &hasPortrait
	}
	return report, true
}

// completedFromJobs reports a video whose records all completed. The
// manifest points at the landscape output when there is one.
func completedFromJobs(videoID string, jobs []*domain.TranscodeJob) domain.StatusReport {
	report := domain.StatusReport{VideoID: videoID, Status: domain.JobStatusCompleted}
	playable := jobs[0]
	hasPortrait := false
	oriented := false
	for _, j := range jobs {
		switch j.Orientation {
		case domain.OrientationPortrait:
			hasPortrait, oriented = true, true
		case domain.OrientationLandscape:
			oriented = true
			playable = j
		}
	}
	if oriented {
		report.HasPortrait = &hasPortrait
	}
	report.Manifest = domain.ManifestPath(videoID, playable.Orientation)
	return report
}

// Batch looks up several ids at once. More than BatchMaxItems ids is
// rejected before any lookup runs.
func (s *StatusService) Batch(ctx context.Context, ids []string) (map[string]domain.StatusReport, error) {
	if len(ids) > s.cfg.BatchMaxItems {
		metrics.BatchRejected.Inc()
		return nil, fmt.Errorf("%w: %d ids, limit %d", domain.ErrBatchTooLarge, len(ids), s.cfg.BatchMaxItems)
	}
	metrics.BatchSize.Observe(float64(len(ids)))

	results := make(map[string]domain.StatusReport, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Fanout)
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		g.Go(func() error {
			report, err := s.status(gctx, id, "batch")
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				report = domain.StatusReport{VideoID: id, Status: domain.JobStatusError, Error: verr.Error()}
				err = nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			results[id] = report
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
