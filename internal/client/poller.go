package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/logger"
	"github.com/rs/zerolog"
)

type PollState string

const (
	StateIdle       PollState = "idle"
	StateUploading  PollState = "uploading"
	StateProcessing PollState = "processing"
	StateCompleted  PollState = "completed"
	StateError      PollState = "error"
	StateTimeout    PollState = "timeout"
)

func (s PollState) IsTerminal() bool {
	return s == StateCompleted || s == StateError || s == StateTimeout
}

var ErrPollerStarted = errors.New("poller already started")

// JobFailedError carries the failure detail the server reported for a job.
type JobFailedError struct {
	VideoID string
	Detail  string
}

func (e *JobFailedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("transcode of %s failed", e.VideoID)
	}
	return fmt.Sprintf("transcode of %s failed: %s", e.VideoID, e.Detail)
}

// PollerAPI is the subset of API the poller needs.
type PollerAPI interface {
	Upload(ctx context.Context, src UploadSource) (*UploadResponse, error)
	Status(ctx context.Context, videoID string) (domain.StatusReport, error)
}

type PollerConfig struct {
	Interval    time.Duration
	MaxAttempts int
	// PlaybackBase prefixes the playback URL of a completed video.
	PlaybackBase string
	Constraints  domain.UploadConstraints
	// OnProgress is called from the poller goroutine after every state
	// change and every status answer.
	OnProgress func(Progress)
}

type Progress struct {
	State   PollState
	VideoID string
	Attempt int
	Report  *domain.StatusReport
}

type Outcome struct {
	State       PollState
	VideoID     string
	PlaybackURL string
	Report      domain.StatusReport
	Err         error
}

// Poller tracks one upload through idle -> uploading -> processing ->
// completed|error|timeout. Polling runs on a single goroutine driven by one
// re-armed timer. Stop halts it without touching the server-side job.
type Poller struct {
	api PollerAPI
	cfg PollerConfig
	log zerolog.Logger

	mu      sync.Mutex
	state   PollState
	outcome Outcome
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewPoller(api PollerAPI, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 60
	}
	if cfg.Constraints.AllowedMIME == nil {
		cfg.Constraints = domain.DefaultUploadConstraints()
	}
	return &Poller{
		api:   api,
		cfg:   cfg,
		log:   logger.WithComponent("client"),
		state: StateIdle,
		done:  make(chan struct{}),
	}
}

// Start validates src and, if it passes, uploads and polls in the
// background. A validation failure ends the poller in StateError without
// any network call and is also returned.
func (p *Poller) Start(ctx context.Context, src UploadSource) error {
	if err := p.begin(); err != nil {
		return err
	}
	if err := p.cfg.Constraints.Validate(src.Size, src.MIME); err != nil {
		p.finish(Outcome{State: StateError, Err: err})
		return err
	}

	ctx = p.withCancel(ctx)
	go p.run(ctx, func(ctx context.Context) (string, error) {
		p.transition(StateUploading, "", 0, nil)
		res, err := p.api.Upload(ctx, src)
		if err != nil {
			return "", err
		}
		return res.VideoID, nil
	})
	return nil
}

// Follow polls an already uploaded video.
func (p *Poller) Follow(ctx context.Context, videoID string) error {
	if err := p.begin(); err != nil {
		return err
	}
	ctx = p.withCancel(ctx)
	go p.run(ctx, func(context.Context) (string, error) { return videoID, nil })
	return nil
}

func (p *Poller) begin() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return ErrPollerStarted
	}
	p.started = true
	return nil
}

func (p *Poller) withCancel(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	p.cancel = cancel
	p.mu.Unlock()
	return ctx
}

// Stop cancels polling and waits for the goroutine to exit. The outcome of
// a stopped poller keeps the state it had reached, with context.Canceled.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	started := p.started
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if started {
		<-p.done
	}
}

func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) State() PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) Outcome() Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outcome
}

// Wait blocks until the poller finishes or ctx is done.
func (p *Poller) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-p.done:
		return p.Outcome(), nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

func (p *Poller) run(ctx context.Context, upload func(context.Context) (string, error)) {
	videoID, err := upload(ctx)
	if err != nil {
		state := StateError
		if ctx.Err() != nil {
			state = p.State()
		}
		p.finish(Outcome{State: state, Err: err})
		return
	}
	p.transition(StateProcessing, videoID, 0, nil)

	start := time.Now()
	timer := time.NewTimer(p.cfg.Interval)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			p.finish(Outcome{State: p.State(), VideoID: videoID, Err: ctx.Err()})
			return
		case <-timer.C:
		}

		report, err := p.api.Status(ctx, videoID)
		if report.VideoID == "" {
			report.VideoID = videoID
		}
		switch {
		case err != nil:
			if ctx.Err() != nil {
				continue
			}
			// transient; the attempt is spent but nothing else changes
			p.log.Debug().Err(err).Str("video_id", videoID).Int("attempt", attempt).Msg("status poll failed")
		case report.IsComplete():
			p.finish(Outcome{State: StateCompleted, VideoID: videoID, PlaybackURL: PlaybackURL(p.cfg.PlaybackBase, report), Report: report})
			return
		case report.Status == domain.JobStatusError:
			p.finish(Outcome{State: StateError, VideoID: videoID, Report: report, Err: &JobFailedError{VideoID: videoID, Detail: report.Error}})
			return
		default:
			p.transition(StateProcessing, videoID, attempt, &report)
		}

		if attempt >= p.cfg.MaxAttempts {
			p.finish(Outcome{State: StateTimeout, VideoID: videoID, Err: &domain.TimeoutError{
				VideoID:  videoID,
				Attempts: attempt,
				Elapsed:  time.Since(start).Round(time.Millisecond),
			}})
			return
		}
		timer.Reset(p.cfg.Interval)
	}
}

func (p *Poller) transition(state PollState, videoID string, attempt int, report *domain.StatusReport) {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
	if p.cfg.OnProgress != nil {
		p.cfg.OnProgress(Progress{State: state, VideoID: videoID, Attempt: attempt, Report: report})
	}
}

func (p *Poller) finish(o Outcome) {
	p.mu.Lock()
	p.state = o.State
	p.outcome = o
	p.mu.Unlock()
	if p.cfg.OnProgress != nil {
		p.cfg.OnProgress(Progress{State: o.State, VideoID: o.VideoID})
	}
	close(p.done)
}

// PlaybackURL is the master playlist URL of a completed video. The manifest
// key reported by the server wins; older servers only report has_portrait,
// and dual orientation videos play from their landscape manifest.
func PlaybackURL(base string, report domain.StatusReport) string {
	key := report.Manifest
	if key == "" {
		o := domain.OrientationNone
		if report.HasPortrait != nil && *report.HasPortrait {
			o = domain.OrientationLandscape
		}
		key = domain.ManifestPath(report.VideoID, o)
	}
	u, err := url.JoinPath(base, key)
	if err != nil {
		return strings.TrimSuffix(base, "/") + "/" + key
	}
	return u
}
