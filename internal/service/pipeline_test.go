package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/adapter/storage/memory"
	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type recordedEvents struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordedEvents) Publish(_ string, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordedEvents) statuses() []domain.JobStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.JobStatus
	for _, e := range r.events {
		if e.Type == "status" {
			out = append(out, e.Status)
		}
	}
	return out
}

func probeOf(w, h int) *domain.ProbeResult {
	return &domain.ProbeResult{Streams: []domain.ProbeStream{
		{CodecType: "audio", CodecName: "aac"},
		{CodecType: "video", CodecName: "h264", Width: w, Height: h},
	}}
}

type pipelineFixture struct {
	conv   *mocks.MediaConverterMock
	store  *memory.Store
	events *recordedEvents
	root   string
	p      *Pipeline
}

func newPipelineFixture(t *testing.T, mutate func(*PipelineConfig)) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{
		conv:   mocks.NewMediaConverterMock(t),
		store:  memory.NewStore(),
		events: &recordedEvents{},
		root:   t.TempDir(),
	}
	cfg := PipelineConfig{
		OutputRoot:              f.root,
		Ladder:                  domain.StandardLadder,
		EmptyLadderPolicy:       domain.EmptyLadderFail,
		CleanupFailedRenditions: true,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	f.p = NewPipeline(f.conv, f.store, f.events, cfg)
	return f
}

// encodeOK mimics a successful encode by creating the rendition directory.
func encodeOK(_ context.Context, _ string, outDir string, _ domain.QualityProfile) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "playlist.m3u8"), []byte("#EXTM3U\n"), 0644)
}

func message(id, input string) domain.DispatchMessage {
	return domain.DispatchMessage{VideoID: id, InputURI: input}
}

func TestPipeline_Run_FullHD(t *testing.T) {
	f := newPipelineFixture(t, nil)
	f.conv.EXPECT().Probe(mock.Anything, "/in/pending/intro.mp4").Return(probeOf(1920, 1080), nil).Once()
	f.conv.EXPECT().EncodeRendition(mock.Anything, "/in/pending/intro.mp4", mock.Anything, mock.Anything).
		RunAndReturn(encodeOK).Times(4)
	f.conv.EXPECT().ExtractPoster(mock.Anything, "/in/pending/intro.mp4", filepath.Join(f.root, "videos", "intro", "thumbnails", "poster.jpg")).
		Return(nil).Once()

	job, err := f.p.Run(context.Background(), message("intro", "file:///in/pending/intro.mp4"))
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Percentage())
	assert.Equal(t, 1920, job.Width)
	require.NotNil(t, job.CompletedAt)

	stored, err := f.store.Get(context.Background(), "intro")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, stored.Status)

	master, err := os.ReadFile(filepath.Join(f.root, "videos", "intro", "manifest", "master.m3u8"))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(master), "#EXT-X-STREAM-INF"))
	assert.Less(t, strings.Index(string(master), "../360p/"), strings.Index(string(master), "../1080p/"),
		"entries follow ladder order")

	assert.Equal(t, []domain.JobStatus{domain.JobStatusProcessing, domain.JobStatusCompleted}, f.events.statuses())
}

func TestPipeline_Run_SmallSourceGetsOneRendition(t *testing.T) {
	f := newPipelineFixture(t, nil)
	f.conv.EXPECT().Probe(mock.Anything, mock.Anything).Return(probeOf(640, 360), nil)
	f.conv.EXPECT().EncodeRendition(mock.Anything, mock.Anything, filepath.Join(f.root, "videos", "clip", "360p"), domain.StandardLadder[0]).
		RunAndReturn(encodeOK).Once()
	f.conv.EXPECT().ExtractPoster(mock.Anything, mock.Anything, mock.Anything).Return(nil)

	job, err := f.p.Run(context.Background(), message("clip", "/in/pending/clip.mp4"))
	require.NoError(t, err)
	require.Len(t, job.Renditions, 1)

	master, err := os.ReadFile(filepath.Join(f.root, "videos", "clip", "manifest", "master.m3u8"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(master), "#EXT-X-STREAM-INF"))
}

func TestPipeline_Run_PortraitLayout(t *testing.T) {
	f := newPipelineFixture(t, nil)
	f.conv.EXPECT().Probe(mock.Anything, mock.Anything).Return(probeOf(1080, 1920), nil)
	f.conv.EXPECT().EncodeRendition(mock.Anything, mock.Anything, mock.Anything, mock.Anything).RunAndReturn(encodeOK)
	f.conv.EXPECT().ExtractPoster(mock.Anything, mock.Anything, mock.Anything).Return(nil)

	job, err := f.p.Run(context.Background(), message("intro", "/in/pending/portrait/intro.mp4"))
	require.NoError(t, err)
	assert.Equal(t, domain.OrientationPortrait, job.Orientation)

	_, err = f.store.Get(context.Background(), "intro:portrait")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(f.root, "videos", "intro", "portrait", "manifest", "master.m3u8"))
}

func TestPipeline_Run_RenditionFailure(t *testing.T) {
	f := newPipelineFixture(t, func(c *PipelineConfig) { c.Concurrency = 1 })
	f.conv.EXPECT().Probe(mock.Anything, mock.Anything).Return(probeOf(1920, 1080), nil)
	f.conv.EXPECT().EncodeRendition(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, in, outDir string, p domain.QualityProfile) error {
			if err := encodeOK(ctx, in, outDir, p); err != nil {
				return err
			}
			if p.Name == "720p" {
				return errors.New("exit status 1")
			}
			return nil
		}).Times(4)
	f.conv.EXPECT().ExtractPoster(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	job, err := f.p.Run(context.Background(), message("intro", "/in/pending/intro.mp4"))

	var encErr *domain.RenditionEncodeError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, "720p", encErr.Profile)
	assert.Equal(t, domain.JobStatusError, job.Status)
	assert.Contains(t, job.Error, "720p")

	videoDir := filepath.Join(f.root, "videos", "intro")
	assert.NoFileExists(t, filepath.Join(videoDir, "manifest", "master.m3u8"))
	assert.NoDirExists(t, filepath.Join(videoDir, "720p"), "failed rendition output is removed")
	assert.DirExists(t, filepath.Join(videoDir, "1080p"), "siblings still run to completion")

	stored, err := f.store.Get(context.Background(), "intro")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusError, stored.Status, "terminal record is not overwritten by sibling progress")
}

func TestPipeline_Run_CancelSiblings(t *testing.T) {
	f := newPipelineFixture(t, func(c *PipelineConfig) {
		c.Concurrency = 1
		c.CancelSiblingsOnFailure = true
	})
	f.conv.EXPECT().Probe(mock.Anything, mock.Anything).Return(probeOf(1920, 1080), nil)
	f.conv.EXPECT().EncodeRendition(mock.Anything, mock.Anything, mock.Anything, domain.StandardLadder[0]).
		Return(errors.New("out of memory")).Once()

	job, err := f.p.Run(context.Background(), message("intro", "/in/pending/intro.mp4"))
	require.Error(t, err)
	assert.Contains(t, job.Error, "360p")
	assert.Equal(t, domain.TaskFailed, job.Rendition("1080p").Status)
	assert.Equal(t, errSiblingFailed.Error(), job.Rendition("1080p").Error)
	assert.Equal(t, domain.TaskFailed, job.Poster.Status)
}

func TestPipeline_Run_PosterFailure(t *testing.T) {
	f := newPipelineFixture(t, nil)
	f.conv.EXPECT().Probe(mock.Anything, mock.Anything).Return(probeOf(854, 480), nil)
	f.conv.EXPECT().EncodeRendition(mock.Anything, mock.Anything, mock.Anything, mock.Anything).RunAndReturn(encodeOK).Times(2)
	f.conv.EXPECT().ExtractPoster(mock.Anything, mock.Anything, mock.Anything).Return(errors.New("no frame at 1s"))

	job, err := f.p.Run(context.Background(), message("intro", "/in/pending/intro.mp4"))
	require.ErrorContains(t, err, "extract poster")
	assert.Equal(t, domain.JobStatusError, job.Status)
	assert.NoFileExists(t, filepath.Join(f.root, "videos", "intro", "manifest", "master.m3u8"))
	assert.DirExists(t, filepath.Join(f.root, "videos", "intro", "480p"), "succeeded renditions are kept")
}

func TestPipeline_Run_EmptyLadder(t *testing.T) {
	t.Run("fail policy", func(t *testing.T) {
		f := newPipelineFixture(t, nil)
		f.conv.EXPECT().Probe(mock.Anything, mock.Anything).Return(probeOf(320, 180), nil)

		job, err := f.p.Run(context.Background(), message("tiny", "/in/pending/tiny.mp4"))
		require.ErrorIs(t, err, domain.ErrEmptyLadder)
		assert.Equal(t, domain.JobStatusError, job.Status)
	})

	t.Run("force lowest policy", func(t *testing.T) {
		f := newPipelineFixture(t, func(c *PipelineConfig) { c.EmptyLadderPolicy = domain.EmptyLadderForceLowest })
		f.conv.EXPECT().Probe(mock.Anything, mock.Anything).Return(probeOf(320, 180), nil)
		f.conv.EXPECT().EncodeRendition(mock.Anything, mock.Anything, mock.Anything, domain.StandardLadder[0]).RunAndReturn(encodeOK).Once()
		f.conv.EXPECT().ExtractPoster(mock.Anything, mock.Anything, mock.Anything).Return(nil)

		job, err := f.p.Run(context.Background(), message("tiny", "/in/pending/tiny.mp4"))
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusCompleted, job.Status)
	})
}

func TestPipeline_Run_ProbeFailure(t *testing.T) {
	f := newPipelineFixture(t, nil)
	f.conv.EXPECT().Probe(mock.Anything, mock.Anything).Return(nil, errors.New("moov atom not found"))

	job, err := f.p.Run(context.Background(), message("bad", "/in/pending/bad.mp4"))
	require.ErrorContains(t, err, "moov atom not found")
	assert.Equal(t, domain.JobStatusError, job.Status)
}

func TestPipeline_Run_TerminalRedeliveryIsSkipped(t *testing.T) {
	f := newPipelineFixture(t, nil)
	done := domain.NewTranscodeJob("intro", "/in/pending/intro.mp4", domain.OrientationNone, t0)
	require.NoError(t, done.Transition(domain.JobStatusProcessing, t0))
	require.NoError(t, done.Transition(domain.JobStatusCompleted, t0))
	require.NoError(t, f.store.Set(context.Background(), done))

	job, err := f.p.Run(context.Background(), message("intro", "/in/pending/intro.mp4"))
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, job.Status)
	assert.Empty(t, f.events.statuses())
}

func TestPipeline_Run_StaleProcessingRestarts(t *testing.T) {
	f := newPipelineFixture(t, nil)
	f.p.now = func() time.Time { return t0.Add(2 * time.Hour) }
	stale := domain.NewTranscodeJob("intro", "/in/pending/intro.mp4", domain.OrientationNone, t0)
	require.NoError(t, stale.Transition(domain.JobStatusProcessing, t0))
	stale.Plan(domain.StandardLadder, "/elsewhere")
	require.NoError(t, f.store.Set(context.Background(), stale))

	f.conv.EXPECT().Probe(mock.Anything, mock.Anything).Return(probeOf(640, 360), nil)
	f.conv.EXPECT().EncodeRendition(mock.Anything, mock.Anything, mock.Anything, mock.Anything).RunAndReturn(encodeOK).Once()
	f.conv.EXPECT().ExtractPoster(mock.Anything, mock.Anything, mock.Anything).Return(nil)

	job, err := f.p.Run(context.Background(), message("intro", "/in/pending/intro.mp4"))
	require.NoError(t, err)
	assert.Equal(t, t0, job.CreatedAt)
	assert.Len(t, job.Renditions, 1)
}

func TestPipeline_Run_FreshProcessingIsSkipped(t *testing.T) {
	f := newPipelineFixture(t, nil)
	f.p.now = func() time.Time { return t0.Add(time.Minute) }
	running := domain.NewTranscodeJob("intro", "/in/pending/intro.mp4", domain.OrientationNone, t0)
	require.NoError(t, running.Transition(domain.JobStatusProcessing, t0))
	require.NoError(t, f.store.Set(context.Background(), running))

	job, err := f.p.Run(context.Background(), message("intro", "/in/pending/intro.mp4"))
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusProcessing, job.Status)
	assert.Empty(t, f.events.statuses())
}

func TestPipeline_Process_RedeliveryRestartsProcessing(t *testing.T) {
	f := newPipelineFixture(t, nil)
	f.p.now = func() time.Time { return t0.Add(time.Minute) }
	running := domain.NewTranscodeJob("intro", "/in/pending/intro.mp4", domain.OrientationNone, t0)
	require.NoError(t, running.Transition(domain.JobStatusProcessing, t0))
	require.NoError(t, f.store.Set(context.Background(), running))

	f.conv.EXPECT().Probe(mock.Anything, mock.Anything).Return(probeOf(640, 360), nil).Once()
	f.conv.EXPECT().EncodeRendition(mock.Anything, mock.Anything, mock.Anything, mock.Anything).RunAndReturn(encodeOK).Once()
	f.conv.EXPECT().ExtractPoster(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	d := &domain.Delivery{ID: "1-0", Message: message("intro", "/in/pending/intro.mp4"), Attempts: 1}
	job, err := f.p.Process(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, job.Status)
}

// recordingStore remembers the status of every write.
type recordingStore struct {
	*memory.Store
	mu       sync.Mutex
	statuses []domain.JobStatus
}

func (s *recordingStore) Set(ctx context.Context, j *domain.TranscodeJob) error {
	s.mu.Lock()
	s.statuses = append(s.statuses, j.Status)
	s.mu.Unlock()
	return s.Store.Set(ctx, j)
}

func (s *recordingStore) written() []domain.JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.JobStatus(nil), s.statuses...)
}

// gatedConverter holds the rendition encode and the poster until release is
// closed. entered is done once both tasks are running.
type gatedConverter struct {
	conv    *mocks.MediaConverterMock
	entered sync.WaitGroup
	release chan struct{}

	mu      sync.Mutex
	active  map[string]int
	overlap int
}

func newGatedConverter(t *testing.T) *gatedConverter {
	g := &gatedConverter{
		conv:    mocks.NewMediaConverterMock(t),
		release: make(chan struct{}),
		active:  make(map[string]int),
	}
	g.entered.Add(2)
	g.conv.EXPECT().Probe(mock.Anything, mock.Anything).Return(probeOf(640, 360), nil).Once()
	g.conv.EXPECT().EncodeRendition(mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, in, outDir string, p domain.QualityProfile) error {
			g.mu.Lock()
			g.active[outDir]++
			if g.active[outDir] > g.overlap {
				g.overlap = g.active[outDir]
			}
			g.mu.Unlock()
			g.entered.Done()
			<-g.release
			g.mu.Lock()
			g.active[outDir]--
			g.mu.Unlock()
			return encodeOK(ctx, in, outDir, p)
		}).Once()
	g.conv.EXPECT().ExtractPoster(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, string, string) error {
			g.entered.Done()
			<-g.release
			return nil
		}).Once()
	return g
}

func TestPipeline_Run_ConcurrentDeliveries(t *testing.T) {
	gate := newGatedConverter(t)
	store := &recordingStore{Store: memory.NewStore()}
	cfg := PipelineConfig{OutputRoot: t.TempDir(), Ladder: domain.StandardLadder, CleanupFailedRenditions: true}
	worker := NewPipeline(gate.conv, store, nil, cfg)
	otherWorker := NewPipeline(gate.conv, store, nil, cfg)
	msg := message("intro", "/in/pending/intro.mp4")

	type result struct {
		job *domain.TranscodeJob
		err error
	}
	first := make(chan result, 1)
	go func() {
		job, err := worker.Run(context.Background(), msg)
		first <- result{job, err}
	}()
	gate.entered.Wait()

	job, err := worker.Run(context.Background(), msg)
	require.NoError(t, err, "same worker")
	assert.Nil(t, job)

	job, err = otherWorker.Run(context.Background(), msg)
	require.NoError(t, err, "worker sharing the store")
	assert.Equal(t, domain.JobStatusProcessing, job.Status)

	close(gate.release)
	res := <-first
	require.NoError(t, res.err)
	assert.Equal(t, domain.JobStatusCompleted, res.job.Status)
	assert.Equal(t, 1, gate.overlap)

	written := store.written()
	require.NotEmpty(t, written)
	assert.Equal(t, domain.JobStatusCompleted, written[len(written)-1])
	for _, st := range written[:len(written)-1] {
		assert.Equal(t, domain.JobStatusProcessing, st)
	}
}

func TestPipeline_Run_DoesNotOverwriteTerminalRecord(t *testing.T) {
	gate := newGatedConverter(t)
	store := &recordingStore{Store: memory.NewStore()}
	p := NewPipeline(gate.conv, store, nil, PipelineConfig{OutputRoot: t.TempDir(), Ladder: domain.StandardLadder})

	first := make(chan error, 1)
	go func() {
		_, err := p.Run(context.Background(), message("intro", "/in/pending/intro.mp4"))
		first <- err
	}()
	gate.entered.Wait()

	finished := domain.NewTranscodeJob("intro", "/in/other/intro.mp4", domain.OrientationNone, t0)
	require.NoError(t, finished.Transition(domain.JobStatusProcessing, t0))
	require.NoError(t, finished.Transition(domain.JobStatusCompleted, t0))
	require.NoError(t, store.Set(context.Background(), finished))
	before := len(store.written())

	close(gate.release)
	require.NoError(t, <-first)

	assert.Len(t, store.written(), before, "no write after the record turned terminal")
	stored, err := store.Get(context.Background(), domain.JobKey("intro", domain.OrientationNone))
	require.NoError(t, err)
	assert.Equal(t, "/in/other/intro.mp4", stored.InputURI)
	assert.Equal(t, domain.JobStatusCompleted, stored.Status)
}

func TestPipeline_Run_SkipsHighFrameRateTiersForSlowSources(t *testing.T) {
	tests := []struct {
		name string
		rate string
		want []string
	}{
		{name: "30 fps", rate: "30/1", want: []string{"144p", "240p", "360p", "480p", "540p", "720p", "1080p"}},
		{name: "60 fps", rate: "60/1", want: []string{"144p", "240p", "360p", "480p", "540p", "720p", "720p60", "1080p", "1080p60"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPipelineFixture(t, func(c *PipelineConfig) { c.Ladder = domain.ExtendedLadder })
			probe := &domain.ProbeResult{
				Format:  domain.ProbeFormat{Duration: "42.5"},
				Streams: []domain.ProbeStream{{CodecType: "video", Width: 1920, Height: 1080, AvgFrameRate: tt.rate}},
			}
			f.conv.EXPECT().Probe(mock.Anything, mock.Anything).Return(probe, nil).Once()
			f.conv.EXPECT().EncodeRendition(mock.Anything, mock.Anything, mock.Anything, mock.Anything).RunAndReturn(encodeOK).Times(len(tt.want))
			f.conv.EXPECT().ExtractPoster(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

			job, err := f.p.Run(context.Background(), message("intro", "/in/pending/intro.mp4"))
			require.NoError(t, err)
			var got []string
			for _, r := range job.Renditions {
				got = append(got, r.Profile.Name)
			}
			assert.Equal(t, tt.want, got)
			assert.InDelta(t, 42.5, job.Duration, 0.001)
			assert.Positive(t, job.FrameRate)
		})
	}
}

func TestPipeline_Run_ArchivesInput(t *testing.T) {
	in := t.TempDir()
	src := filepath.Join(in, "pending", "intro.mp4")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0755))
	require.NoError(t, os.WriteFile(src, []byte("video"), 0644))

	f := newPipelineFixture(t, func(c *PipelineConfig) { c.ArchiveInput = true })
	f.conv.EXPECT().Probe(mock.Anything, src).Return(probeOf(640, 360), nil)
	f.conv.EXPECT().EncodeRendition(mock.Anything, src, mock.Anything, mock.Anything).RunAndReturn(encodeOK)
	f.conv.EXPECT().ExtractPoster(mock.Anything, src, mock.Anything).Return(nil)

	_, err := f.p.Run(context.Background(), message("intro", src))
	require.NoError(t, err)
	assert.NoFileExists(t, src)
	assert.FileExists(t, filepath.Join(in, "completed", "intro.mp4"))
}

func TestInputPath(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    string
		wantErr bool
	}{
		{name: "plain path", uri: "/data/input/pending/a.mp4", want: "/data/input/pending/a.mp4"},
		{name: "file uri", uri: "file:///data/input/pending/a.mp4", want: "/data/input/pending/a.mp4"},
		{name: "unclean path", uri: "/data//input/./a.mp4", want: "/data/input/a.mp4"},
		{name: "empty", uri: "", wantErr: true},
		{name: "remote scheme", uri: "gs://bucket/a.mp4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InputPath(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArchiveInput_OutsidePending(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.mp4")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	dst, err := archiveInput(src)
	require.NoError(t, err)
	assert.Empty(t, dst)
	assert.FileExists(t, src)
}
