package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/IA-Ben/ode-islands-transcoder/internal/adapter/storage/fsstore"
	"github.com/IA-Ben/ode-islands-transcoder/internal/adapter/storage/memory"
	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jobWith(t *testing.T, id string, o domain.Orientation, status domain.JobStatus) *domain.TranscodeJob {
	t.Helper()
	j := domain.NewTranscodeJob(id, "/in/"+id+".mp4", o, t0)
	j.Status = status
	return j
}

func newStatusFixture(t *testing.T, jobs ...*domain.TranscodeJob) (*StatusService, string) {
	t.Helper()
	store := memory.NewStore()
	for _, j := range jobs {
		require.NoError(t, store.Set(context.Background(), j))
	}
	root := t.TempDir()
	return NewStatusService(store, NewResolver(fsstore.NewStore(root)), StatusConfig{BatchMaxItems: 20}), root
}

func TestStatusService_Status_FromJobs(t *testing.T) {
	tests := []struct {
		name         string
		jobs         []*domain.TranscodeJob
		wantStatus   domain.JobStatus
		wantPortrait *bool
	}{
		{
			name:       "legacy queued job",
			jobs:       []*domain.TranscodeJob{jobWith(t, "v", domain.OrientationNone, domain.JobStatusQueued)},
			wantStatus: domain.JobStatusQueued,
		},
		{
			name: "error outranks processing",
			jobs: []*domain.TranscodeJob{
				jobWith(t, "v", domain.OrientationLandscape, domain.JobStatusProcessing),
				jobWith(t, "v", domain.OrientationPortrait, domain.JobStatusError),
			},
			wantStatus:   domain.JobStatusError,
			wantPortrait: boolPtr(true),
		},
		{
			name: "processing outranks queued",
			jobs: []*domain.TranscodeJob{
				jobWith(t, "v", domain.OrientationLandscape, domain.JobStatusQueued),
				jobWith(t, "v", domain.OrientationPortrait, domain.JobStatusProcessing),
			},
			wantStatus:   domain.JobStatusProcessing,
			wantPortrait: boolPtr(true),
		},
		{
			name: "landscape only",
			jobs: []*domain.TranscodeJob{
				jobWith(t, "v", domain.OrientationLandscape, domain.JobStatusProcessing),
			},
			wantStatus:   domain.JobStatusProcessing,
			wantPortrait: boolPtr(false),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newStatusFixture(t, tt.jobs...)
			report, err := s.Status(context.Background(), "v")
			require.NoError(t, err)
			assert.Equal(t, "v", report.VideoID)
			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, tt.wantPortrait, report.HasPortrait)
		})
	}
}

func TestStatusService_Status_FromLayout(t *testing.T) {
	s, root := newStatusFixture(t)
	touch(t, root, "videos/v/manifest/master.m3u8", "videos/v/1080p/segment_000.ts")

	report, err := s.Status(context.Background(), "v")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, report.Status)
	assert.Equal(t, boolPtr(false), report.HasPortrait)
	assert.Equal(t, "videos/v/manifest/master.m3u8", report.Manifest)
}

func TestStatusService_Status_CompletedRecordWithoutLayout(t *testing.T) {
	s, _ := newStatusFixture(t, jobWith(t, "v", domain.OrientationNone, domain.JobStatusCompleted))

	report, err := s.Status(context.Background(), "v")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, report.Status)
	assert.Nil(t, report.HasPortrait)
	assert.Equal(t, "videos/v/manifest/master.m3u8", report.Manifest)
}

func TestStatusService_Status_CompletedSingleOrientation(t *testing.T) {
	tests := []struct {
		name         string
		orientation  domain.Orientation
		wantPortrait bool
	}{
		{"landscape only", domain.OrientationLandscape, false},
		{"portrait only", domain.OrientationPortrait, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, root := newStatusFixture(t, jobWith(t, "v", tt.orientation, domain.JobStatusCompleted))
			prefix := domain.OutputPrefix("v", tt.orientation)
			touch(t, root, prefix+"/manifest/master.m3u8", prefix+"/720p/segment_000.ts")

			report, err := s.Status(context.Background(), "v")
			require.NoError(t, err)
			assert.Equal(t, domain.JobStatusCompleted, report.Status)
			assert.Equal(t, boolPtr(tt.wantPortrait), report.HasPortrait)
			assert.Equal(t, prefix+"/manifest/master.m3u8", report.Manifest)
		})
	}
}

func TestStatusService_Status_CompletedDualPrefersLandscape(t *testing.T) {
	s, _ := newStatusFixture(t,
		jobWith(t, "v", domain.OrientationPortrait, domain.JobStatusCompleted),
		jobWith(t, "v", domain.OrientationLandscape, domain.JobStatusCompleted),
	)

	report, err := s.Status(context.Background(), "v")
	require.NoError(t, err)
	assert.Equal(t, boolPtr(true), report.HasPortrait)
	assert.Equal(t, "videos/v/landscape/manifest/master.m3u8", report.Manifest)
}

func TestStatusService_Status_UnknownVideoIsProcessing(t *testing.T) {
	s, _ := newStatusFixture(t)

	report, err := s.Status(context.Background(), "never-uploaded")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusProcessing, report.Status)
	assert.Nil(t, report.HasPortrait)
}

func TestStatusService_Status_InvalidID(t *testing.T) {
	s, _ := newStatusFixture(t)
	for _, id := range []string{"", "..", "a/b", "a\\b"} {
		_, err := s.Status(context.Background(), id)
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr, "id %q", id)
	}
}

func TestStatusService_Batch_OverCapDoesNoWork(t *testing.T) {
	jobs := mocks.NewJobStoreMock(t)
	objects := mocks.NewObjectStoreMock(t)
	s := NewStatusService(jobs, NewResolver(objects), StatusConfig{BatchMaxItems: 20})

	ids := make([]string, 21)
	for i := range ids {
		ids[i] = fmt.Sprintf("v%d", i)
	}

	res, err := s.Batch(context.Background(), ids)
	assert.ErrorIs(t, err, domain.ErrBatchTooLarge)
	assert.Nil(t, res)
}

func TestStatusService_Batch(t *testing.T) {
	s, root := newStatusFixture(t, jobWith(t, "a", domain.OrientationNone, domain.JobStatusProcessing))
	touch(t, root, "videos/b/manifest/master.m3u8", "videos/b/360p/segment_000.ts")

	ids := make([]string, 0, 20)
	ids = append(ids, "a", "b", "a", "../etc")
	for i := len(ids); i < 20; i++ {
		ids = append(ids, fmt.Sprintf("x%d", i))
	}

	res, err := s.Batch(context.Background(), ids)
	require.NoError(t, err)
	assert.Len(t, res, 19, "duplicates collapse")
	assert.Equal(t, domain.JobStatusProcessing, res["a"].Status)
	assert.Equal(t, domain.JobStatusCompleted, res["b"].Status)
	assert.Equal(t, domain.JobStatusError, res["../etc"].Status)
	assert.NotEmpty(t, res["../etc"].Error)
	assert.Equal(t, domain.JobStatusProcessing, res["x5"].Status)
	assert.Equal(t, 20, s.MaxBatch())
}

func TestStatusService_Batch_Throttled(t *testing.T) {
	store := memory.NewStore()
	s := NewStatusService(store, NewResolver(fsstore.NewStore(t.TempDir())), StatusConfig{BatchMaxItems: 5, Fanout: 2, ChecksPerSecond: 1000})

	res, err := s.Batch(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	assert.Len(t, res, 5)
}
