package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func plannedJob(t *testing.T) *TranscodeJob {
	t.Helper()
	j := NewTranscodeJob("vid1", "file:///in/pending/vid1.mp4", OrientationNone, t0)
	j.Plan(StandardLadder, "/out/videos/vid1")
	return j
}

func TestTranscodeJob_Transition(t *testing.T) {
	tests := []struct {
		name    string
		from    JobStatus
		to      JobStatus
		allowed bool
	}{
		{"queued to processing", JobStatusQueued, JobStatusProcessing, true},
		{"processing to completed", JobStatusProcessing, JobStatusCompleted, true},
		{"processing to error", JobStatusProcessing, JobStatusError, true},
		{"queued straight to completed", JobStatusQueued, JobStatusCompleted, false},
		{"queued straight to error", JobStatusQueued, JobStatusError, false},
		{"completed is final", JobStatusCompleted, JobStatusProcessing, false},
		{"error is final", JobStatusError, JobStatusCompleted, false},
		{"error cannot be requeued", JobStatusError, JobStatusQueued, false},
		{"processing backwards", JobStatusProcessing, JobStatusQueued, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := &TranscodeJob{Status: tt.from}
			err := j.Transition(tt.to, t0)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, j.Status)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidTransition))
			assert.Equal(t, tt.from, j.Status)
		})
	}
}

func TestTranscodeJob_TerminalSetsCompletedAt(t *testing.T) {
	j := plannedJob(t)
	require.NoError(t, j.Transition(JobStatusProcessing, t0))
	assert.Nil(t, j.CompletedAt)

	later := t0.Add(time.Minute)
	require.NoError(t, j.Transition(JobStatusCompleted, later))
	require.NotNil(t, j.CompletedAt)
	assert.Equal(t, later, *j.CompletedAt)
}

func TestTranscodeJob_FailRecordsFirstCauseOnly(t *testing.T) {
	j := plannedJob(t)
	require.NoError(t, j.Transition(JobStatusProcessing, t0))

	first := &RenditionEncodeError{Profile: "720p", Err: errors.New("exit status 1")}
	assert.True(t, j.Fail(first, t0))
	assert.False(t, j.Fail(errors.New("poster failed"), t0))

	assert.Equal(t, JobStatusError, j.Status)
	assert.Equal(t, first.Error(), j.Error)
}

func TestTranscodeJob_DeriveStatus(t *testing.T) {
	t.Run("all pending is processing", func(t *testing.T) {
		assert.Equal(t, JobStatusProcessing, plannedJob(t).DeriveStatus())
	})

	t.Run("all renditions but no poster is processing", func(t *testing.T) {
		j := plannedJob(t)
		for i := range j.Renditions {
			j.Renditions[i].Status = TaskSucceeded
		}
		assert.Equal(t, JobStatusProcessing, j.DeriveStatus())
	})

	t.Run("everything succeeded is completed", func(t *testing.T) {
		j := plannedJob(t)
		for i := range j.Renditions {
			j.Renditions[i].Status = TaskSucceeded
		}
		j.Poster.Status = TaskSucceeded
		assert.Equal(t, JobStatusCompleted, j.DeriveStatus())
	})

	t.Run("one failed rendition is error even if others run", func(t *testing.T) {
		j := plannedJob(t)
		j.Renditions[0].Status = TaskRunning
		j.Renditions[2].Status = TaskFailed
		assert.Equal(t, JobStatusError, j.DeriveStatus())
	})

	t.Run("failed poster is error", func(t *testing.T) {
		j := plannedJob(t)
		for i := range j.Renditions {
			j.Renditions[i].Status = TaskSucceeded
		}
		j.Poster.Status = TaskFailed
		assert.Equal(t, JobStatusError, j.DeriveStatus())
	})
}

func TestTranscodeJob_Progress(t *testing.T) {
	j := plannedJob(t)
	require.NoError(t, j.Transition(JobStatusProcessing, t0))
	assert.Equal(t, 0, j.Percentage())

	j.Rendition("360p").Status = TaskSucceeded
	j.Rendition("480p").Status = TaskRunning
	j.Rendition("720p").Status = TaskRunning
	j.Poster.Status = TaskSucceeded

	assert.Equal(t, 40, j.Percentage())
	assert.Equal(t, []string{"480p", "720p"}, j.InFlightProfiles())

	r := j.Report()
	require.NotNil(t, r.Percentage)
	assert.Equal(t, 40, *r.Percentage)
	assert.Equal(t, []string{"480p", "720p"}, r.Profiles)
	assert.Nil(t, r.HasPortrait)
}

func TestTranscodeJob_Plan(t *testing.T) {
	j := plannedJob(t)
	require.Len(t, j.Renditions, 4)
	assert.Equal(t, "/out/videos/vid1/1080p", j.Rendition("1080p").OutputDir)
	assert.Equal(t, "/out/videos/vid1/thumbnails/poster.jpg", j.Poster.Path)
	assert.Nil(t, j.Rendition("2160p"))
}

func TestTranscodeJob_CloneIsIndependent(t *testing.T) {
	j := plannedJob(t)
	c := j.Clone()
	c.Renditions[0].Status = TaskFailed
	assert.Equal(t, TaskPending, j.Renditions[0].Status)
}

func TestTranscodeJob_ReportOrientation(t *testing.T) {
	j := NewTranscodeJob("vid2", "in.mp4", OrientationPortrait, t0)
	r := j.Report()
	require.NotNil(t, r.HasPortrait)
	assert.True(t, *r.HasPortrait)
	assert.Nil(t, r.Percentage)
}

func TestOrientationFromPath(t *testing.T) {
	assert.Equal(t, OrientationPortrait, OrientationFromPath("/in/pending/portrait/intro.mp4"))
	assert.Equal(t, OrientationLandscape, OrientationFromPath("file:///in/pending/landscape/intro.mp4"))
	assert.Equal(t, OrientationNone, OrientationFromPath("/in/pending/intro.mp4"))
}

func TestJobKeyAndPrefix(t *testing.T) {
	assert.Equal(t, "intro", JobKey("intro", OrientationNone))
	assert.Equal(t, "intro:portrait", JobKey("intro", OrientationPortrait))
	assert.Equal(t, "videos/intro", OutputPrefix("intro", OrientationNone))
	assert.Equal(t, "videos/intro/landscape", OutputPrefix("intro", OrientationLandscape))
}
