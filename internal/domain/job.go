package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
	// JobStatusReady is accepted from status endpoints as a synonym for completed.
	JobStatusReady JobStatus = "ready"
)

func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusError || s == JobStatusReady
}

var allowedTransitions = map[JobStatus][]JobStatus{
	JobStatusQueued:     {JobStatusProcessing},
	JobStatusProcessing: {JobStatusCompleted, JobStatusError},
}

func CanTransition(from, to JobStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TaskStatus tracks a single rendition or poster task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskSucceeded TaskStatus = "succeeded"
	TaskFailed    TaskStatus = "failed"
)

func (s TaskStatus) Settled() bool {
	return s == TaskSucceeded || s == TaskFailed
}

type Orientation string

const (
	OrientationNone      Orientation = ""
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
)

func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(s) {
	case OrientationNone, OrientationLandscape, OrientationPortrait:
		return Orientation(s), nil
	default:
		return "", fmt.Errorf("unknown orientation %q", s)
	}
}

type RenditionJob struct {
	Profile   QualityProfile `json:"profile"`
	OutputDir string         `json:"outputDir"`
	Status    TaskStatus     `json:"status"`
	Error     string         `json:"error,omitempty"`
}

type PosterJob struct {
	Path   string     `json:"path"`
	Status TaskStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// TranscodeJob is the aggregate for one source video. It is created when a
// dispatch is accepted and is only mutated by the encode pipeline.
type TranscodeJob struct {
	VideoID     string         `json:"videoId"`
	InputURI    string         `json:"inputUri"`
	Orientation Orientation    `json:"orientation,omitempty"`
	Status      JobStatus      `json:"status"`
	Error       string         `json:"error,omitempty"`
	Width       int            `json:"width,omitempty"`
	Height      int            `json:"height,omitempty"`
	FrameRate   float64        `json:"frameRate,omitempty"`
	Duration    float64        `json:"durationSeconds,omitempty"`
	Renditions  []RenditionJob `json:"renditions"`
	Poster      PosterJob      `json:"poster"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

func NewTranscodeJob(videoID, inputURI string, orientation Orientation, now time.Time) *TranscodeJob {
	return &TranscodeJob{
		VideoID:     videoID,
		InputURI:    inputURI,
		Orientation: orientation,
		Status:      JobStatusQueued,
		Poster:      PosterJob{Status: TaskPending},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Transition moves the job along queued -> processing -> completed|error.
// Terminal states are final.
func (j *TranscodeJob) Transition(to JobStatus, now time.Time) error {
	if !CanTransition(j.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, to)
	}
	j.Status = to
	j.UpdatedAt = now
	if to.IsTerminal() {
		t := now
		j.CompletedAt = &t
	}
	return nil
}

// Fail moves a processing job to error with the given cause. It is a no-op
// when the job is already terminal, so only the first failure is recorded.
func (j *TranscodeJob) Fail(cause error, now time.Time) bool {
	if j.Status.IsTerminal() {
		return false
	}
	if j.Status == JobStatusQueued {
		j.Status = JobStatusProcessing
	}
	if err := j.Transition(JobStatusError, now); err != nil {
		return false
	}
	j.Error = cause.Error()
	return true
}

// Plan replaces the rendition list with one pending task per profile.
func (j *TranscodeJob) Plan(profiles Ladder, root string) {
	j.Renditions = make([]RenditionJob, len(profiles))
	for i, p := range profiles {
		j.Renditions[i] = RenditionJob{
			Profile:   p,
			OutputDir: filepath.Join(root, p.Name),
			Status:    TaskPending,
		}
	}
	j.Poster = PosterJob{Path: filepath.Join(root, "thumbnails", "poster.jpg"), Status: TaskPending}
}

func (j *TranscodeJob) Rendition(name string) *RenditionJob {
	for i := range j.Renditions {
		if j.Renditions[i].Profile.Name == name {
			return &j.Renditions[i]
		}
	}
	return nil
}

// DeriveStatus computes the aggregate status from child tasks: completed iff
// the poster and every rendition succeeded, error if any child failed,
// processing otherwise.
func (j *TranscodeJob) DeriveStatus() JobStatus {
	if j.Poster.Status == TaskFailed {
		return JobStatusError
	}
	for _, r := range j.Renditions {
		if r.Status == TaskFailed {
			return JobStatusError
		}
	}
	if len(j.Renditions) == 0 || j.Poster.Status != TaskSucceeded {
		return JobStatusProcessing
	}
	for _, r := range j.Renditions {
		if r.Status != TaskSucceeded {
			return JobStatusProcessing
		}
	}
	return JobStatusCompleted
}

// Percentage is the share of settled tasks (renditions plus poster).
func (j *TranscodeJob) Percentage() int {
	if j.Status == JobStatusCompleted {
		return 100
	}
	if len(j.Renditions) == 0 {
		return 0
	}
	total := len(j.Renditions) + 1
	settled := 0
	for _, r := range j.Renditions {
		if r.Status.Settled() {
			settled++
		}
	}
	if j.Poster.Status.Settled() {
		settled++
	}
	return settled * 100 / total
}

func (j *TranscodeJob) InFlightProfiles() []string {
	var names []string
	for _, r := range j.Renditions {
		if r.Status == TaskRunning {
			names = append(names, r.Profile.Name)
		}
	}
	return names
}

// SucceededProfiles lists the profiles that finished, in ladder order.
func (j *TranscodeJob) SucceededProfiles() Ladder {
	var out Ladder
	for _, r := range j.Renditions {
		if r.Status == TaskSucceeded {
			out = append(out, r.Profile)
		}
	}
	return out
}

func (j *TranscodeJob) Clone() *TranscodeJob {
	c := *j
	c.Renditions = append([]RenditionJob(nil), j.Renditions...)
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// Report renders the externally visible status of the job.
func (j *TranscodeJob) Report() StatusReport {
	r := StatusReport{VideoID: j.VideoID, Status: j.Status, Error: j.Error}
	if j.Status == JobStatusProcessing {
		pct := j.Percentage()
		r.Percentage = &pct
		r.Profiles = j.InFlightProfiles()
	}
	if j.Orientation != OrientationNone {
		hasPortrait := j.Orientation == OrientationPortrait
		r.HasPortrait = &hasPortrait
	}
	return r
}

// JobKey addresses a job in a JobStore. Oriented jobs of the same video are
// stored side by side.
func JobKey(videoID string, o Orientation) string {
	if o == OrientationNone {
		return videoID
	}
	return videoID + ":" + string(o)
}

func (j *TranscodeJob) Key() string {
	return JobKey(j.VideoID, j.Orientation)
}

// OrientationFromPath reads the orientation from the input's parent
// directory, e.g. pending/portrait/intro.mp4.
func OrientationFromPath(p string) Orientation {
	switch Orientation(filepath.Base(filepath.Dir(p))) {
	case OrientationLandscape:
		return OrientationLandscape
	case OrientationPortrait:
		return OrientationPortrait
	}
	return OrientationNone
}

// OutputPrefix is the object key prefix a job publishes under.
func OutputPrefix(videoID string, o Orientation) string {
	if o == OrientationNone {
		return "videos/" + videoID
	}
	return "videos/" + videoID + "/" + string(o)
}
