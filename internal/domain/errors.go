package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidTransition = errors.New("invalid job status transition")
	ErrBatchTooLarge     = errors.New("batch exceeds maximum item count")
	ErrEmptyLadder       = errors.New("no ladder tier fits the source resolution")
	ErrTopicMissing      = errors.New("dispatch topic does not exist")
	ErrNoRenditions      = errors.New("no rendition completed successfully")
	ErrJobExists         = errors.New("video already has a started or finished job")
)

// ValidationError rejects an upload before any network I/O happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DispatchError means the trigger itself failed and the job never started.
// Re-dispatching is safe.
type DispatchError struct {
	Strategy Strategy
	VideoID  string
	Err      error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s via %s: %v", e.VideoID, e.Strategy, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// RenditionEncodeError carries the profile whose encode failed.
type RenditionEncodeError struct {
	Profile string
	Err     error
}

func (e *RenditionEncodeError) Error() string {
	return fmt.Sprintf("encode rendition %s: %v", e.Profile, e.Err)
}

func (e *RenditionEncodeError) Unwrap() error { return e.Err }

// TimeoutError is raised client-side when polling gives up. The server job may
// still be running.
type TimeoutError struct {
	VideoID  string
	Attempts int
	Elapsed  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("video %s still not terminal after %d status checks (%s)", e.VideoID, e.Attempts, e.Elapsed)
}
