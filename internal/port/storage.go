package port

import (
	"context"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
)

// JobStore holds transcode jobs keyed by video id. Get returns
// domain.ErrNotFound for unknown ids.
type JobStore interface {
	Get(ctx context.Context, videoID string) (*domain.TranscodeJob, error)
	Set(ctx context.Context, job *domain.TranscodeJob) error
	Delete(ctx context.Context, videoID string) error
}

// ObjectStore is the read side of the published artifact tree. Keys are
// slash separated and relative to the output root.
type ObjectStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	// HasSuffix reports whether any object under prefix ends with suffix.
	HasSuffix(ctx context.Context, prefix, suffix string) (bool, error)
}

type SnapshotStore interface {
	Load() (*domain.CapabilitySnapshot, error)
	Save(s *domain.CapabilitySnapshot) error
}
