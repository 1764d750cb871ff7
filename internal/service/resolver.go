package service

import (
	"context"
	"fmt"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
)

const segmentSuffix = ".ts"

// Resolver derives a video's status from the published artifact tree. Two
// layouts coexist: videos/<id>/{landscape,portrait}/... and the older
// single videos/<id>/manifest/master.m3u8.
type Resolver struct {
	objects port.ObjectStore
}

func NewResolver(objects port.ObjectStore) *Resolver {
	return &Resolver{objects: objects}
}

// Resolve checks the dual layout first, then the legacy one. Without any
// manifest the video is still processing.
func (r *Resolver) Resolve(ctx context.Context, videoID string) (domain.StatusReport, error) {
	report := domain.StatusReport{VideoID: videoID, Status: domain.JobStatusProcessing}

	dual, err := r.hasDualLayout(ctx, videoID)
	if err != nil {
		return report, err
	}
	if dual {
		hasPortrait := true
		report.HasPortrait = &hasPortrait
		ok, err := r.objects.HasSuffix(ctx, domain.OutputPrefix(videoID, domain.OrientationLandscape), segmentSuffix)
		if err != nil {
			return report, fmt.Errorf("list landscape segments: %w", err)
		}
		if ok {
			report.Status = domain.JobStatusCompleted
			report.Manifest = domain.ManifestPath(videoID, domain.OrientationLandscape)
		}
		return report, nil
	}

	legacy, err := r.objects.Exists(ctx, domain.MasterManifestPath(videoID))
	if err != nil {
		return report, fmt.Errorf("check legacy manifest: %w", err)
	}
	if legacy {
		hasPortrait := false
		report.HasPortrait = &hasPortrait
		ok, err := r.objects.HasSuffix(ctx, domain.OutputPrefix(videoID, domain.OrientationNone), segmentSuffix)
		if err != nil {
			return report, fmt.Errorf("list segments: %w", err)
		}
		if ok {
			report.Status = domain.JobStatusCompleted
			report.Manifest = domain.MasterManifestPath(videoID)
		}
	}
	return report, nil
}

func (r *Resolver) hasDualLayout(ctx context.Context, videoID string) (bool, error) {
	for _, o := range []domain.Orientation{domain.OrientationLandscape, domain.OrientationPortrait} {
		ok, err := r.objects.Exists(ctx, domain.ManifestPath(videoID, o))
		if err != nil {
			return false, fmt.Errorf("check %s manifest: %w", o, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

