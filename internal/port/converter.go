package port

import (
	"context"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
)

type MediaConverter interface {
	Probe(ctx context.Context, inputPath string) (*domain.ProbeResult, error)
	// EncodeRendition writes <outputDir>/playlist.m3u8 and its segments.
	EncodeRendition(ctx context.Context, inputPath, outputDir string, profile domain.QualityProfile) error
	ExtractPoster(ctx context.Context, inputPath, outputPath string) error
}
