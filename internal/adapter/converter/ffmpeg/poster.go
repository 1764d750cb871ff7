package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const smallPosterWidth = 320

// ExtractPoster grabs a frame one second in, checks that it decodes and
// writes a small companion thumbnail next to it.
func (c *Converter) ExtractPoster(ctx context.Context, inputPath, outputPath string) error {
	if err := validatePath(inputPath); err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	if err := validatePath(outputPath); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create poster dir: %w", err)
	}

	_, err := c.run(ctx, c.ffmpegBin,
		"-hide_banner", "-y",
		"-ss", "00:00:01",
		"-i", inputPath,
		"-vframes", "1",
		"-q:v", "2",
		outputPath,
	)
	if err != nil {
		return err
	}
	return writeSmallPoster(outputPath)
}

func smallPosterPath(posterPath string) string {
	ext := filepath.Ext(posterPath)
	return strings.TrimSuffix(posterPath, ext) + "_small" + ext
}

func writeSmallPoster(posterPath string) error {
	img, err := imaging.Open(posterPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("poster is not a readable image: %w", err)
	}
	thumb := imaging.Resize(img, smallPosterWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, smallPosterPath(posterPath), imaging.JPEGQuality(80)); err != nil {
		return fmt.Errorf("save small poster: %w", err)
	}
	return nil
}
