package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
)

const (
	segmentSeconds = 6
	// gopSize keeps keyframes aligned across renditions so every segment
	// starts with an IDR frame.
	gopSize        = 48
	audioRate      = 48000
	audioChannels  = 2
	playlistName   = "playlist.m3u8"
	segmentPattern = "segment_%03d.ts"
)

var segmentLine = regexp.MustCompile(`^segment_\d+\.ts$`)

func renditionArgs(inputPath, outputDir string, p domain.QualityProfile) []string {
	scale := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2", p.Width, p.Height, p.Width, p.Height)
	args := []string{
		"-hide_banner", "-y",
		"-i", inputPath,
		"-vf", scale,
		"-c:v", "libx264",
		"-profile:v", p.H264Profile,
		"-level", p.Level,
		"-preset", "fast",
		"-b:v", kbps(p.VideoBitrateKbps),
		"-maxrate", kbps(p.MaxBitrateKbps),
		"-bufsize", kbps(p.BufferSizeKbps),
		"-g", strconv.Itoa(gopSize),
		"-keyint_min", strconv.Itoa(gopSize),
		"-sc_threshold", "0",
	}
	if p.FPS > 0 {
		args = append(args, "-r", strconv.Itoa(p.FPS))
	}
	args = append(args,
		"-c:a", "aac",
		"-b:a", kbps(p.AudioBitrateKbps),
		"-ar", strconv.Itoa(audioRate),
		"-ac", strconv.Itoa(audioChannels),
		"-f", "hls",
		"-hls_time", strconv.Itoa(segmentSeconds),
		"-hls_playlist_type", "vod",
		"-hls_flags", "independent_segments",
		"-hls_list_size", "0",
		"-hls_segment_filename", filepath.Join(outputDir, segmentPattern),
		filepath.Join(outputDir, playlistName),
	)
	return args
}

func kbps(v int) string {
	return strconv.Itoa(v) + "k"
}

// EncodeRendition produces one HLS rendition and checks that every segment the
// playlist references was written.
func (c *Converter) EncodeRendition(ctx context.Context, inputPath, outputDir string, p domain.QualityProfile) error {
	if err := validatePath(inputPath); err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	if err := validatePath(outputDir); err != nil {
		return fmt.Errorf("invalid output dir: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create rendition dir: %w", err)
	}
	if _, err := c.run(ctx, c.ffmpegBin, renditionArgs(inputPath, outputDir, p)...); err != nil {
		return err
	}
	return VerifySegments(outputDir)
}

// VerifySegments reads <dir>/playlist.m3u8 and fails if it lists no segments
// or a listed segment is missing.
func VerifySegments(dir string) error {
	f, err := os.Open(filepath.Join(dir, playlistName))
	if err != nil {
		return fmt.Errorf("open playlist: %w", err)
	}
	defer func() { _ = f.Close() }()

	count := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !segmentLine.MatchString(line) {
			continue
		}
		count++
		if _, err := os.Stat(filepath.Join(dir, line)); err != nil {
			return fmt.Errorf("segment %s listed but missing: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read playlist: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("playlist %s lists no segments", filepath.Join(dir, playlistName))
	}
	return nil
}
