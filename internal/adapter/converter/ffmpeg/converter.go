package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
)

var (
	ErrEmptyPath   = errors.New("path is empty")
	ErrInvalidPath = errors.New("path contains invalid characters")
)

// stderrTail bounds how much ffmpeg output is kept in error messages.
const stderrTail = 2048

// runFunc executes a binary and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

type Converter struct {
	ffmpegBin  string
	ffprobeBin string
	run        runFunc
}

type Option func(*Converter)

func WithBinaries(ffmpeg, ffprobe string) Option {
	return func(c *Converter) {
		c.ffmpegBin = ffmpeg
		c.ffprobeBin = ffprobe
	}
}

func NewConverter(opts ...Option) *Converter {
	c := &Converter{ffmpegBin: "ffmpeg", ffprobeBin: "ffprobe", run: execRun}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > stderrTail {
			msg = msg[len(msg)-stderrTail:]
		}
		if msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// validatePath rejects paths that cannot be handed to ffmpeg safely.
func validatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(path, 0) {
		return ErrInvalidPath
	}
	return nil
}

func (c *Converter) Probe(ctx context.Context, inputPath string) (*domain.ProbeResult, error) {
	if err := validatePath(inputPath); err != nil {
		return nil, fmt.Errorf("invalid input path: %w", err)
	}
	out, err := c.run(ctx, c.ffprobeBin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return ParseProbeJSON(out)
}

// ParseProbeJSON decodes ffprobe output and requires a sized video stream.
func ParseProbeJSON(data []byte) (*domain.ProbeResult, error) {
	var result domain.ProbeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	result.RawJSON = string(data)
	if result.VideoStream() == nil {
		return nil, fmt.Errorf("no video stream found")
	}
	if w, h := result.Dimensions(); w <= 0 || h <= 0 {
		return nil, fmt.Errorf("video stream has no dimensions")
	}
	return &result, nil
}

var _ port.MediaConverter = (*Converter)(nil)
