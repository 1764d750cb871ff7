package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/logger"
	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Submitter interface {
	Submit(ctx context.Context, videoID, inputURI string) (domain.Strategy, error)
}

type UploadRequest struct {
	Filename    string
	Size        int64
	MIME        string
	Orientation domain.Orientation
	Body        io.Reader
}

type UploadResult struct {
	VideoID  string          `json:"videoId"`
	InputURI string          `json:"inputUri"`
	Strategy domain.Strategy `json:"strategy,omitempty"`
}

// UploadService stores sources under <input>/pending and dispatches them.
// With a nil submitter the input watcher is expected to pick files up.
type UploadService struct {
	inputDir    string
	constraints domain.UploadConstraints
	submitter   Submitter
	newID       func() string
	log         zerolog.Logger
}

func NewUploadService(inputDir string, constraints domain.UploadConstraints, submitter Submitter) *UploadService {
	return &UploadService{
		inputDir:    inputDir,
		constraints: constraints,
		submitter:   submitter,
		newID:       uuid.NewString,
		log:         logger.WithComponent("upload"),
	}
}

func (s *UploadService) Constraints() domain.UploadConstraints {
	return s.constraints
}

func (s *UploadService) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if err := s.constraints.Validate(req.Size, req.MIME); err != nil {
		return nil, err
	}
	if _, err := domain.ParseOrientation(string(req.Orientation)); err != nil {
		return nil, &domain.ValidationError{Field: "orientation", Reason: err.Error()}
	}

	videoID := s.newID()
	dir := filepath.Join(s.inputDir, "pending", string(req.Orientation))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create pending directory: %w", err)
	}
	path := filepath.Join(dir, domain.SourceObjectName(videoID, req.Filename))

	if err := s.store(path, req); err != nil {
		return nil, err
	}

	log := s.log.With().Str("video_id", videoID).Str("filename", logger.SanitizeForLog(req.Filename)).Logger()
	log.Info().Int64("size", req.Size).Str("mime", req.MIME).Msg("upload stored")

	result := &UploadResult{VideoID: videoID, InputURI: path}
	if s.submitter == nil {
		return result, nil
	}
	strategy, err := s.submitter.Submit(ctx, videoID, path)
	result.Strategy = strategy
	if err != nil {
		return result, err
	}
	return result, nil
}

// store writes the body atomically so a watcher never sees a partial file.
// The body may not exceed the declared size.
func (s *UploadService) store(path string, req UploadRequest) error {
	f, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644))
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	defer func() { _ = f.Cleanup() }()

	n, err := io.Copy(f, io.LimitReader(req.Body, req.Size+1))
	if err != nil {
		return fmt.Errorf("write upload: %w", err)
	}
	if n != req.Size {
		return &domain.ValidationError{Field: "size", Reason: fmt.Sprintf("declared %d bytes, received %d", req.Size, n)}
	}
	if err := f.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("commit upload: %w", err)
	}
	return nil
}
