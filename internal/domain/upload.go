package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// UploadConstraints bound what a client may submit for transcoding.
type UploadConstraints struct {
	MaxSizeBytes int64
	AllowedMIME  map[string]bool
}

const DefaultMaxUploadBytes int64 = 2 << 30

var DefaultAllowedMIME = map[string]bool{
	"video/mp4":        true,
	"video/quicktime":  true,
	"video/webm":       true,
	"video/x-matroska": true,
	"video/x-msvideo":  true,
	"video/mpeg":       true,
}

func DefaultUploadConstraints() UploadConstraints {
	return UploadConstraints{MaxSizeBytes: DefaultMaxUploadBytes, AllowedMIME: DefaultAllowedMIME}
}

// Validate checks size and declared MIME type.
func (c UploadConstraints) Validate(size int64, mime string) error {
	if size <= 0 {
		return &ValidationError{Field: "size", Reason: "file is empty"}
	}
	if c.MaxSizeBytes > 0 && size > c.MaxSizeBytes {
		return &ValidationError{Field: "size", Reason: fmt.Sprintf("%d bytes exceeds limit of %d", size, c.MaxSizeBytes)}
	}
	mime = strings.ToLower(strings.TrimSpace(strings.SplitN(mime, ";", 2)[0]))
	if !c.AllowedMIME[mime] {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("%q is not an accepted video type", mime)}
	}
	return nil
}

var extensionMIME = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mpg":  "video/mpeg",
	".mpeg": "video/mpeg",
}

// MIMEFromExtension guesses a source container type from a file name.
func MIMEFromExtension(name string) string {
	return extensionMIME[strings.ToLower(filepath.Ext(name))]
}

// VideoIDFromPath derives a video id from an input object name by dropping
// the directory and extension.
func VideoIDFromPath(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SourceObjectName names a stored upload after its video id, keeping the
// original extension when it is a known video container.
func SourceObjectName(videoID, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if _, ok := extensionMIME[ext]; !ok {
		ext = ""
	}
	return videoID + ext
}
