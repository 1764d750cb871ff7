package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/logger"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultSettle = 2 * time.Second

// Watcher dispatches video files that appear under <input>/pending, the
// local counterpart of an object-created trigger. A file is submitted once
// no write to it has been seen for the settle period.
type Watcher struct {
	pendingDir string
	submitter  Submitter
	settle     time.Duration
	log        zerolog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewWatcher(inputDir string, submitter Submitter) *Watcher {
	return &Watcher{
		pendingDir: filepath.Join(inputDir, "pending"),
		submitter:  submitter,
		settle:     defaultSettle,
		log:        logger.WithComponent("watcher"),
		timers:     make(map[string]*time.Timer),
	}
}

func (w *Watcher) dirs() []string {
	return []string{
		w.pendingDir,
		filepath.Join(w.pendingDir, string(domain.OrientationLandscape)),
		filepath.Join(w.pendingDir, string(domain.OrientationPortrait)),
	}
}

// Run blocks until ctx is done. Files already waiting are submitted first.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	for _, dir := range w.dirs() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.log.Info().Str("dir", w.pendingDir).Msg("watching for new sources")

	w.scanExisting(ctx)

	ready := make(chan string, 16)
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				w.schedule(ctx, ev.Name, ready)
			}
		case path := <-ready:
			w.submit(ctx, path)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func isCandidate(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return domain.MIMEFromExtension(base) != ""
}

// schedule (re)arms the settle timer of path.
func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	if !isCandidate(path) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

func (w *Watcher) scanExisting(ctx context.Context) {
	for _, dir := range w.dirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			w.log.Warn().Err(err).Str("dir", dir).Msg("could not scan pending directory")
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if isCandidate(path) {
				w.submit(ctx, path)
			}
		}
	}
}

func (w *Watcher) submit(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	videoID := domain.VideoIDFromPath(path)
	log := w.log.With().Str("video_id", logger.SanitizeForLog(videoID)).Logger()

	_, err = w.submitter.Submit(ctx, videoID, path)
	switch {
	case errors.Is(err, domain.ErrJobExists):
		log.Debug().Msg("source already has a job")
	case err != nil:
		log.Error().Err(err).Msg("could not dispatch source")
	default:
		log.Info().Str("path", logger.SanitizeForLog(path)).Msg("source dispatched")
	}
}
