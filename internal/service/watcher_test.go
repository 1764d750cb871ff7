package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Run(t *testing.T) {
	in := t.TempDir()
	existing := filepath.Join(in, "pending", "early.mp4")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0755))
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0644))

	sub := &fakeSubmitter{}
	w := NewWatcher(in, sub)
	w.settle = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return len(sub.submitted()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, submission{videoID: "early", inputURI: existing}, sub.submitted()[0])

	landscape := filepath.Join(in, "pending", "landscape", "intro.mov")
	require.NoError(t, os.WriteFile(filepath.Join(in, "pending", "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "pending", ".partial.mp4"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(landscape, []byte("x"), 0644))

	require.Eventually(t, func() bool { return len(sub.submitted()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, submission{videoID: "intro", inputURI: landscape}, sub.submitted()[1])

	time.Sleep(4 * w.settle)
	assert.Len(t, sub.submitted(), 2, "ignored files and repeated writes are not submitted")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestIsCandidate(t *testing.T) {
	assert.True(t, isCandidate("/in/pending/a.mp4"))
	assert.True(t, isCandidate("/in/pending/portrait/A.MKV"))
	assert.False(t, isCandidate("/in/pending/.a.mp4"))
	assert.False(t, isCandidate("/in/pending/a.part"))
}
