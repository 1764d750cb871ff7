package fsstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root, rel string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
}

func TestStore_Exists(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "videos/intro/manifest/master.m3u8")
	s := NewStore(root)
	ctx := context.Background()

	tests := []struct {
		name    string
		key     string
		want    bool
		wantErr error
	}{
		{name: "present", key: "videos/intro/manifest/master.m3u8", want: true},
		{name: "leading slash", key: "/videos/intro/manifest/master.m3u8", want: true},
		{name: "absent", key: "videos/other/manifest/master.m3u8"},
		{name: "directory is not an object", key: "videos/intro/manifest"},
		{name: "empty key", key: "", wantErr: ErrInvalidKey},
		{name: "escapes root", key: "../etc/passwd", wantErr: ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Exists(ctx, tt.key)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_HasSuffix(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "videos/intro/landscape/720p/segment_000.ts")
	touch(t, root, "videos/intro/portrait/manifest/master.m3u8")
	s := NewStore(root)
	ctx := context.Background()

	ok, err := s.HasSuffix(ctx, "videos/intro/landscape", ".ts")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasSuffix(ctx, "videos/intro/portrait", ".ts")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.HasSuffix(ctx, "videos/missing", ".ts")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_HasSuffix_Cancelled(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "videos/a/360p/segment_000.ts")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStore(root).HasSuffix(ctx, "videos/a", ".ts")
	assert.ErrorIs(t, err, context.Canceled)
}
