package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendCeiling(t *testing.T) {
	tests := []struct {
		name string
		snap CapabilitySnapshot
		want string
	}{
		{"baseline only caps at lowest tier", CapabilitySnapshot{H264Baseline: true}, "360p"},
		{"main without high caps at mid tier", CapabilitySnapshot{H264Baseline: true, H264Main: true}, "480p"},
		{"high profile defers to adaptive", CapabilitySnapshot{H264Baseline: true, H264Main: true, H264High: true}, CeilingAuto},
		{"no h264 information defers to adaptive", CapabilitySnapshot{}, CeilingAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecommendCeiling(tt.snap, StandardLadder))
		})
	}
}

func TestCapPlaylist(t *testing.T) {
	assert.Equal(t, []string{"360p", "480p"}, CapPlaylist(StandardLadder, "480p").Names())
	assert.Len(t, CapPlaylist(StandardLadder, CeilingAuto), 4)
	assert.Len(t, CapPlaylist(StandardLadder, "unknown"), 4)
}

func TestCapabilitySnapshot_CanPlayHLS(t *testing.T) {
	assert.True(t, CapabilitySnapshot{NativeHLS: true}.CanPlayHLS())
	assert.True(t, CapabilitySnapshot{MSE: true}.CanPlayHLS())
	assert.False(t, CapabilitySnapshot{H264High: true}.CanPlayHLS())
}
