package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeMaster_LadderOrderNotCompletionOrder(t *testing.T) {
	completionOrder := Ladder{StandardLadder[3], StandardLadder[0], StandardLadder[2], StandardLadder[1]}

	m, err := ComposeMaster(StandardLadder, completionOrder)
	require.NoError(t, err)
	require.Len(t, m.Entries, 4)
	for i, e := range m.Entries {
		assert.Equal(t, StandardLadder[i].Name, e.Profile.Name)
		assert.Equal(t, StandardLadder[i].Bandwidth(), e.Bandwidth)
	}
}

func TestComposeMaster_FullHDRender(t *testing.T) {
	m, err := ComposeMaster(StandardLadder, StandardLadder.Applicable(1920, 1080))
	require.NoError(t, err)

	want := "#EXTM3U\n" +
		"#EXT-X-VERSION:6\n" +
		"#EXT-X-INDEPENDENT-SEGMENTS\n" +
		"\n#EXT-X-STREAM-INF:BANDWIDTH=664000,RESOLUTION=640x360\n../360p/playlist.m3u8\n" +
		"\n#EXT-X-STREAM-INF:BANDWIDTH=1096000,RESOLUTION=854x480\n../480p/playlist.m3u8\n" +
		"\n#EXT-X-STREAM-INF:BANDWIDTH=2628000,RESOLUTION=1280x720\n../720p/playlist.m3u8\n" +
		"\n#EXT-X-STREAM-INF:BANDWIDTH=5192000,RESOLUTION=1920x1080\n../1080p/playlist.m3u8\n"
	assert.Equal(t, want, m.Render())
}

func TestComposeMaster_SingleTierSource(t *testing.T) {
	m, err := ComposeMaster(StandardLadder, StandardLadder.Applicable(640, 360))
	require.NoError(t, err)

	out := m.Render()
	assert.Equal(t, 1, strings.Count(out, "#EXT-X-STREAM-INF"))
	assert.Contains(t, out, "../360p/playlist.m3u8")
}

func TestComposeMaster_NothingSucceeded(t *testing.T) {
	m, err := ComposeMaster(StandardLadder, nil)
	assert.Nil(t, m)
	assert.True(t, errors.Is(err, ErrNoRenditions))
}

func TestComposeMaster_UnknownProfile(t *testing.T) {
	_, err := ComposeMaster(StandardLadder, Ladder{{Name: "999p"}})
	assert.Error(t, err)
}

func TestComposeMaster_FrameRateAttribute(t *testing.T) {
	m, err := ComposeMaster(ExtendedLadder, Ladder{ExtendedLadder.Applicable(1280, 720)[5], ExtendedLadder[6]})
	require.NoError(t, err)
	out := m.Render()
	assert.Contains(t, out, "RESOLUTION=1280x720\n")
	assert.Contains(t, out, "RESOLUTION=1280x720,FRAME-RATE=60.000\n")
}
