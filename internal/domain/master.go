package domain

import (
	"fmt"
	"strings"
)

type MasterEntry struct {
	Profile   QualityProfile
	Bandwidth int
	URI       string
}

// MasterPlaylist is the multivariant manifest of one video.
type MasterPlaylist struct {
	Entries []MasterEntry
}

// ComposeMaster builds the master playlist from the succeeded renditions,
// ordered by their position in the ladder regardless of completion order.
func ComposeMaster(ladder Ladder, succeeded Ladder) (*MasterPlaylist, error) {
	done := make(map[string]bool, len(succeeded))
	for _, p := range succeeded {
		done[p.Name] = true
	}

	m := &MasterPlaylist{}
	for _, p := range ladder {
		if !done[p.Name] {
			continue
		}
		delete(done, p.Name)
		m.Entries = append(m.Entries, MasterEntry{
			Profile:   p,
			Bandwidth: p.Bandwidth(),
			URI:       "../" + p.Name + "/playlist.m3u8",
		})
	}
	for _, p := range succeeded {
		if done[p.Name] {
			return nil, fmt.Errorf("rendition %s is not part of the ladder", p.Name)
		}
	}
	if len(m.Entries) == 0 {
		return nil, ErrNoRenditions
	}
	return m, nil
}

// Render writes the playlist in HLS version 6 syntax. Rendition URIs are
// relative to the manifest/ directory.
func (m *MasterPlaylist) Render() string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	b.WriteString("#EXT-X-VERSION:6\n")
	b.WriteString("#EXT-X-INDEPENDENT-SEGMENTS\n")
	for _, e := range m.Entries {
		b.WriteString("\n")
		fmt.Fprintf(&b, "#EXT-X-STREAM-INF:BANDWIDTH=%d,RESOLUTION=%s", e.Bandwidth, e.Profile.Resolution())
		if e.Profile.FPS > 0 {
			fmt.Fprintf(&b, ",FRAME-RATE=%d.000", e.Profile.FPS)
		}
		b.WriteString("\n")
		b.WriteString(e.URI)
		b.WriteString("\n")
	}
	return b.String()
}
