package domain

import "time"

// CapabilitySnapshot records what a playback client can decode.
type CapabilitySnapshot struct {
	H264Baseline bool      `json:"h264Baseline"`
	H264Main     bool      `json:"h264Main"`
	H264High     bool      `json:"h264High"`
	AAC          bool      `json:"aac"`
	NativeHLS    bool      `json:"nativeHls"`
	MSE          bool      `json:"mse"`
	Ceiling      string    `json:"ceiling"`
	ProbedAt     time.Time `json:"probedAt"`
}

// CeilingAuto leaves tier selection to the adaptive player.
const CeilingAuto = "auto"

// RecommendCeiling maps decoder support to the highest tier worth offering.
// Baseline-only clients get the lowest tier, main-without-high clients get the
// mid tier, everything else is left to adaptive selection.
func RecommendCeiling(s CapabilitySnapshot, l Ladder) string {
	if len(l) == 0 {
		return CeilingAuto
	}
	switch {
	case s.H264High:
		return CeilingAuto
	case s.H264Main:
		return l.Mid().Name
	case s.H264Baseline:
		return l.Lowest().Name
	default:
		return CeilingAuto
	}
}

// CanPlayHLS is true when the client either plays HLS natively or can feed
// segments through Media Source Extensions.
func (s CapabilitySnapshot) CanPlayHLS() bool {
	return s.NativeHLS || s.MSE
}

// CapPlaylist filters a ladder to tiers at or below the ceiling.
func CapPlaylist(l Ladder, ceiling string) Ladder {
	if ceiling == CeilingAuto || ceiling == "" {
		return l
	}
	i := l.Index(ceiling)
	if i < 0 {
		return l
	}
	return l[:i+1]
}
