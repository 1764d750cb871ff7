package domain

import "fmt"

// QualityProfile is one rung of the encoding ladder. Bitrates are in kbit/s.
type QualityProfile struct {
	Name             string `json:"name"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	VideoBitrateKbps int    `json:"videoBitrateKbps"`
	AudioBitrateKbps int    `json:"audioBitrateKbps"`
	MaxBitrateKbps   int    `json:"maxBitrateKbps"`
	BufferSizeKbps   int    `json:"bufferSizeKbps"`
	H264Profile      string `json:"h264Profile"`
	Level            string `json:"level"`
	FPS              int    `json:"fps,omitempty"`
}

// Bandwidth is the BANDWIDTH attribute advertised in the master playlist, in bit/s.
func (p QualityProfile) Bandwidth() int {
	return p.VideoBitrateKbps*1000 + p.AudioBitrateKbps*1000
}

func (p QualityProfile) Resolution() string {
	return fmt.Sprintf("%dx%d", p.Width, p.Height)
}

// FitsWithin reports whether the profile can be produced from a source of the
// given dimensions without upscaling.
func (p QualityProfile) FitsWithin(width, height int) bool {
	return p.Width <= width && p.Height <= height
}

// Ladder is an ordered set of profiles, lowest tier first.
type Ladder []QualityProfile

var StandardLadder = Ladder{
	{Name: "360p", Width: 640, Height: 360, VideoBitrateKbps: 600, AudioBitrateKbps: 64, MaxBitrateKbps: 900, BufferSizeKbps: 1200, H264Profile: "baseline", Level: "3.1"},
	{Name: "480p", Width: 854, Height: 480, VideoBitrateKbps: 1000, AudioBitrateKbps: 96, MaxBitrateKbps: 1500, BufferSizeKbps: 2000, H264Profile: "main", Level: "3.1"},
	{Name: "720p", Width: 1280, Height: 720, VideoBitrateKbps: 2500, AudioBitrateKbps: 128, MaxBitrateKbps: 3750, BufferSizeKbps: 5000, H264Profile: "main", Level: "4.0"},
	{Name: "1080p", Width: 1920, Height: 1080, VideoBitrateKbps: 5000, AudioBitrateKbps: 192, MaxBitrateKbps: 7500, BufferSizeKbps: 10000, H264Profile: "high", Level: "4.0"},
}

// ExtendedLadder adds low-bandwidth, high-frame-rate and UHD tiers.
var ExtendedLadder = Ladder{
	{Name: "144p", Width: 256, Height: 144, VideoBitrateKbps: 100, AudioBitrateKbps: 32, MaxBitrateKbps: 150, BufferSizeKbps: 200, H264Profile: "baseline", Level: "3.0"},
	{Name: "240p", Width: 426, Height: 240, VideoBitrateKbps: 300, AudioBitrateKbps: 48, MaxBitrateKbps: 450, BufferSizeKbps: 600, H264Profile: "baseline", Level: "3.0"},
	{Name: "360p", Width: 640, Height: 360, VideoBitrateKbps: 600, AudioBitrateKbps: 64, MaxBitrateKbps: 900, BufferSizeKbps: 1200, H264Profile: "baseline", Level: "3.1"},
	{Name: "480p", Width: 854, Height: 480, VideoBitrateKbps: 1000, AudioBitrateKbps: 96, MaxBitrateKbps: 1500, BufferSizeKbps: 2000, H264Profile: "main", Level: "3.1"},
	{Name: "540p", Width: 960, Height: 540, VideoBitrateKbps: 1500, AudioBitrateKbps: 96, MaxBitrateKbps: 2250, BufferSizeKbps: 3000, H264Profile: "main", Level: "3.1"},
	{Name: "720p", Width: 1280, Height: 720, VideoBitrateKbps: 2500, AudioBitrateKbps: 128, MaxBitrateKbps: 3750, BufferSizeKbps: 5000, H264Profile: "main", Level: "4.0"},
	{Name: "720p60", Width: 1280, Height: 720, VideoBitrateKbps: 3500, AudioBitrateKbps: 128, MaxBitrateKbps: 5250, BufferSizeKbps: 7000, H264Profile: "main", Level: "4.2", FPS: 60},
	{Name: "1080p", Width: 1920, Height: 1080, VideoBitrateKbps: 5000, AudioBitrateKbps: 192, MaxBitrateKbps: 7500, BufferSizeKbps: 10000, H264Profile: "high", Level: "4.0"},
	{Name: "1080p60", Width: 1920, Height: 1080, VideoBitrateKbps: 7500, AudioBitrateKbps: 192, MaxBitrateKbps: 11250, BufferSizeKbps: 15000, H264Profile: "high", Level: "4.2", FPS: 60},
	{Name: "1440p", Width: 2560, Height: 1440, VideoBitrateKbps: 10000, AudioBitrateKbps: 192, MaxBitrateKbps: 15000, BufferSizeKbps: 20000, H264Profile: "high", Level: "5.0"},
	{Name: "2160p", Width: 3840, Height: 2160, VideoBitrateKbps: 20000, AudioBitrateKbps: 192, MaxBitrateKbps: 30000, BufferSizeKbps: 40000, H264Profile: "high", Level: "5.1"},
}

// LadderByName resolves a configured ladder name.
func LadderByName(name string) (Ladder, error) {
	switch name {
	case "", "standard":
		return StandardLadder, nil
	case "extended":
		return ExtendedLadder, nil
	default:
		return nil, fmt.Errorf("unknown ladder %q (supported: standard, extended)", name)
	}
}

// Applicable returns the profiles that fit inside the source dimensions, in ladder order.
func (l Ladder) Applicable(width, height int) Ladder {
	out := make(Ladder, 0, len(l))
	for _, p := range l {
		if p.FitsWithin(width, height) {
			out = append(out, p)
		}
	}
	return out
}

// ForFrameRate drops high frame rate tiers the source cannot feed. A source
// qualifies for an N fps tier from 5/6 of N upwards (50 fps for 60 fps
// tiers); an unknown rate keeps every tier.
func (l Ladder) ForFrameRate(fps float64) Ladder {
	if fps <= 0 {
		return l
	}
	out := make(Ladder, 0, len(l))
	for _, p := range l {
		if p.FPS > 0 && fps*6 < float64(p.FPS)*5 {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Index returns the ladder position of the named profile, or -1.
func (l Ladder) Index(name string) int {
	for i, p := range l {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (l Ladder) Names() []string {
	names := make([]string, len(l))
	for i, p := range l {
		names[i] = p.Name
	}
	return names
}

// Lowest returns the first tier. The ladder must not be empty.
func (l Ladder) Lowest() QualityProfile {
	return l[0]
}

// Mid returns the tier just below the middle of the ladder: 480p for the
// standard four-tier ladder.
func (l Ladder) Mid() QualityProfile {
	i := len(l)/2 - 1
	if i < 0 {
		i = 0
	}
	return l[i]
}

// EmptyLadderPolicy decides what happens when a source is smaller than every tier.
type EmptyLadderPolicy string

const (
	EmptyLadderFail        EmptyLadderPolicy = "fail"
	EmptyLadderForceLowest EmptyLadderPolicy = "force-lowest"
)

func ParseEmptyLadderPolicy(s string) (EmptyLadderPolicy, error) {
	switch EmptyLadderPolicy(s) {
	case "", EmptyLadderFail:
		return EmptyLadderFail, nil
	case EmptyLadderForceLowest:
		return EmptyLadderForceLowest, nil
	default:
		return "", fmt.Errorf("unknown empty ladder policy %q", s)
	}
}

// PlanRenditions selects the profiles to encode for a source. With the fail
// policy an undersized source yields ErrEmptyLadder; with force-lowest the
// lowest tier is encoded and upscaled.
func PlanRenditions(l Ladder, width, height int, policy EmptyLadderPolicy) (Ladder, error) {
	if len(l) == 0 {
		return nil, ErrEmptyLadder
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid source dimensions %dx%d", width, height)
	}
	plan := l.Applicable(width, height)
	if len(plan) > 0 {
		return plan, nil
	}
	if policy == EmptyLadderForceLowest {
		return Ladder{l.Lowest()}, nil
	}
	return nil, fmt.Errorf("source %dx%d: %w", width, height, ErrEmptyLadder)
}
