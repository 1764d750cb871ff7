package client

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/logger"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
	"github.com/rs/zerolog"
)

// CodecProber reports what the playback client can decode. Probing is
// synchronous and may be expensive; Detector runs it at most once.
type CodecProber interface {
	Probe() domain.CapabilitySnapshot
}

// StaticProber answers with fixed flags, for clients that know their own
// decoder support.
type StaticProber struct {
	Snapshot domain.CapabilitySnapshot
}

func (s StaticProber) Probe() domain.CapabilitySnapshot {
	return s.Snapshot
}

var (
	oldAndroid  = regexp.MustCompile(`Android [1-4]\.`)
	appleMobile = regexp.MustCompile(`iPhone|iPad|iPod`)
)

// UserAgentProber infers support from a browser user agent string.
type UserAgentProber struct {
	UserAgent string
}

func (u UserAgentProber) Probe() domain.CapabilitySnapshot {
	ua := u.UserAgent
	var s domain.CapabilitySnapshot

	isChromium := strings.Contains(ua, "Chrome/") || strings.Contains(ua, "Chromium/") || strings.Contains(ua, "Edg/")
	isFirefox := strings.Contains(ua, "Firefox/")
	isSafari := strings.Contains(ua, "Safari/") && !isChromium
	isAndroid := strings.Contains(ua, "Android")
	isApple := appleMobile.MatchString(ua)

	if !isChromium && !isFirefox && !isSafari && !isApple && !isAndroid {
		return s
	}

	s.H264Baseline = true
	s.AAC = true
	if oldAndroid.MatchString(ua) {
		return s
	}
	s.H264Main = true
	s.H264High = true

	switch {
	case isApple:
		s.NativeHLS = true
		s.MSE = strings.Contains(ua, "iPad")
	case isSafari:
		s.NativeHLS = true
		s.MSE = true
	case isAndroid:
		s.NativeHLS = true
		s.MSE = true
	default:
		s.MSE = true
	}
	return s
}

// Detector probes once and keeps the snapshot in a SnapshotStore, so
// later runs reuse it instead of probing again.
type Detector struct {
	prober CodecProber
	store  port.SnapshotStore
	ladder domain.Ladder
	now    func() time.Time
	log    zerolog.Logger
}

func NewDetector(prober CodecProber, store port.SnapshotStore, ladder domain.Ladder) *Detector {
	if len(ladder) == 0 {
		ladder = domain.StandardLadder
	}
	return &Detector{
		prober: prober,
		store:  store,
		ladder: ladder,
		now:    time.Now,
		log:    logger.WithComponent("client"),
	}
}

// Detect returns the stored snapshot, probing and saving one on first use.
// A snapshot that cannot be saved is still returned.
func (d *Detector) Detect() (domain.CapabilitySnapshot, error) {
	stored, err := d.store.Load()
	switch {
	case err == nil:
		return *stored, nil
	case !errors.Is(err, domain.ErrNotFound):
		d.log.Warn().Err(err).Msg("could not read capability snapshot, probing again")
	}
	return d.Refresh()
}

// Refresh probes unconditionally and replaces the stored snapshot.
func (d *Detector) Refresh() (domain.CapabilitySnapshot, error) {
	s := d.prober.Probe()
	s.Ceiling = domain.RecommendCeiling(s, d.ladder)
	s.ProbedAt = d.now().UTC()

	if err := d.store.Save(&s); err != nil {
		return s, fmt.Errorf("save capability snapshot: %w", err)
	}
	d.log.Debug().Str("ceiling", s.Ceiling).Bool("hls", s.CanPlayHLS()).Msg("capabilities probed")
	return s, nil
}

// Playlist is the ladder the player should offer under the snapshot's
// ceiling. It is advisory; nothing on the server enforces it.
func (d *Detector) Playlist(s domain.CapabilitySnapshot) domain.Ladder {
	return domain.CapPlaylist(d.ladder, s.Ceiling)
}
