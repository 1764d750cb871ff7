package main

import (
	"os"
	"path/filepath"

	"github.com/IA-Ben/ode-islands-transcoder/internal/adapter/storage/jsonfile"
	"github.com/IA-Ben/ode-islands-transcoder/internal/client"
	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/spf13/cobra"
)

func newCapabilitiesCmd() *cobra.Command {
	var (
		userAgent string
		ladder    string
		dir       string
		refresh   bool
	)
	cmd := &cobra.Command{
		Use:   "capabilities",
		Short: "Probe codec support and show the playlist a player should offer",
		Long: "Probe codec support once and store the snapshot; later runs reuse it. " +
			"Without --user-agent the local player is assumed to decode every H.264 profile.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := domain.LadderByName(ladder)
			if err != nil {
				return err
			}
			if dir == "" {
				base, err := os.UserCacheDir()
				if err != nil {
					return err
				}
				dir = filepath.Join(base, "vodctl")
			}
			store, err := jsonfile.NewSnapshotStore(dir)
			if err != nil {
				return err
			}

			var prober client.CodecProber = client.StaticProber{Snapshot: domain.CapabilitySnapshot{
				H264Baseline: true,
				H264Main:     true,
				H264High:     true,
				AAC:          true,
				NativeHLS:    true,
			}}
			if userAgent != "" {
				prober = client.UserAgentProber{UserAgent: userAgent}
			}

			detector := client.NewDetector(prober, store, l)
			detect := detector.Detect
			if refresh || userAgent != "" {
				detect = detector.Refresh
			}
			snap, err := detect()
			if err != nil {
				return err
			}

			var tiers []string
			for _, p := range detector.Playlist(snap) {
				tiers = append(tiers, p.Name)
			}
			return printJSON(cmd.OutOrStdout(), struct {
				domain.CapabilitySnapshot
				CanPlayHLS bool     `json:"canPlayHls"`
				Playlist   []string `json:"playlist"`
				Snapshot   string   `json:"snapshotPath"`
			}{snap, snap.CanPlayHLS(), tiers, store.Path()})
		},
	}
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "infer support from a browser user agent (always re-probes)")
	cmd.Flags().StringVar(&ladder, "ladder", "standard", "ladder the playlist is cut from (standard or extended)")
	cmd.Flags().StringVar(&dir, "dir", "", "snapshot directory (default user cache dir)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "probe again even if a snapshot exists")
	return cmd
}
