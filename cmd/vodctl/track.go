package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/client"
	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/spf13/cobra"
)

type pollFlags struct {
	interval     time.Duration
	maxAttempts  int
	playbackBase string
}

func (p *pollFlags) register(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&p.interval, "interval", 5*time.Second, "time between status checks")
	cmd.Flags().IntVar(&p.maxAttempts, "max-attempts", 60, "status checks before giving up")
	cmd.Flags().StringVar(&p.playbackBase, "playback-base", "", "base URL the playback URL is built on (default --server)")
}

func (p *pollFlags) config(server string, out io.Writer) client.PollerConfig {
	base := p.playbackBase
	if base == "" {
		base = server
	}
	return client.PollerConfig{
		Interval:     p.interval,
		MaxAttempts:  p.maxAttempts,
		PlaybackBase: base,
		OnProgress:   progressPrinter(out),
	}
}

// progressPrinter prints state changes and percentage moves only.
func progressPrinter(out io.Writer) func(client.Progress) {
	var lastState client.PollState
	lastPct := -1
	return func(p client.Progress) {
		pct := -1
		if p.Report != nil && p.Report.Percentage != nil {
			pct = *p.Report.Percentage
		}
		if p.State == lastState && pct == lastPct {
			return
		}
		lastState, lastPct = p.State, pct
		if pct >= 0 {
			fmt.Fprintf(out, "%-10s %s %3d%%\n", p.State, p.VideoID, pct)
			return
		}
		fmt.Fprintf(out, "%-10s %s\n", p.State, p.VideoID)
	}
}

func finish(cmd *cobra.Command, p *client.Poller) error {
	out, err := p.Wait(cmd.Context())
	if err != nil {
		p.Stop()
		out = p.Outcome()
	}
	switch out.State {
	case client.StateCompleted:
		fmt.Fprintln(cmd.OutOrStdout(), out.PlaybackURL)
		return nil
	default:
		if out.Err != nil {
			return out.Err
		}
		return fmt.Errorf("stopped while %s", out.State)
	}
}

func newUploadCmd(root *rootFlags) *cobra.Command {
	var (
		poll        pollFlags
		orientation string
		noWait      bool
	)
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a source video and follow it until it is playable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := domain.ParseOrientation(orientation)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}

			src := client.UploadSource{
				Filename:    filepath.Base(args[0]),
				Size:        info.Size(),
				MIME:        domain.MIMEFromExtension(args[0]),
				Orientation: o,
				Body:        f,
			}

			api := root.api()
			if noWait {
				if err := domain.DefaultUploadConstraints().Validate(src.Size, src.MIME); err != nil {
					return err
				}
				res, err := api.Upload(cmd.Context(), src)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			}

			p := client.NewPoller(api, poll.config(api.BaseURL(), cmd.ErrOrStderr()))
			if err := p.Start(cmd.Context(), src); err != nil {
				return err
			}
			return finish(cmd, p)
		},
	}
	poll.register(cmd)
	cmd.Flags().StringVar(&orientation, "orientation", "", "landscape or portrait for dual-layout sources")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "print the upload response and exit")
	return cmd
}

func newWaitCmd(root *rootFlags) *cobra.Command {
	var poll pollFlags
	cmd := &cobra.Command{
		Use:   "wait <video-id>",
		Short: "Poll an uploaded video until it completes, fails or times out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api := root.api()
			p := client.NewPoller(api, poll.config(api.BaseURL(), cmd.ErrOrStderr()))
			if err := p.Follow(cmd.Context(), args[0]); err != nil {
				return err
			}
			return finish(cmd, p)
		},
	}
	poll.register(cmd)
	return cmd
}
