// Command vodctl drives the transcoder from a shell: upload and follow a
// video, query status, trigger a dispatch and inspect playback capabilities.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/IA-Ben/ode-islands-transcoder/internal/client"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/logger"
	"github.com/spf13/cobra"
)

var version = "dev"

type rootFlags struct {
	server   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "vodctl",
		Short:         "Upload, track and inspect HLS transcodes",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.Configure(logger.Config{
				Level:   flags.logLevel,
				Output:  cmd.ErrOrStderr(),
				Service: "vodctl",
				Version: version,
			})
		},
	}

	server := os.Getenv("VOD_SERVER")
	if server == "" {
		server = "http://localhost:7890"
	}
	cmd.PersistentFlags().StringVar(&flags.server, "server", server, "transcoder base URL (env VOD_SERVER)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level for diagnostics on stderr")

	cmd.AddCommand(
		newUploadCmd(flags),
		newWaitCmd(flags),
		newStatusCmd(flags),
		newTriggerCmd(),
		newHealthCmd(flags),
		newCapabilitiesCmd(),
	)
	return cmd
}

func (f *rootFlags) api() *client.API {
	return client.NewAPI(f.server)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
