package main

import (
	"context"
	"fmt"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/config"
	"github.com/IA-Ben/ode-islands-transcoder/internal/adapter/dispatch"
	"github.com/IA-Ben/ode-islands-transcoder/internal/client"
	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/logger"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/redisclient"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func newStatusCmd(root *rootFlags) *cobra.Command {
	var (
		ttl      time.Duration
		maxBatch int
	)
	cmd := &cobra.Command{
		Use:   "status <video-id>...",
		Short: "Show the status of one or more videos",
		Long:  "Show the status of one or more videos. Several ids are fetched in one batch request.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := client.NewStatusCache(root.api(), client.WithTTL(ttl), client.WithMaxBatch(maxBatch))
			if len(args) == 1 {
				report, err := cache.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			}
			reports, err := cache.GetBatch(cmd.Context(), args)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), reports)
		},
	}
	cmd.Flags().DurationVar(&ttl, "cache-ttl", client.DefaultCacheTTL, "status cache lifetime")
	cmd.Flags().IntVar(&maxBatch, "max-batch", client.DefaultMaxBatch, "largest batch the server accepts")
	return cmd
}

func newHealthCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the transcoder answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api := root.api()
			if err := api.Health(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s ok\n", api.BaseURL())
			return nil
		},
	}
}

// newTriggerCmd dispatches directly with the server's own configuration,
// bypassing the HTTP API. It does not record a job.
func newTriggerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trigger <video-id> <input-uri>",
		Short: "Dispatch a transcode using the configured strategy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			var rdb *redis.Client
			if cfg.Strategy() == domain.StrategyPubSub {
				rdb, err = redisclient.New(ctx, redisclient.Config{
					Addr:     cfg.Dispatch.RedisAddr,
					Password: cfg.Dispatch.RedisPassword,
					DB:       cfg.Dispatch.RedisDB,
				}, logger.WithComponent("vodctl"))
				if err != nil {
					return err
				}
				defer func() { _ = rdb.Close() }()
			}

			dispatcher, err := dispatch.New(cfg.Dispatch, rdb)
			if err != nil {
				return err
			}
			strategy, err := dispatcher.Trigger(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "dispatched %s via %s\n", args[0], strategy)
			return nil
		},
	}
}
