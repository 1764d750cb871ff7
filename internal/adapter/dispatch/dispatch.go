// Package dispatch selects the transcode trigger strategy once at startup.
package dispatch

import (
	"fmt"

	"github.com/IA-Ben/ode-islands-transcoder/config"
	"github.com/IA-Ben/ode-islands-transcoder/internal/adapter/dispatch/httpcall"
	"github.com/IA-Ben/ode-islands-transcoder/internal/adapter/dispatch/pubsub"
	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
	"github.com/redis/go-redis/v9"
)

// New returns the dispatcher named by cfg. The redis client is only needed
// for the pubsub strategy and may be nil otherwise.
func New(cfg config.DispatchConfig, rdb *redis.Client) (port.Dispatcher, error) {
	strategy, err := domain.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	switch strategy {
	case domain.StrategyPubSub:
		if rdb == nil {
			return nil, fmt.Errorf("pubsub dispatch requires a redis client")
		}
		return pubsub.NewDispatcher(rdb, cfg.Stream), nil
	default:
		return httpcall.NewDispatcher(cfg.ProcessURL, httpcall.WithToken(cfg.ProcessToken)), nil
	}
}
