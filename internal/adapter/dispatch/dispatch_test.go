package dispatch

import (
	"testing"

	"github.com/IA-Ben/ode-islands-transcoder/config"
	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	d, err := New(config.DispatchConfig{Strategy: "pubsub", Stream: "s"}, rdb)
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyPubSub, d.Strategy())

	d, err = New(config.DispatchConfig{Strategy: "http", ProcessURL: "http://compute:7890"}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyHTTP, d.Strategy())

	_, err = New(config.DispatchConfig{Strategy: "pubsub"}, nil)
	assert.Error(t, err)

	_, err = New(config.DispatchConfig{Strategy: "sqs"}, nil)
	assert.Error(t, err)
}
