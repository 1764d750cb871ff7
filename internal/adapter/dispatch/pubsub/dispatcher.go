package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
	"github.com/redis/go-redis/v9"
)

// payloadField is the stream entry field holding the JSON message.
const payloadField = "payload"

// Dispatcher publishes transcode requests to a Redis stream. Pickup is
// asynchronous and at-least-once through the consumer group read by Queue.
type Dispatcher struct {
	client *redis.Client
	stream string
	now    func() time.Time
}

func NewDispatcher(client *redis.Client, stream string) *Dispatcher {
	return &Dispatcher{client: client, stream: stream, now: time.Now}
}

func (d *Dispatcher) Strategy() domain.Strategy {
	return domain.StrategyPubSub
}

func (d *Dispatcher) Trigger(ctx context.Context, videoID, inputURI string) (domain.Strategy, error) {
	msg := domain.DispatchMessage{
		VideoID:     videoID,
		InputURI:    inputURI,
		Timestamp:   d.now().UTC(),
		Orientation: domain.OrientationFromPath(inputURI),
	}
	if err := msg.Validate(); err != nil {
		return domain.StrategyPubSub, &domain.DispatchError{Strategy: domain.StrategyPubSub, VideoID: videoID, Err: err}
	}
	if _, err := publish(ctx, d.client, d.stream, msg); err != nil {
		return domain.StrategyPubSub, &domain.DispatchError{Strategy: domain.StrategyPubSub, VideoID: videoID, Err: err}
	}
	return domain.StrategyPubSub, nil
}

// HealthCheck reports domain.ErrTopicMissing when the stream has never been
// created.
func (d *Dispatcher) HealthCheck(ctx context.Context) error {
	n, err := d.client.Exists(ctx, d.stream).Result()
	if err != nil {
		return fmt.Errorf("check stream %s: %w", d.stream, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTopicMissing, d.stream)
	}
	return nil
}

func publish(ctx context.Context, client *redis.Client, stream string, msg domain.DispatchMessage) (string, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("marshal message: %w", err)
	}
	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{payloadField: string(payload)},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd %s: %w", stream, err)
	}
	return id, nil
}

var _ port.Dispatcher = (*Dispatcher)(nil)
