package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/logger"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultBlockTimeout = 2 * time.Second
	// An encode of the top tier can run for a long time without an ack, so
	// only entries idle well past that are treated as abandoned.
	defaultMinIdle = time.Hour
)

// Queue reads transcode requests from the stream through a consumer group.
type Queue struct {
	client   *redis.Client
	stream   string
	group    string
	consumer string
	block    time.Duration
	minIdle  time.Duration
	log      zerolog.Logger

	groupMu    sync.Mutex
	groupReady bool

	mu      sync.Mutex
	backlog []domain.Delivery
}

type QueueOption func(*Queue)

// WithBlockTimeout sets how long Claim waits for a new entry. Zero or
// negative makes Claim return immediately.
func WithBlockTimeout(d time.Duration) QueueOption {
	return func(q *Queue) { q.block = d }
}

func WithMinIdle(d time.Duration) QueueOption {
	return func(q *Queue) { q.minIdle = d }
}

func WithConsumer(name string) QueueOption {
	return func(q *Queue) { q.consumer = name }
}

func NewQueue(client *redis.Client, stream, group string, opts ...QueueOption) *Queue {
	q := &Queue{
		client:   client,
		stream:   stream,
		group:    group,
		consumer: "worker-" + uuid.NewString(),
		block:    defaultBlockTimeout,
		minIdle:  defaultMinIdle,
		log:      logger.WithComponent("dispatch"),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *Queue) Consumer() string {
	return q.consumer
}

func (q *Queue) ensureGroup(ctx context.Context) error {
	q.groupMu.Lock()
	defer q.groupMu.Unlock()
	if q.groupReady {
		return nil
	}
	err := q.client.XGroupCreateMkStream(ctx, q.stream, q.group, "0").Err()
	if err != nil && !isBusyGroup(err) {
		return fmt.Errorf("create consumer group %s: %w", q.group, err)
	}
	q.groupReady = true
	return nil
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}

func (q *Queue) Enqueue(ctx context.Context, msg domain.DispatchMessage) error {
	if err := q.ensureGroup(ctx); err != nil {
		return err
	}
	_, err := publish(ctx, q.client, q.stream, msg)
	return err
}

func (q *Queue) Claim(ctx context.Context) (*domain.Delivery, error) {
	if d := q.popBacklog(); d != nil {
		return d, nil
	}
	if err := q.ensureGroup(ctx); err != nil {
		return nil, err
	}

	block := q.block
	if block <= 0 {
		block = -1
	}
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.group,
		Consumer: q.consumer,
		Streams:  []string{q.stream, ">"},
		Count:    1,
		Block:    block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xreadgroup %s: %w", q.stream, err)
	}

	for _, s := range streams {
		for _, m := range s.Messages {
			return q.decode(ctx, m, 0), nil
		}
	}
	return nil, nil
}

// decode acks and drops entries that can never be processed so they do not
// return on every restart. It returns nil for those.
func (q *Queue) decode(ctx context.Context, m redis.XMessage, attempts int64) *domain.Delivery {
	raw, _ := m.Values[payloadField].(string)
	var msg domain.DispatchMessage
	err := json.Unmarshal([]byte(raw), &msg)
	if err == nil {
		err = msg.Validate()
	}
	if err != nil {
		q.log.Warn().Err(err).Str("entry", m.ID).Str("stream", q.stream).Msg("discarding malformed entry")
		if aerr := q.client.XAck(ctx, q.stream, q.group, m.ID).Err(); aerr != nil {
			q.log.Error().Err(aerr).Str("entry", m.ID).Msg("could not ack malformed entry")
		}
		return nil
	}
	return &domain.Delivery{ID: m.ID, Message: msg, Attempts: attempts}
}

func (q *Queue) Complete(ctx context.Context, deliveryID string) error {
	return q.client.XAck(ctx, q.stream, q.group, deliveryID).Err()
}

// Fail acks the entry. The job record already carries the error, and a
// retry needs a fresh dispatch.
func (q *Queue) Fail(ctx context.Context, deliveryID string, _ string) error {
	return q.client.XAck(ctx, q.stream, q.group, deliveryID).Err()
}

// ResetStalled takes over entries another consumer read but never acked.
func (q *Queue) ResetStalled(ctx context.Context) error {
	if err := q.ensureGroup(ctx); err != nil {
		return err
	}

	start := "0-0"
	for {
		msgs, next, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   q.stream,
			Group:    q.group,
			Consumer: q.consumer,
			MinIdle:  q.minIdle,
			Start:    start,
			Count:    32,
		}).Result()
		if err != nil {
			return fmt.Errorf("xautoclaim %s: %w", q.stream, err)
		}
		for _, m := range msgs {
			if d := q.decode(ctx, m, 1); d != nil {
				q.pushBacklog(*d)
			}
		}
		if next == "" || next == "0-0" {
			return nil
		}
		start = next
	}
}

func (q *Queue) pushBacklog(d domain.Delivery) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.backlog = append(q.backlog, d)
}

func (q *Queue) popBacklog() *domain.Delivery {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.backlog) == 0 {
		return nil
	}
	d := q.backlog[0]
	q.backlog = q.backlog[1:]
	return &d
}

var _ port.DispatchQueue = (*Queue)(nil)
