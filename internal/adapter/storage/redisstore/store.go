package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "transcode:job:"

// Store keeps jobs as JSON strings so several compute workers and the status
// API can share one view of job state.
type Store struct {
	client *redis.Client
	prefix string
	// retention applies to terminal jobs only; zero keeps them forever.
	retention time.Duration
}

type Option func(*Store)

func WithPrefix(p string) Option {
	return func(s *Store) { s.prefix = p }
}

func WithRetention(d time.Duration) Option {
	return func(s *Store) { s.retention = d }
}

func NewStore(client *redis.Client, opts ...Option) *Store {
	s := &Store{client: client, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

func (s *Store) Get(ctx context.Context, key string) (*domain.TranscodeJob, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var job domain.TranscodeJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", key, err)
	}
	return &job, nil
}

func (s *Store) Set(ctx context.Context, job *domain.TranscodeJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	var ttl time.Duration
	if job.Status.IsTerminal() {
		ttl = s.retention
	}
	return s.client.Set(ctx, s.key(job.Key()), data, ttl).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

var _ port.JobStore = (*Store)(nil)
