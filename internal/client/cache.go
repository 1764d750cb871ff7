package client

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
)

const (
	DefaultCacheTTL = 7 * time.Minute
	DefaultMaxBatch = 20
)

// StatusFetcher is the network side of the cache.
type StatusFetcher interface {
	Status(ctx context.Context, videoID string) (domain.StatusReport, error)
	BatchStatus(ctx context.Context, ids []string) (map[string]domain.StatusReport, error)
}

type cacheEntry struct {
	report    domain.StatusReport
	fetchedAt time.Time
}

type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// StatusCache memoizes status lookups for a fixed TTL. Single and batch
// lookups share entries. Nothing is pushed from the server; entries only
// leave by expiry, Invalidate or Clear.
type StatusCache struct {
	fetcher  StatusFetcher
	ttl      time.Duration
	maxBatch int
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	hits    uint64
	misses  uint64
}

type CacheOption func(*StatusCache)

func WithTTL(ttl time.Duration) CacheOption {
	return func(c *StatusCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithMaxBatch(n int) CacheOption {
	return func(c *StatusCache) {
		if n > 0 {
			c.maxBatch = n
		}
	}
}

func WithClock(now func() time.Time) CacheOption {
	return func(c *StatusCache) { c.now = now }
}

func NewStatusCache(fetcher StatusFetcher, opts ...CacheOption) *StatusCache {
	c := &StatusCache{
		fetcher:  fetcher,
		ttl:      DefaultCacheTTL,
		maxBatch: DefaultMaxBatch,
		now:      time.Now,
		entries:  make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// lookup returns a fresh entry. An entry older than the TTL counts as absent.
func (c *StatusCache) lookup(id string) (domain.StatusReport, bool) {
	e, ok := c.entries[id]
	if !ok {
		return domain.StatusReport{}, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		delete(c.entries, id)
		return domain.StatusReport{}, false
	}
	return e.report, true
}

func (c *StatusCache) Get(ctx context.Context, videoID string) (domain.StatusReport, error) {
	c.mu.Lock()
	if report, ok := c.lookup(videoID); ok {
		c.hits++
		c.mu.Unlock()
		return report, nil
	}
	c.misses++
	c.mu.Unlock()

	report, err := c.fetcher.Status(ctx, videoID)
	if err != nil {
		return domain.StatusReport{}, err
	}
	c.store(map[string]domain.StatusReport{videoID: report})
	return report, nil
}

// GetBatch serves cached ids locally and fetches the rest in one call. More
// than the batch cap is rejected before the cache or network is consulted.
func (c *StatusCache) GetBatch(ctx context.Context, ids []string) (map[string]domain.StatusReport, error) {
	if len(ids) > c.maxBatch {
		return nil, fmt.Errorf("%w: %d ids, limit %d", domain.ErrBatchTooLarge, len(ids), c.maxBatch)
	}

	results := make(map[string]domain.StatusReport, len(ids))
	var missing []string

	c.mu.Lock()
	for _, id := range ids {
		if _, done := results[id]; done {
			continue
		}
		if report, ok := c.lookup(id); ok {
			c.hits++
			results[id] = report
			continue
		}
		if !slices.Contains(missing, id) {
			c.misses++
			missing = append(missing, id)
		}
	}
	c.mu.Unlock()

	if len(missing) == 0 {
		return results, nil
	}

	fetched, err := c.fetcher.BatchStatus(ctx, missing)
	if err != nil {
		return nil, err
	}
	c.store(fetched)
	for id, report := range fetched {
		results[id] = report
	}
	return results, nil
}

func (c *StatusCache) store(reports map[string]domain.StatusReport) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, report := range reports {
		c.entries[id] = cacheEntry{report: report, fetchedAt: now}
	}
}

func (c *StatusCache) Invalidate(videoID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, videoID)
}

func (c *StatusCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

func (c *StatusCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
}
