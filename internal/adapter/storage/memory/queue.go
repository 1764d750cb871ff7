package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
)

type entry struct {
	delivery domain.Delivery
	claimed  bool
}

// Queue is an in-process DispatchQueue for single-node deployments.
type Queue struct {
	mu      sync.Mutex
	seq     int64
	entries []*entry
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Enqueue(_ context.Context, msg domain.DispatchMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.seq++
	q.entries = append(q.entries, &entry{delivery: domain.Delivery{ID: strconv.FormatInt(q.seq, 10), Message: msg}})
	return nil
}

func (q *Queue) Claim(_ context.Context) (*domain.Delivery, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		if !e.claimed {
			e.claimed = true
			d := e.delivery
			e.delivery.Attempts++
			return &d, nil
		}
	}
	return nil, nil
}

func (q *Queue) Complete(_ context.Context, id string) error {
	q.remove(id)
	return nil
}

// Fail drops the delivery. The job record already carries the error.
func (q *Queue) Fail(_ context.Context, id string, _ string) error {
	q.remove(id)
	return nil
}

// ResetStalled makes every claimed delivery claimable again.
func (q *Queue) ResetStalled(_ context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, e := range q.entries {
		e.claimed = false
	}
	return nil
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *Queue) remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, e := range q.entries {
		if e.delivery.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}

var _ port.DispatchQueue = (*Queue)(nil)
