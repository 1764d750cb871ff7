package memory

import (
	"context"
	"sync"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
)

// Store keeps jobs in process memory. Jobs are lost on restart.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*domain.TranscodeJob
}

func NewStore() *Store {
	return &Store{jobs: make(map[string]*domain.TranscodeJob)}
}

func (s *Store) Get(_ context.Context, key string) (*domain.TranscodeJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return j.Clone(), nil
}

func (s *Store) Set(_ context.Context, job *domain.TranscodeJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[job.Key()] = job.Clone()
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.jobs, key)
	return nil
}

var _ port.JobStore = (*Store)(nil)
