package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/port"
	"github.com/google/renameio/v2"
)

// SnapshotStore persists the client capability snapshot in a single JSON
// file so codec support is probed once per machine.
type SnapshotStore struct {
	mu   sync.Mutex
	path string
}

func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &SnapshotStore{path: filepath.Join(dir, "capabilities.json")}, nil
}

func (s *SnapshotStore) Path() string {
	return s.path
}

// Load returns domain.ErrNotFound when nothing has been saved yet.
func (s *SnapshotStore) Load() (*domain.CapabilitySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, domain.ErrNotFound
	}

	var snap domain.CapabilitySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return &snap, nil
}

func (s *SnapshotStore) Save(snap *domain.CapabilitySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return renameio.WriteFile(s.path, data, 0600)
}

func (s *SnapshotStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

var _ port.SnapshotStore = (*SnapshotStore)(nil)
