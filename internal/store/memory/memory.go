// Package memory is the ephemeral snapshot store used for tests and for
// running without persistence.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"medstore/backend/internal/store"
)

type Store struct {
	mu   sync.Mutex
	blob []byte
}

func New() *Store {
	return &Store{}
}

func (s *Store) Load(_ context.Context) (store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.blob == nil {
		return store.Snapshot{}, nil
	}
	var snap store.Snapshot
	if err := json.Unmarshal(s.blob, &snap); err != nil {
		return store.Snapshot{}, err
	}
	return snap, nil
}

func (s *Store) Save(_ context.Context, snap store.Snapshot) error {
	// Round-tripping through JSON keeps the semantics identical to the
	// durable stores: the saved state cannot alias live slices.
	blob, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.blob = blob
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error {
	return nil
}
