// Package memory keeps sessions in process memory. Sessions are lost on
// restart, which suits tests and single-instance development servers.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/louisbranch/blurb/internal/session"
)

type entry struct {
	values    map[string][]byte
	expiresAt time.Time
}

// Store is an in-memory session.Store.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{entries: make(map[string]entry), now: time.Now}
}

// Load implements session.Store.
func (s *Store) Load(_ context.Context, id string) (map[string][]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, id)
		return nil, false, nil
	}
	return clone(e.values), true, nil
}

// Save implements session.Store.
func (s *Store) Save(_ context.Context, id string, values map[string][]byte, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = entry{values: clone(values), expiresAt: expiresAt}
	return nil
}

// Delete implements session.Store.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// PurgeExpired drops expired sessions and returns how many were removed.
func (s *Store) PurgeExpired(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var removed int64
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close implements session.Store.
func (s *Store) Close() error {
	return nil
}

func clone(values map[string][]byte) map[string][]byte {
	out := make(map[string][]byte, len(values))
	for key, value := range values {
		out[key] = append([]byte(nil), value...)
	}
	return out
}

var _ session.Store = (*Store)(nil)
