package session

import (
	"sort"
	"sync"
)

// Session is the request-scoped view of one stored session.
type Session struct {
	id string

	mu     sync.Mutex
	values map[string][]byte
	isNew  bool
	dirty  bool
}

// New returns a session over a copy of values. isNew marks sessions that do
// not exist in the store yet.
func New(id string, values map[string][]byte, isNew bool) *Session {
	return &Session{id: id, values: cloneValues(values), isNew: isNew}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Get returns the value stored under key.
func (s *Session) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), value...), true
}

// Set stores value under key.
func (s *Session) Set(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	s.dirty = true
}

// Delete removes key.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.dirty = true
}

// Keys lists stored keys in sorted order.
func (s *Session) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Values returns a copy of every stored value.
func (s *Session) Values() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneValues(s.values)
}

// IsNew reports whether the session was created for this request.
func (s *Session) IsNew() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isNew
}

// IsDirty reports whether Set or Delete changed the session.
func (s *Session) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// IsEmpty reports whether the session holds no values.
func (s *Session) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values) == 0
}

func cloneValues(values map[string][]byte) map[string][]byte {
	out := make(map[string][]byte, len(values))
	for key, value := range values {
		out[key] = append([]byte(nil), value...)
	}
	return out
}
