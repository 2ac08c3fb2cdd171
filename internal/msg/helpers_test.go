package msg

import "testing"

type mapSession map[string][]byte

func (s mapSession) Get(key string) ([]byte, bool) {
	value, ok := s[key]
	return value, ok
}

func (s mapSession) Set(key string, value []byte) {
	s[key] = append([]byte(nil), value...)
}

func (s mapSession) Delete(key string) {
	delete(s, key)
}

func newSessionStore(t *testing.T) (*Store, mapSession) {
	t.Helper()
	session := mapSession{}
	backend, err := NewSessionBackend(session, DefaultStorageKey)
	if err != nil {
		t.Fatalf("NewSessionBackend() error = %v", err)
	}
	return NewStore(ChannelSession, backend), session
}

func mustSet(t *testing.T, s *Store, kind Kind, text string, opts ...SetOption) {
	t.Helper()
	if err := s.Set(kind, text, opts...); err != nil {
		t.Fatalf("Set(%q, %q) error = %v", kind, text, err)
	}
}

func mustGet(t *testing.T, s *Store, filter Filter, opts ...GetOption) []Message {
	t.Helper()
	messages, err := s.Get(filter, opts...)
	if err != nil {
		t.Fatalf("Get(%q) error = %v", filter, err)
	}
	return messages
}

func texts(messages []Message) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.Text
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
