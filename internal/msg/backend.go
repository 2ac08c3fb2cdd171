package msg

import (
	"fmt"
	"strings"
)

// Backend persists one channel's message list. Persist always receives the
// complete list; Load returns nil when nothing is stored.
type Backend interface {
	Persist(messages []Message) error
	Load() ([]Message, error)
	Clear() error
}

// SessionStore is the server-side session a SessionBackend writes through.
type SessionStore interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Delete(key string)
}

// SessionBackend keeps a channel's messages under one session key.
type SessionBackend struct {
	session SessionStore
	key     string
}

// NewSessionBackend returns a backend storing messages in session under key.
func NewSessionBackend(session SessionStore, key string) (*SessionBackend, error) {
	if session == nil {
		return nil, configurationError("session backend requires a session", nil)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, configurationError("session backend requires a storage key", nil)
	}
	return &SessionBackend{session: session, key: key}, nil
}

// Persist replaces the stored list.
func (b *SessionBackend) Persist(messages []Message) error {
	if len(messages) == 0 {
		return b.Clear()
	}
	raw, err := encodeMessages(messages)
	if err != nil {
		return fmt.Errorf("encode session messages: %w", err)
	}
	b.session.Set(b.key, raw)
	return nil
}

// Load reads the stored list.
func (b *SessionBackend) Load() ([]Message, error) {
	raw, ok := b.session.Get(b.key)
	if !ok || len(raw) == 0 {
		return nil, nil
	}
	messages, err := decodeMessages(raw)
	if err != nil {
		return nil, fmt.Errorf("decode session messages %q: %w", b.key, err)
	}
	return messages, nil
}

// Clear removes the session key.
func (b *SessionBackend) Clear() error {
	b.session.Delete(b.key)
	return nil
}

var _ Backend = (*SessionBackend)(nil)
