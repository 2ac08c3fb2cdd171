// Package redis stores sessions as Redis hashes that expire natively.
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/louisbranch/blurb/internal/platform/timeouts"
	"github.com/louisbranch/blurb/internal/session"
)

// DefaultKeyPrefix namespaces session keys.
const DefaultKeyPrefix = "blurb:session:"

// Config selects the Redis server and key namespace.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Store is a Redis-backed session.Store.
type Store struct {
	client    *goredis.Client
	keyPrefix string
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.StoreDial)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewWithClient(client, cfg.KeyPrefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *goredis.Client, keyPrefix string) *Store {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &Store{client: client, keyPrefix: keyPrefix}
}

func (s *Store) key(id string) string {
	return s.keyPrefix + id
}

// Load implements session.Store.
func (s *Store) Load(ctx context.Context, id string) (map[string][]byte, bool, error) {
	fields, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}
	values := make(map[string][]byte, len(fields))
	for field, value := range fields {
		values[field] = []byte(value)
	}
	return values, true, nil
}

// Save implements session.Store. The hash is rewritten in one transaction so
// readers never see a partial session.
func (s *Store) Save(ctx context.Context, id string, values map[string][]byte, expiresAt time.Time) error {
	if len(values) == 0 || !time.Now().Before(expiresAt) {
		return s.Delete(ctx, id)
	}
	key := s.key(id)
	fields := make(map[string]any, len(values))
	for field, value := range values {
		fields[field] = value
	}
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		pipe.ExpireAt(ctx, key, expiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete implements session.Store.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ session.Store = (*Store)(nil)
