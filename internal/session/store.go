package session

import (
	"context"
	"time"
)

// Store persists session values by id.
type Store interface {
	// Load returns the values saved under id. found is false when the id is
	// unknown or expired.
	Load(ctx context.Context, id string) (values map[string][]byte, found bool, err error)
	// Save replaces the values under id until expiresAt.
	Save(ctx context.Context, id string, values map[string][]byte, expiresAt time.Time) error
	// Delete forgets id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	Close() error
}
