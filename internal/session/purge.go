package session

import (
	"context"
	"log"
	"time"
)

// Purger is implemented by stores that must drop expired sessions
// themselves.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// PurgeLoop calls p.PurgeExpired every interval until ctx is done.
func PurgeLoop(ctx context.Context, p Purger, interval time.Duration) {
	if p == nil || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := p.PurgeExpired(ctx)
			if err != nil {
				log.Printf("session: purge expired: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("session: purged %d expired sessions", removed)
			}
		}
	}
}
