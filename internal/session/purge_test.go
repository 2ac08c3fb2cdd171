package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/blurb/internal/session"
	"github.com/louisbranch/blurb/internal/session/memory"
)

func TestPurgeLoopDropsExpiredSessions(t *testing.T) {
	t.Parallel()

	store := memory.New()
	if err := store.Save(context.Background(), "dead", map[string][]byte{"k": nil}, time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		session.PurgeLoop(ctx, store, 10*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done
	if store.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", store.Len())
	}
}

func TestPurgeLoopIgnoresBadInterval(t *testing.T) {
	t.Parallel()

	session.PurgeLoop(context.Background(), memory.New(), 0)
}
