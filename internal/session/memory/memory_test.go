package memory

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/blurb/internal/session"
	"github.com/louisbranch/blurb/internal/session/sessiontest"
)

func TestStoreConformance(t *testing.T) {
	sessiontest.RunStoreTests(t, func(*testing.T) session.Store {
		return New()
	})
}

func TestPurgeExpired(t *testing.T) {
	t.Parallel()

	store := New()
	ctx := context.Background()
	if err := store.Save(ctx, "live", map[string][]byte{"k": nil}, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, "dead", map[string][]byte{"k": nil}, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	removed, err := store.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("PurgeExpired() error = %v", err)
	}
	if removed != 1 {
		t.Fatalf("PurgeExpired() = %d, want 1", removed)
	}
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", store.Len())
	}
}

func TestLoadReturnsCopy(t *testing.T) {
	t.Parallel()

	store := New()
	ctx := context.Background()
	if err := store.Save(ctx, "id", map[string][]byte{"k": []byte("v")}, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, _, _ := store.Load(ctx, "id")
	got["k"][0] = 'x'
	again, _, _ := store.Load(ctx, "id")
	if string(again["k"]) != "v" {
		t.Fatalf("stored value mutated through Load result")
	}
}
