// Package sessiontest holds the behavior every session.Store must share.
package sessiontest

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/blurb/internal/session"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) session.Store

// RunStoreTests exercises store against the session.Store contract.
func RunStoreTests(t *testing.T, factory Factory) {
	t.Helper()

	t.Run("load unknown id", func(t *testing.T) {
		store := open(t, factory)
		_, found, err := store.Load(context.Background(), session.NewID())
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if found {
			t.Fatalf("Load() found = true, want false")
		}
	})

	t.Run("save then load", func(t *testing.T) {
		store := open(t, factory)
		ctx := context.Background()
		id := session.NewID()
		values := map[string][]byte{
			"msg":   []byte(`[{"kind":"error","text":"boom"}]`),
			"other": {0x00, 0xff},
		}
		if err := store.Save(ctx, id, values, time.Now().Add(time.Hour)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		got, found, err := store.Load(ctx, id)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !found {
			t.Fatalf("Load() found = false, want true")
		}
		assertValues(t, got, values)
	})

	t.Run("save replaces values", func(t *testing.T) {
		store := open(t, factory)
		ctx := context.Background()
		id := session.NewID()
		if err := store.Save(ctx, id, map[string][]byte{"a": []byte("1"), "b": []byte("2")}, time.Now().Add(time.Hour)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		replacement := map[string][]byte{"b": []byte("3")}
		if err := store.Save(ctx, id, replacement, time.Now().Add(time.Hour)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		got, _, err := store.Load(ctx, id)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		assertValues(t, got, replacement)
	})

	t.Run("expired session is not found", func(t *testing.T) {
		store := open(t, factory)
		ctx := context.Background()
		id := session.NewID()
		if err := store.Save(ctx, id, map[string][]byte{"a": []byte("1")}, time.Now().Add(-time.Second)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if _, found, err := store.Load(ctx, id); err != nil || found {
			t.Fatalf("Load() = (found %v, err %v), want not found", found, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		store := open(t, factory)
		ctx := context.Background()
		id := session.NewID()
		if err := store.Save(ctx, id, map[string][]byte{"a": []byte("1")}, time.Now().Add(time.Hour)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := store.Delete(ctx, id); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, found, err := store.Load(ctx, id); err != nil || found {
			t.Fatalf("Load() after Delete = (found %v, err %v), want not found", found, err)
		}
		if err := store.Delete(ctx, session.NewID()); err != nil {
			t.Fatalf("Delete(unknown) error = %v", err)
		}
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		store := open(t, factory)
		ctx := context.Background()
		first, second := session.NewID(), session.NewID()
		if err := store.Save(ctx, first, map[string][]byte{"k": []byte("first")}, time.Now().Add(time.Hour)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := store.Save(ctx, second, map[string][]byte{"k": []byte("second")}, time.Now().Add(time.Hour)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		got, _, err := store.Load(ctx, first)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if string(got["k"]) != "first" {
			t.Fatalf("Load(first)[k] = %q, want %q", got["k"], "first")
		}
	})
}

func open(t *testing.T, factory Factory) session.Store {
	t.Helper()
	store := factory(t)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return store
}

func assertValues(t *testing.T, got, want map[string][]byte) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len(values) = %d, want %d", len(got), len(want))
	}
	for key, value := range want {
		if string(got[key]) != string(value) {
			t.Fatalf("values[%q] = %q, want %q", key, got[key], value)
		}
	}
}
