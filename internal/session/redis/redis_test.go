package redis

import (
	"context"
	"os"
	"testing"

	"github.com/louisbranch/blurb/internal/session"
	"github.com/louisbranch/blurb/internal/session/sessiontest"
)

func testAddr() string {
	if addr := os.Getenv("BLURB_REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func TestRedisStore(t *testing.T) {
	probe, err := Open(context.Background(), Config{Addr: testAddr()})
	if err != nil {
		t.Skipf("skipping redis session store tests: %v", err)
	}
	_ = probe.Close()

	sessiontest.RunStoreTests(t, func(t *testing.T) session.Store {
		store, err := Open(context.Background(), Config{Addr: testAddr(), KeyPrefix: "blurb:test:" + session.NewID() + ":"})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		return store
	})
}

func TestOpenRequiresAddr(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatalf("Open() error = nil, want error")
	}
}
