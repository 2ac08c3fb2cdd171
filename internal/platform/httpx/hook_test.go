package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestBeforeWriteRunsHookBeforeHeaders(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	calls := 0
	w, finish := BeforeWrite(rr, func(w http.ResponseWriter) {
		calls++
		w.Header().Set("X-Hooked", "yes")
	})

	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte("body"))
	finish()

	if calls != 1 {
		t.Fatalf("hook calls = %d, want 1", calls)
	}
	if got := rr.Result().Header.Get("X-Hooked"); got != "yes" {
		t.Fatalf("X-Hooked = %q, want %q", got, "yes")
	}
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusAccepted)
	}
}

func TestBeforeWriteImplicitHeaderOnWrite(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	w, _ := BeforeWrite(rr, func(w http.ResponseWriter) {
		w.Header().Set("X-Hooked", "yes")
	})
	_, _ = w.Write([]byte("body"))

	if got := rr.Result().Header.Get("X-Hooked"); got != "yes" {
		t.Fatalf("X-Hooked = %q, want %q", got, "yes")
	}
}

func TestBeforeWriteFinishRunsHookWhenNothingWritten(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	calls := 0
	_, finish := BeforeWrite(rr, func(http.ResponseWriter) { calls++ })
	finish()
	finish()

	if calls != 1 {
		t.Fatalf("hook calls = %d, want 1", calls)
	}
}

func TestBeforeWriteFlushAndUnwrap(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	calls := 0
	w, _ := BeforeWrite(rr, func(http.ResponseWriter) { calls++ })

	if err := http.NewResponseController(w).Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if calls != 1 {
		t.Fatalf("hook calls = %d, want 1", calls)
	}
	if !rr.Flushed {
		t.Fatal("expected recorder to be flushed")
	}
}
