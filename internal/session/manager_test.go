package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/louisbranch/blurb/internal/session"
	"github.com/louisbranch/blurb/internal/session/memory"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestNewManagerRequiresStore(t *testing.T) {
	t.Parallel()

	if _, err := session.NewManager(nil); err == nil {
		t.Fatalf("NewManager(nil) error = nil, want error")
	}
}

func TestManagerRoundTrip(t *testing.T) {
	t.Parallel()

	store := memory.New()
	manager, err := session.NewManager(store)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	handler := manager.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if !ok {
			t.Fatalf("FromContext() ok = false")
		}
		if r.URL.Path == "/set" {
			sess.Set("greeting", []byte("hello"))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		value, _ := sess.Get("greeting")
		_, _ = w.Write(value)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/set", nil))
	cookie := sessionCookie(first)
	if cookie == nil {
		t.Fatalf("expected session cookie on first write")
	}
	if store.Len() != 1 {
		t.Fatalf("store.Len() = %d, want 1", store.Len())
	}

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookie)
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	if got := second.Body.String(); got != "hello" {
		t.Fatalf("body = %q, want %q", got, "hello")
	}
	if sessionCookie(second) != nil {
		t.Fatalf("existing session rewrote its cookie")
	}
}

func TestManagerSkipsUntouchedSessions(t *testing.T) {
	t.Parallel()

	store := memory.New()
	manager, err := session.NewManager(store)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	handler := manager.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if sessionCookie(rr) != nil {
		t.Fatalf("untouched session wrote a cookie")
	}
	if store.Len() != 0 {
		t.Fatalf("store.Len() = %d, want 0", store.Len())
	}
}

func TestManagerDeletesEmptiedSession(t *testing.T) {
	t.Parallel()

	store := memory.New()
	id := session.NewID()
	if err := store.Save(context.Background(), id, map[string][]byte{"msg": []byte("x")}, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	manager, err := session.NewManager(store)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	handler := manager.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		sess, _ := session.FromContext(r.Context())
		sess.Delete("msg")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: id})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if _, found, _ := store.Load(context.Background(), id); found {
		t.Fatalf("emptied session still stored")
	}
}

func TestManagerReplacesUnknownID(t *testing.T) {
	t.Parallel()

	store := memory.New()
	manager, err := session.NewManager(store)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	stale := session.NewID()
	var seen string
	handler := manager.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := session.FromContext(r.Context())
		seen = sess.ID()
		sess.Set("k", []byte("v"))
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: stale})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if seen == stale {
		t.Fatalf("unknown session id was reused")
	}
	if cookie := sessionCookie(rr); cookie == nil || cookie.Value != seen {
		t.Fatalf("cookie = %+v, want new id %q", cookie, seen)
	}
}

type failingStore struct {
	*memory.Store
}

func (failingStore) Load(context.Context, string) (map[string][]byte, bool, error) {
	return nil, false, errors.New("store offline")
}

func TestManagerTracesStoreCalls(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	manager, err := session.NewManager(failingStore{memory.New()}, session.WithTracerProvider(tp))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	handler := manager.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := session.FromContext(r.Context())
		sess.Set("k", []byte("v"))
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: session.NewID()})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	names := map[string]bool{}
	for _, span := range recorder.Ended() {
		names[span.Name()] = true
	}
	if !names["session.load"] || !names["session.save"] {
		t.Fatalf("spans = %v, want session.load and session.save", names)
	}
}

func TestManagerExpiresUnknownIDCookie(t *testing.T) {
	t.Parallel()

	manager, err := session.NewManager(memory.New())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	handler := manager.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: session.NewID()})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	cookie := sessionCookie(rr)
	if cookie == nil {
		t.Fatalf("expected stale session cookie to be expired")
	}
	if cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Fatalf("cookie = %+v, want expired empty cookie", cookie)
	}
}

func TestManagerKeepsCookieWhenLoadFails(t *testing.T) {
	t.Parallel()

	manager, err := session.NewManager(failingStore{memory.New()})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	handler := manager.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: session.NewID()})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if cookie := sessionCookie(rr); cookie != nil {
		t.Fatalf("cookie = %+v, want none while the store is unavailable", cookie)
	}
}
