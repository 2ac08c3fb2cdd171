package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/blurb/internal/platform/httpx"
	"github.com/louisbranch/blurb/internal/platform/requestmeta"
	"github.com/louisbranch/blurb/internal/platform/timeouts"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 24 * time.Hour

const tracerName = "github.com/louisbranch/blurb/internal/session"

// Manager attaches a Session to every request it wraps.
type Manager struct {
	store      Store
	ttl        time.Duration
	cookieName string
	policy     requestmeta.SchemePolicy
	tracer     trace.Tracer
	now        func() time.Time
	newID      func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithTTL sets the session lifetime; non-positive values keep DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithCookieName overrides CookieName.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name = strings.TrimSpace(name); name != "" {
			m.cookieName = name
		}
	}
}

// WithPolicy sets the scheme policy used for the Secure cookie attribute.
func WithPolicy(policy requestmeta.SchemePolicy) Option {
	return func(m *Manager) {
		m.policy = policy
	}
}

// WithTracerProvider traces store calls through tp instead of the global
// provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(m *Manager) {
		if tp != nil {
			m.tracer = tp.Tracer(tracerName)
		}
	}
}

// NewManager returns a manager over store.
func NewManager(store Store, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	m := &Manager{
		store:      store,
		ttl:        DefaultTTL,
		cookieName: CookieName,
		tracer:     otel.Tracer(tracerName),
		now:        time.Now,
		newID:      NewID,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m, nil
}

// CookieName returns the id cookie name.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Middleware loads the request's session, writes the id cookie before the
// response starts when a new session was changed, and saves changed sessions
// after the handler returns. A cookie naming a session the store no longer
// has is expired unless the request replaced it.
func (m *Manager) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, stale := m.load(r)

			cookieSent := false
			wrapped, finish := httpx.BeforeWrite(w, func(w http.ResponseWriter) {
				switch {
				case sess.IsNew() && sess.IsDirty() && !sess.IsEmpty():
					WriteID(w, r, m.cookieName, sess.ID(), int(m.ttl/time.Second), m.policy)
					cookieSent = true
				case stale:
					ClearID(w, r, m.cookieName, m.policy)
				}
			})
			next.ServeHTTP(wrapped, r.WithContext(WithSession(r.Context(), sess)))
			finish()

			if err := m.persist(r.Context(), sess, cookieSent); err != nil {
				log.Printf("session: %v", err)
			}
		})
	}
}

// load returns the request's session. stale reports that the request named
// a session id the store does not know.
func (m *Manager) load(r *http.Request) (sess *Session, stale bool) {
	id, ok := ReadID(r, m.cookieName)
	if !ok {
		return New(m.newID(), nil, true), false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.SessionIO)
	defer cancel()
	ctx, span := m.tracer.Start(ctx, "session.load", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	values, found, err := m.store.Load(ctx, id)
	span.SetAttributes(attribute.Bool("session.found", found))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load session")
		log.Printf("session: load: %v", err)
		return New(m.newID(), nil, true), false
	}
	if !found {
		return New(m.newID(), nil, true), true
	}
	return New(id, values, false), false
}

func (m *Manager) persist(parent context.Context, sess *Session, cookieSent bool) error {
	if !sess.IsDirty() {
		return nil
	}
	if sess.IsNew() && !cookieSent {
		// The client never learned the id.
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), timeouts.SessionIO)
	defer cancel()

	if sess.IsEmpty() {
		ctx, span := m.tracer.Start(ctx, "session.delete", trace.WithSpanKind(trace.SpanKindClient))
		defer span.End()
		if err := m.store.Delete(ctx, sess.ID()); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "delete session")
			return fmt.Errorf("delete: %w", err)
		}
		return nil
	}

	ctx, span := m.tracer.Start(ctx, "session.save", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.Int("session.keys", len(sess.Keys())))
	if err := m.store.Save(ctx, sess.ID(), sess.Values(), m.now().Add(m.ttl)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save session")
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

type sessionContextKey struct{}

// WithSession returns a context carrying sess.
func WithSession(ctx context.Context, sess *Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// FromContext returns the session installed by Manager.Middleware.
func FromContext(ctx context.Context) (*Session, bool) {
	if ctx == nil {
		return nil, false
	}
	sess, ok := ctx.Value(sessionContextKey{}).(*Session)
	return sess, ok && sess != nil
}
