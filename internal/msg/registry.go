package msg

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/louisbranch/blurb/internal/platform/requestmeta"
)

// Env carries the request-scoped collaborators a Registry builds backends
// from.
type Env struct {
	Request *http.Request
	// Session backs session channels; nil makes them unavailable.
	Session SessionStore
	// Codec encodes cookie channels; nil selects JSONCodec.
	Codec   Codec
	Printer Printer
	Policy  requestmeta.SchemePolicy
	Views   Views
}

// Registry opens channel stores for one request and caches them by name.
type Registry struct {
	cfg Config
	env Env

	mu        sync.Mutex
	stores    map[string]*Store
	cookies   []*CookieBackend
	finalized bool
}

// NewRegistry returns a registry over cfg. The config is used as given;
// callers validate it when loading.
func NewRegistry(cfg Config, env Env) *Registry {
	return &Registry{
		cfg:    cfg,
		env:    env,
		stores: make(map[string]*Store),
	}
}

// ChannelOption adjusts a channel config before its store is built.
type ChannelOption func(*ChannelConfig)

// Settings fills the fields the configured channel leaves unset. Configured
// values are never overridden.
func Settings(settings ChannelConfig) ChannelOption {
	return func(c *ChannelConfig) {
		*c = c.fill(settings)
	}
}

// Default returns the default channel's store.
func (r *Registry) Default() (*Store, error) {
	return r.Store("")
}

// Store returns the store for channel name, building it on first use. An
// empty name selects the default channel. Options only apply on first use.
func (r *Registry) Store(name string, opts ...ChannelOption) (*Store, error) {
	name, channel, ok := r.cfg.Channel(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if store, cached := r.stores[name]; cached {
		return store, nil
	}
	if !ok {
		return nil, configurationError(fmt.Sprintf("channel %q is not configured", name), nil)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&channel)
		}
	}
	if err := channel.Validate(); err != nil {
		return nil, fmt.Errorf("channel %q: %w", name, err)
	}

	backend, err := r.backend(channel)
	if err != nil {
		return nil, fmt.Errorf("channel %q: %w", name, err)
	}
	store := NewStore(name, backend,
		WithPrinter(r.env.Printer),
		WithViews(r.env.Views),
		WithDefaultView(r.cfg.defaultView()),
	)
	r.stores[name] = store
	return store, nil
}

func (r *Registry) backend(channel ChannelConfig) (Backend, error) {
	switch channel.Medium {
	case MediumSession:
		if r.env.Session == nil {
			return nil, configurationError("session medium requires a session", nil)
		}
		return NewSessionBackend(r.env.Session, channel.Key)
	case MediumCookie:
		backend, err := NewCookieBackend(r.env.Request, channel.Key, r.env.Codec, CookieOptions{
			MaxAge: channel.MaxAge,
			Policy: r.env.Policy,
		})
		if err != nil {
			return nil, err
		}
		if r.finalized {
			// The response has started; writes can no longer reach a cookie.
			backend.flushed = true
		}
		r.cookies = append(r.cookies, backend)
		return backend, nil
	default:
		return nil, configurationError(fmt.Sprintf("unsupported storage medium %q", channel.Medium), nil)
	}
}

// Finalize writes every cookie channel to w in the order the channels were
// opened. Each cookie backend writes at most once, and cookie channels opened
// afterwards reject writes with ErrCookieFlushed.
func (r *Registry) Finalize(w http.ResponseWriter) error {
	r.mu.Lock()
	r.finalized = true
	cookies := append([]*CookieBackend(nil), r.cookies...)
	r.mu.Unlock()

	var errs []error
	for _, backend := range cookies {
		if err := backend.Finalize(w); err != nil {
			errs = append(errs, fmt.Errorf("finalize cookie %s: %w", backend.name, err))
		}
	}
	return errors.Join(errs...)
}
