package msg

import (
	"context"
	"log"
	"net/http"

	"github.com/louisbranch/blurb/internal/platform/httpx"
	"github.com/louisbranch/blurb/internal/platform/requestmeta"
)

type registryContextKey struct{}

// WithRegistry returns a context carrying reg.
func WithRegistry(ctx context.Context, reg *Registry) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, registryContextKey{}, reg)
}

// FromContext returns the registry installed by Middleware.
func FromContext(ctx context.Context) (*Registry, bool) {
	if ctx == nil {
		return nil, false
	}
	reg, ok := ctx.Value(registryContextKey{}).(*Registry)
	return reg, ok && reg != nil
}

// MiddlewareOptions wires the per-request collaborators of a Registry.
type MiddlewareOptions struct {
	// Config returns the channel config for a new request; nil uses
	// DefaultConfig.
	Config  func() Config
	// Session resolves the session channels write to.
	Session func(*http.Request) SessionStore
	Codec   Codec
	Printer func(*http.Request) Printer
	Policy  requestmeta.SchemePolicy
	Views   Views
}

// Middleware installs a request-scoped Registry and finalizes its cookie
// channels right before the response starts, or after the handler when it
// wrote nothing.
func Middleware(opts MiddlewareOptions) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cfg := DefaultConfig()
			if opts.Config != nil {
				cfg = opts.Config()
			}
			env := Env{
				Request: r,
				Codec:   opts.Codec,
				Policy:  opts.Policy,
				Views:   opts.Views,
			}
			if opts.Session != nil {
				env.Session = opts.Session(r)
			}
			if opts.Printer != nil {
				env.Printer = opts.Printer(r)
			}
			reg := NewRegistry(cfg, env)

			wrapped, finish := httpx.BeforeWrite(w, func(w http.ResponseWriter) {
				if err := reg.Finalize(w); err != nil {
					log.Printf("msg: %v", err)
				}
			})
			next.ServeHTTP(wrapped, r.WithContext(WithRegistry(r.Context(), reg)))
			finish()
		})
	}
}
