package msg

import (
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/blurb/internal/platform/requestmeta"
)

// maxCookieBytes is the size browsers are guaranteed to keep for one cookie.
const maxCookieBytes = 4096

// CookieOptions tunes the cookie a CookieBackend writes.
type CookieOptions struct {
	Path   string
	Domain string
	// MaxAge in seconds; zero writes a session cookie.
	MaxAge int
	Policy requestmeta.SchemePolicy
}

// CookieBackend buffers a channel's messages for the current request and
// writes them to one cookie when Finalize runs. The buffer is seeded from the
// inbound cookie.
type CookieBackend struct {
	name    string
	codec   Codec
	opts    CookieOptions
	request *http.Request

	buffer  []Message
	cleared bool
	flushed bool
}

// NewCookieBackend seeds a backend from r's cookie called name. A missing
// cookie leaves the buffer empty; an unreadable one is logged, ignored and
// expired on Finalize.
func NewCookieBackend(r *http.Request, name string, codec Codec, opts CookieOptions) (*CookieBackend, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, configurationError("cookie backend requires a storage key", nil)
	}
	if codec == nil {
		codec = JSONCodec{}
	}
	if strings.TrimSpace(opts.Path) == "" {
		opts.Path = "/"
	}
	b := &CookieBackend{name: name, codec: codec, opts: opts, request: r}
	if r == nil {
		return b, nil
	}
	cookie, err := r.Cookie(name)
	if err != nil || cookie == nil {
		return b, nil
	}
	messages, err := codec.Decode(cookie.Value)
	if err != nil {
		log.Printf("msg: discard cookie %s: %v", name, err)
		b.cleared = true
		return b, nil
	}
	b.buffer = messages
	return b, nil
}

// Persist replaces the buffered list.
func (b *CookieBackend) Persist(messages []Message) error {
	if b.flushed {
		return ErrCookieFlushed
	}
	if len(messages) == 0 {
		return b.Clear()
	}
	b.buffer = append([]Message(nil), messages...)
	return nil
}

// Load returns the buffered list.
func (b *CookieBackend) Load() ([]Message, error) {
	if len(b.buffer) == 0 {
		return nil, nil
	}
	return append([]Message(nil), b.buffer...), nil
}

// Clear empties the buffer and expires the cookie on Finalize.
func (b *CookieBackend) Clear() error {
	if b.flushed {
		return ErrCookieFlushed
	}
	b.buffer = nil
	b.cleared = true
	return nil
}

// Finalize writes the buffered list to w, or expires the cookie when the
// channel was cleared. Only the first call writes.
func (b *CookieBackend) Finalize(w http.ResponseWriter) error {
	if b.flushed {
		return nil
	}
	b.flushed = true
	if w == nil {
		return nil
	}

	messages := b.buffer
	b.buffer = nil
	if len(messages) == 0 {
		if b.cleared {
			http.SetCookie(w, b.cookie("", -1))
		}
		return nil
	}

	value, err := b.codec.Encode(messages)
	if err != nil {
		return err
	}
	if len(value) > maxCookieBytes {
		log.Printf("msg: cookie %s is %d bytes, browsers may drop it", b.name, len(value))
	}
	http.SetCookie(w, b.cookie(value, b.opts.MaxAge))
	return nil
}

func (b *CookieBackend) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     b.name,
		Value:    value,
		Path:     b.opts.Path,
		Domain:   b.opts.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   b.opts.Policy.IsHTTPS(b.request),
		SameSite: http.SameSiteLaxMode,
	}
}

var _ Backend = (*CookieBackend)(nil)
