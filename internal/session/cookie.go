package session

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/louisbranch/blurb/internal/platform/requestmeta"
)

// CookieName is the default session id cookie name.
const CookieName = "blurb_session"

// ReadID returns the session id carried by r's cookie called name. Values
// that are not UUIDs are ignored.
func ReadID(r *http.Request, name string) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	if _, err := uuid.Parse(value); err != nil {
		return "", false
	}
	return value, true
}

// WriteID sets the session id cookie.
func WriteID(w http.ResponseWriter, r *http.Request, name, id string, maxAge int, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    strings.TrimSpace(id),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearID expires the session id cookie.
func ClearID(w http.ResponseWriter, r *http.Request, name string, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   policy.IsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}
