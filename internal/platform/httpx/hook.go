package httpx

import "net/http"

// BeforeWrite wraps w so hook runs once, right before the first WriteHeader,
// Write or Flush reaches w. Cookies and headers set by the hook are therefore
// still sent. The returned finish func runs the hook when the handler wrote
// nothing; call it after the handler returns.
func BeforeWrite(w http.ResponseWriter, hook func(http.ResponseWriter)) (http.ResponseWriter, func()) {
	hw := &hookWriter{ResponseWriter: w, hook: hook}
	return hw, hw.fire
}

type hookWriter struct {
	http.ResponseWriter
	hook  func(http.ResponseWriter)
	fired bool
}

func (h *hookWriter) fire() {
	if h.fired {
		return
	}
	h.fired = true
	if h.hook != nil {
		h.hook(h.ResponseWriter)
	}
}

func (h *hookWriter) WriteHeader(statusCode int) {
	h.fire()
	h.ResponseWriter.WriteHeader(statusCode)
}

func (h *hookWriter) Write(b []byte) (int, error) {
	h.fire()
	return h.ResponseWriter.Write(b)
}

func (h *hookWriter) Flush() {
	h.fire()
	if flusher, ok := h.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap lets http.ResponseController reach the wrapped writer.
func (h *hookWriter) Unwrap() http.ResponseWriter {
	return h.ResponseWriter
}
