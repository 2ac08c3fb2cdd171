// Package msg stores flash messages: short typed notices written while one
// request is handled and read back, usually once, by a later request.
//
// A Store owns one named channel and keeps its messages in a Backend. The
// session backend reads and writes through a server-side session; the cookie
// backend buffers the list in memory and writes a single cookie per response.
// Stores are obtained from a request-scoped Registry, which Middleware builds
// for every request and finalizes before the response headers are sent.
package msg
