// Package timeouts defines shared timeout constants used by the HTTP service
// and its storage clients.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// StoreDial caps the wait time when checking a session store connection at
// startup.
const StoreDial = 2 * time.Second

// SessionIO caps a single session load or save issued by request middleware.
const SessionIO = 2 * time.Second
