package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/blurb/internal/msg"
	"github.com/louisbranch/blurb/internal/msg/msgconfig"
	"github.com/louisbranch/blurb/internal/platform/httpx"
	"github.com/louisbranch/blurb/internal/platform/requestmeta"
	"github.com/louisbranch/blurb/internal/platform/timeouts"
	"github.com/louisbranch/blurb/internal/services/web/i18n"
	"github.com/louisbranch/blurb/internal/session"
)

// DefaultAppName is shown in page titles when Config.AppName is empty.
const DefaultAppName = "blurb"

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr string
	AppName  string
	Policy   requestmeta.SchemePolicy
}

// Dependencies are the collaborators the handler is built from.
type Dependencies struct {
	Sessions *session.Manager
	// MsgConfig supplies the channel config snapshot for each request; nil
	// uses msg.DefaultConfig.
	MsgConfig *msgconfig.Source
	// Codec encodes cookie channels; nil selects msg.JSONCodec.
	Codec msg.Codec
}

// Server hosts the web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler assembles the routes and middleware chain.
func NewHandler(config Config, deps Dependencies) (http.Handler, error) {
	if deps.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	appName := strings.TrimSpace(config.AppName)
	if appName == "" {
		appName = DefaultAppName
	}
	h := &handler{
		appName:   appName,
		policy:    config.Policy,
		msgConfig: deps.MsgConfig,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleHome)
	mux.HandleFunc("POST /messages", h.handleCreateMessage)
	mux.HandleFunc("POST /messages/delete", h.handleDeleteMessages)
	mux.HandleFunc("GET /messages.json", h.handleListMessages)

	return httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		deps.Sessions.Middleware(),
		msg.Middleware(msg.MiddlewareOptions{
			Config:  deps.MsgConfig.Current,
			Session: sessionFromRequest,
			Codec:   deps.Codec,
			Printer: printerFromRequest,
			Policy:  config.Policy,
		}),
	), nil
}

func sessionFromRequest(r *http.Request) msg.SessionStore {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		return nil
	}
	return sess
}

func printerFromRequest(r *http.Request) msg.Printer {
	tag, _ := i18n.ResolveTag(r)
	return i18n.Printer(tag)
}

// NewServer builds a configured web server.
func NewServer(ctx context.Context, config Config, deps Dependencies) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(config, deps)
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
