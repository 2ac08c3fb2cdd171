// Package cmd holds the shared plumbing behind blurb command entrypoints:
// env then flag configuration, and a telemetry-wrapped run loop.
package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/blurb/internal/platform/config"
	"github.com/louisbranch/blurb/internal/platform/otel"
)

// EnvPrefix is prepended to every env tag of a command config.
const EnvPrefix = "BLURB_"

// ServiceBlurb names the demo web service in telemetry and logs.
const ServiceBlurb = "blurb"

const defaultTelemetryShutdown = 5 * time.Second

// ParseConfig loads BLURB_-prefixed environment values into cfg. Tags name
// the variable without the prefix, so `env:"HTTP_ADDR"` reads BLURB_HTTP_ADDR.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnvPrefixed(cfg, EnvPrefix)
}

// ParseArgs applies command-line flags on top of the env defaults already
// bound to fs.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if extra := fs.Args(); len(extra) > 0 {
		return errors.New("unexpected arguments: " + strings.Join(extra, " "))
	}
	return nil
}

// RunOption tunes RunWithTelemetry.
type RunOption func(*runOptions)

type runOptions struct {
	shutdownTimeout time.Duration
}

// WithShutdownTimeout bounds how long pending spans may take to flush.
func WithShutdownTimeout(d time.Duration) RunOption {
	return func(o *runOptions) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// RunWithTelemetry sets up tracing for service, executes run, and flushes
// spans once run returns.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error, opts ...RunOption) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	options := runOptions{shutdownTimeout: defaultTelemetryShutdown}
	for _, opt := range opts {
		opt(&options)
	}

	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), options.shutdownTimeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("service=%s otel shutdown: %v", service, err)
		}
	}()

	log.Printf("service=%s starting", service)
	err = run(ctx)
	log.Printf("service=%s stopped", service)
	return err
}
