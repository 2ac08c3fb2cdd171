// Package blurb parses the blurb service flags and launches the web server.
package blurb

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/blurb/internal/msg"
	"github.com/louisbranch/blurb/internal/msg/msgconfig"
	entrypoint "github.com/louisbranch/blurb/internal/platform/cmd"
	"github.com/louisbranch/blurb/internal/platform/requestmeta"
	"github.com/louisbranch/blurb/internal/services/web"
	"github.com/louisbranch/blurb/internal/session"
	"github.com/louisbranch/blurb/internal/session/memory"
	sessionredis "github.com/louisbranch/blurb/internal/session/redis"
	sessionsqlite "github.com/louisbranch/blurb/internal/session/sqlite"
)

// Session store backends accepted by -session-store.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

const purgeInterval = 10 * time.Minute

// Config holds blurb command configuration.
type Config struct {
	HTTPAddr            string        `env:"HTTP_ADDR" envDefault:"localhost:8080"`
	AppName             string        `env:"APP_NAME" envDefault:"blurb"`
	MsgConfigPath       string        `env:"MSG_CONFIG"`
	SessionStore        string        `env:"SESSION_STORE" envDefault:"memory"`
	RedisAddr           string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	SessionDBPath       string        `env:"SESSION_DB_PATH" envDefault:"data/blurb-sessions.db"`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecret        string        `env:"MSG_COOKIE_SECRET"`
	TrustForwardedProto bool          `env:"TRUST_FORWARDED_PROTO"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.MsgConfigPath, "msg-config", cfg.MsgConfigPath, "Channel config file (.yaml, .yml or .toml)")
	fs.StringVar(&cfg.SessionStore, "session-store", cfg.SessionStore, "Session store: memory, redis or sqlite")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the redis session store")
	fs.StringVar(&cfg.SessionDBPath, "session-db", cfg.SessionDBPath, "SQLite path for the sqlite session store")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Idle session lifetime")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Honor X-Forwarded-Proto when marking cookies Secure")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.SessionStore = strings.ToLower(strings.TrimSpace(cfg.SessionStore))
	switch cfg.SessionStore {
	case StoreMemory, StoreRedis, StoreSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported session store %q", cfg.SessionStore)
	}
	return cfg, nil
}

// Run starts the blurb web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBlurb, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

func run(ctx context.Context, cfg Config) error {
	store, err := openSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()
	if purger, ok := store.(session.Purger); ok {
		go session.PurgeLoop(ctx, purger, purgeInterval)
	}

	policy := requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}
	manager, err := session.NewManager(store, session.WithTTL(cfg.SessionTTL), session.WithPolicy(policy))
	if err != nil {
		return fmt.Errorf("init session manager: %w", err)
	}
	source, err := msgconfig.Watch(ctx, cfg.MsgConfigPath)
	if err != nil {
		return fmt.Errorf("load msg config: %w", err)
	}
	codec, err := cookieCodec(cfg.CookieSecret)
	if err != nil {
		return err
	}

	server, err := web.NewServer(ctx, web.Config{
		HTTPAddr: cfg.HTTPAddr,
		AppName:  cfg.AppName,
		Policy:   policy,
	}, web.Dependencies{
		Sessions:  manager,
		MsgConfig: source,
		Codec:     codec,
	})
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}
	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve web: %w", err)
	}
	return nil
}

func openSessionStore(ctx context.Context, cfg Config) (session.Store, error) {
	switch cfg.SessionStore {
	case StoreRedis:
		store, err := sessionredis.Open(ctx, sessionredis.Config{Addr: cfg.RedisAddr})
		if err != nil {
			return nil, fmt.Errorf("open redis session store: %w", err)
		}
		return store, nil
	case StoreSQLite:
		if dir := filepath.Dir(cfg.SessionDBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create session db dir: %w", err)
			}
		}
		store, err := sessionsqlite.Open(ctx, cfg.SessionDBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite session store: %w", err)
		}
		return store, nil
	default:
		return memory.New(), nil
	}
}

// cookieCodec signs cookie channels when a secret is configured.
func cookieCodec(secret string) (msg.Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return msg.JSONCodec{}, nil
	}
	codec, err := msg.NewSignedCodec([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("init cookie codec: %w", err)
	}
	return codec, nil
}
