package msg

import (
	"fmt"
	"sort"
	"strings"
)

// Medium selects where a channel keeps its messages.
type Medium string

const (
	MediumSession Medium = "session"
	MediumCookie  Medium = "cookie"
)

// Channel names present in DefaultConfig.
const (
	ChannelSession = "session"
	ChannelCookie  = "cookie"
)

// DefaultStorageKey is the session key and cookie name used by the default
// channels.
const DefaultStorageKey = "msg"

// ChannelConfig configures one channel.
type ChannelConfig struct {
	Medium Medium `yaml:"storage_medium" toml:"storage_medium"`
	Key    string `yaml:"storage_key" toml:"storage_key"`
	// MaxAge is the cookie lifetime in seconds for cookie channels; zero
	// keeps the cookie for the browser session.
	MaxAge int `yaml:"max_age" toml:"max_age"`
}

// Validate reports an unsupported medium or a missing key.
func (c ChannelConfig) Validate() error {
	switch c.Medium {
	case MediumSession, MediumCookie:
	default:
		return configurationError(fmt.Sprintf("unsupported storage medium %q", c.Medium), nil)
	}
	if strings.TrimSpace(c.Key) == "" {
		return configurationError("storage key is required", nil)
	}
	if c.MaxAge < 0 {
		return configurationError("max age must not be negative", nil)
	}
	return nil
}

// fill copies fields from settings that c leaves unset.
func (c ChannelConfig) fill(settings ChannelConfig) ChannelConfig {
	if c.Medium == "" {
		c.Medium = settings.Medium
	}
	if strings.TrimSpace(c.Key) == "" {
		c.Key = settings.Key
	}
	if c.MaxAge == 0 {
		c.MaxAge = settings.MaxAge
	}
	return c
}

// Config configures every channel a Registry can open.
type Config struct {
	DefaultChannel string                   `yaml:"default_channel" toml:"default_channel" env:"DEFAULT_CHANNEL"`
	DefaultView    string                   `yaml:"default_view" toml:"default_view" env:"DEFAULT_VIEW"`
	Channels       map[string]ChannelConfig `yaml:"channels" toml:"channels"`
}

// DefaultConfig returns the session and cookie channels, both keyed "msg",
// with the session channel as default.
func DefaultConfig() Config {
	return Config{
		DefaultChannel: ChannelSession,
		DefaultView:    DefaultView,
		Channels: map[string]ChannelConfig{
			ChannelSession: {Medium: MediumSession, Key: DefaultStorageKey},
			ChannelCookie:  {Medium: MediumCookie, Key: DefaultStorageKey},
		},
	}
}

// Channel returns the named channel's config. An empty name selects the
// default channel.
func (c Config) Channel(name string) (string, ChannelConfig, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.defaultChannel()
	}
	channel, ok := c.Channels[name]
	return name, channel, ok
}

// Names lists configured channel names in sorted order.
func (c Config) Names() []string {
	names := make([]string, 0, len(c.Channels))
	for name := range c.Channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every channel and the default channel reference.
func (c Config) Validate() error {
	if len(c.Channels) == 0 {
		return configurationError("at least one channel is required", nil)
	}
	for _, name := range c.Names() {
		if err := c.Channels[name].Validate(); err != nil {
			return fmt.Errorf("channel %q: %w", name, err)
		}
	}
	if _, ok := c.Channels[c.defaultChannel()]; !ok {
		return configurationError(fmt.Sprintf("default channel %q is not configured", c.defaultChannel()), nil)
	}
	return nil
}

func (c Config) defaultChannel() string {
	if name := strings.TrimSpace(c.DefaultChannel); name != "" {
		return name
	}
	return ChannelSession
}

func (c Config) defaultView() string {
	if name := strings.TrimSpace(c.DefaultView); name != "" {
		return name
	}
	return DefaultView
}
