// Package msgconfig loads channel configuration for the msg package from
// YAML or TOML files with an environment overlay, and can watch the file for
// edits.
package msgconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/louisbranch/blurb/internal/msg"
	"github.com/louisbranch/blurb/internal/platform/config"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables that override file values.
const EnvPrefix = "BLURB_MSG_"

// Load reads the config at path and applies the environment overlay. An
// empty path starts from msg.DefaultConfig. The result is validated.
func Load(path string) (msg.Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return msg.Config{}, err
	}
	if err := config.ParseEnvPrefixed(&cfg, EnvPrefix); err != nil {
		return msg.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return msg.Config{}, fmt.Errorf("validate %s: %w", displayPath(path), err)
	}
	return cfg, nil
}

func readFile(path string) (msg.Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return msg.DefaultConfig(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return msg.Config{}, fmt.Errorf("read msg config: %w", err)
	}
	cfg, err := Decode(filepath.Ext(path), raw)
	if err != nil {
		return msg.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses raw as YAML (".yaml", ".yml") or TOML (".toml"). Missing
// top-level values fall back to msg.DefaultConfig.
func Decode(ext string, raw []byte) (msg.Config, error) {
	var cfg msg.Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return msg.Config{}, fmt.Errorf("decode yaml: %w", err)
		}
	case ".toml":
		meta, err := toml.Decode(string(raw), &cfg)
		if err != nil {
			return msg.Config{}, fmt.Errorf("decode toml: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return msg.Config{}, fmt.Errorf("decode toml: unknown key %s", undecoded[0])
		}
	default:
		return msg.Config{}, &msg.Error{
			Kind:    msg.ErrorKindConfiguration,
			Message: fmt.Sprintf("unsupported config format %q", ext),
		}
	}
	return withDefaults(cfg), nil
}

func withDefaults(cfg msg.Config) msg.Config {
	defaults := msg.DefaultConfig()
	if len(cfg.Channels) == 0 {
		cfg.Channels = defaults.Channels
	}
	if strings.TrimSpace(cfg.DefaultChannel) == "" {
		cfg.DefaultChannel = defaults.DefaultChannel
	}
	if strings.TrimSpace(cfg.DefaultView) == "" {
		cfg.DefaultView = defaults.DefaultView
	}
	return cfg
}

func displayPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "msg config"
	}
	return path
}
