package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port int `env:"BLURB_TEST_PORT" envDefault:"123"`
}

type prefixedTestConfig struct {
	Channel string `env:"CHANNEL"`
	View    string `env:"VIEW"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("BLURB_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvPrefixedKeepsUnsetFields(t *testing.T) {
	t.Setenv("BLURB_CFGTEST_CHANNEL", "cookie")

	cfg := prefixedTestConfig{Channel: "session", View: "msg/all"}
	if err := ParseEnvPrefixed(&cfg, "BLURB_CFGTEST_"); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Channel != "cookie" {
		t.Fatalf("Channel = %q, want %q", cfg.Channel, "cookie")
	}
	if cfg.View != "msg/all" {
		t.Fatalf("View = %q, want %q", cfg.View, "msg/all")
	}
}
