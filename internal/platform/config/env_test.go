package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	SocketPath string `env:"COINCORE_TEST_SOCKET" envDefault:"/tmp/test.sock"`
	Limit      int    `env:"COINCORE_TEST_LIMIT" envDefault:"100"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.SocketPath != "/tmp/test.sock" {
		t.Fatalf("expected default socket path, got %q", cfg.SocketPath)
	}
	if cfg.Limit != 100 {
		t.Fatalf("expected default limit 100, got %d", cfg.Limit)
	}
}

func TestParseEnvOverride(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("COINCORE_TEST_LIMIT", "250")

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Limit != 250 {
		t.Fatalf("expected limit 250, got %d", cfg.Limit)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("COINCORE_TEST_LIMIT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
