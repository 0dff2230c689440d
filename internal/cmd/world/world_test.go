package world

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("world", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8082 {
		t.Fatalf("expected default port 8082, got %d", cfg.Port)
	}
	if cfg.Addr != "" {
		t.Fatalf("expected empty default addr, got %q", cfg.Addr)
	}
}

func TestParseConfigFlagOverridesEnv(t *testing.T) {
	t.Setenv("YINGZHOU_WORLD_PORT", "9000")

	fs := flag.NewFlagSet("world", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-port", "9001", "-db", "x.db"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("expected flag to override env, got %d", cfg.Port)
	}
	if cfg.DBPath != "x.db" {
		t.Fatalf("expected db path flag, got %q", cfg.DBPath)
	}
}
