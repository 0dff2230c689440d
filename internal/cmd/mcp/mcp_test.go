package mcp

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "localhost:8081" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("expected default transport stdio, got %q", cfg.Transport)
	}
	if cfg.DBPath != "" {
		t.Fatalf("expected empty default db path, got %q", cfg.DBPath)
	}
	if cfg.WaitWorld {
		t.Fatal("expected world health wait to default off")
	}
}

func TestParseConfigWorldWait(t *testing.T) {
	t.Setenv("YINGZHOU_MCP_WAIT_WORLD", "true")

	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-world-addr", "world:9999"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.WaitWorld {
		t.Fatal("expected world health wait enabled via env")
	}
	if cfg.WorldAddr != "world:9999" {
		t.Fatalf("expected flag world addr, got %q", cfg.WorldAddr)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("YINGZHOU_MCP_HTTP_ADDR", "env-http")
	t.Setenv("YINGZHOU_WORLD_DB_PATH", "env.db")

	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	args := []string{"-http-addr", "flag-http", "-transport", "http"}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "flag-http" {
		t.Fatalf("expected flag to override env, got %q", cfg.HTTPAddr)
	}
	if cfg.Transport != "http" {
		t.Fatalf("expected transport http, got %q", cfg.Transport)
	}
	if cfg.DBPath != "env.db" {
		t.Fatalf("expected env db path, got %q", cfg.DBPath)
	}
}
