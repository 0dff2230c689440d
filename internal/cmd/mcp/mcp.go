// Package mcp parses MCP command flags and selects stdio or HTTP transport.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/yingzhou-world/chronicle/internal/chronicle/app"
	"github.com/yingzhou-world/chronicle/internal/chronicle/governor"
	storagesqlite "github.com/yingzhou-world/chronicle/internal/chronicle/storage/sqlite"
	entrypoint "github.com/yingzhou-world/chronicle/internal/platform/cmd"
	"github.com/yingzhou-world/chronicle/internal/platform/discovery"
	grpcutil "github.com/yingzhou-world/chronicle/internal/platform/grpc"
	"github.com/yingzhou-world/chronicle/internal/platform/timeouts"
	"github.com/yingzhou-world/chronicle/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath    string `env:"YINGZHOU_WORLD_DB_PATH"`
	HTTPAddr  string `env:"YINGZHOU_MCP_HTTP_ADDR" envDefault:"localhost:8081"`
	Transport string `env:"YINGZHOU_MCP_TRANSPORT" envDefault:"stdio"`
	WorldAddr string `env:"YINGZHOU_WORLD_ADDR"`
	WaitWorld bool   `env:"YINGZHOU_MCP_WAIT_WORLD"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the chronicle sqlite database")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.WorldAddr, "world-addr", cfg.WorldAddr, "World gRPC address for the startup health wait")
	fs.BoolVar(&cfg.WaitWorld, "wait-world", cfg.WaitWorld, "Wait for the world service health check before serving")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter over an embedded chronicle.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMCP, func(runCtx context.Context) error {
		if cfg.WaitWorld {
			if err := waitForWorld(runCtx, cfg.WorldAddr); err != nil {
				return err
			}
		}

		store, err := openChronicleStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		gov, err := governor.LoadConfigFromEnv(nil)
		if err != nil {
			return fmt.Errorf("load governor config: %w", err)
		}
		world, err := app.New(runCtx, store, app.WithGovernor(gov))
		if err != nil {
			return fmt.Errorf("replay chronicle: %w", err)
		}

		return service.Run(runCtx, world, service.Config{
			Transport: service.TransportKind(cfg.Transport),
			HTTPAddr:  cfg.HTTPAddr,
		})
	})
}

// waitForWorld blocks until the world service health check reports SERVING.
// The MCP server shares the world's journal, so waiting avoids racing its
// startup replay when both run under one orchestrator.
func waitForWorld(ctx context.Context, addr string) error {
	addr = discovery.OrDefaultGRPCAddr(addr, discovery.ServiceWorld)
	conn, err := grpcutil.DialWithHealth(ctx, addr, timeouts.GRPCDial, log.Printf, grpcutil.DefaultClientDialOptions()...)
	if err != nil {
		return fmt.Errorf("wait for world at %s: %w", addr, err)
	}
	return conn.Close()
}

// openChronicleStore opens the sqlite journal shared with the world service.
func openChronicleStore(path string) (*storagesqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "world.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	store, err := storagesqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return store, nil
}
