// Package world parses world command flags and starts the chronicle runtime.
package world

import (
	"context"
	"flag"

	entrypoint "github.com/yingzhou-world/chronicle/internal/platform/cmd"
)

// Config holds world command configuration.
type Config struct {
	Port   int    `env:"YINGZHOU_WORLD_PORT" envDefault:"8082"`
	Addr   string `env:"YINGZHOU_WORLD_ADDR"`
	DBPath string `env:"YINGZHOU_WORLD_DB_PATH"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The world server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The world server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the chronicle sqlite database")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the world journal service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWorld, func(runCtx context.Context) error {
		return serve(runCtx, cfg)
	})
}
