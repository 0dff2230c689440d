package world

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/yingzhou-world/chronicle/internal/chronicle/app"
	"github.com/yingzhou-world/chronicle/internal/chronicle/governor"
	storagesqlite "github.com/yingzhou-world/chronicle/internal/chronicle/storage/sqlite"
)

// healthServiceName is the named health entry for the chronicle facade.
const healthServiceName = "chronicle.world"

// server hosts the world journal runtime: the replayed facade plus a gRPC
// health listener for process supervision.
type server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *storagesqlite.Store
	world      *app.World
}

// serve builds the runtime and blocks until the context ends.
func serve(ctx context.Context, cfg Config) error {
	addr := cfg.Addr
	if addr == "" {
		addr = fmt.Sprintf(":%d", cfg.Port)
	}

	s, err := newServer(ctx, addr, cfg.DBPath)
	if err != nil {
		return err
	}
	return s.run(ctx)
}

func newServer(ctx context.Context, addr, dbPath string) (*server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	store, err := openChronicleStore(dbPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	gov, err := governor.LoadConfigFromEnv(nil)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("load governor config: %w", err)
	}

	world, err := app.New(ctx, store, app.WithGovernor(gov))
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, fmt.Errorf("replay chronicle: %w", err)
	}

	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(healthServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		world:      world,
	}, nil
}

// run serves until the context ends, then drains gracefully.
func (s *server) run(ctx context.Context) error {
	defer s.closeStore()

	if status, err := s.world.WorldStatus(ctx, ""); err == nil {
		log.Printf("world server listening at %v (era %s, %d events)", s.listener.Addr(), status.State, status.EventCount)
	} else {
		log.Printf("world server listening at %v", s.listener.Addr())
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.grpcServer.GracefulStop()
		return handleErr(<-serveErr)
	case err := <-serveErr:
		return handleErr(err)
	}
}

func (s *server) closeStore() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close chronicle store: %v", err)
	}
}

// openChronicleStore opens the sqlite journal, creating parent directories so
// startup can create the database file.
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
