package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func TestWaitForHealthServing(t *testing.T) {
	fixture := startHealthServer(t, grpc_health_v1.HealthCheckResponse_SERVING)
	conn := fixture.dial(t)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := WaitForHealth(ctx, conn, "", nil); err != nil {
		t.Fatalf("wait for health: %v", err)
	}
}

func TestWaitForHealthSeesLateTransition(t *testing.T) {
	fixture := startHealthServer(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	conn := fixture.dial(t)
	defer conn.Close()

	go func() {
		time.Sleep(200 * time.Millisecond)
		fixture.setStatus(grpc_health_v1.HealthCheckResponse_SERVING)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := WaitForHealth(ctx, conn, "", nil); err != nil {
		t.Fatalf("wait for health after transition: %v", err)
	}
}

func TestWaitForHealthRespectsContext(t *testing.T) {
	fixture := startHealthServer(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	conn := fixture.dial(t)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := WaitForHealth(ctx, conn, "", nil); err == nil {
		t.Fatal("expected context error, got nil")
	}
}

func TestWaitForHealthRequiresConnection(t *testing.T) {
	if err := WaitForHealth(context.Background(), nil, "", nil); err == nil {
		t.Fatal("expected error for missing connection")
	}
}

// healthFixture is a live health server bound to a loopback port.
type healthFixture struct {
	addr      string
	setStatus func(grpc_health_v1.HealthCheckResponse_ServingStatus)
}

func startHealthServer(t *testing.T, status grpc_health_v1.HealthCheckResponse_ServingStatus) *healthFixture {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	grpcServer := gogrpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", status)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- grpcServer.Serve(listener)
	}()

	t.Cleanup(func() {
		grpcServer.GracefulStop()
		_ = listener.Close()
		select {
		case <-serveErr:
		case <-time.After(2 * time.Second):
		}
	})

	return &healthFixture{
		addr: listener.Addr().String(),
		setStatus: func(next grpc_health_v1.HealthCheckResponse_ServingStatus) {
			healthServer.SetServingStatus("", next)
		},
	}
}

func (f *healthFixture) dial(t *testing.T) *gogrpc.ClientConn {
	t.Helper()

	conn, err := gogrpc.NewClient(
		f.addr,
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial health server: %v", err)
	}
	return conn
}
