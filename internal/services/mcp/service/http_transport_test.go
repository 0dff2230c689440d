package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/yingzhou-world/chronicle/internal/chronicle/app"
	"github.com/yingzhou-world/chronicle/internal/chronicle/storage/memory"
)

func TestServeHTTPHealthzAndGracefulShutdown(t *testing.T) {
	world, err := app.New(context.Background(), memory.NewStore())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	server, err := New(world)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	if err := listener.Close(); err != nil {
		t.Fatalf("release port: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ServeHTTP(ctx, addr)
	}()

	if err := waitForHealthz(addr); err != nil {
		cancel()
		t.Fatalf("healthz: %v", err)
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeHTTPRequiresConfiguredServer(t *testing.T) {
	var server *Server
	if err := server.ServeHTTP(context.Background(), ""); err == nil {
		t.Fatal("expected error for unconfigured server")
	}
}

func waitForHealthz(addr string) error {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("healthz did not come up")
}
