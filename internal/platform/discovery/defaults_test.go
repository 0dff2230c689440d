package discovery

import "testing"

func TestDefaultGRPCAddr(t *testing.T) {
	if got := DefaultGRPCAddr(ServiceWorld); got != "world:8082" {
		t.Fatalf("DefaultGRPCAddr(%q) = %q, want %q", ServiceWorld, got, "world:8082")
	}
	if got := DefaultGRPCAddr("nowhere"); got != "" {
		t.Fatalf("expected empty addr for unknown service, got %q", got)
	}
}

func TestDefaultHTTPAddr(t *testing.T) {
	cases := map[string]string{
		ServiceMCP:    "mcp:8081",
		ServiceJaeger: "jaeger:16686",
	}
	for service, want := range cases {
		if got := DefaultHTTPAddr(service); got != want {
			t.Fatalf("DefaultHTTPAddr(%q) = %q, want %q", service, got, want)
		}
	}
}

func TestOrDefaultGRPCAddr(t *testing.T) {
	if got := OrDefaultGRPCAddr(" custom:9000 ", ServiceWorld); got != "custom:9000" {
		t.Fatalf("expected explicit grpc addr to win, got %q", got)
	}
	if got := OrDefaultGRPCAddr("", ServiceWorld); got != "world:8082" {
		t.Fatalf("expected default grpc addr, got %q", got)
	}
}

func TestOrDefaultHTTPBaseURL(t *testing.T) {
	if got := OrDefaultHTTPBaseURL(" https://chronicle.example.com ", ServiceMCP); got != "https://chronicle.example.com" {
		t.Fatalf("expected explicit base url to win, got %q", got)
	}
	if got := OrDefaultHTTPBaseURL("", ServiceMCP); got != "http://mcp:8081" {
		t.Fatalf("expected default mcp base url, got %q", got)
	}
}
