package governorkey

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/yingzhou-world/chronicle/internal/chronicle/governor"
)

func TestRunEmitsKeyPairExports(t *testing.T) {
	var out bytes.Buffer
	if err := Run(&out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two export lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "export YINGZHOU_GOVERNOR_PRIVATE_KEY=") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "export YINGZHOU_GOVERNOR_PUBLIC_KEY=") {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}

func TestMintProducesVerifiableGrant(t *testing.T) {
	publicKey, privateKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	var out bytes.Buffer
	err = Mint(&out, MintOptions{
		PrivateKey: base64.RawStdEncoding.EncodeToString(privateKey),
		Issuer:     "chronicle-admin",
		Audience:   "chronicle-world",
		Scope:      governor.ScopeWorldAdvance,
		TTL:        time.Minute,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	cfg := governor.Config{
		Issuer:   "chronicle-admin",
		Audience: "chronicle-world",
		Key:      publicKey,
	}
	claims, err := governor.ValidateGrant(strings.TrimSpace(out.String()), governor.Expectation{Scope: governor.ScopeWorldAdvance}, cfg)
	if err != nil {
		t.Fatalf("validate minted grant: %v", err)
	}
	if claims.Scope != governor.ScopeWorldAdvance {
		t.Fatalf("unexpected scope %q", claims.Scope)
	}
}

func TestMintRejectsBadKey(t *testing.T) {
	var out bytes.Buffer
	err := Mint(&out, MintOptions{PrivateKey: "not-base64!", Issuer: "i", Audience: "a", Scope: "s"})
	if err == nil {
		t.Fatal("expected decode error")
	}
}
