// Package governorkey generates governor key pairs and mints grants for
// world-level mutations.
package governorkey

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/yingzhou-world/chronicle/internal/chronicle/governor"
)

// Run generates a governor key pair and writes exports.
func Run(out io.Writer, reader io.Reader) error {
	if out == nil {
		return errors.New("output is required")
	}
	if reader == nil {
		reader = rand.Reader
	}
	publicKey, privateKey, err := ed25519.GenerateKey(reader)
	if err != nil {
		return fmt.Errorf("generate governor key: %w", err)
	}
	if _, err := fmt.Fprintf(out, "export YINGZHOU_GOVERNOR_PRIVATE_KEY=%s\n", base64.RawStdEncoding.EncodeToString(privateKey)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "export YINGZHOU_GOVERNOR_PUBLIC_KEY=%s\n", base64.RawStdEncoding.EncodeToString(publicKey)); err != nil {
		return err
	}
	return nil
}

// MintOptions configures a grant minting run.
type MintOptions struct {
	PrivateKey string
	Issuer     string
	Audience   string
	Scope      string
	TTL        time.Duration
}

// Mint signs a governor grant and writes the compact token.
func Mint(out io.Writer, opts MintOptions) error {
	if out == nil {
		return errors.New("output is required")
	}
	key, err := decodeKey(opts.PrivateKey)
	if err != nil {
		return fmt.Errorf("decode private key: %w", err)
	}

	grant, err := governor.MintGrant(key, governor.MintParams{
		Issuer:   opts.Issuer,
		Audience: opts.Audience,
		Scope:    opts.Scope,
		TTL:      opts.TTL,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, grant)
	return err
}

func decodeKey(value string) (ed25519.PrivateKey, error) {
	if value == "" {
		return nil, errors.New("private key is required")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, err
		}
	}
	if len(decoded) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", ed25519.PrivateKeySize, len(decoded))
	}
	return ed25519.PrivateKey(decoded), nil
}
