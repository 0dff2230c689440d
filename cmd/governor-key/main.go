// Package main provides a one-shot utility for governor key generation and
// grant minting.
//
// Without flags it emits the asymmetric keypair used to verify world-level
// mutation grants. With -mint it signs a grant for the requested scope.
package main

import (
	"flag"
	"os"
	"time"

	"github.com/yingzhou-world/chronicle/internal/platform/config"
	"github.com/yingzhou-world/chronicle/internal/tools/governorkey"
)

func main() {
	mint := flag.Bool("mint", false, "mint a grant instead of generating a keypair")
	scope := flag.String("scope", "", "grant scope (world:advance or world:finalize)")
	issuer := flag.String("issuer", os.Getenv("YINGZHOU_GOVERNOR_ISSUER"), "grant issuer")
	audience := flag.String("audience", os.Getenv("YINGZHOU_GOVERNOR_AUDIENCE"), "grant audience")
	ttl := flag.Duration("ttl", 5*time.Minute, "grant lifetime")
	flag.Parse()

	if !*mint {
		if err := governorkey.Run(os.Stdout, nil); err != nil {
			config.Exitf("generate governor key: %v", err)
		}
		return
	}

	err := governorkey.Mint(os.Stdout, governorkey.MintOptions{
		PrivateKey: os.Getenv("YINGZHOU_GOVERNOR_PRIVATE_KEY"),
		Issuer:     *issuer,
		Audience:   *audience,
		Scope:      *scope,
		TTL:        *ttl,
	})
	if err != nil {
		config.Exitf("mint governor grant: %v", err)
	}
}
