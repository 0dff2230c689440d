package governor

import (
	"crypto/ed25519"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yingzhou-world/chronicle/internal/platform/id"
)

// MintParams defines the claims of a freshly minted governor grant.
type MintParams struct {
	Issuer   string
	Audience string
	Scope    string
	TTL      time.Duration
	Now      func() time.Time
}

// MintGrant signs a governor grant with the given EdDSA private key.
func MintGrant(key ed25519.PrivateKey, params MintParams) (string, error) {
	if len(key) != ed25519.PrivateKeySize {
		return "", fmt.Errorf("governor private key must be %d bytes", ed25519.PrivateKeySize)
	}
	issuer := strings.TrimSpace(params.Issuer)
	audience := strings.TrimSpace(params.Audience)
	scope := strings.TrimSpace(params.Scope)
	if issuer == "" {
		return "", fmt.Errorf("issuer is required")
	}
	if audience == "" {
		return "", fmt.Errorf("audience is required")
	}
	if scope == "" {
		return "", fmt.Errorf("scope is required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	now := time.Now
	if params.Now != nil {
		now = params.Now
	}

	jti, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("generate grant id: %w", err)
	}

	issued := now().UTC()
	claims := grantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
			ID:        jti,
		},
		Scope: scope,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign governor grant: %w", err)
	}
	return signed, nil
}
