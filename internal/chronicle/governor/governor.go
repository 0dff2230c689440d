// Package governor verifies the EdDSA-signed grants the execution
// environment presents for world-level mutations. When the chronicle runs
// embedded there is no chain serializing privileged calls, so era advances
// and finalization require a grant minted with the governor key.
package governor

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/yingzhou-world/chronicle/internal/platform/errors"
)

// Grant scopes.
const (
	// ScopeWorldAdvance allows advancing the global era.
	ScopeWorldAdvance = "world:advance"
	// ScopeWorldFinalize allows sealing the world.
	ScopeWorldFinalize = "world:finalize"
)

// grantEnv holds raw env values before post-parse validation.
type grantEnv struct {
	Issuer    string `env:"YINGZHOU_GOVERNOR_ISSUER"`
	Audience  string `env:"YINGZHOU_GOVERNOR_AUDIENCE"`
	PublicKey string `env:"YINGZHOU_GOVERNOR_PUBLIC_KEY"`
}

// Config defines how governor grants are verified.
type Config struct {
	Issuer   string
	Audience string
	Key      ed25519.PublicKey
	Now      func() time.Time
}

// Enabled reports whether grant verification is configured. An unset
// governor means the deployment trusts its execution environment and skips
// grant checks.
func (c Config) Enabled() bool {
	return len(c.Key) == ed25519.PublicKeySize
}

// Expectation defines the scope a grant must carry.
type Expectation struct {
	Scope string
}

// Claims captures validated governor grant claims.
type Claims struct {
	Issuer    string
	Audience  []string
	ExpiresAt time.Time
	NotBefore time.Time
	IssuedAt  time.Time
	JWTID     string
	Scope     string
}

// grantClaims is the internal claims type used for JWT parsing.
type grantClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope"`
}

// LoadConfigFromEnv reads governor verification configuration. All three
// variables are optional together: if none is set, verification is
// disabled; if any is set, all are required.
func LoadConfigFromEnv(now func() time.Time) (Config, error) {
	var raw grantEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse governor env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	publicKey := strings.TrimSpace(raw.PublicKey)
	if issuer == "" && audience == "" && publicKey == "" {
		return Config{}, nil
	}
	if issuer == "" {
		return Config{}, fmt.Errorf("YINGZHOU_GOVERNOR_ISSUER is required")
	}
	if audience == "" {
		return Config{}, fmt.Errorf("YINGZHOU_GOVERNOR_AUDIENCE is required")
	}
	if publicKey == "" {
		return Config{}, fmt.Errorf("YINGZHOU_GOVERNOR_PUBLIC_KEY is required")
	}
	keyBytes, err := decodeBase64(publicKey)
	if err != nil {
		return Config{}, fmt.Errorf("decode governor public key: %w", err)
	}
	if len(keyBytes) != ed25519.PublicKeySize {
		return Config{}, fmt.Errorf("governor public key must be %d bytes", ed25519.PublicKeySize)
	}
	if now == nil {
		now = time.Now
	}
	return Config{
		Issuer:   issuer,
		Audience: audience,
		Key:      ed25519.PublicKey(keyBytes),
		Now:      now,
	}, nil
}

// ValidateGrant verifies a governor grant token against the expected scope.
func ValidateGrant(grant string, expected Expectation, cfg Config) (Claims, error) {
	grant = strings.TrimSpace(grant)
	if grant == "" {
		return Claims{}, apperrors.New(apperrors.CodeGovernorGrantInvalid, "governor grant is required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Issuer == "" || cfg.Audience == "" || !cfg.Enabled() {
		return Claims{}, errors.New("governor grant verifier is not configured")
	}

	var parsed grantClaims
	_, err := jwt.ParseWithClaims(grant, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Key, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return Claims{}, apperrors.WithMetadata(
			apperrors.CodeGovernorGrantMismatch,
			"governor grant issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return Claims{}, apperrors.WithMetadata(
			apperrors.CodeGovernorGrantMismatch,
			"governor grant audience mismatch",
			map[string]string{"Field": "audience"},
		)
	}

	if parsed.ID == "" {
		return Claims{}, apperrors.New(apperrors.CodeGovernorGrantInvalid, "governor grant jti is required")
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, apperrors.New(apperrors.CodeGovernorGrantInvalid, "governor grant exp is required")
	}

	now := cfg.Now().UTC()
	exp := parsed.ExpiresAt.Time.UTC()
	if !exp.After(now) {
		return Claims{}, apperrors.New(apperrors.CodeGovernorGrantInvalid, "governor grant is expired")
	}
	if parsed.NotBefore != nil {
		nbf := parsed.NotBefore.Time.UTC()
		if now.Before(nbf) {
			return Claims{}, apperrors.New(apperrors.CodeGovernorGrantInvalid, "governor grant not active yet")
		}
	}

	if strings.TrimSpace(parsed.Scope) == "" || parsed.Scope != expected.Scope {
		return Claims{}, apperrors.WithMetadata(
			apperrors.CodeGovernorGrantMismatch,
			"governor grant scope mismatch",
			map[string]string{"Field": "scope"},
		)
	}

	claims := Claims{
		Issuer:    parsed.Issuer,
		Audience:  []string(parsed.Audience),
		ExpiresAt: exp,
		JWTID:     parsed.ID,
		Scope:     parsed.Scope,
	}
	if parsed.NotBefore != nil {
		claims.NotBefore = parsed.NotBefore.Time.UTC()
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrEd25519Verification) {
		return apperrors.New(apperrors.CodeGovernorGrantInvalid, "governor grant signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeGovernorGrantInvalid, "governor grant alg is invalid")
	}
	return apperrors.New(apperrors.CodeGovernorGrantInvalid, "governor grant is invalid")
}

// audienceContains reports whether the audience list contains the value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
