package devauth

// Package devauth provides a config-driven AuthProvider for local development.
// It mints a real HS256-signed token carrying the configured roles under the
// configured claim namespace, so the claim-decoding and role-derivation paths
// run exactly as they do against a live IdP. The api stub shares the signing
// key and verifies the token server-side.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/rotalabs/viagens-ui/internal/domain/auth"
	"github.com/rotalabs/viagens-ui/internal/ports"
)

// Config controls the dev auth provider behavior.
// All fields are required except Roles, which may be empty.
type Config struct {
	UserID     string
	Email      string
	Name       string
	Roles      []string
	SigningKey string

	// RoleClaimNamespace prefixes the role claim key ("{namespace}/roles").
	RoleClaimNamespace string

	SessionDuration time.Duration // default 8h when zero
}

// Provider implements ports.AuthProvider for local development.
// It short-circuits the OAuth flow by redirecting back to our own callback
// with locally generated state and nonce. Exchange ignores the code and
// returns the configured identity with a freshly minted token set.
type Provider struct {
	cfg Config
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	if cfg.SigningKey == "" {
		return nil, errors.New("dev auth: SigningKey is required")
	}
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = 8 * time.Hour
	}
	cfg.Roles = append([]string(nil), cfg.Roles...)
	return &Provider{cfg: cfg}, nil
}

// Begin returns a local callback URL and cryptographically secure state and nonce.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	// Our standard handler expects GET /auth/callback?code=...&state=...
	authURL := "/auth/callback?code=dev&state=" + state
	return authURL, state, nonce, nil
}

// Exchange ignores the provided code/state/nonce (validation handled by the
// callback handler) and returns the configured identity with new tokens.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	return p.identity(time.Now())
}

// Refresh re-mints the token set; dev sessions never lose their credentials.
func (p *Provider) Refresh(_ context.Context, _ domainauth.TokenSet) (domainauth.TokenSet, error) {
	id, err := p.identity(time.Now())
	if err != nil {
		return domainauth.TokenSet{}, err
	}
	return id.Tokens, nil
}

func (p *Provider) identity(now time.Time) (domainauth.Identity, error) {
	expiresAt := now.Add(p.cfg.SessionDuration)

	token, err := p.mintToken(now, expiresAt)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("mint dev token: %w", err)
	}

	return domainauth.Identity{
		UserID: p.cfg.UserID,
		Name:   p.cfg.Name,
		Email:  p.cfg.Email,
		ProfileClaims: map[string]any{
			"sub":   p.cfg.UserID,
			"name":  p.cfg.Name,
			"email": p.cfg.Email,
		},
		Tokens: domainauth.TokenSet{
			AccessToken: token,
			ExpiresAt:   expiresAt,
		},
		ExpiresAt: expiresAt,
	}, nil
}

// mintToken signs an HS256 token whose payload carries the configured roles
// under the namespaced role claim key.
func (p *Provider) mintToken(now, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":   p.cfg.UserID,
		"email": p.cfg.Email,
		"name":  p.cfg.Name,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	roleKey := "roles"
	if p.cfg.RoleClaimNamespace != "" {
		roleKey = p.cfg.RoleClaimNamespace + "/roles"
	}
	claims[roleKey] = p.cfg.Roles

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(p.cfg.SigningKey))
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	// Compute number of random bytes needed to produce at least n base64 URL chars
	bLen := (n*3 + 3) / 4
	b := make([]byte, bLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) < n {
		// pad
		extra := make([]byte, 1)
		if _, err := rand.Read(extra); err != nil {
			return "", err
		}
		s += base64.RawURLEncoding.EncodeToString(extra)
	}
	return s[:n], nil
}
