package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"viagens-ui"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"viagens-ui"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email offline_access"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`

	// Audience is the API identifier requested from the provider so the
	// issued access token is accepted by the viagens API. Empty omits the
	// parameter from the authorization request.
	Audience string `env:"AUDIENCE"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string   `env:"USER_ID"     envDefault:"dev-user"`
	Email  string   `env:"EMAIL"       envDefault:"dev@example.com"`
	Name   string   `env:"NAME"        envDefault:"Dev User"`
	Roles  []string `env:"ROLES"       envDefault:"admin;user"        envSeparator:";"`
	// SigningKey is the shared HS256 key for dev tokens so the api stub can
	// verify them. Never used when Mode=oauth.
	SigningKey string `env:"SIGNING_KEY" envDefault:"viagens-dev-secret"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// RoleClaimNamespace prefixes the provider-specific role claim key.
	// Role claims are read from "{namespace}/roles" as well as the plain
	// "roles" and "permissions" keys.
	RoleClaimNamespace string `env:"ROLE_CLAIM_NAMESPACE" envDefault:"https://viagens.rotalabs.dev"`

	// AdminRole is the role name that unlocks administrative actions.
	AdminRole string `env:"ADMIN_ROLE" envDefault:"admin"`
}

// Sanitize normalises role-claim configuration values.
func (c *AuthConfig) Sanitize() {
	c.RoleClaimNamespace = strings.TrimRight(strings.TrimSpace(c.RoleClaimNamespace), "/")
	c.AdminRole = strings.TrimSpace(c.AdminRole)
	if c.AdminRole == "" {
		c.AdminRole = "admin"
	}
}

// RoleClaimKeys returns the ordered claim keys scanned for role arrays.
func (c *AuthConfig) RoleClaimKeys() []string {
	keys := make([]string, 0, 3)
	if c.RoleClaimNamespace != "" {
		keys = append(keys, c.RoleClaimNamespace+"/roles")
	}
	return append(keys, "roles", "permissions")
}
