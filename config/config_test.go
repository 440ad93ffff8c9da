package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "oauth")
	t.Setenv("OAUTH_CLIENT_ID", "app-client")
	t.Setenv("OAUTH_CLIENT_SECRET", "super-secret")
	t.Setenv("OAUTH_REDIRECT_URL", "https://viagens.example.com/auth/callback")
	t.Setenv("OAUTH_DISCOVERY_URL", "https://login.example.com/.well-known/openid-configuration")
	t.Setenv("OAUTH_SCOPE", "openid profile email")
	t.Setenv("OAUTH_AUDIENCE", "https://api.viagens.example.com")
	t.Setenv("DEV_AUTH_USER_ID", "dev-user")
	t.Setenv("DEV_AUTH_EMAIL", "dev@example.com")
	t.Setenv("DEV_AUTH_NAME", "Dev User")
	t.Setenv("DEV_AUTH_ROLES", "admin;user")
	t.Setenv("DEV_AUTH_SIGNING_KEY", "dev-secret")
	t.Setenv("ROLE_CLAIM_NAMESPACE", "https://viagens.example.com")
	t.Setenv("ADMIN_ROLE", "admin")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeOAuth,
		OAuth: OAuthConfig{
			ClientID:     "app-client",
			ClientSecret: "super-secret",
			RedirectURL:  "https://viagens.example.com/auth/callback",
			Scope:        "openid profile email",
			DiscoveryURL: "https://login.example.com/.well-known/openid-configuration",
			Audience:     "https://api.viagens.example.com",
		},
		DevAuth: DevAuthConfig{
			UserID:     "dev-user",
			Email:      "dev@example.com",
			Name:       "Dev User",
			Roles:      []string{"admin", "user"},
			SigningKey: "dev-secret",
		},
		RoleClaimNamespace: "https://viagens.example.com",
		AdminRole:          "admin",
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_ParseDefaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.TripsAPI.BaseURL != "http://localhost:8081" {
		t.Errorf("unexpected trips API base URL default: %q", cfg.TripsAPI.BaseURL)
	}
	if cfg.TripsAPI.Timeout != 15*time.Second {
		t.Errorf("unexpected trips API timeout default: %v", cfg.TripsAPI.Timeout)
	}
	if cfg.Auth.RoleClaimNamespace != "https://viagens.rotalabs.dev" {
		t.Errorf("unexpected role claim namespace default: %q", cfg.Auth.RoleClaimNamespace)
	}
	if cfg.Auth.AdminRole != "admin" {
		t.Errorf("unexpected admin role default: %q", cfg.Auth.AdminRole)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("unexpected HTTP addr default: %q", cfg.HTTP.Addr)
	}
	if cfg.Cache.BoardTTL != 30*time.Minute {
		t.Errorf("unexpected board TTL default: %v", cfg.Cache.BoardTTL)
	}
}

func TestAuthConfig_RoleClaimKeys(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		expected  []string
	}{
		{
			name:      "with namespace",
			namespace: "https://viagens.example.com",
			expected:  []string{"https://viagens.example.com/roles", "roles", "permissions"},
		},
		{
			name:      "empty namespace",
			namespace: "",
			expected:  []string{"roles", "permissions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AuthConfig{RoleClaimNamespace: tt.namespace}
			got := cfg.RoleClaimKeys()
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected keys %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAuthConfig_Sanitize(t *testing.T) {
	cfg := AuthConfig{
		RoleClaimNamespace: " https://viagens.example.com/ ",
		AdminRole:          "  ",
	}

	cfg.Sanitize()

	if cfg.RoleClaimNamespace != "https://viagens.example.com" {
		t.Errorf("expected trimmed namespace, got %q", cfg.RoleClaimNamespace)
	}
	if cfg.AdminRole != "admin" {
		t.Errorf("expected admin role fallback, got %q", cfg.AdminRole)
	}
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var mode AuthMode
	if err := mode.UnmarshalText([]byte("MOCK")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != AuthModeMock {
		t.Errorf("expected mock mode, got %q", mode)
	}

	if err := mode.UnmarshalText([]byte("ldap")); err == nil {
		t.Error("expected error for invalid mode")
	}
}

func TestTripsAPIConfig_Sanitize(t *testing.T) {
	cfg := TripsAPIConfig{
		BaseURL: " http://api.example.com/ ",
		Timeout: -1 * time.Second,
	}

	cfg.Sanitize()

	if cfg.BaseURL != "http://api.example.com" {
		t.Errorf("expected trimmed base URL, got %q", cfg.BaseURL)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("expected timeout fallback, got %v", cfg.Timeout)
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:   true,
		Namespace: " ",
		Path:      "metrics",
	}

	cfg.Sanitize()

	if cfg.Namespace != "viagens_ui" {
		t.Fatalf("expected namespace default, got %q", cfg.Namespace)
	}
	if cfg.Path != "/metrics" {
		t.Fatalf("expected path default for non-rooted value, got %q", cfg.Path)
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{CompressionLevel: 42}
	cfg.Sanitize()
	if cfg.CompressionLevel != 9 {
		t.Errorf("expected compression level clamped to 9, got %d", cfg.CompressionLevel)
	}

	cfg = HTTPConfig{CompressionLevel: -3}
	cfg.Sanitize()
	if cfg.CompressionLevel != 1 {
		t.Errorf("expected compression level clamped to 1, got %d", cfg.CompressionLevel)
	}
}

func TestHTTPConfig_SanitizeCookieDomain(t *testing.T) {
	cfg := HTTPConfig{CompressionLevel: 6, CookieDomain: ".co.uk"}
	cfg.Sanitize()
	if cfg.CookieDomain != "" {
		t.Errorf("expected public-suffix cookie domain cleared, got %q", cfg.CookieDomain)
	}

	cfg = HTTPConfig{CompressionLevel: 6, CookieDomain: ".viagens.example.com"}
	cfg.Sanitize()
	if cfg.CookieDomain != ".viagens.example.com" {
		t.Errorf("expected regular cookie domain preserved, got %q", cfg.CookieDomain)
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	t.Setenv("GO_ENV", "development")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Error("expected dev mode from GO_ENV=development")
	}
}
