package bootstrap

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/rotalabs/viagens-ui/config"
	"github.com/rotalabs/viagens-ui/internal/adapters/authroles"
	"github.com/rotalabs/viagens-ui/internal/adapters/devauth"
	"github.com/rotalabs/viagens-ui/internal/adapters/oidc"
	redisadapter "github.com/rotalabs/viagens-ui/internal/adapters/redis"
	"github.com/rotalabs/viagens-ui/internal/ports"
	"github.com/rotalabs/viagens-ui/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient

	// DecodeFailures, when set, counts access tokens whose payload segment
	// cannot be decoded.
	DecodeFailures interface{ Inc() }

	Logger *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil if auth is not configured or configuration is invalid.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}

	// Redis session store and role mapper are shared by both modes
	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:")
	roleMapper := authroles.RoleSetMapper{AdminRole: cfg.Auth.AdminRole}

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		return buildDevAuthService(cfg, sessionStore, roleMapper)

	case config.AuthModeOAuth:
		return buildOAuthService(cfg, sessionStore, roleMapper)

	default:
		return nil
	}
}

func buildDevAuthService(
	cfg AuthConfig,
	sessionStore *redisadapter.SessionStore,
	roleMapper authroles.RoleSetMapper,
) *service.AuthService {
	// Explicitly enabled dev auth mode; build a local provider.
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:             cfg.Auth.DevAuth.UserID,
		Email:              cfg.Auth.DevAuth.Email,
		Name:               cfg.Auth.DevAuth.Name,
		Roles:              cfg.Auth.DevAuth.Roles,
		SigningKey:         cfg.Auth.DevAuth.SigningKey,
		RoleClaimNamespace: cfg.Auth.RoleClaimNamespace,
		// session duration defaults inside provider
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		}
		return nil
	}

	return newAuthServiceWithProvider(cfg, prov, sessionStore, roleMapper)
}

func buildOAuthService(
	cfg AuthConfig,
	sessionStore *redisadapter.SessionStore,
	roleMapper authroles.RoleSetMapper,
) *service.AuthService {
	// Only enable when fully configured
	oauth := cfg.Auth.OAuth
	if oauth.DiscoveryURL == "" || oauth.ClientID == "" || oauth.ClientSecret == "" {
		if cfg.Logger != nil {
			cfg.Logger.Warn("AuthModeOAuth selected but required config missing; auth disabled",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
			)
		}
		return nil
	}

	prov, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		LogoutURL:    oauth.LogoutURL,
		Audience:     oauth.Audience,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create OIDC provider, auth disabled", "error", err)
		}
		return nil
	}

	return newAuthServiceWithProvider(cfg, prov, sessionStore, roleMapper)
}

func newAuthServiceWithProvider(
	cfg AuthConfig,
	provider ports.AuthProvider,
	sessionStore *redisadapter.SessionStore,
	roleMapper authroles.RoleSetMapper,
) *service.AuthService {
	return service.NewAuthService(service.AuthServiceOptions{
		Provider:       provider,
		Sessions:       sessionStore,
		Roles:          roleMapper,
		RoleClaimKeys:  cfg.Auth.RoleClaimKeys(),
		DecodeFailures: cfg.DecodeFailures,
		Logger:         cfg.Logger,
	})
}
