package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rotalabs/viagens-ui/internal/claims"
	domainauth "github.com/rotalabs/viagens-ui/internal/domain/auth"
	"github.com/rotalabs/viagens-ui/internal/ports"
)

// refreshSkew is how close to token expiry we proactively refresh.
const refreshSkew = 30 * time.Second

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Roles    ports.RoleMapper

	// RoleClaimKeys are the claim keys scanned for role arrays, in order.
	RoleClaimKeys []string

	// DecodeFailures, when set, is incremented for each non-empty access
	// token whose payload segment cannot be decoded.
	DecodeFailures interface{ Inc() }

	Logger *slog.Logger
}

// AuthService orchestrates authentication flows: provider exchange, role
// derivation from token and profile claims, and session persistence.
type AuthService struct {
	provider       ports.AuthProvider
	sessions       ports.SessionStore
	roles          ports.RoleMapper
	roleClaimKeys  []string
	decodeFailures interface{ Inc() }
	logger         *slog.Logger
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:       opts.Provider,
		sessions:       opts.Sessions,
		roles:          opts.Roles,
		roleClaimKeys:  opts.RoleClaimKeys,
		decodeFailures: opts.DecodeFailures,
		logger:         logger,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	input := ports.BeginInput{RedirectURL: redirectURL}
	authURL, state, nonce, err := s.provider.Begin(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{
		AuthURL: authURL,
		State:   state,
		Nonce:   nonce,
	}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin completes an authentication flow by exchanging the code for
// an identity, deriving the role set from the access-token payload and the
// profile claims, and persisting a session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	exchangeInput := ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	}
	identity, err := s.provider.Exchange(ctx, exchangeInput)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	role := s.deriveRole(identity.Tokens.AccessToken, identity.ProfileClaims)

	session := domainauth.Session{
		ID:            generateSessionID(),
		UserID:        identity.UserID,
		Name:          identity.Name,
		Email:         identity.Email,
		Picture:       identity.Picture,
		Role:          role,
		Tokens:        identity.Tokens,
		ProfileClaims: identity.ProfileClaims,
		ExpiresAt:     identity.ExpiresAt,
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	return &CompleteLoginResult{Session: session}, nil
}

// RoleSet returns the deduplicated role names derived from the session's
// access-token payload and profile claims. This is what the profile page
// shows and what role gating is computed from.
func (s *AuthService) RoleSet(session *domainauth.Session) []string {
	if session == nil {
		return nil
	}
	payload := s.decodeTokenPayload(session.Tokens.AccessToken)
	return claims.Roles(s.roleClaimKeys, payload, session.ProfileClaims)
}

// deriveRole maps the claim-derived role set to the application role.
// A malformed or missing token payload contributes nothing; the profile
// claims alone can still carry roles.
func (s *AuthService) deriveRole(accessToken string, profile map[string]any) domainauth.Role {
	payload := s.decodeTokenPayload(accessToken)
	roleSet := claims.Roles(s.roleClaimKeys, payload, profile)
	return s.roles.Map(roleSet)
}

// decodeTokenPayload decodes the token's claim payload, counting failures for
// non-empty tokens so operators can spot IdPs issuing opaque tokens.
func (s *AuthService) decodeTokenPayload(accessToken string) map[string]any {
	payload, ok := claims.Decode(accessToken, s.logger)
	if !ok && accessToken != "" && s.decodeFailures != nil {
		s.decodeFailures.Inc()
	}
	return payload
}

// GetSession retrieves a session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	// Check if session is expired
	if time.Now().After(session.ExpiresAt) {
		// Clean up expired session
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// RefreshSessionTokens refreshes the session's bearer credentials when they
// are expired or about to expire. The refreshed session is persisted and
// returned; a refresh failure leaves the stored session untouched so the
// caller can decide whether to force re-login.
func (s *AuthService) RefreshSessionTokens(ctx context.Context, session *domainauth.Session) (*domainauth.Session, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}
	if !session.Tokens.Expired(time.Now(), refreshSkew) {
		return session, nil
	}
	if session.Tokens.RefreshToken == "" {
		return session, nil
	}

	tokens, err := s.provider.Refresh(ctx, session.Tokens)
	if err != nil {
		return nil, fmt.Errorf("refresh tokens: %w", err)
	}

	refreshed := *session
	refreshed.Tokens = tokens
	refreshed.Role = s.deriveRole(tokens.AccessToken, refreshed.ProfileClaims)

	if saveErr := s.sessions.Save(ctx, refreshed); saveErr != nil {
		return nil, fmt.Errorf("save refreshed session: %w", saveErr)
	}

	s.logger.Debug("session tokens refreshed", "user_id", refreshed.UserID)
	return &refreshed, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	// Use UUID for session ID - it's URL-safe and has good entropy
	id := uuid.New()
	return id.String()
}
