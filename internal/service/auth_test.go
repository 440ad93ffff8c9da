package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/rotalabs/viagens-ui/internal/domain/auth"
	mocks "github.com/rotalabs/viagens-ui/internal/mocks/auth"
	"github.com/rotalabs/viagens-ui/internal/ports"
)

// roleClaimKeys mirrors the default claim scan order used in production.
var roleClaimKeys = []string{"https://viagens.rotalabs.dev/roles", "roles", "permissions"}

// mockSessionStore is a test helper for testing session store errors.
type mockSessionStore struct {
	saveFunc   func(context.Context, domainauth.Session) error
	getFunc    func(context.Context, string) (domainauth.Session, error)
	deleteFunc func(context.Context, string) error
}

func (m *mockSessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, sess)
	}
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return domainauth.Session{}, nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func newTestAuthService(provider ports.AuthProvider, sessions ports.SessionStore) *AuthService {
	return NewAuthService(AuthServiceOptions{
		Provider:      provider,
		Sessions:      sessions,
		Roles:         mocks.StaticRoleMapper{AdminRole: "admin"},
		RoleClaimKeys: roleClaimKeys,
	})
}

func TestNewAuthService(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	sessions := mocks.NewMemorySessionStore()

	service := newTestAuthService(provider, sessions)

	assert.NotNil(t, service)
	assert.Equal(t, ports.AuthProvider(provider), service.provider)
	assert.Equal(t, ports.SessionStore(sessions), service.sessions)
}

func TestAuthService_BeginLogin_Success(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

	result, err := service.BeginLogin(context.Background(), "http://localhost:8080/callback")

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.Equal(t, "state-1", result.State)
	assert.Equal(t, "nonce-1", result.Nonce)
}

func TestAuthService_BeginLogin_EmptyRedirectURL(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

	result, err := service.BeginLogin(context.Background(), "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "redirect URL is required")
}

func TestAuthService_BeginLogin_ProviderError(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		BeginFunc: func(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
			return "", "", "", errors.New("provider error")
		},
	}
	service := newTestAuthService(provider, mocks.NewMemorySessionStore())

	result, err := service.BeginLogin(context.Background(), "http://localhost:8080/callback")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "begin auth flow")
	assert.Contains(t, err.Error(), "provider error")
}

func TestAuthService_CompleteLogin_Success(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.NotEmpty(t, result.Session.ID)
	assert.Equal(t, "mock-user-1", result.Session.UserID)
	assert.Equal(t, "Mock User", result.Session.Name)
	assert.Equal(t, "mock.user@example.com", result.Session.Email)
	assert.Equal(t, domainauth.RoleUser, result.Session.Role)
	assert.Equal(t, "mock-access-token", result.Session.Tokens.AccessToken)
	assert.True(t, result.Session.ExpiresAt.After(time.Now()))
}

func TestAuthService_CompleteLogin_AdminFromProfileClaims(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		DefaultUser: domainauth.Identity{
			UserID: "admin-user",
			Name:   "Admin User",
			Email:  "admin@example.com",
			ProfileClaims: map[string]any{
				"https://viagens.rotalabs.dev/roles": []any{"admin", "user"},
			},
			Tokens: domainauth.TokenSet{AccessToken: "opaque"},
		},
	}
	service := newTestAuthService(provider, mocks.NewMemorySessionStore())

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, result.Session.Role)
}

func TestAuthService_CompleteLogin_AdminFromTokenPayload(t *testing.T) {
	// Payload segment: {"https://viagens.rotalabs.dev/roles":["admin"]}
	// An opaque header/signature must not block payload decoding.
	token := "xx.eyJodHRwczovL3ZpYWdlbnMucm90YWxhYnMuZGV2L3JvbGVzIjpbImFkbWluIl19.yy"
	provider := &mocks.MockAuthProvider{
		DefaultUser: domainauth.Identity{
			UserID: "token-admin",
			Email:  "token@example.com",
			Tokens: domainauth.TokenSet{AccessToken: token},
		},
	}
	service := newTestAuthService(provider, mocks.NewMemorySessionStore())

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, result.Session.Role)
}

func TestAuthService_CompleteLogin_MissingCode(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "authorization code is required")
}

func TestAuthService_CompleteLogin_MissingState(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		Nonce: "nonce-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "state parameter is required")
}

func TestAuthService_CompleteLogin_MissingNonce(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "nonce parameter is required")
}

func TestAuthService_CompleteLogin_ExchangeError(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		ExchangeFunc: func(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
			return domainauth.Identity{}, errors.New("exchange error")
		},
	}
	service := newTestAuthService(provider, mocks.NewMemorySessionStore())

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "exchange authorization code")
	assert.Contains(t, err.Error(), "exchange error")
}

func TestAuthService_CompleteLogin_SessionSaveError(t *testing.T) {
	sessions := &mockSessionStore{
		saveFunc: func(_ context.Context, _ domainauth.Session) error {
			return errors.New("save error")
		},
	}
	service := newTestAuthService(mocks.NewMockAuthProvider(), sessions)

	result, err := service.CompleteLogin(context.Background(), CompleteLoginInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "save session")
	assert.Contains(t, err.Error(), "save error")
}

func TestAuthService_RoleSet_UnionsTokenAndProfile(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

	// Payload segment: {"roles":["user"]}
	token := "h.eyJyb2xlcyI6WyJ1c2VyIl19.s"
	session := &domainauth.Session{
		Tokens: domainauth.TokenSet{AccessToken: token},
		ProfileClaims: map[string]any{
			"permissions": []any{"admin", "user"},
		},
	}

	roles := service.RoleSet(session)
	assert.ElementsMatch(t, []string{"user", "admin"}, roles)
}

func TestAuthService_RoleSet_NilSession(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())
	assert.Nil(t, service.RoleSet(nil))
}

func TestAuthService_GetSession_Success(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	service := newTestAuthService(mocks.NewMockAuthProvider(), sessions)
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-1",
		UserID:    "user-123",
		Email:     "user@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, sessions.Save(ctx, session))

	result, err := service.GetSession(ctx, "test-session-1")

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, session.ID, result.ID)
	assert.Equal(t, session.UserID, result.UserID)
	assert.Equal(t, session.Email, result.Email)
	assert.Equal(t, session.Role, result.Role)
}

func TestAuthService_GetSession_EmptyID(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

	result, err := service.GetSession(context.Background(), "")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "session ID is required")
}

func TestAuthService_GetSession_NotFound(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

	result, err := service.GetSession(context.Background(), "non-existent")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "get session")
}

func TestAuthService_GetSession_Expired(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	service := newTestAuthService(mocks.NewMockAuthProvider(), sessions)
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "expired-session",
		UserID:    "user-123",
		Email:     "user@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	}
	require.NoError(t, sessions.Save(ctx, session))

	result, err := service.GetSession(ctx, "expired-session")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "session expired")

	// Verify the expired session was cleaned up
	_, err = sessions.Get(ctx, "expired-session")
	assert.Equal(t, mocks.ErrNotFound, err)
}

func TestAuthService_RefreshSessionTokens_NotNeeded(t *testing.T) {
	provider := &mocks.MockAuthProvider{
		RefreshFunc: func(_ context.Context, _ domainauth.TokenSet) (domainauth.TokenSet, error) {
			t.Fatal("refresh should not be called for a live token")
			return domainauth.TokenSet{}, nil
		},
	}
	service := newTestAuthService(provider, mocks.NewMemorySessionStore())

	session := &domainauth.Session{
		ID:     "s1",
		Tokens: domainauth.TokenSet{AccessToken: "live", ExpiresAt: time.Now().Add(time.Hour)},
	}

	got, err := service.RefreshSessionTokens(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, "live", got.Tokens.AccessToken)
}

func TestAuthService_RefreshSessionTokens_Refreshes(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	service := newTestAuthService(mocks.NewMockAuthProvider(), sessions)
	ctx := context.Background()

	session := &domainauth.Session{
		ID:     "s1",
		UserID: "user-123",
		Tokens: domainauth.TokenSet{
			AccessToken:  "stale",
			RefreshToken: "refresh-me",
			ExpiresAt:    time.Now().Add(-time.Minute),
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}

	got, err := service.RefreshSessionTokens(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "refreshed-access-token", got.Tokens.AccessToken)

	// The refreshed session must be persisted.
	stored, err := sessions.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "refreshed-access-token", stored.Tokens.AccessToken)
}

func TestAuthService_RefreshSessionTokens_NoRefreshToken(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

	session := &domainauth.Session{
		ID:     "s1",
		Tokens: domainauth.TokenSet{AccessToken: "stale", ExpiresAt: time.Now().Add(-time.Minute)},
	}

	got, err := service.RefreshSessionTokens(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, "stale", got.Tokens.AccessToken)
}

func TestAuthService_Logout_Success(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	service := newTestAuthService(mocks.NewMockAuthProvider(), sessions)
	ctx := context.Background()

	session := domainauth.Session{
		ID:        "test-session-1",
		UserID:    "user-123",
		Email:     "user@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	require.NoError(t, sessions.Save(ctx, session))

	require.NoError(t, service.Logout(ctx, "test-session-1"))

	_, err := sessions.Get(ctx, "test-session-1")
	assert.Equal(t, mocks.ErrNotFound, err)
}

func TestAuthService_Logout_EmptyID(t *testing.T) {
	service := newTestAuthService(mocks.NewMockAuthProvider(), mocks.NewMemorySessionStore())

	assert.NoError(t, service.Logout(context.Background(), ""))
}

func TestAuthService_Logout_DeleteError(t *testing.T) {
	sessions := &mockSessionStore{
		deleteFunc: func(_ context.Context, _ string) error {
			return errors.New("delete error")
		},
	}
	service := newTestAuthService(mocks.NewMockAuthProvider(), sessions)

	err := service.Logout(context.Background(), "test-session")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete session")
	assert.Contains(t, err.Error(), "delete error")
}

func TestGenerateSessionID(t *testing.T) {
	id1 := generateSessionID()
	id2 := generateSessionID()

	assert.NotEmpty(t, id1)
	assert.NotEmpty(t, id2)
	assert.NotEqual(t, id1, id2) // Should generate unique IDs

	// Should be valid UUID format
	assert.Len(t, id1, 36) // UUID string length
	assert.Contains(t, id1, "-")
}
