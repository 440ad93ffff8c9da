package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/rotalabs/viagens-ui/internal/domain/auth"
	"github.com/rotalabs/viagens-ui/internal/service"
)

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthLoginRedirectsToProviderAndSetsCookies(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=/profile", nil)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://idp.example.com/auth", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	state := cookieByName(cookies, "oauth_state")
	require.NotNil(t, state)
	assert.Equal(t, "state-1", state.Value)
	assert.True(t, state.HttpOnly)

	nonce := cookieByName(cookies, "oauth_nonce")
	require.NotNil(t, nonce)
	assert.Equal(t, "nonce-1", nonce.Value)

	redirect := cookieByName(cookies, "post_login_redirect")
	require.NotNil(t, redirect)
	assert.Equal(t, "/profile", redirect.Value)
}

func TestAuthLoginRejectsAbsoluteRedirect(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=https://evil.example.com/", nil)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	redirect := cookieByName(rec.Result().Cookies(), "post_login_redirect")
	require.NotNil(t, redirect)
	assert.Equal(t, "/trips", redirect.Value)
}

func TestAuthCallbackRejectsStateMismatch(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=other", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "expected"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthCallbackCompletesLoginAndSetsSession(t *testing.T) {
	session := TestSession(domainauth.RoleUser)
	svc := &fakeAuthService{
		CompleteLoginFn: func(_ context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
			assert.Equal(t, "abc", input.Code)
			assert.Equal(t, "state-1", input.State)
			assert.Equal(t, "nonce-1", input.Nonce)
			return &service.CompleteLoginResult{Session: *session}, nil
		},
	}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=abc&state=state-1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-1"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "nonce-1"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/profile"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	sessionCookie := cookieByName(cookies, "session_id")
	require.NotNil(t, sessionCookie)
	assert.Equal(t, session.ID, sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)

	// Temporary OAuth cookies are cleared.
	state := cookieByName(cookies, "oauth_state")
	require.NotNil(t, state)
	assert.Equal(t, -1, state.MaxAge)
}

func TestAuthLogoutClearsSessionAndInvalidatesBoard(t *testing.T) {
	svc := &fakeAuthService{}
	trips := &fakeTripsService{}
	h := &AuthHandlers{Svc: svc, Boards: trips}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-test"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/auth/signed-out")
	assert.Equal(t, 1, svc.LogoutCalls)

	sessionCookie := cookieByName(rec.Result().Cookies(), "session_id")
	require.NotNil(t, sessionCookie)
	assert.Equal(t, -1, sessionCookie.MaxAge)
}

func TestAuthLogoutReturnsJSONForHTMX(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Hx-Request", "true")
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "success", payload["status"])
	assert.Contains(t, payload["redirect_to"], "/auth/signed-out")
}

func TestAuthStatusAuthenticated(t *testing.T) {
	session := TestSession(domainauth.RoleAdmin)
	svc := &fakeAuthService{
		GetSessionFn: func(_ context.Context, id string) (*domainauth.Session, error) {
			assert.Equal(t, "sess-test", id)
			return session, nil
		},
		RoleSetFn: func(_ *domainauth.Session) []string { return []string{"admin", "user"} },
	}
	h := &AuthHandlers{Svc: svc}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-test"})
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, true, payload["authenticated"])
	user, ok := payload["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, session.Name, user["name"])
	assert.Equal(t, "admin", user["role"])
}

func TestAuthStatusUnauthenticated(t *testing.T) {
	h := &AuthHandlers{Svc: &fakeAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	rec := httptest.NewRecorder()
	h.Status(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, false, payload["authenticated"])
}
