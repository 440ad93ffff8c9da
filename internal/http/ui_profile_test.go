package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/rotalabs/viagens-ui/internal/domain/auth"
)

func TestProfilePageShowsIdentityAndRoleSet(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	roles := &fakeAuthService{
		RoleSetFn: func(_ *domainauth.Session) []string { return []string{"admin", "user", "audit"} },
	}
	h := &UIHandlers{T: tr, Roles: roles}

	session := TestSession(domainauth.RoleAdmin)
	session.ProfileClaims = map[string]any{"department": "operations", "locale": "pt-PT"}

	req := WithTestSession(httptest.NewRequest(http.MethodGet, "/profile", nil), session)
	rec := httptest.NewRecorder()
	h.Profile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Test User")
	assert.Contains(t, body, "test@example.com")
	assert.Contains(t, body, "admin")
	assert.Contains(t, body, "audit")
	// Profile claims table, alphabetically ordered.
	assert.Contains(t, body, "department")
	assert.Contains(t, body, "operations")
	assert.Contains(t, body, "pt-PT")
}

func TestProfilePageRequiresSession(t *testing.T) {
	tr := RequireTemplateRenderer(t)
	h := &UIHandlers{T: tr}

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	h.Profile(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
