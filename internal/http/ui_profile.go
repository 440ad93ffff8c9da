package httpx

import (
	"net/http"
	"sort"
)

func profilePageMeta() PageMeta {
	return PageMeta{Title: "Viagens - Profile", PageTitle: "Profile", CurrentPage: PageProfile}
}

// profileClaimRow is a single claim rendered on the profile page.
type profileClaimRow struct {
	Name  string
	Value any
}

// Profile renders the signed-in user's identity: name, email, picture, the
// effective role, the full derived role set, and the raw profile claims.
// GET /profile.
func (h *UIHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		h.NotFound(w, r)
		return
	}

	builder := NewTemplateData(r, profilePageMeta()).
		With("Name", session.Name).
		With("Email", session.Email).
		With("Picture", session.Picture).
		With("Role", string(session.Role))

	if h.Roles != nil {
		builder.With("RoleSet", h.Roles.RoleSet(session))
	}

	if len(session.ProfileClaims) > 0 {
		claims := make([]profileClaimRow, 0, len(session.ProfileClaims))
		for name, value := range session.ProfileClaims {
			claims = append(claims, profileClaimRow{Name: name, Value: value})
		}
		sort.Slice(claims, func(i, j int) bool { return claims[i].Name < claims[j].Name })
		builder.With("Claims", claims)
	}

	h.renderDashboardPage(w, r, builder.Build())
}
