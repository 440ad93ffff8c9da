package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// TokenSet holds the bearer credentials issued by an IdP.
// AccessToken is opaque to us except for claim inspection; it is forwarded
// verbatim to the viagens API.
type TokenSet struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token is past (or within skew of) expiry.
// A zero expiry means the provider did not report one and the token is
// treated as still valid.
func (t TokenSet) Expired(now time.Time, skew time.Duration) bool {
	if t.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(skew).Before(t.ExpiresAt)
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID  string // stable user identifier (e.g., sub)
	Name    string
	Email   string
	Picture string

	// ProfileClaims is the raw claim object from the ID token / userinfo
	// response. Role extraction scans it alongside the access token payload.
	ProfileClaims map[string]any

	Tokens    TokenSet
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Picture       string         `json:"picture,omitempty"`
	Role          Role           `json:"role"`
	Tokens        TokenSet       `json:"tokens"`
	ProfileClaims map[string]any `json:"profile_claims,omitempty"`
	ExpiresAt     time.Time      `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// HasToken reports whether the session carries a non-empty bearer token.
// Operations against the viagens API no-op without one.
func (s Session) HasToken() bool { return s.Tokens.AccessToken != "" }
