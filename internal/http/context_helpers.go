package httpx

import (
	"context"

	domainauth "github.com/rotalabs/viagens-ui/internal/domain/auth"
)

// sessionKey is the context key under which the auth middleware stores the
// resolved session. Centralized here so middleware and handlers agree.
type sessionKey struct{}

// SetSessionInContext returns a child context carrying the session. A nil
// session leaves ctx untouched.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session placed in the context by the auth
// middleware, or nil for unauthenticated requests.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok {
		return s
	}
	return nil
}
