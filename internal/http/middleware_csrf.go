package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

const (
	// DefaultCSRFCookieName is the cookie (and form field) carrying the token.
	DefaultCSRFCookieName = "csrf_token"
	// DefaultCSRFHeaderName is the header HTMX requests submit the token in.
	DefaultCSRFHeaderName = "X-Csrf-Token"
	// DefaultCSRFTokenLength is the token length in bytes before encoding.
	DefaultCSRFTokenLength = 32

	csrfCookieMaxAge = 3600 * 12
)

// CSRFConfig holds configuration for the CSRF protection middleware.
// Zero-value fields fall back to the defaults above.
type CSRFConfig struct {
	CookieName    string
	HeaderName    string
	FormFieldName string
	CookieDomain  string
	TokenLength   int
}

func (cfg *CSRFConfig) applyDefaults() {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCSRFCookieName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultCSRFHeaderName
	}
	if cfg.FormFieldName == "" {
		cfg.FormFieldName = DefaultCSRFCookieName
	}
	if cfg.TokenLength == 0 {
		cfg.TokenLength = DefaultCSRFTokenLength
	}
}

// CSRFProtection returns a double-submit-cookie CSRF middleware. A random
// token is issued in a cookie on first contact and must accompany every
// state-changing request (POST, PUT, DELETE, PATCH), either in the
// X-Csrf-Token header for HTMX requests or in the csrf_token form field for
// plain form posts. Safe methods pass through untouched.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	cfg.applyDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := csrfCookieValue(r, cfg.CookieName)
			if token == "" {
				fresh, err := newCSRFToken(cfg.TokenLength)
				if err != nil {
					// Fail closed rather than issue a predictable token.
					http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
					return
				}
				token = fresh
				issueCSRFCookie(w, r, cfg, token)
			}

			// Templates read the token from the context to embed it in forms.
			r = r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token))

			if mutatesState(r.Method) && !csrfTokenMatches(r, token, cfg) {
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// mutatesState reports whether the method needs CSRF validation. GET, HEAD,
// OPTIONS, and TRACE are exempt.
func mutatesState(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

func csrfCookieValue(r *http.Request, cookieName string) string {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func newCSRFToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf token generation failed: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func issueCSRFCookie(w http.ResponseWriter, r *http.Request, cfg CSRFConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		HttpOnly: false, // HTMX reads the cookie to set the request header
		Secure:   r.TLS != nil || isForwardedHTTPS(r),
		SameSite: http.SameSiteStrictMode,
		MaxAge:   csrfCookieMaxAge,
	})
}

// isForwardedHTTPS reports whether the request arrived over HTTPS at the
// proxy. X-Forwarded-Proto may carry a comma-separated chain.
func isForwardedHTTPS(r *http.Request) bool {
	xfProto := r.Header.Get("X-Forwarded-Proto")
	if xfProto == "" {
		return false
	}

	for _, proto := range strings.Split(xfProto, ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}

	return false
}

// csrfTokenMatches compares the submitted token against the cookie value in
// constant time. The header wins when present; the form field is only
// consulted for form-encoded bodies so other content types are not drained.
func csrfTokenMatches(r *http.Request, cookieToken string, cfg CSRFConfig) bool {
	if cookieToken == "" {
		return false
	}

	if headerToken := r.Header.Get(cfg.HeaderName); headerToken != "" {
		return subtle.ConstantTimeCompare([]byte(headerToken), []byte(cookieToken)) == 1
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return false
		}
		if formToken := r.FormValue(cfg.FormFieldName); formToken != "" {
			return subtle.ConstantTimeCompare([]byte(formToken), []byte(cookieToken)) == 1
		}
	}

	return false
}

type csrfTokenKey struct{}

// GetCSRFToken returns the CSRF token stored in the request context, or ""
// when the middleware did not run.
func GetCSRFToken(r *http.Request) string {
	if token, ok := r.Context().Value(csrfTokenKey{}).(string); ok {
		return token
	}
	return ""
}
