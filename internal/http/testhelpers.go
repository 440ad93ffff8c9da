package httpx

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	domainauth "github.com/rotalabs/viagens-ui/internal/domain/auth"
	"github.com/rotalabs/viagens-ui/internal/domain/model"
	"github.com/rotalabs/viagens-ui/internal/service"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
// This centralizes the common pattern of template guard checks in tests.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// SkipIfNoTemplates checks if templates are available and skips the test if not.
func SkipIfNoTemplates(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("Templates not available, skipping integration test")
	}
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// TestSession returns a valid session with the given role for handler tests.
func TestSession(role domainauth.Role) *domainauth.Session {
	return &domainauth.Session{
		ID:     "sess-test",
		UserID: "user-1",
		Name:   "Test User",
		Email:  "test@example.com",
		Role:   role,
		Tokens: domainauth.TokenSet{
			AccessToken: "test-token",
			ExpiresAt:   time.Now().Add(time.Hour),
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// WithTestSession returns the request with the session injected into its context.
func WithTestSession(r *http.Request, session *domainauth.Session) *http.Request {
	return r.WithContext(SetSessionInContext(r.Context(), session))
}

// fakeTripsService is a hand-written TripsService double recording calls.
type fakeTripsService struct {
	BoardFn   func(ctx context.Context, session *domainauth.Session) (*model.Board, error)
	RefreshFn func(ctx context.Context, session *domainauth.Session) (*model.Board, error)
	CreateFn  func(ctx context.Context, session *domainauth.Session, req model.CreateTripRequest) (*model.Board, error)
	DeleteFn  func(ctx context.Context, session *domainauth.Session, id model.TripID) (*model.Board, error)

	BoardCalls   int
	RefreshCalls int
	CreateCalls  int
	DeleteCalls  int
}

func (f *fakeTripsService) Board(ctx context.Context, session *domainauth.Session) (*model.Board, error) {
	f.BoardCalls++
	if f.BoardFn != nil {
		return f.BoardFn(ctx, session)
	}
	return &model.Board{Trips: []model.Trip{}, Loaded: true}, nil
}

func (f *fakeTripsService) Refresh(ctx context.Context, session *domainauth.Session) (*model.Board, error) {
	f.RefreshCalls++
	if f.RefreshFn != nil {
		return f.RefreshFn(ctx, session)
	}
	return &model.Board{Trips: []model.Trip{}, Loaded: true}, nil
}

func (f *fakeTripsService) Create(ctx context.Context, session *domainauth.Session, req model.CreateTripRequest) (*model.Board, error) {
	f.CreateCalls++
	if f.CreateFn != nil {
		return f.CreateFn(ctx, session, req)
	}
	return &model.Board{Trips: []model.Trip{}, Loaded: true}, nil
}

func (f *fakeTripsService) Delete(ctx context.Context, session *domainauth.Session, id model.TripID) (*model.Board, error) {
	f.DeleteCalls++
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, session, id)
	}
	return &model.Board{Trips: []model.Trip{}, Loaded: true}, nil
}

func (f *fakeTripsService) Invalidate(_ context.Context, _ string) error { return nil }

// fakeAuthService is a hand-written AuthServiceInterface double.
type fakeAuthService struct {
	BeginLoginFn    func(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLoginFn func(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	GetSessionFn    func(ctx context.Context, sessionID string) (*domainauth.Session, error)
	RoleSetFn       func(session *domainauth.Session) []string
	LogoutFn        func(ctx context.Context, sessionID string) error

	LogoutCalls int
}

func (f *fakeAuthService) BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error) {
	if f.BeginLoginFn != nil {
		return f.BeginLoginFn(ctx, redirectURL)
	}
	return &service.BeginLoginResult{AuthURL: "https://idp.example.com/auth", State: "state-1", Nonce: "nonce-1"}, nil
}

func (f *fakeAuthService) CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
	if f.CompleteLoginFn != nil {
		return f.CompleteLoginFn(ctx, input)
	}
	return &service.CompleteLoginResult{Session: *TestSession(domainauth.RoleUser)}, nil
}

func (f *fakeAuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if f.GetSessionFn != nil {
		return f.GetSessionFn(ctx, sessionID)
	}
	return TestSession(domainauth.RoleUser), nil
}

func (f *fakeAuthService) RefreshSessionTokens(_ context.Context, session *domainauth.Session) (*domainauth.Session, error) {
	return session, nil
}

func (f *fakeAuthService) RoleSet(session *domainauth.Session) []string {
	if f.RoleSetFn != nil {
		return f.RoleSetFn(session)
	}
	return []string{string(session.Role)}
}

func (f *fakeAuthService) Logout(ctx context.Context, sessionID string) error {
	f.LogoutCalls++
	if f.LogoutFn != nil {
		return f.LogoutFn(ctx, sessionID)
	}
	return nil
}
