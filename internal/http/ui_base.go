package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"

	domainauth "github.com/rotalabs/viagens-ui/internal/domain/auth"
	"github.com/rotalabs/viagens-ui/internal/domain/model"
	"github.com/rotalabs/viagens-ui/internal/http/ui/viewmodel"
	"github.com/rotalabs/viagens-ui/internal/service"
)

const errMsgFixBelow = "Please fix the errors below."

// TripsService is the board surface the UI needs.
type TripsService interface {
	Board(ctx context.Context, session *domainauth.Session) (*model.Board, error)
	Refresh(ctx context.Context, session *domainauth.Session) (*model.Board, error)
	Create(ctx context.Context, session *domainauth.Session, req model.CreateTripRequest) (*model.Board, error)
	Delete(ctx context.Context, session *domainauth.Session, id model.TripID) (*model.Board, error)
	Invalidate(ctx context.Context, sessionID string) error
}

// RoleSetter exposes the derived role set for the profile page.
type RoleSetter interface {
	RoleSet(session *domainauth.Session) []string
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ TripsService = (*service.TripBoardService)(nil)
	_ RoleSetter   = (*service.AuthService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T       *TemplateRenderer
	TripSvc TripsService
	Roles   RoleSetter
	IsDev   bool // Development mode flag for enhanced error reporting
	Logger  *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
	}

	if csrfToken := GetCSRFToken(r); csrfToken != "" {
		layout.CSRFToken = csrfToken
	}

	if session := GetSessionFromContext(r.Context()); session != nil {
		role := string(session.Role)
		layout.User = &viewmodel.User{
			Name:    session.Name,
			Email:   session.Email,
			Role:    role,
			Picture: session.Picture,
		}
		layout.IsAuthenticated = true
		layout.IsAdmin = session.Role == domainauth.RoleAdmin
	}

	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"IsAdmin":         layout.IsAdmin,
	}

	if layout.CSRFToken != "" {
		data["CSRFToken"] = layout.CSRFToken
	}
	if layout.User != nil {
		data["User"] = layout.User
	}

	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, optionally fetches content data, and renders.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if err := h.invokePageFetch(r, spec.Fetch, data); err != nil {
		markPageError(data)
	}
	h.renderDashboardPage(w, r, data)
}

// renderDashboardPage renders a dashboard page with proper HTMX partial support.
func (h *UIHandlers) renderDashboardPage(w http.ResponseWriter, r *http.Request, data any) {
	// Handle full page requests first (early return) to reduce nesting
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	// For HTMX requests, render the content plus out-of-band header updates
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// Hint client JS to update nav active state based on current path
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	layout := extractLayoutInfo(data)

	// Include a <title> element so htmx updates document.title on partial swaps
	safeDocTitle := html.EscapeString(layout.Title)
	if _, err := w.Write([]byte(`<title>` + safeDocTitle + `</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}

	// Out-of-band update for the header title
	safeTitle := html.EscapeString(layout.PageTitle)
	if _, err := w.Write([]byte(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` + safeTitle + `</h1>`)); err != nil {
		h.logger().Error("failed to write partial header title", "error", err)
		return
	}

	if err := h.T.t.ExecuteTemplate(w, ContentTemplateFor(layout.CurrentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
		return
	}
}

func (h *UIHandlers) invokePageFetch(
	r *http.Request,
	fetchFn func(ctx context.Context, data map[string]any) error,
	data map[string]any,
) error {
	if fetchFn == nil {
		return nil
	}
	return fetchFn(r.Context(), data)
}

func markPageError(data map[string]any) {
	data["Error"] = true
	if _, ok := data["ErrorMessage"]; ok {
		return
	}
	data["ErrorMessage"] = "An unexpected error occurred. Please try again."
}

func layoutFromProvider(data any) *viewmodel.Layout {
	provider, ok := data.(viewmodel.LayoutProvider)
	if !ok {
		return nil
	}
	return provider.LayoutData()
}

func layoutFromMap(data any) viewmodel.Layout {
	m, mapOK := data.(map[string]any)
	if !mapOK {
		return viewmodel.Layout{}
	}

	layout := viewmodel.Layout{}
	if v, titleOK := m["Title"].(string); titleOK {
		layout.Title = v
	}
	if v, pageTitleOK := m["PageTitle"].(string); pageTitleOK {
		layout.PageTitle = v
	}
	if v, currentPageOK := m["CurrentPage"].(string); currentPageOK {
		layout.CurrentPage = v
	}
	return layout
}

func extractLayoutInfo(data any) viewmodel.Layout {
	if layout := layoutFromProvider(data); layout != nil {
		return *layout
	}

	if layout, ok := data.(viewmodel.Layout); ok {
		return layout
	}

	return layoutFromMap(data)
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	// In dev mode, show detailed error in the response
	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		errHTML := html.EscapeString(err.Error())
		pathHTML := html.EscapeString(r.URL.Path)
		contextHTML := html.EscapeString(context)
		if _, writeErr := w.Write([]byte(`
			<div style="padding: 20px; background: #fee; border: 2px solid #c33; border-radius: 4px; margin: 20px; font-family: monospace;">
				<h2 style="color: #c33; margin-top: 0;">Template Rendering Error</h2>
				<p><strong>Context:</strong> ` + contextHTML + `</p>
				<p><strong>Path:</strong> ` + pathHTML + `</p>
				<p><strong>Error:</strong></p>
				<pre style="background: #fff; padding: 10px; border: 1px solid #ccc; overflow-x: auto;">` + errHTML + `</pre>
			</div>
		`)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	// In production, show generic error
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
