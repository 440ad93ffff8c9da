package httpx

import (
	"bytes"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	viagens "github.com/rotalabs/viagens-ui"
	domainauth "github.com/rotalabs/viagens-ui/internal/domain/auth"
	"github.com/rotalabs/viagens-ui/internal/observability/metrics"
	"github.com/rotalabs/viagens-ui/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth         *service.AuthService
	Trips        *service.TripBoardService
	CookieDomain string
	// Absolute URL of /auth/callback as registered with the identity
	// provider; derived from the request host when empty.
	AuthRedirectURL string
	// Metrics exposition; the endpoint is omitted when Metrics is nil.
	Metrics     *metrics.Metrics
	MetricsPath string
	IsDev       bool         // Development mode flag for hot reloading, etc.
	Logger      *slog.Logger // Logger for template and HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	var authHandlers *AuthHandlers
	if services.Auth != nil {
		authHandlers = &AuthHandlers{
			Svc:          services.Auth,
			Boards:       services.Trips,
			CookieDomain: services.CookieDomain,
			RedirectURL:  services.AuthRedirectURL,
			Logger:       services.Logger,
		}
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	if authHandlers != nil {
		registerAuthRoutes(mux, authHandlers)
	}

	if services.Metrics != nil {
		path := services.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, promhttp.HandlerFor(
			services.Metrics.Registry(),
			promhttp.HandlerOpts{},
		))
	}

	// Static assets at /static
	// Dev mode: serve from disk for hot reloading
	// Prod mode: serve from embedded FS
	mux.Handle("GET /static/", staticWithFallback(services.IsDev))

	// UI routes with template renderer
	uiHandlers := setupUIHandlers(services)
	if uiHandlers != nil {
		cfg := uiRouteConfig{Auth: services.Auth, CookieDomain: services.CookieDomain}
		registerUIRoutes(mux, uiHandlers, cfg)
	}

	// Wrap with NotFound handler and browser detection middleware
	handler := &notFoundHandler{
		mux:        mux,
		uiHandlers: uiHandlers,
	}

	// Apply browser detection middleware
	return BrowserDetection()(handler)
}

// templateFilesystems returns the template and critical CSS filesystems.
// In dev mode both come from disk so edits are picked up without a rebuild;
// in production both come from the embedded filesystem.
func templateFilesystems(isDev bool) (fs.FS, fs.FS) {
	if isDev {
		return os.DirFS(TemplatePathFromRoot), os.DirFS("frontend/static")
	}

	templateFS, err := fs.Sub(viagens.TemplateFS, "frontend/templates")
	if err != nil {
		log.Printf("failed to create sub-filesystem for templates: %v; falling back to disk", err)
		templateFS = os.DirFS(TemplatePathFromRoot)
	}
	criticalCSSFS, err := fs.Sub(viagens.StaticFS, "frontend/static")
	if err != nil {
		log.Printf("failed to create sub-filesystem for static assets: %v", err)
		criticalCSSFS = nil
	}
	return templateFS, criticalCSSFS
}

// setupUIHandlers creates UI handlers with a template renderer.
// In dev mode (services.IsDev=true), templates are loaded from disk for hot reloading.
// In production mode (services.IsDev=false), templates are loaded from embedded FS.
func setupUIHandlers(services RouterServices) *UIHandlers {
	templateFS, criticalCSSFS := templateFilesystems(services.IsDev)

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS:    templateFS,
		CriticalCSSFS: criticalCSSFS,
		DevMode:       services.IsDev,
		Logger:        services.Logger,
	})
	if err != nil {
		if services.Logger != nil {
			services.Logger.Error("failed to create template renderer", slog.Any("error", err))
		} else {
			log.Printf("ERROR: failed to create template renderer: %v", err)
		}
		return nil
	}

	return &UIHandlers{
		T:       tr,
		TripSvc: services.Trips,
		Roles:   services.Auth,
		IsDev:   services.IsDev,
		Logger:  services.Logger,
	}
}

// staticWithFallback serves /static/* assets.
// In dev mode (isDev=true), serves from disk for hot reloading.
// In production mode (isDev=false), serves from embedded FS.
func staticWithFallback(isDev bool) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}

	staticSub, err := fs.Sub(viagens.StaticFS, "frontend/static")
	if err != nil {
		log.Printf("failed to create sub-filesystem for static assets: %v", err)
		// Fallback to disk serving if embed fails
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir("frontend/static"))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
}

// staticWithCacheHeaders wraps a static file handler to add cache headers.
// Assets are served under logical names, so they get a short revalidated TTL.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=300, must-revalidate")
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux        *http.ServeMux
	uiHandlers *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter(w)
	// Serve the request through the mux, capturing status, headers, and body
	h.mux.ServeHTTP(cw, r)

	// If the mux didn't handle the request (404), use our custom handler
	if cw.status == http.StatusNotFound {
		// For missing static assets, preserve the default file server response
		if strings.HasPrefix(r.URL.Path, "/static/") {
			cw.flushTo(w)
			return
		}
		if h.uiHandlers != nil {
			h.uiHandlers.NotFound(w, r)
			return
		}
		http.NotFound(w, r)
		return
	}

	// Not a 404: write the captured response
	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		log.Printf("failed to write captured response: %v", err)
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

// uiRouteConfig holds configuration for UI route registration.
type uiRouteConfig struct {
	Auth         *service.AuthService
	CookieDomain string
}

// authWrap returns a no-op wrapper when auth is nil, otherwise applies RequireAuthBrowser.
func (cfg uiRouteConfig) authWrap() func(http.Handler) http.Handler {
	if cfg.Auth == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	return RequireAuthBrowser(cfg.Auth)
}

// userWrap applies RequireAuthBrowser plus CSRF protection for state-changing
// routes available to any authenticated user.
func (cfg uiRouteConfig) userWrap() func(http.Handler) http.Handler {
	if cfg.Auth == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	csrf := CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
	authCheck := RequireAuthBrowser(cfg.Auth)
	return func(h http.Handler) http.Handler {
		return authCheck(csrf(h))
	}
}

// adminWrap returns a no-op wrapper when auth is nil, otherwise applies RequireRoleBrowser with CSRF protection.
func (cfg uiRouteConfig) adminWrap() func(http.Handler) http.Handler {
	if cfg.Auth == nil {
		return func(h http.Handler) http.Handler { return h }
	}
	// Chain CSRF protection with admin role requirement
	csrf := CSRFProtection(CSRFConfig{CookieDomain: cfg.CookieDomain})
	roleCheck := RequireRoleBrowser(cfg.Auth, domainauth.RoleAdmin)
	return func(h http.Handler) http.Handler {
		return roleCheck(csrf(h))
	}
}

// registerUIRoutes wires the browser-facing pages.
func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	wrapUser := cfg.userWrap()
	wrapAdmin := cfg.adminWrap()

	mux.Handle("GET /{$}", wrap(http.HandlerFunc(h.Index)))

	// Trip board: reads for any authenticated user, mutations CSRF-protected,
	// deletes admin-only.
	mux.Handle("GET /trips", wrap(http.HandlerFunc(h.Trips)))
	mux.Handle("POST /trips", wrapUser(http.HandlerFunc(h.TripCreate)))
	mux.Handle("POST /trips/refresh", wrapUser(http.HandlerFunc(h.TripsRefresh)))
	mux.Handle("POST /trips/{id}/delete", wrapAdmin(http.HandlerFunc(h.TripDelete)))

	mux.Handle("GET /profile", wrap(http.HandlerFunc(h.Profile)))

	// Public auth-related UI routes (no auth wrapper)
	mux.Handle("GET /auth/signed-out", http.HandlerFunc(h.SignedOut))
}
