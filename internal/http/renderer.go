package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/rotalabs/viagens-ui/internal/http/uiutil"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t             *template.Template
	criticalCSSFS fs.FS        // For hot reloading in dev mode
	criticalCSS   string       // Cached for production mode
	devMode       bool         // Whether to reload CSS on each request
	logger        *slog.Logger // For logging template errors
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS    fs.FS        // Filesystem containing templates (required)
	CriticalCSSFS fs.FS        // Filesystem containing css/critical.css (optional)
	DevMode       bool         // Enable hot reloading of critical CSS
	Logger        *slog.Logger // Logger for template errors (optional)
}

const fallbackCriticalCSS = ":root{--color-background:#f6f7f9;--color-surface:#fff;--color-text-primary:#2e3138;}"

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
// In dev mode, criticalCSSFS should be os.DirFS("frontend/static") so edits are picked up
// per request; in prod it should be the embedded static filesystem, read once and cached.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}

	var criticalCSS string
	if cfg.CriticalCSSFS != nil && !cfg.DevMode {
		cssBytes, err := fs.ReadFile(cfg.CriticalCSSFS, "css/critical.css")
		if err != nil {
			log.Printf("Warning: failed to load critical CSS from css/critical.css: %v", err)
			criticalCSS = fallbackCriticalCSS
		} else {
			criticalCSS = string(cssBytes)
		}
	}

	renderer := &TemplateRenderer{
		criticalCSSFS: cfg.CriticalCSSFS,
		criticalCSS:   criticalCSS,
		devMode:       cfg.DevMode,
		logger:        cfg.Logger,
	}

	var t *template.Template
	funcs := createTemplateFuncs(&t, renderer)
	var err error
	t, err = template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Error("template parsing failed",
				slog.Any("error", err),
				slog.String("phase", "initialization"),
			)
		}
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

// getCriticalCSS returns the critical CSS, reloading from disk in dev mode.
func (r *TemplateRenderer) getCriticalCSS() string {
	if r.devMode && r.criticalCSSFS != nil {
		cssBytes, err := fs.ReadFile(r.criticalCSSFS, "css/critical.css")
		if err != nil {
			log.Printf("Warning: failed to reload critical CSS in dev mode: %v", err)
			return fallbackCriticalCSS
		}
		return string(cssBytes)
	}
	return r.criticalCSS
}

// RenderFull renders the full page (layout + page content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "layout", data)
}

// RenderPartial renders only the main content area.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "content", data)
}

// RenderError renders an error page using the error template.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, "error-layout", data)
}

func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, templateName string, data any) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, templateName, data); err != nil {
		r.logTemplateError(templateName, err)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		if r.logger != nil {
			r.logger.Error("failed to write rendered template",
				slog.String("template", templateName),
				slog.Any("error", err),
			)
		}
		return err
	}

	return nil
}

// logTemplateError logs a template execution error with context.
func (r *TemplateRenderer) logTemplateError(templateName string, err error) {
	if r.logger == nil || err == nil {
		return
	}
	r.logger.Error("template execution failed",
		slog.String("template", templateName),
		slog.Any("error", err),
	)
}

func createTemplateFuncs(t **template.Template, renderer *TemplateRenderer) template.FuncMap {
	return template.FuncMap{
		"sectionTmpl":  ContentTemplateFor,
		"criticalCSS":  func() template.CSS { return template.CSS(renderer.getCriticalCSS()) }, // #nosec G203 - our own stylesheet
		"staticAsset":  func(path string) string { return "/static/" + path },
		"friendlyTime": friendlyTime,
		"derefStr": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"renderSection": func(page string, data any) (template.HTML, error) {
			if t == nil || *t == nil {
				return "", errors.New("template not initialized")
			}
			var buf bytes.Buffer
			if err := (*t).ExecuteTemplate(&buf, ContentTemplateFor(page), data); err != nil {
				return "", err
			}
			// #nosec G203 - rendered by our own trusted templates; user values were
			// auto-escaped during ExecuteTemplate above.
			return template.HTML(buf.String()), nil
		},
	}
}

// friendlyTime formats time values for display, tolerating pointers and zeros.
func friendlyTime(ts any) string {
	var t0 time.Time
	switch v := ts.(type) {
	case time.Time:
		t0 = v
	case *time.Time:
		if v != nil {
			t0 = *v
		}
	default:
		return ""
	}
	if t0.IsZero() {
		return ""
	}
	return uiutil.FormatFriendlyDateTime(t0)
}
