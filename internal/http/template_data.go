package httpx

import (
	"net/http"
)

// TemplateDataBuilder assembles the data map handed to page templates,
// starting from the shared base fields (session, nav, CSRF token).
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData starts a builder seeded with basePageData for the request.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{
		data: basePageData(r, meta),
		r:    r,
	}
}

// WithError sets the page-level error banner message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors attaches per-field validation errors when any exist.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// With sets an arbitrary template key.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the assembled data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
