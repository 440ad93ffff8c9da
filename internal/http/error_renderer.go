package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/rotalabs/viagens-ui/internal/adapters/tripsapi"
)

// ErrorRenderer is a function that renders an error template with the given data.
// This allows the error renderer to work with different rendering strategies.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, data any)

// ErrorOpts contains all options needed to render an error response.
type ErrorOpts struct {
	// W is the HTTP response writer
	W http.ResponseWriter
	// R is the HTTP request
	R *http.Request
	// Err is the error that occurred (optional, can be nil if only field errors)
	Err error
	// FieldErrors contains field-level validation errors (field name → error message)
	FieldErrors map[string]string
	// Renderer is the function to render the error template,
	// typically h.renderDashboardPage
	Renderer ErrorRenderer
	// PageMeta contains page metadata (title, current page, etc.)
	PageMeta PageMeta
	// Data contains additional template data to pass to the renderer,
	// useful for preserving form input
	Data map[string]any
	// StatusCode is the HTTP status code to set (optional, defaults to 200 for HTMX compatibility)
	StatusCode int
}

// RenderError renders an error response using consistent error handling patterns.
// Remote viagens API failures surface their status line and body verbatim
// ("HTTP 403: <body>"); everything else maps to a generic friendly message.
func RenderError(opts ErrorOpts) {
	if opts.Renderer == nil {
		http.Error(opts.W, "misconfigured error renderer", http.StatusInternalServerError)
		return
	}

	builder := NewTemplateData(opts.R, opts.PageMeta)

	generalError := UserMessage(opts.Err)

	if len(opts.FieldErrors) > 0 {
		builder.WithFieldErrors(opts.FieldErrors)
	}

	if generalError != "" {
		builder.WithError(generalError)
	} else if len(opts.FieldErrors) > 0 {
		builder.WithError(errMsgFixBelow)
	}

	for k, v := range opts.Data {
		builder.With(k, v)
	}

	if opts.StatusCode != 0 {
		opts.W.WriteHeader(opts.StatusCode)
	}

	opts.Renderer(opts.W, opts.R, builder.Build())
}

// UserMessage converts an error into the message shown on the board.
// Returns empty string if err is nil.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	// Distinguish between timeout and cancellation for better UX
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out. Please try again."
	}
	if errors.Is(err, context.Canceled) {
		return "Request was canceled."
	}

	// Remote API failures carry the status and the server's words; show them as-is.
	if statusErr, ok := tripsapi.AsStatusError(err); ok {
		return statusErr.Error()
	}

	return "An error occurred. Please try again."
}
