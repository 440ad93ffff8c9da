package httpx

import (
	"encoding/json"
	"net/http"
	"strings"
)

// IsHTMX reports whether the request carries the Hx-Request marker header.
func IsHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Hx-Request"), "true")
}

// WantsPartial reports whether the handler should render only the content
// fragment instead of the full layout. All htmx requests get fragments,
// history restores included.
func WantsPartial(r *http.Request) bool {
	return IsHTMX(r)
}

// SetHXRedirect tells htmx to navigate the browser to url after the response.
func SetHXRedirect(w http.ResponseWriter, url string) { w.Header().Set("Hx-Redirect", url) }

// SetHXTrigger fires a client-side event after the swap. The payload is
// serialized into the Hx-Trigger header as {"<event>": <payload>}; a nil
// payload degrades to a bare boolean trigger.
func SetHXTrigger(w http.ResponseWriter, event string, payload any) {
	value := payload
	if value == nil {
		value = true
	}
	b, err := json.Marshal(map[string]any{event: value})
	if err != nil {
		w.Header().Set("Hx-Trigger", "{\""+event+"\":true}")
		return
	}
	w.Header().Set("Hx-Trigger", string(b))
}

// redirectAfterAction sends the browser back to path, using the htmx header
// for htmx-originated requests and a standard redirect otherwise.
func redirectAfterAction(w http.ResponseWriter, r *http.Request, path string) {
	if IsHTMX(r) {
		SetHXRedirect(w, path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
