package httpx

import (
	"io"
	"net/http"
)

const healthBody = `{"status":"ok"}`

// healthHandler answers readiness and liveness probes. It reports process
// liveness only; Redis or remote API trouble degrades features rather than
// taking the UI down, so neither is probed here.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthBody); err != nil {
		return
	}
}
