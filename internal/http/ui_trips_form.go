package httpx

import (
	"net/http"
	"strings"

	"github.com/rotalabs/viagens-ui/internal/domain/model"
	"github.com/rotalabs/viagens-ui/internal/http/validation"
)

// tripFormData holds parsed form data for trip creation.
type tripFormData struct {
	Origin        string
	Destination   string
	Description   string
	TransportMode string
	// Form state preservation
	FormOrigin        string
	FormDestination   string
	FormDescription   string
	FormTransportMode string
}

// parseTripForm parses and validates trip form data.
func parseTripForm(r *http.Request) (tripFormData, map[string]string) {
	errs := map[string]string{}
	if err := r.ParseForm(); err != nil {
		errs["_"] = "Invalid form submission."
	}

	origin := strings.TrimSpace(r.Form.Get("origin"))
	destination := strings.TrimSpace(r.Form.Get("destination"))
	description := strings.TrimSpace(r.Form.Get("description"))
	transportMode := strings.TrimSpace(r.Form.Get("transport_mode"))

	v := validation.New().
		Validate("origin", origin, validation.Required("Origin", 255)).
		Validate("destination", destination, validation.Required("Destination", 255)).
		Validate("transport_mode", transportMode, validation.Required("Transport mode", 64)).
		Validate("description", description, validation.Optional("Description", 1000))
	for k, msg := range v.Errors() {
		errs[k] = msg
	}

	return tripFormData{
		Origin:            origin,
		Destination:       destination,
		Description:       description,
		TransportMode:     transportMode,
		FormOrigin:        origin,
		FormDestination:   destination,
		FormDescription:   description,
		FormTransportMode: transportMode,
	}, errs
}

// formStateData returns the Form* keys used to repopulate the create form.
func (f tripFormData) formStateData() map[string]any {
	return map[string]any{
		"FormOrigin":        f.FormOrigin,
		"FormDestination":   f.FormDestination,
		"FormDescription":   f.FormDescription,
		"FormTransportMode": f.FormTransportMode,
	}
}

// TripCreate handles POST to create a trip. Validation failures re-render the
// board with field errors and the entered values; the remote API is never
// called for an invalid form. Remote failures land on the board as its error
// banner via the board service.
// POST /trips.
func (h *UIHandlers) TripCreate(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil || h.TripSvc == nil {
		h.NotFound(w, r)
		return
	}

	form, errs := parseTripForm(r)
	if len(errs) > 0 {
		h.renderTripFormErrors(w, r, form, errs)
		return
	}

	req := model.NewCreateTripRequest(form.Origin, form.Destination, form.Description, form.TransportMode)
	board, err := h.TripSvc.Create(r.Context(), session, req)
	if err != nil {
		// The service only returns validation errors here; anything the
		// remote API rejected is already on the board.
		h.renderTripFormErrors(w, r, form, map[string]string{"_": err.Error()})
		return
	}

	h.finishBoardAction(w, r, board)
}

// renderTripFormErrors re-renders the board page with validation errors and
// the submitted values preserved.
func (h *UIHandlers) renderTripFormErrors(w http.ResponseWriter, r *http.Request, form tripFormData, errs map[string]string) {
	session := GetSessionFromContext(r.Context())

	data := form.formStateData()
	data["Trips"] = []tripRow{}
	if session != nil && h.TripSvc != nil {
		if board, err := h.TripSvc.Board(r.Context(), session); err == nil {
			data["Trips"] = toTripRows(board)
			data["Loaded"] = board.Loaded
		}
	}

	RenderError(ErrorOpts{
		W:           w,
		R:           r,
		FieldErrors: errs,
		Renderer:    h.renderDashboardPage,
		PageMeta:    tripsPageMeta(),
		Data:        data,
	})
}
