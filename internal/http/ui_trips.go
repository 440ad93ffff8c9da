package httpx

import (
	"net/http"

	"github.com/rotalabs/viagens-ui/internal/domain/model"
	"github.com/rotalabs/viagens-ui/internal/http/uiutil"
)

// tripRow is the template-facing view of a trip record.
type tripRow struct {
	ID            string
	Origin        string
	Destination   string
	Description   string
	TransportMode string
	Pending       bool
}

func toTripRows(board *model.Board) []tripRow {
	out := make([]tripRow, 0, len(board.Trips))
	for _, t := range board.Trips {
		row := tripRow{
			ID:            t.ID.String(),
			Origin:        t.Origin,
			Destination:   t.Destination,
			TransportMode: t.TransportMode,
			Pending:       board.IsPending(t.ID),
		}
		if t.Description != nil {
			row.Description = *t.Description
		}
		out = append(out, row)
	}
	return out
}

func tripsPageMeta() PageMeta {
	return PageMeta{Title: "Viagens - Trips", PageTitle: "Trips", CurrentPage: PageTrips}
}

// emptyBoardData returns the keys the board templates always dereference,
// so renders without a fetch or a submitted form still resolve cleanly.
func emptyBoardData() map[string]any {
	return map[string]any{
		"Trips":             []tripRow{},
		"Errors":            map[string]string{},
		"FormOrigin":        "",
		"FormDestination":   "",
		"FormDescription":   "",
		"FormTransportMode": "",
	}
}

// tripsTemplateData assembles the board page data: rows, refresh metadata,
// and the board's single user-visible error if present.
func (h *UIHandlers) tripsTemplateData(r *http.Request, board *model.Board) *TemplateDataBuilder {
	builder := NewTemplateData(r, tripsPageMeta())
	for k, v := range emptyBoardData() {
		builder.With(k, v)
	}
	builder.
		With("Trips", toTripRows(board)).
		With("Loaded", board.Loaded)

	if !board.RefreshedAt.IsZero() {
		builder.With("RefreshedAt", uiutil.FormatFriendlyDateTime(board.RefreshedAt))
	}
	if board.LastError != "" {
		builder.WithError(board.LastError)
	}
	return builder
}

// Trips renders the trip board page.
// GET /trips.
func (h *UIHandlers) Trips(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil || h.TripSvc == nil {
		h.NotFound(w, r)
		return
	}

	board, err := h.TripSvc.Board(r.Context(), session)
	if err != nil {
		h.logger().Error("failed to load trip board", "error", err, "user_id", session.UserID)
		RenderError(ErrorOpts{
			W:        w,
			R:        r,
			Err:      err,
			Renderer: h.renderDashboardPage,
			PageMeta: tripsPageMeta(),
			Data:     emptyBoardData(),
		})
		return
	}

	h.renderDashboardPage(w, r, h.tripsTemplateData(r, board).Build())
}

// TripsRefresh replaces the board's list with a fresh fetch.
// POST /trips/refresh.
func (h *UIHandlers) TripsRefresh(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil || h.TripSvc == nil {
		h.NotFound(w, r)
		return
	}

	board, err := h.TripSvc.Refresh(r.Context(), session)
	if err != nil {
		h.logger().Error("trip board refresh failed", "error", err, "user_id", session.UserID)
		RenderError(ErrorOpts{
			W:        w,
			R:        r,
			Err:      err,
			Renderer: h.renderDashboardPage,
			PageMeta: tripsPageMeta(),
			Data:     emptyBoardData(),
		})
		return
	}

	h.finishBoardAction(w, r, board)
}

// TripDelete removes a trip record. The route is admin-gated but the board
// service re-checks the role; a forbidden result renders as an error banner.
// POST /trips/{id}/delete.
func (h *UIHandlers) TripDelete(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	id := model.TripID(r.PathValue("id"))
	if session == nil || h.TripSvc == nil || id == "" {
		h.NotFound(w, r)
		return
	}

	board, err := h.TripSvc.Delete(r.Context(), session, id)
	if err != nil {
		h.logger().Warn("trip delete rejected", "error", err, "user_id", session.UserID, "trip_id", id)
		h.renderTripsError(w, r, err)
		return
	}

	h.finishBoardAction(w, r, board)
}

// finishBoardAction completes a board mutation: HTMX requests get the
// re-rendered content swapped in place, regular browsers get a
// POST-redirect-GET back to the board.
func (h *UIHandlers) finishBoardAction(w http.ResponseWriter, r *http.Request, board *model.Board) {
	if WantsPartial(r) {
		h.renderDashboardPage(w, r, h.tripsTemplateData(r, board).Build())
		return
	}
	http.Redirect(w, r, "/trips", http.StatusSeeOther)
}

// renderTripsError renders the board page with the current list and an
// error banner derived from err.
func (h *UIHandlers) renderTripsError(w http.ResponseWriter, r *http.Request, err error) {
	session := GetSessionFromContext(r.Context())

	data := emptyBoardData()
	if session != nil && h.TripSvc != nil {
		if board, boardErr := h.TripSvc.Board(r.Context(), session); boardErr == nil {
			data["Trips"] = toTripRows(board)
			data["Loaded"] = board.Loaded
			if !board.RefreshedAt.IsZero() {
				data["RefreshedAt"] = uiutil.FormatFriendlyDateTime(board.RefreshedAt)
			}
		}
	}

	RenderError(ErrorOpts{
		W:        w,
		R:        r,
		Err:      err,
		Renderer: h.renderDashboardPage,
		PageMeta: tripsPageMeta(),
		Data:     data,
	})
}
