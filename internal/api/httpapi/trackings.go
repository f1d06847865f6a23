package httpapi

import (
	"net/http"

	"github.com/BearBump/ZapShift/internal/models"
	"github.com/go-chi/chi/v5"
)

func (a *API) trackingHistory(w http.ResponseWriter, r *http.Request) {
	evs, err := a.trackings.History(r.Context(), chi.URLParam(r, "trackingId"))
	if err != nil {
		writeError(w, r, err, "No tracking history found", internalErrorText)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: evs})
}

func (a *API) appendTracking(w http.ResponseWriter, r *http.Request) {
	var in models.TrackingEventInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err, "", internalErrorText)
		return
	}
	id, err := a.trackings.Append(r.Context(), in)
	if err != nil {
		writeError(w, r, err, "", "Failed to add tracking event")
		return
	}
	writeJSON(w, http.StatusOK, insertedResponse{Success: true, InsertedID: id.Hex()})
}
