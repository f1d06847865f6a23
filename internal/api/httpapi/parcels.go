package httpapi

import (
	"net/http"

	"github.com/BearBump/ZapShift/internal/models"
	"github.com/go-chi/chi/v5"
)

const parcelNotFoundText = "Parcel not found"

func (a *API) listParcels(w http.ResponseWriter, r *http.Request) {
	ps, err := a.parcels.List(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeError(w, r, err, parcelNotFoundText, internalErrorText)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: ps})
}

func (a *API) getParcel(w http.ResponseWriter, r *http.Request) {
	p, err := a.parcels.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, parcelNotFoundText, internalErrorText)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: p})
}

func (a *API) createParcel(w http.ResponseWriter, r *http.Request) {
	var p models.Parcel
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, err, parcelNotFoundText, internalErrorText)
		return
	}
	id, err := a.parcels.Create(r.Context(), &p)
	if err != nil {
		writeError(w, r, err, parcelNotFoundText, "Failed to insert parcel")
		return
	}
	writeJSON(w, http.StatusCreated, insertedResponse{Success: true, InsertedID: id.Hex()})
}

func (a *API) deleteParcel(w http.ResponseWriter, r *http.Request) {
	if err := a.parcels.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err, parcelNotFoundText, internalErrorText)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Parcel deleted successfully"})
}
