package httpapi

import (
	"net/http"

	"github.com/BearBump/ZapShift/internal/models"
	"github.com/go-chi/chi/v5"
)

type registerResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Inserted   bool   `json:"inserted"`
	InsertedID string `json:"insertedId,omitempty"`
}

func (a *API) registerUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := decodeJSON(w, r, &u); err != nil {
		writeError(w, r, err, "", internalErrorText)
		return
	}
	res, err := a.users.Register(r.Context(), &u)
	if err != nil {
		writeError(w, r, err, "", internalErrorText)
		return
	}
	if !res.Inserted {
		writeJSON(w, http.StatusOK, registerResponse{Success: true, Message: "User already exists"})
		return
	}
	writeJSON(w, http.StatusOK, registerResponse{
		Success:    true,
		Message:    "User created",
		Inserted:   true,
		InsertedID: res.ID.Hex(),
	})
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := a.users.GetByEmail(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeError(w, r, err, "User not found", internalErrorText)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: u})
}
