package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/BearBump/ZapShift/internal/models"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
)

const (
	maxBodyBytes        = 1 << 20
	internalErrorText   = "Internal server error"
	invalidJSONBodyText = "must be a valid JSON object"
)

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type insertedResponse struct {
	Success    bool   `json:"success"`
	InsertedID string `json:"insertedId"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// bareError is the body of the payment intent endpoint, which predates the
// success envelope.
type bareError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

// writeError maps service errors onto statuses. Anything that is neither a
// validation failure nor a miss is logged and hidden behind internalMsg.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg, internalMsg string) {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeFailure(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, models.ErrNotFound):
		writeFailure(w, http.StatusNotFound, notFoundMsg)
	default:
		logRequestError(r, err)
		writeFailure(w, http.StatusInternalServerError, internalMsg)
	}
}

func logRequestError(r *http.Request, err error) {
	slog.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err.Error(),
	)
}

// decodeJSON reads a JSON body into v. Malformed input is reported as a
// *models.ValidationError on "body" unless v's own decoding produced a more
// specific one.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			return vErr
		}
		return &models.ValidationError{Field: "body", Reason: invalidJSONBodyText, Err: err}
	}
	return nil
}
