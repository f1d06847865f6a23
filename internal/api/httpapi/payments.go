package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/BearBump/ZapShift/internal/integrations/payment"
	"github.com/BearBump/ZapShift/internal/models"
	"github.com/pkg/errors"
)

type paymentIntentRequest struct {
	Amount json.Number `json:"amount"`
}

type paymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type paymentRecordedResponse struct {
	Success       bool   `json:"success"`
	InsertedID    string `json:"insertedId"`
	ParcelUpdated bool   `json:"parcelUpdated"`
}

// createPaymentIntent keeps the bare {clientSecret} / {error} bodies existing
// checkout clients parse.
func (a *API) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req paymentIntentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, bareError{Error: err.Error()})
		return
	}
	if req.Amount == "" {
		writeJSON(w, http.StatusBadRequest, bareError{Error: models.Required("amount").Error()})
		return
	}
	amount, err := req.Amount.Int64()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, bareError{Error: "amount must be an integer number of cents"})
		return
	}

	secret, err := a.payments.CreateIntent(r.Context(), amount)
	if err != nil {
		var gwErr *payment.GatewayError
		msg := internalErrorText
		if errors.As(err, &gwErr) {
			msg = gwErr.Message
		}
		logRequestError(r, err)
		writeJSON(w, http.StatusInternalServerError, bareError{Error: msg})
		return
	}
	writeJSON(w, http.StatusOK, paymentIntentResponse{ClientSecret: secret})
}

func (a *API) recordPayment(w http.ResponseWriter, r *http.Request) {
	var p models.Payment
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, err, "", internalErrorText)
		return
	}
	res, err := a.payments.Record(r.Context(), &p)
	if err != nil {
		writeError(w, r, err, "", "Failed to record payment")
		return
	}
	writeJSON(w, http.StatusOK, paymentRecordedResponse{
		Success:       true,
		InsertedID:    res.ID.Hex(),
		ParcelUpdated: res.ParcelUpdated,
	})
}

// listPayments answers with a bare array, as the payment history page expects.
func (a *API) listPayments(w http.ResponseWriter, r *http.Request) {
	ps, err := a.payments.List(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		logRequestError(r, err)
		writeFailure(w, http.StatusInternalServerError, internalErrorText)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}
