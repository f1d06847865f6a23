package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// CreationDateField is stored exactly as the client sent it, inside Extra.
const CreationDateField = "creation_date"

// Parcel is a shipment record. Fields other than the ones below, including
// creation_date, are kept in Extra and stored verbatim.
type Parcel struct {
	ID            bson.ObjectID  `bson:"_id,omitempty"`
	CreatorEmail  string         `bson:"creatorEmail,omitempty"`
	PaymentStatus string         `bson:"payment_status,omitempty"`
	Extra         map[string]any `bson:",inline"`
}

func (p *Parcel) UnmarshalJSON(data []byte) error {
	raw, err := decodeRawDocument(data)
	if err != nil {
		return err
	}
	if p.CreatorEmail, err = raw.popString("creatorEmail"); err != nil {
		return err
	}
	if p.PaymentStatus, err = raw.popString("payment_status"); err != nil {
		return err
	}
	p.Extra, err = raw.extra()
	return err
}

func (p Parcel) MarshalJSON() ([]byte, error) {
	known := map[string]any{}
	if !p.ID.IsZero() {
		known["_id"] = p.ID
	}
	if p.CreatorEmail != "" {
		known["creatorEmail"] = p.CreatorEmail
	}
	if p.PaymentStatus != "" {
		known["payment_status"] = p.PaymentStatus
	}
	return encodeDocument(p.Extra, known)
}

func (p *Parcel) IsPaid() bool {
	return p.PaymentStatus == PaymentStatusPaid
}

// CreationTime reads creation_date when it is an RFC 3339 string. Any other
// value sorts after every parsed one.
func (p *Parcel) CreationTime() (time.Time, bool) {
	s, ok := p.Extra[CreationDateField].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
