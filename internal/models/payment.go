package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Payment records a completed charge against a parcel. ParcelID is a
// reference by value; the parcel is not required to exist.
type Payment struct {
	ID            bson.ObjectID  `bson:"_id,omitempty"`
	ParcelID      string         `bson:"parcelId"`
	UserEmail     string         `bson:"userEmail"`
	TransactionID string         `bson:"transactionId"`
	CreatedAt     time.Time      `bson:"createdAt"`
	Extra         map[string]any `bson:",inline"`
}

func (p *Payment) UnmarshalJSON(data []byte) error {
	raw, err := decodeRawDocument(data)
	if err != nil {
		return err
	}
	if p.ParcelID, err = raw.popString("parcelId"); err != nil {
		return err
	}
	if p.UserEmail, err = raw.popString("userEmail"); err != nil {
		return err
	}
	if p.TransactionID, err = raw.popString("transactionId"); err != nil {
		return err
	}
	// createdAt is server-assigned
	delete(raw, "createdAt")
	p.Extra, err = raw.extra()
	return err
}

func (p Payment) MarshalJSON() ([]byte, error) {
	known := map[string]any{
		"parcelId":      p.ParcelID,
		"userEmail":     p.UserEmail,
		"transactionId": p.TransactionID,
		"createdAt":     p.CreatedAt,
	}
	if !p.ID.IsZero() {
		known["_id"] = p.ID
	}
	return encodeDocument(p.Extra, known)
}
