package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is a registration record keyed by Email.
type User struct {
	ID        bson.ObjectID  `bson:"_id,omitempty"`
	Email     string         `bson:"email"`
	CreatedAt time.Time      `bson:"created_at"`
	Extra     map[string]any `bson:",inline"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	raw, err := decodeRawDocument(data)
	if err != nil {
		return err
	}
	if u.Email, err = raw.popString("email"); err != nil {
		return err
	}
	if u.CreatedAt, err = raw.popTime("created_at"); err != nil {
		return err
	}
	u.Extra, err = raw.extra()
	return err
}

func (u User) MarshalJSON() ([]byte, error) {
	known := map[string]any{
		"email":      u.Email,
		"created_at": u.CreatedAt,
	}
	if !u.ID.IsZero() {
		known["_id"] = u.ID
	}
	return encodeDocument(u.Extra, known)
}
