package models

import (
	"fmt"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidID     = errors.New("invalid id")
)

// ValidationError is returned for a request field that is missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func Required(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

// ParseID parses a hex identity. A malformed value is always a ValidationError
// wrapping ErrInvalidID, never ErrNotFound.
func ParseID(field, hex string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.ObjectID{}, &ValidationError{Field: field, Reason: "is not a valid id", Err: ErrInvalidID}
	}
	return id, nil
}
