package pgstore

import (
	"context"

	"github.com/BearBump/ZapShift/internal/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *Storage) CreateUser(ctx context.Context, u *models.User) (bson.ObjectID, error) {
	u.ID = bson.NewObjectID()
	_, err := s.db.Exec(ctx, `
INSERT INTO users (id, email, created_at, extra)
VALUES ($1,$2,$3,$4)
`, u.ID.Hex(), u.Email, u.CreatedAt.UTC(), extraOrEmpty(u.Extra))
	if isUniqueViolation(err) {
		return bson.ObjectID{}, models.ErrAlreadyExists
	}
	if err != nil {
		return bson.ObjectID{}, errors.Wrap(err, "insert user")
	}
	return u.ID, nil
}

func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	var id string
	var extra []byte
	err := s.db.QueryRow(ctx, `SELECT id, email, created_at, extra FROM users WHERE email = $1`, email).
		Scan(&id, &u.Email, &u.CreatedAt, &extra)
	if err != nil {
		return nil, mapNoRows(err, "select user")
	}
	if u.ID, err = bson.ObjectIDFromHex(id); err != nil {
		return nil, errors.Wrap(err, "user id")
	}
	u.CreatedAt = u.CreatedAt.UTC()
	if u.Extra, err = decodeExtra(extra, "user extra"); err != nil {
		return nil, err
	}
	return &u, nil
}
