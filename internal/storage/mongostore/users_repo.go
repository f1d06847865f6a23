package mongostore

import (
	"context"

	"github.com/BearBump/ZapShift/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// CreateUser inserts u, relying on the unique email index: a second user with
// the same email yields models.ErrAlreadyExists and writes nothing.
func (s *Storage) CreateUser(ctx context.Context, u *models.User) (bson.ObjectID, error) {
	u.ID = bson.NewObjectID()
	return s.users.insertOne(ctx, u)
}

func (s *Storage) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.users.findOne(ctx, bson.M{"email": email}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
