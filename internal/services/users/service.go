package users

import (
	"context"
	"time"

	"github.com/BearBump/ZapShift/internal/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Repository interface {
	CreateUser(ctx context.Context, u *models.User) (bson.ObjectID, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type RegisterResult struct {
	Inserted bool
	ID       bson.ObjectID
}

// Register inserts u unless a user with the same email exists. Uniqueness is
// enforced by the store, so concurrent registrations of one email insert once.
func (s *Service) Register(ctx context.Context, u *models.User) (RegisterResult, error) {
	if u == nil || u.Email == "" {
		return RegisterResult{}, models.Required("email")
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now().UTC()
	}

	id, err := s.repo.CreateUser(ctx, u)
	if errors.Is(err, models.ErrAlreadyExists) {
		return RegisterResult{Inserted: false}, nil
	}
	if err != nil {
		return RegisterResult{}, err
	}
	return RegisterResult{Inserted: true, ID: id}, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if email == "" {
		return nil, models.Required("email")
	}
	return s.repo.FindUserByEmail(ctx, email)
}
