package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BearBump/ZapShift/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateUser(ctx context.Context, u *models.User) (bson.ObjectID, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(bson.ObjectID), args.Error(1)
}

func (m *mockRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func newService(repo Repository, now time.Time) *Service {
	s := New(repo)
	s.now = func() time.Time { return now }
	return s
}

func TestRegister_Inserts(t *testing.T) {
	repo := &mockRepository{}
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	id := bson.NewObjectID()
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "a@x.io" && u.CreatedAt.Equal(now)
	})).Return(id, nil).Once()

	res, err := newService(repo, now).Register(context.Background(), &models.User{Email: "a@x.io"})
	require.NoError(t, err)
	require.True(t, res.Inserted)
	require.Equal(t, id, res.ID)
}

func TestRegister_ExistingEmail_NotInserted(t *testing.T) {
	repo := &mockRepository{}
	repo.On("CreateUser", mock.Anything, mock.Anything).Return(bson.ObjectID{}, models.ErrAlreadyExists).Once()

	res, err := newService(repo, time.Now()).Register(context.Background(), &models.User{Email: "a@x.io"})
	require.NoError(t, err)
	require.False(t, res.Inserted)
	require.True(t, res.ID.IsZero())
}

func TestRegister_MissingEmail(t *testing.T) {
	repo := &mockRepository{}
	_, err := newService(repo, time.Now()).Register(context.Background(), &models.User{})
	var vErr *models.ValidationError
	require.True(t, errors.As(err, &vErr))
	require.Equal(t, "email", vErr.Field)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegister_StoreError(t *testing.T) {
	repo := &mockRepository{}
	want := errors.New("db down")
	repo.On("CreateUser", mock.Anything, mock.Anything).Return(bson.ObjectID{}, want).Once()

	_, err := newService(repo, time.Now()).Register(context.Background(), &models.User{Email: "a@x.io"})
	require.ErrorIs(t, err, want)
}

func TestGetByEmail(t *testing.T) {
	repo := &mockRepository{}
	repo.On("FindUserByEmail", mock.Anything, "a@x.io").Return(&models.User{Email: "a@x.io"}, nil).Once()
	repo.On("FindUserByEmail", mock.Anything, "b@x.io").Return(nil, models.ErrNotFound).Once()
	svc := New(repo)

	u, err := svc.GetByEmail(context.Background(), "a@x.io")
	require.NoError(t, err)
	require.Equal(t, "a@x.io", u.Email)

	_, err = svc.GetByEmail(context.Background(), "b@x.io")
	require.ErrorIs(t, err, models.ErrNotFound)
}
