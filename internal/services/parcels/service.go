package parcels

import (
	"context"

	"github.com/BearBump/ZapShift/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Repository interface {
	ListParcels(ctx context.Context, creatorEmail string) ([]*models.Parcel, error)
	GetParcel(ctx context.Context, id bson.ObjectID) (*models.Parcel, error)
	CreateParcel(ctx context.Context, p *models.Parcel) (bson.ObjectID, error)
	DeleteParcel(ctx context.Context, id bson.ObjectID) (int64, error)
}

type Service struct {
	repo Repository
}

func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns parcels newest first, only those created by creatorEmail when
// it is non-empty.
func (s *Service) List(ctx context.Context, creatorEmail string) ([]*models.Parcel, error) {
	return s.repo.ListParcels(ctx, creatorEmail)
}

func (s *Service) Get(ctx context.Context, rawID string) (*models.Parcel, error) {
	id, err := models.ParseID("id", rawID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetParcel(ctx, id)
}

// Create stores p as submitted. Nothing is added or normalized; a parcel
// without a parseable creation_date lists after the dated ones.
func (s *Service) Create(ctx context.Context, p *models.Parcel) (bson.ObjectID, error) {
	if p == nil {
		return bson.ObjectID{}, models.Required("body")
	}
	return s.repo.CreateParcel(ctx, p)
}

func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := models.ParseID("id", rawID)
	if err != nil {
		return err
	}
	n, err := s.repo.DeleteParcel(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
