package mongostore

import (
	"context"

	"github.com/BearBump/ZapShift/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *Storage) ListParcels(ctx context.Context, creatorEmail string) ([]*models.Parcel, error) {
	filter := bson.M{}
	if creatorEmail != "" {
		filter["creatorEmail"] = creatorEmail
	}

	var out []*models.Parcel
	if err := s.parcels.find(ctx, filter, "creation_date", descending, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []*models.Parcel{}
	}
	return out, nil
}

func (s *Storage) GetParcel(ctx context.Context, id bson.ObjectID) (*models.Parcel, error) {
	var p models.Parcel
	if err := s.parcels.findOne(ctx, bson.M{"_id": id}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Storage) CreateParcel(ctx context.Context, p *models.Parcel) (bson.ObjectID, error) {
	p.ID = bson.NewObjectID()
	return s.parcels.insertOne(ctx, p)
}

func (s *Storage) DeleteParcel(ctx context.Context, id bson.ObjectID) (int64, error) {
	return s.parcels.deleteOne(ctx, bson.M{"_id": id})
}

func (s *Storage) MarkParcelPaid(ctx context.Context, id bson.ObjectID) (int64, error) {
	return s.parcels.updateOne(ctx, bson.M{"_id": id}, bson.M{"payment_status": models.PaymentStatusPaid})
}
