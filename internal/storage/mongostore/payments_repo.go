package mongostore

import (
	"context"

	"github.com/BearBump/ZapShift/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *Storage) CreatePayment(ctx context.Context, p *models.Payment) (bson.ObjectID, error) {
	p.ID = bson.NewObjectID()
	return s.payments.insertOne(ctx, p)
}

func (s *Storage) ListPayments(ctx context.Context, userEmail string) ([]*models.Payment, error) {
	filter := bson.M{}
	if userEmail != "" {
		filter["userEmail"] = userEmail
	}

	var out []*models.Payment
	if err := s.payments.find(ctx, filter, "createdAt", descending, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []*models.Payment{}
	}
	return out, nil
}
