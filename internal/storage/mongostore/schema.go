package mongostore

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func (s *Storage) initSchema(ctx context.Context) error {
	indexes := []struct {
		c     *collection
		model mongo.IndexModel
	}{
		{s.users, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uq_users_email"),
		}},
		{s.parcels, mongo.IndexModel{
			Keys:    bson.D{{Key: "creatorEmail", Value: 1}, {Key: "creation_date", Value: -1}},
			Options: options.Index().SetName("idx_parcels_creator_email_creation_date"),
		}},
		{s.payments, mongo.IndexModel{
			Keys:    bson.D{{Key: "userEmail", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_payments_user_email_created_at"),
		}},
		{s.trackings, mongo.IndexModel{
			Keys:    bson.D{{Key: "trackingId", Value: 1}, {Key: "timestamp", Value: 1}},
			Options: options.Index().SetName("idx_trackings_tracking_id_timestamp"),
		}},
	}

	for _, ix := range indexes {
		if _, err := ix.c.c.Indexes().CreateOne(ctx, ix.model); err != nil {
			return errors.Wrapf(err, "init schema: %s", ix.c.c.Name())
		}
	}
	return nil
}
