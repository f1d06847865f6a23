package mongostore

import (
	"context"

	"github.com/BearBump/ZapShift/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *Storage) AppendTrackingEvent(ctx context.Context, e *models.TrackingEvent) (bson.ObjectID, error) {
	e.ID = bson.NewObjectID()
	return s.trackings.insertOne(ctx, e)
}

func (s *Storage) ListTrackingEvents(ctx context.Context, trackingID string) ([]*models.TrackingEvent, error) {
	var out []*models.TrackingEvent
	if err := s.trackings.find(ctx, bson.M{"trackingId": trackingID}, "timestamp", ascending, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []*models.TrackingEvent{}
	}
	return out, nil
}
