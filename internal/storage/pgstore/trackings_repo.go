package pgstore

import (
	"context"

	"github.com/BearBump/ZapShift/internal/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *Storage) AppendTrackingEvent(ctx context.Context, e *models.TrackingEvent) (bson.ObjectID, error) {
	e.ID = bson.NewObjectID()
	_, err := s.db.Exec(ctx, `
INSERT INTO tracking_events (id, tracking_id, parcel_id, user_email, status, location, message, event_time)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`, e.ID.Hex(), e.TrackingID, e.ParcelID.Hex(), e.UserEmail, e.Status, e.Location, e.Message, e.Timestamp.UTC())
	if err != nil {
		return bson.ObjectID{}, errors.Wrap(err, "insert tracking event")
	}
	return e.ID, nil
}

func (s *Storage) ListTrackingEvents(ctx context.Context, trackingID string) ([]*models.TrackingEvent, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, tracking_id, parcel_id, user_email, status, location, message, event_time
FROM tracking_events
WHERE tracking_id = $1
ORDER BY event_time ASC, id ASC
`, trackingID)
	if err != nil {
		return nil, errors.Wrap(err, "select tracking events")
	}
	defer rows.Close()

	out := []*models.TrackingEvent{}
	for rows.Next() {
		var e models.TrackingEvent
		var id, parcelID string
		if err := rows.Scan(&id, &e.TrackingID, &parcelID, &e.UserEmail, &e.Status, &e.Location, &e.Message, &e.Timestamp); err != nil {
			return nil, errors.Wrap(err, "scan tracking event")
		}
		if e.ID, err = bson.ObjectIDFromHex(id); err != nil {
			return nil, errors.Wrap(err, "tracking event id")
		}
		if e.ParcelID, err = bson.ObjectIDFromHex(parcelID); err != nil {
			return nil, errors.Wrap(err, "tracking event parcel id")
		}
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, &e)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}
