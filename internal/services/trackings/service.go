package trackings

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/BearBump/ZapShift/internal/broker/messages"
	"github.com/BearBump/ZapShift/internal/cache"
	"github.com/BearBump/ZapShift/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Repository interface {
	AppendTrackingEvent(ctx context.Context, e *models.TrackingEvent) (bson.ObjectID, error)
	ListTrackingEvents(ctx context.Context, trackingID string) ([]*models.TrackingEvent, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

type Service struct {
	repo       Repository
	cache      cache.VersionedCache
	historyTTL time.Duration

	pub   Publisher
	topic string

	now func() time.Time
}

// New builds the service. A nil cache or a non-positive historyTTL disables
// history caching.
func New(repo Repository, c cache.VersionedCache, historyTTL time.Duration) *Service {
	return &Service{repo: repo, cache: c, historyTTL: historyTTL, now: time.Now}
}

// WithEvents makes every successful append publish a TrackingAppended message.
func (s *Service) WithEvents(pub Publisher, topic string) *Service {
	s.pub = pub
	s.topic = topic
	return s
}

// History returns the events of trackingID oldest first, or models.ErrNotFound
// when there are none. Cached lists are keyed by the tracking's generation, so
// a list loaded while an append is in flight is never read after that append.
func (s *Service) History(ctx context.Context, trackingID string) ([]*models.TrackingEvent, error) {
	key, cacheable := s.historyKey(ctx, trackingID)
	if cacheable {
		b, ok, err := s.cache.Get(ctx, key)
		if err == nil && ok {
			var evs []*models.TrackingEvent
			if json.Unmarshal(b, &evs) == nil && len(evs) > 0 {
				return evs, nil
			}
		}
	}

	evs, err := s.repo.ListTrackingEvents(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if len(evs) == 0 {
		return nil, models.ErrNotFound
	}

	if cacheable {
		if b, err := json.Marshal(evs); err == nil {
			_ = s.cache.Set(ctx, key, b, s.historyTTL)
		}
	}
	return evs, nil
}

// historyKey reads the current generation of trackingID. Without it the
// cache is skipped for this call.
func (s *Service) historyKey(ctx context.Context, trackingID string) (string, bool) {
	if !s.cacheEnabled() {
		return "", false
	}
	v, err := s.cache.Version(ctx, cache.TrackingVersionKey(trackingID))
	if err != nil {
		slog.Warn("tracking history cache version", "tracking_id", trackingID, "error", err.Error())
		return "", false
	}
	return cache.TrackingHistoryKey(trackingID, v), true
}

// bumpHistory retires every cached list of trackingID and drops the one just
// superseded.
func (s *Service) bumpHistory(ctx context.Context, trackingID string) {
	v, err := s.cache.Bump(ctx, cache.TrackingVersionKey(trackingID))
	if err != nil {
		slog.Warn("invalidate tracking history cache", "tracking_id", trackingID, "error", err.Error())
		return
	}
	_ = s.cache.Delete(ctx, cache.TrackingHistoryKey(trackingID, v-1))
}

// Append validates in and stores it stamped with the current time.
func (s *Service) Append(ctx context.Context, in models.TrackingEventInput) (bson.ObjectID, error) {
	return s.append(ctx, in, s.now().UTC())
}

// ApplyIngest appends a carrier-supplied event, keeping the carrier's
// timestamp when it has one. Malformed messages are logged and dropped so one
// bad message cannot stall the topic; store failures are returned.
func (s *Service) ApplyIngest(ctx context.Context, m messages.TrackingIngest) error {
	ts := s.now().UTC()
	if m.Timestamp != nil && !m.Timestamp.IsZero() {
		ts = m.Timestamp.UTC()
	}
	_, err := s.append(ctx, models.TrackingEventInput{
		TrackingID: m.TrackingID,
		ParcelID:   m.ParcelID,
		UserEmail:  m.UserEmail,
		Status:     m.Status,
		Location:   m.Location,
		Message:    m.Message,
	}, ts)

	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		slog.Warn("dropping invalid tracking ingest message", "tracking_id", m.TrackingID, "error", vErr.Error())
		return nil
	}
	return err
}

func (s *Service) append(ctx context.Context, in models.TrackingEventInput, ts time.Time) (bson.ObjectID, error) {
	required := []struct{ field, value string }{
		{"trackingId", in.TrackingID},
		{"parcelId", in.ParcelID},
		{"userEmail", in.UserEmail},
		{"status", in.Status},
		{"location", in.Location},
	}
	for _, r := range required {
		if r.value == "" {
			return bson.ObjectID{}, models.Required(r.field)
		}
	}
	parcelID, err := models.ParseID("parcelId", in.ParcelID)
	if err != nil {
		return bson.ObjectID{}, err
	}

	e := &models.TrackingEvent{
		TrackingID: in.TrackingID,
		ParcelID:   parcelID,
		UserEmail:  in.UserEmail,
		Status:     in.Status,
		Location:   in.Location,
		Message:    in.Message,
		Timestamp:  ts,
	}
	id, err := s.repo.AppendTrackingEvent(ctx, e)
	if err != nil {
		return bson.ObjectID{}, err
	}

	if s.cacheEnabled() {
		s.bumpHistory(ctx, in.TrackingID)
	}
	s.publish(ctx, e)
	return id, nil
}

func (s *Service) publish(ctx context.Context, e *models.TrackingEvent) {
	if s.pub == nil || s.topic == "" {
		return
	}
	b, err := json.Marshal(messages.TrackingAppended{
		EventID:    uuid.NewString(),
		TrackingID: e.TrackingID,
		ParcelID:   e.ParcelID.Hex(),
		Status:     e.Status,
		Location:   e.Location,
		Timestamp:  e.Timestamp,
	})
	if err != nil {
		slog.Error("marshal tracking appended event", "error", err.Error())
		return
	}
	if err := s.pub.Publish(ctx, s.topic, []byte(e.TrackingID), b); err != nil {
		slog.Error("publish tracking appended event", "tracking_id", e.TrackingID, "error", err.Error())
	}
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.historyTTL > 0
}
