package trackings

import (
	"context"
	"time"

	"github.com/BearBump/ZapShift/internal/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) AppendTrackingEvent(ctx context.Context, e *models.TrackingEvent) (bson.ObjectID, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(bson.ObjectID), args.Error(1)
}

func (m *mockRepository) ListTrackingEvents(ctx context.Context, trackingID string) ([]*models.TrackingEvent, error) {
	args := m.Called(ctx, trackingID)
	evs, _ := args.Get(0).([]*models.TrackingEvent)
	return evs, args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	b, _ := args.Get(0).([]byte)
	return b, args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockCache) Version(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCache) Bump(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, key, value []byte) error {
	return m.Called(ctx, topic, key, value).Error(0)
}
