package trackings

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/BearBump/ZapShift/internal/broker/messages"
	"github.com/BearBump/ZapShift/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type ServiceSuite struct {
	suite.Suite

	repo  *mockRepository
	cache *mockCache
	pub   *mockPublisher
	svc   *Service
	now   time.Time
}

func (s *ServiceSuite) SetupTest() {
	s.repo = &mockRepository{}
	s.cache = &mockCache{}
	s.pub = &mockPublisher{}
	s.now = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s.svc = New(s.repo, s.cache, 10*time.Minute)
	s.svc.now = func() time.Time { return s.now }
}

func validInput() models.TrackingEventInput {
	return models.TrackingEventInput{
		TrackingID: "TRK-1",
		ParcelID:   bson.NewObjectID().Hex(),
		UserEmail:  "u@x.io",
		Status:     "picked_up",
		Location:   "Dhaka",
	}
}

func (s *ServiceSuite) TestAppend_StampsTimestampAndInvalidatesCache() {
	in := validInput()
	id := bson.NewObjectID()
	s.repo.On("AppendTrackingEvent", mock.Anything, mock.MatchedBy(func(e *models.TrackingEvent) bool {
		return e.TrackingID == "TRK-1" && e.ParcelID.Hex() == in.ParcelID && e.Timestamp.Equal(s.now)
	})).Return(id, nil).Once()
	s.cache.On("Bump", mock.Anything, "trackings:TRK-1:version").Return(int64(3), nil).Once()
	s.cache.On("Delete", mock.Anything, "trackings:TRK-1:history:v2").Return(nil).Once()

	got, err := s.svc.Append(context.Background(), in)
	s.Require().NoError(err)
	s.Require().Equal(id, got)
	s.repo.AssertExpectations(s.T())
	s.cache.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestAppend_CacheDownStillSucceeds() {
	s.repo.On("AppendTrackingEvent", mock.Anything, mock.Anything).Return(bson.NewObjectID(), nil).Once()
	s.cache.On("Bump", mock.Anything, "trackings:TRK-1:version").Return(int64(0), errors.New("redis down")).Once()

	_, err := s.svc.Append(context.Background(), validInput())
	s.Require().NoError(err)
	s.cache.AssertNotCalled(s.T(), "Delete", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestAppend_IgnoresCallerTimestamp() {
	in := validInput()
	old := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	in.Timestamp = &old
	s.repo.On("AppendTrackingEvent", mock.Anything, mock.MatchedBy(func(e *models.TrackingEvent) bool {
		return e.Timestamp.Equal(s.now)
	})).Return(bson.NewObjectID(), nil).Once()
	s.cache.On("Bump", mock.Anything, mock.Anything).Return(int64(1), nil).Once()
	s.cache.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := s.svc.Append(context.Background(), in)
	s.Require().NoError(err)
	s.repo.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestAppend_RequiredFields() {
	for _, field := range []string{"trackingId", "parcelId", "userEmail", "status", "location"} {
		in := validInput()
		switch field {
		case "trackingId":
			in.TrackingID = ""
		case "parcelId":
			in.ParcelID = ""
		case "userEmail":
			in.UserEmail = ""
		case "status":
			in.Status = ""
		case "location":
			in.Location = ""
		}
		_, err := s.svc.Append(context.Background(), in)
		var vErr *models.ValidationError
		s.Require().True(errors.As(err, &vErr), field)
		s.Require().Equal(field, vErr.Field)
	}
	s.repo.AssertNotCalled(s.T(), "AppendTrackingEvent", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestAppend_MalformedParcelID() {
	in := validInput()
	in.ParcelID = "not-an-id"
	_, err := s.svc.Append(context.Background(), in)
	s.Require().ErrorIs(err, models.ErrInvalidID)
	s.repo.AssertNotCalled(s.T(), "AppendTrackingEvent", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestAppend_StoreErrorSkipsCacheAndEvents() {
	svc := New(s.repo, s.cache, 10*time.Minute).WithEvents(s.pub, "tracking.appended")
	want := errors.New("db down")
	s.repo.On("AppendTrackingEvent", mock.Anything, mock.Anything).Return(bson.ObjectID{}, want).Once()

	_, err := svc.Append(context.Background(), validInput())
	s.Require().ErrorIs(err, want)
	s.cache.AssertNotCalled(s.T(), "Bump", mock.Anything, mock.Anything)
	s.pub.AssertNotCalled(s.T(), "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestAppend_PublishesEvent_PublishErrorIgnored() {
	svc := New(s.repo, nil, 0).WithEvents(s.pub, "tracking.appended")
	s.repo.On("AppendTrackingEvent", mock.Anything, mock.Anything).Return(bson.NewObjectID(), nil).Once()
	s.pub.On("Publish", mock.Anything, "tracking.appended", []byte("TRK-1"), mock.MatchedBy(func(v []byte) bool {
		var m messages.TrackingAppended
		return json.Unmarshal(v, &m) == nil && m.TrackingID == "TRK-1" && m.Status == "picked_up" && m.EventID != ""
	})).Return(errors.New("kafka down")).Once()

	_, err := svc.Append(context.Background(), validInput())
	s.Require().NoError(err)
	s.pub.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestHistory_CacheHit_NoDB() {
	evs := []*models.TrackingEvent{{TrackingID: "TRK-1", Status: "A"}}
	b, _ := json.Marshal(evs)
	s.cache.On("Version", mock.Anything, "trackings:TRK-1:version").Return(int64(2), nil).Once()
	s.cache.On("Get", mock.Anything, "trackings:TRK-1:history:v2").Return(b, true, nil).Once()

	out, err := s.svc.History(context.Background(), "TRK-1")
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Require().Equal("A", out[0].Status)
	s.repo.AssertNotCalled(s.T(), "ListTrackingEvents", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestHistory_CacheMiss_LoadsAndSets() {
	s.cache.On("Version", mock.Anything, "trackings:TRK-1:version").Return(int64(0), nil).Once()
	s.cache.On("Get", mock.Anything, "trackings:TRK-1:history:v0").Return([]byte(nil), false, nil).Once()
	s.repo.On("ListTrackingEvents", mock.Anything, "TRK-1").
		Return([]*models.TrackingEvent{{Status: "A"}, {Status: "B"}}, nil).Once()
	s.cache.On("Set", mock.Anything, "trackings:TRK-1:history:v0", mock.Anything, 10*time.Minute).
		Return(errors.New("set failed")).Once()

	out, err := s.svc.History(context.Background(), "TRK-1")
	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.repo.AssertExpectations(s.T())
	s.cache.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestHistory_CacheErrorOrBadJSON_IsMiss() {
	s.cache.On("Version", mock.Anything, "trackings:T1:version").Return(int64(0), nil).Once()
	s.cache.On("Get", mock.Anything, "trackings:T1:history:v0").Return([]byte(nil), false, errors.New("redis down")).Once()
	s.cache.On("Version", mock.Anything, "trackings:T2:version").Return(int64(0), nil).Once()
	s.cache.On("Get", mock.Anything, "trackings:T2:history:v0").Return([]byte("not-json"), true, nil).Once()
	s.repo.On("ListTrackingEvents", mock.Anything, mock.Anything).
		Return([]*models.TrackingEvent{{Status: "A"}}, nil).Twice()
	s.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	_, err := s.svc.History(context.Background(), "T1")
	s.Require().NoError(err)
	_, err = s.svc.History(context.Background(), "T2")
	s.Require().NoError(err)
	s.repo.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestHistory_VersionUnavailable_SkipsCache() {
	s.cache.On("Version", mock.Anything, "trackings:TRK-1:version").Return(int64(0), errors.New("redis down")).Once()
	s.repo.On("ListTrackingEvents", mock.Anything, "TRK-1").
		Return([]*models.TrackingEvent{{Status: "A"}}, nil).Once()

	out, err := s.svc.History(context.Background(), "TRK-1")
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.cache.AssertNotCalled(s.T(), "Get", mock.Anything, mock.Anything)
	s.cache.AssertNotCalled(s.T(), "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestHistory_Empty_NotFoundAndNotCached() {
	s.cache.On("Version", mock.Anything, mock.Anything).Return(int64(0), nil).Once()
	s.cache.On("Get", mock.Anything, mock.Anything).Return([]byte(nil), false, nil).Once()
	s.repo.On("ListTrackingEvents", mock.Anything, "none").Return([]*models.TrackingEvent{}, nil).Once()

	_, err := s.svc.History(context.Background(), "none")
	s.Require().ErrorIs(err, models.ErrNotFound)
	s.cache.AssertNotCalled(s.T(), "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestHistory_CacheDisabled_GoesToDB() {
	svc := New(s.repo, s.cache, 0)
	s.repo.On("ListTrackingEvents", mock.Anything, "TRK-1").
		Return([]*models.TrackingEvent{{Status: "A"}}, nil).Once()

	_, err := svc.History(context.Background(), "TRK-1")
	s.Require().NoError(err)
	s.cache.AssertNotCalled(s.T(), "Version", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestHistory_DBError() {
	svc := New(s.repo, nil, 0)
	want := errors.New("db error")
	s.repo.On("ListTrackingEvents", mock.Anything, "TRK-1").Return(nil, want).Once()

	_, err := svc.History(context.Background(), "TRK-1")
	s.Require().ErrorIs(err, want)
}

func (s *ServiceSuite) TestApplyIngest_KeepsCarrierTimestamp() {
	svc := New(s.repo, nil, 0)
	carrierTime := time.Date(2025, 4, 30, 8, 0, 0, 0, time.FixedZone("BST", 6*3600))
	s.repo.On("AppendTrackingEvent", mock.Anything, mock.MatchedBy(func(e *models.TrackingEvent) bool {
		return e.Timestamp.Equal(carrierTime) && e.Timestamp.Location() == time.UTC && e.Message == "scanned"
	})).Return(bson.NewObjectID(), nil).Once()

	in := validInput()
	err := svc.ApplyIngest(context.Background(), messages.TrackingIngest{
		TrackingID: in.TrackingID,
		ParcelID:   in.ParcelID,
		UserEmail:  in.UserEmail,
		Status:     in.Status,
		Location:   in.Location,
		Message:    "scanned",
		Timestamp:  &carrierTime,
	})
	s.Require().NoError(err)
	s.repo.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestApplyIngest_InvalidMessageDropped() {
	err := s.svc.ApplyIngest(context.Background(), messages.TrackingIngest{TrackingID: "TRK-1"})
	s.Require().NoError(err)
	s.repo.AssertNotCalled(s.T(), "AppendTrackingEvent", mock.Anything, mock.Anything)
}

func (s *ServiceSuite) TestApplyIngest_StoreErrorReturned() {
	svc := New(s.repo, nil, 0)
	want := errors.New("db down")
	s.repo.On("AppendTrackingEvent", mock.Anything, mock.Anything).Return(bson.ObjectID{}, want).Once()

	in := validInput()
	err := svc.ApplyIngest(context.Background(), messages.TrackingIngest{
		TrackingID: in.TrackingID, ParcelID: in.ParcelID, UserEmail: in.UserEmail,
		Status: in.Status, Location: in.Location,
	})
	s.Require().ErrorIs(err, want)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}
