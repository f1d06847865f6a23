// Package memstore keeps every collection in process memory. It backs the
// "memory" store driver used for local runs and HTTP tests.
package memstore

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/BearBump/ZapShift/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Storage struct {
	mu        sync.RWMutex
	parcels   map[bson.ObjectID]models.Parcel
	users     map[bson.ObjectID]models.User
	emails    map[string]bson.ObjectID
	payments  map[bson.ObjectID]models.Payment
	trackings map[string][]models.TrackingEvent
}

func New() *Storage {
	return &Storage{
		parcels:   make(map[bson.ObjectID]models.Parcel),
		users:     make(map[bson.ObjectID]models.User),
		emails:    make(map[string]bson.ObjectID),
		payments:  make(map[bson.ObjectID]models.Payment),
		trackings: make(map[string][]models.TrackingEvent),
	}
}

func (s *Storage) Ping(context.Context) error { return nil }

func (s *Storage) Close() {}

// newestFirst orders by t descending, then by id descending, matching the
// tie-break the database stores use.
func newestFirst(ta, tb time.Time, ia, ib bson.ObjectID) int {
	if c := tb.Compare(ta); c != 0 {
		return c
	}
	return bytes.Compare(ib[:], ia[:])
}

// newestParcelFirst puts parcels without a parseable creation_date last, the
// way Postgres orders NULLs in a descending sort.
func newestParcelFirst(a, b *models.Parcel) int {
	ta, okA := a.CreationTime()
	tb, okB := b.CreationTime()
	switch {
	case okA && !okB:
		return -1
	case !okA && okB:
		return 1
	}
	return newestFirst(ta, tb, a.ID, b.ID)
}

func (s *Storage) ListParcels(_ context.Context, creatorEmail string) ([]*models.Parcel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Parcel, 0, len(s.parcels))
	for _, p := range s.parcels {
		if creatorEmail != "" && p.CreatorEmail != creatorEmail {
			continue
		}
		p.Extra = maps.Clone(p.Extra)
		out = append(out, &p)
	}
	slices.SortFunc(out, newestParcelFirst)
	return out, nil
}

func (s *Storage) GetParcel(_ context.Context, id bson.ObjectID) (*models.Parcel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.parcels[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	p.Extra = maps.Clone(p.Extra)
	return &p, nil
}

func (s *Storage) CreateParcel(_ context.Context, p *models.Parcel) (bson.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = bson.NewObjectID()
	stored := *p
	stored.Extra = maps.Clone(p.Extra)
	s.parcels[p.ID] = stored
	return p.ID, nil
}

func (s *Storage) DeleteParcel(_ context.Context, id bson.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parcels[id]; !ok {
		return 0, nil
	}
	delete(s.parcels, id)
	return 1, nil
}

func (s *Storage) MarkParcelPaid(_ context.Context, id bson.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.parcels[id]
	if !ok {
		return 0, nil
	}
	p.PaymentStatus = models.PaymentStatusPaid
	s.parcels[id] = p
	return 1, nil
}

func (s *Storage) CreateUser(_ context.Context, u *models.User) (bson.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emails[u.Email]; ok {
		return bson.ObjectID{}, models.ErrAlreadyExists
	}
	u.ID = bson.NewObjectID()
	stored := *u
	stored.Extra = maps.Clone(u.Extra)
	s.users[u.ID] = stored
	s.emails[u.Email] = u.ID
	return u.ID, nil
}

func (s *Storage) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	u := s.users[id]
	u.Extra = maps.Clone(u.Extra)
	return &u, nil
}

func (s *Storage) CreatePayment(_ context.Context, p *models.Payment) (bson.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = bson.NewObjectID()
	stored := *p
	stored.Extra = maps.Clone(p.Extra)
	s.payments[p.ID] = stored
	return p.ID, nil
}

func (s *Storage) ListPayments(_ context.Context, userEmail string) ([]*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Payment, 0, len(s.payments))
	for _, p := range s.payments {
		if userEmail != "" && p.UserEmail != userEmail {
			continue
		}
		p.Extra = maps.Clone(p.Extra)
		out = append(out, &p)
	}
	slices.SortFunc(out, func(a, b *models.Payment) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return out, nil
}

func (s *Storage) AppendTrackingEvent(_ context.Context, e *models.TrackingEvent) (bson.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = bson.NewObjectID()
	s.trackings[e.TrackingID] = append(s.trackings[e.TrackingID], *e)
	return e.ID, nil
}

func (s *Storage) ListTrackingEvents(_ context.Context, trackingID string) ([]*models.TrackingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	evs := s.trackings[trackingID]
	out := make([]*models.TrackingEvent, 0, len(evs))
	for i := range evs {
		e := evs[i]
		out = append(out, &e)
	}
	slices.SortStableFunc(out, func(a, b *models.TrackingEvent) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return out, nil
}
