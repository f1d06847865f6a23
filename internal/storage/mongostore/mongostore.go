package mongostore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	parcelsCollection   = "parcels"
	usersCollection     = "users"
	paymentsCollection  = "payments"
	trackingsCollection = "trackings"
)

// Storage is the MongoDB document store. It holds one client for the whole
// process; all methods are safe for concurrent use.
type Storage struct {
	client *mongo.Client

	parcels   *collection
	users     *collection
	payments  *collection
	trackings *collection
}

func New(ctx context.Context, uri, dbName string) (*Storage, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		// passthrough fields may hold nested objects; decode them as maps so
		// they render back as JSON objects
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo")
	}

	db := client.Database(dbName)
	s := &Storage{
		client:    client,
		parcels:   &collection{c: db.Collection(parcelsCollection)},
		users:     &collection{c: db.Collection(usersCollection)},
		payments:  &collection{c: db.Collection(paymentsCollection)},
		trackings: &collection{c: db.Collection(trackingsCollection)},
	}
	if err := s.initSchema(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return errors.Wrap(s.client.Ping(ctx, readpref.Primary()), "ping mongo")
}

func (s *Storage) Close() {
	if s.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}
