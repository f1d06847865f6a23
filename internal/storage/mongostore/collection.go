package mongostore

import (
	"context"

	"github.com/BearBump/ZapShift/internal/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type sortDirection int

const (
	ascending  sortDirection = 1
	descending sortDirection = -1
)

// collection is the generic single-collection contract every repository
// method is built from: find, findOne, insertOne, updateOne, deleteOne.
type collection struct {
	c *mongo.Collection
}

// find decodes all documents matching the equality filter into out (a
// pointer to a slice), ordered by sortKey and then by _id in the same
// direction so that equal keys keep insertion order.
func (c *collection) find(ctx context.Context, filter bson.M, sortKey string, dir sortDirection, out any) error {
	if filter == nil {
		filter = bson.M{}
	}
	opts := options.Find().SetSort(bson.D{
		{Key: sortKey, Value: int(dir)},
		{Key: "_id", Value: int(dir)},
	})

	cur, err := c.c.Find(ctx, filter, opts)
	if err != nil {
		return errors.Wrapf(err, "find %s", c.c.Name())
	}
	if err := cur.All(ctx, out); err != nil {
		return errors.Wrapf(err, "decode %s", c.c.Name())
	}
	return nil
}

func (c *collection) findOne(ctx context.Context, filter bson.M, out any) error {
	err := c.c.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "find one %s", c.c.Name())
	}
	return nil
}

func (c *collection) insertOne(ctx context.Context, doc any) (bson.ObjectID, error) {
	res, err := c.c.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return bson.ObjectID{}, models.ErrAlreadyExists
	}
	if err != nil {
		return bson.ObjectID{}, errors.Wrapf(err, "insert %s", c.c.Name())
	}
	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return bson.ObjectID{}, errors.Errorf("insert %s: unexpected id type %T", c.c.Name(), res.InsertedID)
	}
	return id, nil
}

// updateOne sets fields on the first matching document and reports how many
// documents matched (0 or 1).
func (c *collection) updateOne(ctx context.Context, filter bson.M, set bson.M) (int64, error) {
	res, err := c.c.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, errors.Wrapf(err, "update %s", c.c.Name())
	}
	return res.MatchedCount, nil
}

func (c *collection) deleteOne(ctx context.Context, filter bson.M) (int64, error) {
	res, err := c.c.DeleteOne(ctx, filter)
	if err != nil {
		return 0, errors.Wrapf(err, "delete %s", c.c.Name())
	}
	return res.DeletedCount, nil
}
