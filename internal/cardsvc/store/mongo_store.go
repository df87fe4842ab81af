package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/troycsc/desk-services/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps the guest card collections in a Mongo database. It is
// wire compatible with documents written by the earlier Node handlers, whose
// reference fields hold either ObjectIds or plain strings.
type MongoStore struct {
	db       *mongo.Database
	requests *mongo.Collection
	cards    *mongo.Collection
	logs     *mongo.Collection
	history  *mongo.Collection
	users    *mongo.Collection
}

func NewMongoStore(database *mongo.Database) *MongoStore {
	return &MongoStore{
		db:       database,
		requests: database.Collection(db.RequestsCollection),
		cards:    database.Collection(db.CardsCollection),
		logs:     database.Collection(db.LogsCollection),
		history:  database.Collection(db.HistoryCollection),
		users:    database.Collection(db.UsersCollection),
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// refValue stores a reference as an ObjectId when it parses as one.
func refValue(id string) interface{} {
	if id == "" {
		return nil
	}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func refString(v interface{}) *string {
	switch t := v.(type) {
	case primitive.ObjectID:
		s := t.Hex()
		return &s
	case string:
		if t == "" {
			return nil
		}
		return &t
	default:
		return nil
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func newestFirst(key string) bson.D {
	return bson.D{{Key: key, Value: -1}}
}

func notFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts *options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
