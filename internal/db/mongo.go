package db

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

const (
	RequestsCollection = "requests"
	CardsCollection    = "cards"
	LogsCollection     = "logs"
	HistoryCollection  = "card_history"
	UsersCollection    = "users"
)

// ConnectToDB opens and pings a Mongo client. dbName falls back to the path
// component of the URI.
func ConnectToDB(ctx context.Context, mongoURI, dbName string) (*mongo.Client, *mongo.Database, error) {
	if dbName == "" {
		uri, err := url.Parse(mongoURI)
		if err != nil {
			return nil, nil, err
		}
		dbName = strings.TrimPrefix(uri.Path, "/")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	return client, client.Database(dbName), nil
}

// EnsureIndexes creates the lookup indexes and the unique keys that the card
// assignment compare-and-set relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	desc := func(key string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: key, Value: -1}}}
	}
	asc := func(key string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}}
	}
	unique := func(key string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}

	plan := map[string][]mongo.IndexModel{
		RequestsCollection: {asc("status"), asc("assignedCardId"), desc("createdAt")},
		CardsCollection:    {unique("cardNumber"), asc("status"), asc("currentRequestId")},
		LogsCollection:     {asc("cardNumber"), asc("cardId"), asc("requestId"), asc("userId"), desc("timestamp")},
		HistoryCollection:  {asc("cardId"), asc("cardNumber"), desc("assignedAt")},
		UsersCollection:    {unique("email")},
	}

	g, gctx := errgroup.WithContext(ctx)
	for name, models := range plan {
		name, models := name, models
		g.Go(func() error {
			_, err := db.Collection(name).Indexes().CreateMany(gctx, models)
			return err
		})
	}
	return g.Wait()
}
