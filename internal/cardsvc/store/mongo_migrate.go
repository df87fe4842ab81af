package store

import (
	"context"

	"github.com/troycsc/desk-services/internal/db"
	"go.mongodb.org/mongo-driver/bson"
)

// BackfillStats counts documents touched by Backfill.
type BackfillStats struct {
	Requests int64
	Cards    int64
	Logs     int64
}

// Backfill upgrades documents written by the first version of the desk app:
// cards gain status, isActive and createdAt; requests gain updatedAt; logs
// gain newStatus. It is safe to run repeatedly. Indexes are created last so
// the unique cardNumber key sees the cleaned data.
func (s *MongoStore) Backfill(ctx context.Context) (BackfillStats, error) {
	var stats BackfillStats

	steps := []struct {
		coll   string
		filter bson.M
		update interface{}
		count  *int64
	}{
		{db.CardsCollection, bson.M{"status": bson.M{"$exists": false}, "isAssigned": true},
			bson.M{"$set": bson.M{"status": "assigned"}}, &stats.Cards},
		{db.CardsCollection, bson.M{"status": bson.M{"$exists": false}},
			bson.M{"$set": bson.M{"status": "available"}}, &stats.Cards},
		{db.CardsCollection, bson.M{"isActive": bson.M{"$exists": false}},
			bson.M{"$set": bson.M{"isActive": true}}, &stats.Cards},
		{db.CardsCollection, bson.M{"createdAt": bson.M{"$exists": false}},
			bson.A{bson.M{"$set": bson.M{"createdAt": bson.M{"$ifNull": bson.A{"$assignedAt", "$$NOW"}}}}}, &stats.Cards},
		{db.RequestsCollection, bson.M{"updatedAt": bson.M{"$exists": false}},
			bson.A{bson.M{"$set": bson.M{"updatedAt": bson.M{"$ifNull": bson.A{"$createdAt", "$$NOW"}}}}}, &stats.Requests},
		{db.LogsCollection, bson.M{"newStatus": bson.M{"$exists": false}, "action": "assigned"},
			bson.M{"$set": bson.M{"newStatus": "assigned"}}, &stats.Logs},
		{db.LogsCollection, bson.M{"newStatus": bson.M{"$exists": false}},
			bson.M{"$set": bson.M{"newStatus": "available"}}, &stats.Logs},
	}

	for _, step := range steps {
		res, err := s.db.Collection(step.coll).UpdateMany(ctx, step.filter, step.update)
		if err != nil {
			return stats, wrap("failed to backfill "+step.coll, err)
		}
		*step.count += res.ModifiedCount
	}

	if err := db.EnsureIndexes(ctx, s.db); err != nil {
		return stats, wrap("failed to create indexes", err)
	}
	return stats, nil
}
