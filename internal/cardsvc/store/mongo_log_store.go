package store

import (
	"context"
	"time"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type logDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Action         string             `bson:"action"`
	CardNumber     string             `bson:"cardNumber"`
	CardID         interface{}        `bson:"cardId"`
	User           string             `bson:"user"`
	UserIdentifier string             `bson:"userIdentifier"`
	UserEmail      *string            `bson:"userEmail"`
	UserPhone      *string            `bson:"userPhone"`
	RequestID      interface{}        `bson:"requestId"`
	UserID         interface{}        `bson:"userId"`
	Details        string             `bson:"details,omitempty"`
	PreviousStatus *string            `bson:"previousStatus"`
	NewStatus      string             `bson:"newStatus,omitempty"`
	Timestamp      time.Time          `bson:"timestamp"`
}

func (d *logDoc) model() *models.LogEntry {
	identifier := d.UserIdentifier
	if identifier == "" {
		identifier = d.User
	}
	return &models.LogEntry{
		ID:             d.ID.Hex(),
		Action:         d.Action,
		CardNumber:     d.CardNumber,
		CardID:         refString(d.CardID),
		User:           d.User,
		UserIdentifier: identifier,
		UserEmail:      d.UserEmail,
		UserPhone:      d.UserPhone,
		RequestID:      refString(d.RequestID),
		UserID:         refString(d.UserID),
		Details:        d.Details,
		PreviousStatus: d.PreviousStatus,
		NewStatus:      d.NewStatus,
		Timestamp:      d.Timestamp,
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *MongoStore) InsertLog(ctx context.Context, e *models.LogEntry) error {
	doc := logDoc{
		ID:             primitive.NewObjectID(),
		Action:         e.Action,
		CardNumber:     e.CardNumber,
		CardID:         refValue(derefString(e.CardID)),
		User:           e.User,
		UserIdentifier: e.UserIdentifier,
		UserEmail:      e.UserEmail,
		UserPhone:      e.UserPhone,
		RequestID:      refValue(derefString(e.RequestID)),
		UserID:         refValue(derefString(e.UserID)),
		Details:        e.Details,
		PreviousStatus: e.PreviousStatus,
		NewStatus:      e.NewStatus,
		Timestamp:      e.Timestamp,
	}
	if _, err := s.logs.InsertOne(ctx, doc); err != nil {
		return wrap("failed to insert log", err)
	}
	e.ID = doc.ID.Hex()
	return nil
}

// LatestLog returns the newest entry for the card with the given action, or
// nil when there is none.
func (s *MongoStore) LatestLog(ctx context.Context, cardNumber, action string) (*models.LogEntry, error) {
	opts := options.FindOne().SetSort(newestFirst("timestamp"))

	var doc logDoc
	err := s.logs.FindOne(ctx, bson.M{"cardNumber": cardNumber, "action": action}, opts).Decode(&doc)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, wrap("failed to get log", err)
	}
	return doc.model(), nil
}

func (s *MongoStore) ListLogs(ctx context.Context, f models.LogFilter) ([]*models.LogEntry, error) {
	filter := bson.M{}
	if f.Action != "" {
		filter["action"] = f.Action
	}
	if f.CardNumber != "" {
		filter["cardNumber"] = f.CardNumber
	}

	docs, err := findAll[logDoc](ctx, s.logs, filter, options.Find().SetSort(newestFirst("timestamp")))
	if err != nil {
		return nil, wrap("failed to list logs", err)
	}

	out := make([]*models.LogEntry, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].model())
	}
	return out, nil
}
