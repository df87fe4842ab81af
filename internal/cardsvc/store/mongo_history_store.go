package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/troycsc/desk-services/internal/cardsvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type historyDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	CardID        interface{}        `bson:"cardId"`
	CardNumber    string             `bson:"cardNumber"`
	RequestID     interface{}        `bson:"requestId"`
	AssignedAt    time.Time          `bson:"assignedAt"`
	ReturnedAt    *time.Time         `bson:"returnedAt"`
	AssignedBy    string             `bson:"assignedBy"`
	ReturnedBy    *string            `bson:"returnedBy"`
	DurationHours *float64           `bson:"durationHours"`
}

func (d *historyDoc) model() *models.HistoryRecord {
	rec := &models.HistoryRecord{
		ID:         d.ID.Hex(),
		CardID:     refString(d.CardID),
		CardNumber: d.CardNumber,
		RequestID:  refString(d.RequestID),
		AssignedAt: d.AssignedAt,
		ReturnedAt: d.ReturnedAt,
		AssignedBy: d.AssignedBy,
		ReturnedBy: d.ReturnedBy,
	}
	if d.DurationHours != nil {
		h := decimal.NewFromFloat(*d.DurationHours).Round(2)
		rec.DurationHours = &h
	}
	return rec
}

func (s *MongoStore) OpenLoan(ctx context.Context, rec *models.HistoryRecord) error {
	doc := historyDoc{
		ID:         primitive.NewObjectID(),
		CardID:     refValue(derefString(rec.CardID)),
		CardNumber: rec.CardNumber,
		RequestID:  refValue(derefString(rec.RequestID)),
		AssignedAt: rec.AssignedAt,
		ReturnedAt: rec.ReturnedAt,
		AssignedBy: rec.AssignedBy,
		ReturnedBy: rec.ReturnedBy,
	}
	if rec.DurationHours != nil {
		h := rec.DurationHours.InexactFloat64()
		doc.DurationHours = &h
	}
	if _, err := s.history.InsertOne(ctx, doc); err != nil {
		return wrap("failed to open loan", err)
	}
	rec.ID = doc.ID.Hex()
	return nil
}

// CloseLoan stamps the newest open loan of the card. A card assigned before
// history was kept has no open loan; that is not an error.
func (s *MongoStore) CloseLoan(ctx context.Context, cardNumber string, returnedAt time.Time, returnedBy string) (*models.HistoryRecord, error) {
	opts := options.FindOne().SetSort(newestFirst("assignedAt"))

	var doc historyDoc
	err := s.history.FindOne(ctx, bson.M{"cardNumber": cardNumber, "returnedAt": nil}, opts).Decode(&doc)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, wrap("failed to find open loan", err)
	}

	hours := models.LoanHours(doc.AssignedAt, returnedAt)
	_, err = s.history.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": bson.M{
		"returnedAt":    returnedAt,
		"returnedBy":    returnedBy,
		"durationHours": hours.InexactFloat64(),
	}})
	if err != nil {
		return nil, wrap("failed to close loan", err)
	}

	rec := doc.model()
	rec.ReturnedAt = &returnedAt
	rec.ReturnedBy = &returnedBy
	rec.DurationHours = &hours
	return rec, nil
}

func (s *MongoStore) ListHistory(ctx context.Context, cardNumber string) ([]*models.HistoryRecord, error) {
	filter := bson.M{}
	if cardNumber != "" {
		filter["cardNumber"] = cardNumber
	}

	docs, err := findAll[historyDoc](ctx, s.history, filter, options.Find().SetSort(newestFirst("assignedAt")))
	if err != nil {
		return nil, wrap("failed to list history", err)
	}

	out := make([]*models.HistoryRecord, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].model())
	}
	return out, nil
}

func (s *MongoStore) CountHistory(ctx context.Context) (int64, error) {
	n, err := s.history.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, wrap("failed to count history", err)
	}
	return n, nil
}
