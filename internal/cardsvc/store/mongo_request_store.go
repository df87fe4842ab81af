package store

import (
	"context"
	"time"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type requestDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	FirstName      *string            `bson:"firstName"`
	LastName       *string            `bson:"lastName"`
	Email          *string            `bson:"email"`
	Phone          *string            `bson:"phone"`
	Status         string             `bson:"status"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
	AssignedCardID interface{}        `bson:"assignedCardId"`
	ProcessedBy    interface{}        `bson:"processedBy"`
}

func (d *requestDoc) model() *models.Request {
	return &models.Request{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		Phone:          d.Phone,
		Status:         d.Status,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
		AssignedCardID: refString(d.AssignedCardID),
		ProcessedBy:    refString(d.ProcessedBy),
	}
}

func (s *MongoStore) CreateRequest(ctx context.Context, r *models.Request) error {
	doc := requestDoc{
		ID:        primitive.NewObjectID(),
		Name:      r.Name,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if _, err := s.requests.InsertOne(ctx, doc); err != nil {
		return wrap("failed to create request", err)
	}
	r.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) GetRequest(ctx context.Context, id string) (*models.Request, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc requestDoc
	if err := s.requests.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, wrap("failed to get request", err)
	}
	return doc.model(), nil
}

func (s *MongoStore) ListRequests(ctx context.Context, status string) ([]*models.Request, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	docs, err := findAll[requestDoc](ctx, s.requests, filter, options.Find().SetSort(newestFirst("createdAt")))
	if err != nil {
		return nil, wrap("failed to list requests", err)
	}

	out := make([]*models.Request, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].model())
	}
	return out, nil
}

func (s *MongoStore) UpdateRequestStatus(ctx context.Context, id, status string) error {
	return s.updateRequest(ctx, id, bson.M{"status": status, "updatedAt": nowUTC()})
}

func (s *MongoStore) CompleteRequest(ctx context.Context, id, cardID, processedBy string) error {
	return s.updateRequest(ctx, id, bson.M{
		"status":         models.RequestCompleted,
		"assignedCardId": refValue(cardID),
		"processedBy":    refValue(processedBy),
		"updatedAt":      nowUTC(),
	})
}

func (s *MongoStore) updateRequest(ctx context.Context, id string, set bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := s.requests.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return wrap("failed to update request", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteRequest(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := s.requests.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return wrap("failed to delete request", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
