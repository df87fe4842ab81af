package store

import (
	"context"
	"time"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cardDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	CardNumber       string             `bson:"cardNumber"`
	AssignedTo       *string            `bson:"assignedTo"`
	AssignedAt       *time.Time         `bson:"assignedAt"`
	IsAssigned       bool               `bson:"isAssigned"`
	Status           string             `bson:"status,omitempty"`
	IsActive         *bool              `bson:"isActive,omitempty"`
	CurrentRequestID interface{}        `bson:"currentRequestId"`
	CreatedAt        *time.Time         `bson:"createdAt,omitempty"`
	LastUsed         *time.Time         `bson:"lastUsed,omitempty"`
}

func (d *cardDoc) model() *models.Card {
	c := &models.Card{
		ID:               d.ID.Hex(),
		CardNumber:       d.CardNumber,
		AssignedTo:       d.AssignedTo,
		AssignedAt:       d.AssignedAt,
		IsAssigned:       d.IsAssigned,
		Status:           d.Status,
		IsActive:         d.IsActive == nil || *d.IsActive,
		CurrentRequestID: refString(d.CurrentRequestID),
		LastUsed:         d.LastUsed,
	}
	// cards written before the schema upgrade carry neither field
	if c.Status == "" {
		c.Status = models.CardAvailable
		if c.IsAssigned {
			c.Status = models.CardAssigned
		}
	}
	if d.CreatedAt != nil {
		c.CreatedAt = *d.CreatedAt
	} else if d.AssignedAt != nil {
		c.CreatedAt = *d.AssignedAt
	}
	return c
}

func (s *MongoStore) GetCard(ctx context.Context, cardNumber string) (*models.Card, error) {
	var doc cardDoc
	err := s.cards.FindOne(ctx, bson.M{"cardNumber": cardNumber}).Decode(&doc)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, wrap("failed to get card", err)
	}
	return doc.model(), nil
}

// AssignCard hands the card out only if it is active and nobody holds it.
// An existing card that fails the filter makes the upsert collide with the
// unique cardNumber index, so the losing assign gets a duplicate key.
func (s *MongoStore) AssignCard(ctx context.Context, a models.Assignment) (*models.Card, error) {
	filter := bson.M{
		"cardNumber": a.CardNumber,
		"isAssigned": bson.M{"$ne": true},
		"isActive":   bson.M{"$ne": false},
	}
	update := bson.M{
		"$set": bson.M{
			"assignedTo":       a.UserName,
			"assignedAt":       a.At,
			"isAssigned":       true,
			"status":           models.CardAssigned,
			"currentRequestId": refValue(a.RequestID),
			"lastUsed":         a.At,
		},
		"$setOnInsert": bson.M{
			"createdAt": a.At,
			"isActive":  true,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc cardDoc
	if err := s.cards.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if !mongo.IsDuplicateKeyError(err) && !notFound(err) {
			return nil, wrap("failed to assign card", err)
		}
		current, err := s.GetCard(ctx, a.CardNumber)
		if err != nil {
			return nil, err
		}
		return nil, assignConflict(current)
	}
	return doc.model(), nil
}

// ReturnCard clears the holder and returns the card as it was before.
func (s *MongoStore) ReturnCard(ctx context.Context, cardNumber string, at time.Time) (*models.Card, error) {
	filter := bson.M{"cardNumber": cardNumber, "isAssigned": true}
	update := bson.M{"$set": bson.M{
		"assignedTo":       nil,
		"assignedAt":       nil,
		"isAssigned":       false,
		"status":           models.CardAvailable,
		"currentRequestId": nil,
		"lastUsed":         at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

	var doc cardDoc
	if err := s.cards.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if notFound(err) {
			return nil, ErrCardNotAssigned
		}
		return nil, wrap("failed to return card", err)
	}
	return doc.model(), nil
}

func (s *MongoStore) SetCardActive(ctx context.Context, cardNumber string, active bool) (*models.Card, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc cardDoc
	err := s.cards.FindOneAndUpdate(ctx,
		bson.M{"cardNumber": cardNumber},
		bson.M{"$set": bson.M{"isActive": active}},
		opts,
	).Decode(&doc)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, wrap("failed to update card", err)
	}
	return doc.model(), nil
}
