package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
)

type RequestStore interface {
	CreateRequest(ctx context.Context, r *models.Request) error
	GetRequest(ctx context.Context, id string) (*models.Request, error)
	ListRequests(ctx context.Context, status string) ([]*models.Request, error)
	UpdateRequestStatus(ctx context.Context, id, status string) error
	CompleteRequest(ctx context.Context, id, cardID, processedBy string) error
	DeleteRequest(ctx context.Context, id string) error
}

type CardStore interface {
	GetCard(ctx context.Context, cardNumber string) (*models.Card, error)
	AssignCard(ctx context.Context, a models.Assignment) (*models.Card, error)
	ReturnCard(ctx context.Context, cardNumber string, at time.Time) (*models.Card, error)
	SetCardActive(ctx context.Context, cardNumber string, active bool) (*models.Card, error)
}

type LogStore interface {
	InsertLog(ctx context.Context, e *models.LogEntry) error
	LatestLog(ctx context.Context, cardNumber, action string) (*models.LogEntry, error)
	ListLogs(ctx context.Context, f models.LogFilter) ([]*models.LogEntry, error)
}

type HistoryStore interface {
	OpenLoan(ctx context.Context, rec *models.HistoryRecord) error
	CloseLoan(ctx context.Context, cardNumber string, returnedAt time.Time, returnedBy string) (*models.HistoryRecord, error)
	ListHistory(ctx context.Context, cardNumber string) ([]*models.HistoryRecord, error)
	CountHistory(ctx context.Context) (int64, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Store is everything the desk service persists. MongoStore, PgStore and
// MemoryStore all satisfy it.
type Store interface {
	RequestStore
	CardStore
	LogStore
	HistoryStore
	UserStore
}

// Publisher fans card activity out to live dashboards.
type Publisher interface {
	Publish(kind string, v interface{}) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) error { return nil }

func publisherOrNoop(p Publisher) Publisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

// publish is fire and forget: the store write already happened.
func publish(p Publisher, kind string, v interface{}) {
	if err := p.Publish(kind, v); err != nil {
		log.Errorf("Error [Publisher.Publish] %s: %s", kind, err)
	}
}
