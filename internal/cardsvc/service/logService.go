package service

import (
	"context"

	"github.com/troycsc/desk-services/internal/cardnum"
	"github.com/troycsc/desk-services/internal/cardsvc/models"
)

type LogService struct {
	store LogStore
}

func NewLogService(store LogStore) *LogService {
	return &LogService{store: store}
}

// List returns activity newest first. An unknown action is a 400 rather than
// an empty list.
func (s *LogService) List(ctx context.Context, f models.LogFilter) ([]*models.LogEntry, error) {
	switch f.Action {
	case "", models.ActionAssigned, models.ActionUnassigned:
	default:
		return nil, invalid("Invalid action filter")
	}
	if f.CardNumber != "" {
		f.CardNumber = cardnum.Extract(f.CardNumber)
	}
	return s.store.ListLogs(ctx, f)
}
