package service

import (
	"context"
	"sort"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
)

type historyBackend interface {
	LogStore
	HistoryStore
}

// RebuildHistory derives loan records from the activity log for databases
// that predate card_history. Each assigned entry is paired with the next
// unassigned entry of the same card. It does nothing when history already
// has rows and returns the number of records written.
func RebuildHistory(ctx context.Context, st historyBackend) (int, error) {
	n, err := st.CountHistory(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	entries, err := st.ListLogs(ctx, models.LogFilter{})
	if err != nil {
		return 0, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})

	open := map[string]*models.HistoryRecord{}
	var loans []*models.HistoryRecord
	for _, e := range entries {
		switch e.Action {
		case models.ActionAssigned:
			rec := &models.HistoryRecord{
				CardID:     e.CardID,
				CardNumber: e.CardNumber,
				RequestID:  e.RequestID,
				AssignedAt: e.Timestamp,
				AssignedBy: e.User,
			}
			if rec.AssignedBy == "" {
				rec.AssignedBy = "System Admin"
			}
			open[e.CardNumber] = rec
			loans = append(loans, rec)
		case models.ActionUnassigned:
			rec, ok := open[e.CardNumber]
			if !ok {
				continue
			}
			returnedAt, returnedBy := e.Timestamp, e.User
			hours := models.LoanHours(rec.AssignedAt, returnedAt)
			rec.ReturnedAt = &returnedAt
			rec.ReturnedBy = &returnedBy
			rec.DurationHours = &hours
			delete(open, e.CardNumber)
		}
	}

	for i, rec := range loans {
		if err := st.OpenLoan(ctx, rec); err != nil {
			return i, err
		}
	}
	return len(loans), nil
}
