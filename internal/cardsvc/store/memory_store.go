package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
)

// MemoryStore is a process local backend for tests and STORE_DRIVER=memory.
// Values are copied in and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.Mutex
	requests map[string]models.Request
	cards    map[string]models.Card // by card number
	logs     []models.LogEntry
	history  []models.HistoryRecord
	users    map[string]models.User // by email
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		requests: map[string]models.Request{},
		cards:    map[string]models.Card{},
		users:    map[string]models.User{},
	}
}

func (s *MemoryStore) CreateRequest(_ context.Context, r *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = newID()
	s.requests[r.ID] = *r
	return nil
}

func (s *MemoryStore) GetRequest(_ context.Context, id string) (*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) ListRequests(_ context.Context, status string) ([]*models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*models.Request{}
	for _, r := range s.requests {
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, &r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateRequestStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = nowUTC()
	s.requests[id] = r
	return nil
}

func (s *MemoryStore) CompleteRequest(_ context.Context, id, cardID, processedBy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = models.RequestCompleted
	r.AssignedCardID = optString(cardID)
	r.ProcessedBy = optString(processedBy)
	r.UpdatedAt = nowUTC()
	s.requests[id] = r
	return nil
}

func (s *MemoryStore) DeleteRequest(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[id]; !ok {
		return ErrNotFound
	}
	delete(s.requests, id)
	return nil
}

func (s *MemoryStore) GetCard(_ context.Context, cardNumber string) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[cardNumber]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *MemoryStore) AssignCard(_ context.Context, a models.Assignment) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[a.CardNumber]
	switch {
	case !ok:
		c = models.Card{ID: newID(), CardNumber: a.CardNumber, IsActive: true, CreatedAt: a.At}
	case c.IsAssigned:
		return nil, ErrCardAssigned
	case !c.IsActive:
		return nil, ErrCardInactive
	}

	at := a.At
	c.AssignedTo = optString(a.UserName)
	c.AssignedAt = &at
	c.IsAssigned = true
	c.Status = models.CardAssigned
	c.CurrentRequestID = optString(a.RequestID)
	c.LastUsed = &at
	s.cards[a.CardNumber] = c
	return &c, nil
}

func (s *MemoryStore) ReturnCard(_ context.Context, cardNumber string, at time.Time) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, ok := s.cards[cardNumber]
	if !ok || !before.IsAssigned {
		return nil, ErrCardNotAssigned
	}

	c := before
	c.AssignedTo = nil
	c.AssignedAt = nil
	c.IsAssigned = false
	c.Status = models.CardAvailable
	c.CurrentRequestID = nil
	c.LastUsed = &at
	s.cards[cardNumber] = c
	return &before, nil
}

func (s *MemoryStore) SetCardActive(_ context.Context, cardNumber string, active bool) (*models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[cardNumber]
	if !ok {
		return nil, ErrNotFound
	}
	c.IsActive = active
	s.cards[cardNumber] = c
	return &c, nil
}

func (s *MemoryStore) InsertLog(_ context.Context, e *models.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = newID()
	s.logs = append(s.logs, *e)
	return nil
}

func (s *MemoryStore) LatestLog(_ context.Context, cardNumber, action string) (*models.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *models.LogEntry
	for i := range s.logs {
		e := s.logs[i]
		if e.CardNumber != cardNumber || e.Action != action {
			continue
		}
		if latest == nil || !e.Timestamp.Before(latest.Timestamp) {
			latest = &e
		}
	}
	return latest, nil
}

func (s *MemoryStore) ListLogs(_ context.Context, f models.LogFilter) ([]*models.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*models.LogEntry{}
	for i := len(s.logs) - 1; i >= 0; i-- {
		e := s.logs[i]
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.CardNumber != "" && e.CardNumber != f.CardNumber {
			continue
		}
		out = append(out, &e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (s *MemoryStore) OpenLoan(_ context.Context, rec *models.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = newID()
	s.history = append(s.history, *rec)
	return nil
}

func (s *MemoryStore) CloseLoan(_ context.Context, cardNumber string, returnedAt time.Time, returnedBy string) (*models.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open := -1
	for i, rec := range s.history {
		if rec.CardNumber != cardNumber || rec.ReturnedAt != nil {
			continue
		}
		if open < 0 || !rec.AssignedAt.Before(s.history[open].AssignedAt) {
			open = i
		}
	}
	if open < 0 {
		return nil, nil
	}

	hours := models.LoanHours(s.history[open].AssignedAt, returnedAt)
	rec := &s.history[open]
	rec.ReturnedAt = &returnedAt
	rec.ReturnedBy = &returnedBy
	rec.DurationHours = &hours

	out := *rec
	return &out, nil
}

func (s *MemoryStore) ListHistory(_ context.Context, cardNumber string) ([]*models.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*models.HistoryRecord{}
	for i := len(s.history) - 1; i >= 0; i-- {
		rec := s.history[i]
		if cardNumber != "" && rec.CardNumber != cardNumber {
			continue
		}
		out = append(out, &rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AssignedAt.After(out[j].AssignedAt) })
	return out, nil
}

func (s *MemoryStore) CountHistory(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.history)), nil
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.Email]; ok {
		return ErrDuplicate
	}
	u.ID = newID()
	s.users[u.Email] = *u
	return nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}
