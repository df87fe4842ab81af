package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
	"github.com/troycsc/desk-services/internal/cardsvc/store"
	"github.com/troycsc/desk-services/internal/comm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	kinds  []string
	events []interface{}
}

func (p *recordingPublisher) Publish(kind string, v interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.kinds = append(p.kinds, kind)
	p.events = append(p.events, v)
	return nil
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, interface{}) error { return errors.New("nats down") }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newCardService(t *testing.T) (*CardService, *store.MemoryStore, *recordingPublisher, *clock) {
	t.Helper()
	st := store.NewMemoryStore()
	pub := &recordingPublisher{}
	c := &clock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := NewCardService(st, pub)
	svc.now = c.now
	return svc, st, pub, c
}

func TestRequestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := NewRequestService(store.NewMemoryStore(), nil)

	r, err := svc.Create(ctx, NewRequest{FirstName: " Jane ", LastName: "Doe ", Email: " jane@troy.edu", Phone: "555 0100"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", r.Name)
	assert.Equal(t, "jane@troy.edu", *r.Email)
	assert.Equal(t, models.RequestPending, r.Status)
	assert.NotEmpty(t, r.ID)

	legacy, err := svc.Create(ctx, NewRequest{Name: "  Old Kiosk "})
	require.NoError(t, err)
	assert.Equal(t, "Old Kiosk", legacy.Name)
	assert.Nil(t, legacy.Email)
}

func TestRequestService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewRequestService(store.NewMemoryStore(), nil)

	cases := []struct {
		name string
		in   NewRequest
		msg  string
	}{
		{"nothing", NewRequest{}, "Name or first/last name is required"},
		{"only first", NewRequest{FirstName: "Jane"}, "Name or first/last name is required"},
		{"blank names", NewRequest{FirstName: " ", LastName: " "}, "First name and last name are required"},
		{"no email", NewRequest{FirstName: "Jane", LastName: "Doe", Phone: "1"}, "Email is required"},
		{"no phone", NewRequest{FirstName: "Jane", LastName: "Doe", Email: "j@t.edu"}, "Phone number is required"},
		{"blank legacy", NewRequest{Name: "   "}, "Name is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.msg, verr.Message)
		})
	}
}

func TestRequestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc := NewRequestService(store.NewMemoryStore(), nil)

	r, err := svc.Create(ctx, NewRequest{Name: "Jane"})
	require.NoError(t, err)

	var verr *ValidationError
	assert.ErrorAs(t, svc.UpdateStatus(ctx, r.ID, "lost"), &verr)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, "nope", models.RequestAssigned), store.ErrNotFound)
	require.NoError(t, svc.UpdateStatus(ctx, r.ID, models.RequestAssigned))

	pending, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCardService_AssignAndReturn(t *testing.T) {
	ctx := context.Background()
	svc, st, pub, c := newCardService(t)
	requests := NewRequestService(st, nil)

	req, err := requests.Create(ctx, NewRequest{FirstName: "Jane", LastName: "Doe", Email: "jane@troy.edu", Phone: "555"})
	require.NoError(t, err)

	card, err := svc.Assign(ctx, AssignInput{
		CardNumber: ";111097412=241031110974124103?",
		UserName:   "Jane Doe",
		RequestID:  req.ID,
		UserEmail:  "jane@troy.edu",
	}, Staff{ID: "staff-1", Name: "Desk A"})
	require.NoError(t, err)
	assert.Equal(t, "111097412", card.CardNumber)
	assert.True(t, card.IsAssigned)

	got, err := requests.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestCompleted, got.Status)
	assert.Equal(t, card.ID, *got.AssignedCardID)
	assert.Equal(t, "staff-1", *got.ProcessedBy)

	c.t = c.t.Add(3 * time.Hour)
	entry, err := svc.Return(ctx, "111097412", Staff{Name: "Desk B"})
	require.NoError(t, err)
	assert.Equal(t, models.ActionUnassigned, entry.Action)
	assert.Equal(t, "Jane Doe", entry.User)
	assert.Equal(t, "Jane Doe (jane@troy.edu)", entry.UserIdentifier)
	assert.Equal(t, req.ID, *entry.RequestID)

	logs, err := st.ListLogs(ctx, models.LogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ActionUnassigned, logs[0].Action)
	assert.Equal(t, models.ActionAssigned, logs[1].Action)

	history, err := svc.History(ctx, "111097412")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Desk A", history[0].AssignedBy)
	assert.Equal(t, "Desk B", *history[0].ReturnedBy)
	assert.Equal(t, "3.00", history[0].DurationHours.StringFixed(2))

	assert.Equal(t, []string{comm.EventCardAssigned, comm.EventCardReturned}, pub.kinds)
	returned := pub.events[1].(comm.CardEvent)
	require.NotNil(t, returned.DurationHours)
	assert.Equal(t, "3.00", *returned.DurationHours)
}

func TestCardService_AssignValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newCardService(t)

	var verr *ValidationError
	_, err := svc.Assign(ctx, AssignInput{CardNumber: "123456"}, Staff{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Card number and user name are required", verr.Message)

	_, err = svc.Assign(ctx, AssignInput{CardNumber: "12-34", UserName: "Jane"}, Staff{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid card number", verr.Message)

	_, err = svc.Assign(ctx, AssignInput{CardNumber: "123456", UserName: "Jane", RequestID: "missing"}, Staff{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCardService_DoubleAssign(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newCardService(t)

	_, err := svc.Assign(ctx, AssignInput{CardNumber: "123456", UserName: "Jane"}, Staff{})
	require.NoError(t, err)

	_, err = svc.Assign(ctx, AssignInput{CardNumber: "1234 56", UserName: "John"}, Staff{})
	assert.ErrorIs(t, err, store.ErrCardAssigned)
	assert.True(t, IsConflict(err))
}

func TestCardService_CompletedRequestRejected(t *testing.T) {
	ctx := context.Background()
	svc, st, _, _ := newCardService(t)
	requests := NewRequestService(st, nil)

	req, err := requests.Create(ctx, NewRequest{Name: "Jane"})
	require.NoError(t, err)
	require.NoError(t, requests.UpdateStatus(ctx, req.ID, models.RequestCompleted))

	_, err = svc.Assign(ctx, AssignInput{CardNumber: "123456", UserName: "Jane", RequestID: req.ID}, Staff{})
	assert.ErrorIs(t, err, ErrRequestCompleted)

	card, err := st.GetCard(ctx, "123456")
	require.NoError(t, err)
	assert.Nil(t, card)
}

func TestCardService_ReturnUnassigned(t *testing.T) {
	ctx := context.Background()
	svc, _, pub, _ := newCardService(t)

	_, err := svc.Return(ctx, "123456", Staff{})
	assert.ErrorIs(t, err, store.ErrCardNotAssigned)
	assert.Empty(t, pub.kinds)
}

func TestCardService_StatusAndActive(t *testing.T) {
	ctx := context.Background()
	svc, _, pub, _ := newCardService(t)

	status, err := svc.Status(ctx, "123456")
	require.NoError(t, err)
	assert.Nil(t, status)

	_, err = svc.Assign(ctx, AssignInput{CardNumber: "123456", UserName: "Jane"}, Staff{})
	require.NoError(t, err)

	status, err = svc.Status(ctx, "123456")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.True(t, status.Exists)
	assert.True(t, status.IsAssigned)

	raw, err := json.Marshal(status)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"exists":true`)
	assert.Contains(t, string(raw), `"cardNumber":"123456"`)

	_, err = svc.Return(ctx, "123456", Staff{})
	require.NoError(t, err)
	card, err := svc.SetActive(ctx, "123456", false)
	require.NoError(t, err)
	assert.False(t, card.IsActive)
	assert.Equal(t, comm.EventCardStatus, pub.kinds[len(pub.kinds)-1])

	_, err = svc.Assign(ctx, AssignInput{CardNumber: "123456", UserName: "John"}, Staff{})
	assert.ErrorIs(t, err, store.ErrCardInactive)
}

func TestCardService_PublishFailureDoesNotFailAssign(t *testing.T) {
	svc := NewCardService(store.NewMemoryStore(), failingPublisher{})

	_, err := svc.Assign(context.Background(), AssignInput{CardNumber: "123456", UserName: "Jane"}, Staff{})
	assert.NoError(t, err)
}

func TestLogService_List(t *testing.T) {
	ctx := context.Background()
	svc, st, _, c := newCardService(t)

	_, err := svc.Assign(ctx, AssignInput{CardNumber: "123456", UserName: "Jane"}, Staff{})
	require.NoError(t, err)
	c.t = c.t.Add(time.Minute)
	_, err = svc.Assign(ctx, AssignInput{CardNumber: "654321", UserName: "John"}, Staff{})
	require.NoError(t, err)

	logs := NewLogService(st)
	all, err := logs.List(ctx, models.LogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "John", all[0].User)

	one, err := logs.List(ctx, models.LogFilter{CardNumber: "1234 56"})
	require.NoError(t, err)
	require.Len(t, one, 1)

	var verr *ValidationError
	_, err = logs.List(ctx, models.LogFilter{Action: "lost"})
	assert.ErrorAs(t, err, &verr)
}

func TestRebuildHistory(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	for _, e := range []models.LogEntry{
		{Action: models.ActionAssigned, CardNumber: "111111", User: "Ann", Timestamp: base},
		{Action: models.ActionAssigned, CardNumber: "222222", User: "", Timestamp: base.Add(time.Minute)},
		{Action: models.ActionUnassigned, CardNumber: "111111", User: "Ann", Timestamp: base.Add(2 * time.Hour)},
		{Action: models.ActionUnassigned, CardNumber: "333333", User: "Stray", Timestamp: base.Add(3 * time.Hour)},
	} {
		e := e
		require.NoError(t, st.InsertLog(ctx, &e))
	}

	n, err := RebuildHistory(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	closed, err := st.ListHistory(ctx, "111111")
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, "2.00", closed[0].DurationHours.StringFixed(2))

	open, err := st.ListHistory(ctx, "222222")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Nil(t, open[0].ReturnedAt)
	assert.Equal(t, "System Admin", open[0].AssignedBy)

	again, err := RebuildHistory(ctx, st)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	svc := NewAuthService(store.NewMemoryStore(), tokenAuth)

	_, err := svc.Register(ctx, "Desk", "desk@troy.edu", "short", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	u, err := svc.Register(ctx, "Desk", " Desk@Troy.edu ", "correct horse", "")
	require.NoError(t, err)
	assert.Equal(t, "desk@troy.edu", u.Email)
	assert.Equal(t, models.RoleStaff, u.Role)
	assert.NotEqual(t, "correct horse", u.PasswordHash)

	_, err = svc.Register(ctx, "Desk", "desk@troy.edu", "correct horse", "")
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, _, err = svc.Login(ctx, "desk@troy.edu", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@troy.edu", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, _, err := svc.Login(ctx, "DESK@troy.edu", "correct horse")
	require.NoError(t, err)

	decoded, err := tokenAuth.Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(ctx)
	require.NoError(t, err)
	staff := StaffFromClaims(claims)
	assert.Equal(t, u.ID, staff.ID)
	assert.Equal(t, "Desk", staff.Name)
}
