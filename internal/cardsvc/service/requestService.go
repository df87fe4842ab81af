package service

import (
	"context"
	"strings"
	"time"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
	"github.com/troycsc/desk-services/internal/comm"
)

// NewRequest is the body of POST /requests. The desk form sends first and
// last name with contact details; older kiosks send only name.
type NewRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Name      string `json:"name"`
}

type RequestService struct {
	store     RequestStore
	publisher Publisher
	now       func() time.Time
}

func NewRequestService(store RequestStore, publisher Publisher) *RequestService {
	return &RequestService{
		store:     store,
		publisher: publisherOrNoop(publisher),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *RequestService) Create(ctx context.Context, in NewRequest) (*models.Request, error) {
	now := s.now()
	r := &models.Request{
		Status:    models.RequestPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch {
	case in.FirstName != "" && in.LastName != "":
		first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
		email, phone := strings.TrimSpace(in.Email), strings.TrimSpace(in.Phone)
		if first == "" || last == "" {
			return nil, invalid("First name and last name are required")
		}
		if email == "" {
			return nil, invalid("Email is required")
		}
		if phone == "" {
			return nil, invalid("Phone number is required")
		}
		r.Name = first + " " + last
		r.FirstName, r.LastName = &first, &last
		r.Email, r.Phone = &email, &phone
	case in.Name != "":
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, invalid("Name is required")
		}
		r.Name = name
	default:
		return nil, invalid("Name or first/last name is required")
	}

	if err := s.store.CreateRequest(ctx, r); err != nil {
		return nil, err
	}
	publish(s.publisher, comm.EventRequestCreated, r)
	return r, nil
}

func (s *RequestService) Get(ctx context.Context, id string) (*models.Request, error) {
	return s.store.GetRequest(ctx, id)
}

// List returns requests newest first, only pending ones when pendingOnly.
func (s *RequestService) List(ctx context.Context, pendingOnly bool) ([]*models.Request, error) {
	status := ""
	if pendingOnly {
		status = models.RequestPending
	}
	return s.store.ListRequests(ctx, status)
}

func (s *RequestService) UpdateStatus(ctx context.Context, id, status string) error {
	if !models.ValidRequestStatus(status) {
		return invalid("Invalid status")
	}
	return s.store.UpdateRequestStatus(ctx, id, status)
}

func (s *RequestService) Delete(ctx context.Context, id string) error {
	return s.store.DeleteRequest(ctx, id)
}
