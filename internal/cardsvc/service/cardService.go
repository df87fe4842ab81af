package service

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/troycsc/desk-services/internal/cardnum"
	"github.com/troycsc/desk-services/internal/cardsvc/models"
	"github.com/troycsc/desk-services/internal/cardsvc/store"
	"github.com/troycsc/desk-services/internal/comm"
)

type cardBackend interface {
	RequestStore
	CardStore
	LogStore
	HistoryStore
}

// Staff identifies the desk user behind a request. Zero value when the API
// runs without authentication.
type Staff struct {
	ID   string
	Name string
}

// AssignInput is the body of POST /cards?action=assign.
type AssignInput struct {
	CardNumber string `json:"cardNumber"`
	UserName   string `json:"userName"`
	RequestID  string `json:"requestId"`
	UserEmail  string `json:"userEmail"`
	UserPhone  string `json:"userPhone"`
}

// CardStatus is the GET /cards answer for a known card.
type CardStatus struct {
	Exists bool `json:"exists"`
	*models.Card
}

type CardService struct {
	store     cardBackend
	publisher Publisher
	now       func() time.Time
}

func NewCardService(store cardBackend, publisher Publisher) *CardService {
	return &CardService{
		store:     store,
		publisher: publisherOrNoop(publisher),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Assign hands a card to a guest. The card number may be raw swipe input; it
// is run through the extractor and must come out valid.
func (s *CardService) Assign(ctx context.Context, in AssignInput, by Staff) (*models.Card, error) {
	number := cardnum.Extract(in.CardNumber)
	userName := strings.TrimSpace(in.UserName)
	if number == "" || userName == "" {
		return nil, invalid("Card number and user name are required")
	}
	if !cardnum.IsValid(number) {
		return nil, invalid("Invalid card number")
	}

	if in.RequestID != "" {
		req, err := s.store.GetRequest(ctx, in.RequestID)
		if err != nil {
			return nil, err
		}
		if req.Status == models.RequestCompleted {
			return nil, ErrRequestCompleted
		}
	}

	a := models.Assignment{
		CardNumber: number,
		UserName:   userName,
		RequestID:  in.RequestID,
		UserEmail:  strings.TrimSpace(in.UserEmail),
		UserPhone:  strings.TrimSpace(in.UserPhone),
		At:         s.now(),
	}
	card, err := s.store.AssignCard(ctx, a)
	if err != nil {
		return nil, err
	}

	if a.RequestID != "" {
		if err := s.store.CompleteRequest(ctx, a.RequestID, card.ID, by.ID); err != nil {
			log.Errorf("Error [CardService.Assign] completing request %s: %s", a.RequestID, err)
		}
	}

	previous := models.CardAvailable
	entry := &models.LogEntry{
		Action:         models.ActionAssigned,
		CardNumber:     number,
		CardID:         &card.ID,
		User:           userName,
		UserIdentifier: a.Identifier(),
		UserEmail:      optional(a.UserEmail),
		UserPhone:      optional(a.UserPhone),
		RequestID:      optional(a.RequestID),
		UserID:         optional(by.ID),
		PreviousStatus: &previous,
		NewStatus:      models.CardAssigned,
		Timestamp:      a.At,
	}
	if err := s.store.InsertLog(ctx, entry); err != nil {
		return nil, err
	}

	loan := &models.HistoryRecord{
		CardID:     &card.ID,
		CardNumber: number,
		RequestID:  optional(a.RequestID),
		AssignedAt: a.At,
		AssignedBy: staffName(by, userName),
	}
	if err := s.store.OpenLoan(ctx, loan); err != nil {
		log.Errorf("Error [CardService.Assign] opening loan for %s: %s", number, err)
	}

	publish(s.publisher, comm.EventCardAssigned, comm.CardEvent{
		CardNumber:     number,
		User:           userName,
		UserIdentifier: entry.UserIdentifier,
		RequestID:      entry.RequestID,
		Timestamp:      a.At,
	})
	return card, nil
}

// Return takes a card back. The return log copies the guest identity from
// the latest assignment log so both entries group under the same person.
func (s *CardService) Return(ctx context.Context, rawNumber string, by Staff) (*models.LogEntry, error) {
	number := cardnum.Extract(rawNumber)
	if number == "" {
		return nil, invalid("Card number is required")
	}

	at := s.now()
	before, err := s.store.ReturnCard(ctx, number, at)
	if err != nil {
		return nil, err
	}

	holder := ""
	if before.AssignedTo != nil {
		holder = *before.AssignedTo
	}

	assigned, err := s.store.LatestLog(ctx, number, models.ActionAssigned)
	if err != nil {
		log.Errorf("Error [CardService.Return] latest log for %s: %s", number, err)
	}

	previous := models.CardAssigned
	entry := &models.LogEntry{
		Action:         models.ActionUnassigned,
		CardNumber:     number,
		CardID:         &before.ID,
		User:           holder,
		UserIdentifier: holder,
		UserID:         optional(by.ID),
		PreviousStatus: &previous,
		NewStatus:      models.CardAvailable,
		Timestamp:      at,
	}
	if assigned != nil {
		if assigned.UserIdentifier != "" {
			entry.UserIdentifier = assigned.UserIdentifier
		}
		entry.UserEmail = assigned.UserEmail
		entry.UserPhone = assigned.UserPhone
		entry.RequestID = assigned.RequestID
	}
	if err := s.store.InsertLog(ctx, entry); err != nil {
		return nil, err
	}

	event := comm.CardEvent{
		CardNumber:     number,
		User:           holder,
		UserIdentifier: entry.UserIdentifier,
		RequestID:      entry.RequestID,
		Timestamp:      at,
		ReturnedAt:     &at,
	}
	loan, err := s.store.CloseLoan(ctx, number, at, staffName(by, holder))
	if err != nil {
		log.Errorf("Error [CardService.Return] closing loan for %s: %s", number, err)
	}
	if loan != nil && loan.DurationHours != nil {
		hours := loan.DurationHours.StringFixed(2)
		event.DurationHours = &hours
	}

	publish(s.publisher, comm.EventCardReturned, event)
	return entry, nil
}

// Status looks a card up by number. A card that has never been assigned
// does not exist yet and yields nil.
func (s *CardService) Status(ctx context.Context, rawNumber string) (*CardStatus, error) {
	number := cardnum.Extract(rawNumber)
	if number == "" {
		return nil, invalid("Card number is required")
	}

	card, err := s.store.GetCard(ctx, number)
	if err != nil || card == nil {
		return nil, err
	}
	return &CardStatus{Exists: true, Card: card}, nil
}

func (s *CardService) SetActive(ctx context.Context, rawNumber string, active bool) (*models.Card, error) {
	number := cardnum.Extract(rawNumber)
	if number == "" {
		return nil, invalid("Card number is required")
	}

	card, err := s.store.SetCardActive(ctx, number, active)
	if err != nil {
		return nil, err
	}
	publish(s.publisher, comm.EventCardStatus, comm.CardStatus{CardNumber: number, IsActive: active})
	return card, nil
}

func (s *CardService) History(ctx context.Context, rawNumber string) ([]*models.HistoryRecord, error) {
	return s.store.ListHistory(ctx, cardnum.Extract(rawNumber))
}

// IsConflict reports errors that mean the card is not in the state the
// caller expected.
func IsConflict(err error) bool {
	return errors.Is(err, store.ErrCardAssigned) ||
		errors.Is(err, store.ErrCardNotAssigned) ||
		errors.Is(err, store.ErrCardInactive) ||
		errors.Is(err, ErrRequestCompleted)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func staffName(by Staff, fallback string) string {
	if by.Name != "" {
		return by.Name
	}
	return fallback
}
