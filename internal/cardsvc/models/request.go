package models

import "time"

const (
	RequestPending   = "pending"
	RequestAssigned  = "assigned"
	RequestCompleted = "completed"
)

// Request is a guest asking for a temporary access card.
type Request struct {
	ID             string    `json:"_id"`
	Name           string    `json:"name"`
	FirstName      *string   `json:"firstName"`
	LastName       *string   `json:"lastName"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	AssignedCardID *string   `json:"assignedCardId"`
	ProcessedBy    *string   `json:"processedBy"`
}

func ValidRequestStatus(s string) bool {
	switch s {
	case RequestPending, RequestAssigned, RequestCompleted:
		return true
	}
	return false
}
