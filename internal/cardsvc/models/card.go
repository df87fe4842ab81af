package models

import "time"

const (
	CardAvailable = "available"
	CardAssigned  = "assigned"
)

// Card is the current state of one physical guest card. The logs collection
// is the history; this record only says who holds the card right now.
type Card struct {
	ID               string     `json:"_id"`
	CardNumber       string     `json:"cardNumber"`
	AssignedTo       *string    `json:"assignedTo"`
	AssignedAt       *time.Time `json:"assignedAt"`
	IsAssigned       bool       `json:"isAssigned"`
	Status           string     `json:"status"`
	IsActive         bool       `json:"isActive"`
	CurrentRequestID *string    `json:"currentRequestId"`
	CreatedAt        time.Time  `json:"createdAt"`
	LastUsed         *time.Time `json:"lastUsed"`
}

// Assignment is what the desk supplies when handing a card out.
type Assignment struct {
	CardNumber string
	UserName   string
	RequestID  string
	UserEmail  string
	UserPhone  string
	At         time.Time
}

// Identifier distinguishes guests sharing a name in the activity log.
func (a Assignment) Identifier() string {
	switch {
	case a.UserEmail != "":
		return a.UserName + " (" + a.UserEmail + ")"
	case a.UserPhone != "":
		return a.UserName + " (" + a.UserPhone + ")"
	default:
		return a.UserName
	}
}
