package models

import "time"

const (
	ActionAssigned   = "assigned"
	ActionUnassigned = "unassigned"
)

type LogEntry struct {
	ID             string    `json:"_id"`
	Action         string    `json:"action"`
	CardNumber     string    `json:"cardNumber"`
	CardID         *string   `json:"cardId"`
	User           string    `json:"user"`
	UserIdentifier string    `json:"userIdentifier"`
	UserEmail      *string   `json:"userEmail"`
	UserPhone      *string   `json:"userPhone"`
	RequestID      *string   `json:"requestId"`
	UserID         *string   `json:"userId"`
	Details        string    `json:"details,omitempty"`
	PreviousStatus *string   `json:"previousStatus"`
	NewStatus      string    `json:"newStatus,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type LogFilter struct {
	Action     string
	CardNumber string
}
