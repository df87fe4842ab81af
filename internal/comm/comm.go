package comm

import (
	"encoding/json"
	"time"
)

const (
	EventRequestCreated = "request.created"
	EventCardAssigned   = "card.assigned"
	EventCardReturned   = "card.returned"
	EventCardStatus     = "card.status"
)

// WSMessage is the envelope on the NATS subject and on the dashboard socket.
type WSMessage struct {
	Type     string          `json:"type"` // e.g. "card.assigned"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid,omitempty"`
	SentAt   time.Time       `json:"sentAt"`
}

// CardEvent is the payload of card.assigned and card.returned.
type CardEvent struct {
	CardNumber     string     `json:"cardNumber"`
	User           string     `json:"user"`
	UserIdentifier string     `json:"userIdentifier"`
	RequestID      *string    `json:"requestId"`
	Timestamp      time.Time  `json:"timestamp"`
	DurationHours  *string    `json:"durationHours,omitempty"`
	ReturnedAt     *time.Time `json:"returnedAt,omitempty"`
}

// CardStatus is the payload of card.status.
type CardStatus struct {
	CardNumber string `json:"cardNumber"`
	IsActive   bool   `json:"isActive"`
}

type ServiceHeartbeat struct {
	ID        string    `json:"id"` // service instance id
	Timestamp time.Time `json:"timestamp"`
}

// Encode wraps v in a WSMessage of the given type.
func Encode(kind string, v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(WSMessage{Type: kind, Data: data, SentAt: time.Now().UTC()})
}
