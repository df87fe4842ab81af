package broker

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/troycsc/desk-services/internal/comm"
)

// Broker relays desk events from NATS to the connected dashboards.
type Broker struct {
	Conn      *nats.Conn
	Broadcast func([]byte) int

	LastHeartbeatMap   sync.Map // desk instance id -> time.Time
	heartbeatThreshold time.Duration
}

func NewBroker(conn *nats.Conn, fncBroadcast func([]byte) int) *Broker {
	return &Broker{
		Conn:               conn,
		Broadcast:          fncBroadcast,
		heartbeatThreshold: time.Second * 15,
	}
}

// consume desk events
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) handleMessages(msgNats *nats.Msg) {
	b.Dispatch(msgNats.Data)
}

// Dispatch routes one raw envelope.
func (b *Broker) Dispatch(data []byte) {
	message := &comm.WSMessage{}
	if err := json.Unmarshal(data, message); err != nil {
		log.Errorf("Error %s", err)
		return
	}

	switch message.Type {
	case comm.EventCardAssigned, comm.EventCardReturned, comm.EventCardStatus, comm.EventRequestCreated:
		n := b.Broadcast(data)
		log.Debugf("%s sent to %d dashboards", message.Type, n)
	case "service.heartbeat":
		var hb comm.ServiceHeartbeat
		if err := json.Unmarshal(message.Data, &hb); err != nil {
			log.Errorf("Error heartbeat %s", err)
			return
		}
		b.LastHeartbeatMap.Store(hb.ID, hb.Timestamp)
	default:
		log.Warnf("Unknown message %s", message.Type)
	}
}

// LiveDesks lists desk instances heard from within the heartbeat threshold
// and forgets the rest.
func (b *Broker) LiveDesks(now time.Time) []string {
	live := []string{}
	b.LastHeartbeatMap.Range(func(key, value any) bool {
		if now.Sub(value.(time.Time)) > b.heartbeatThreshold {
			b.LastHeartbeatMap.Delete(key)
			return true
		}
		live = append(live, key.(string))
		return true
	})
	return live
}
