package broker

import (
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/troycsc/desk-services/internal/comm"
)

// Broker publishes desk activity to the subject socketsvc listens on.
type Broker struct {
	Conn    *nats.Conn
	Subject string
}

func NewBroker(nc *nats.Conn, subject string) *Broker {
	return &Broker{
		Conn:    nc,
		Subject: subject,
	}
}

// Publish wraps v in a WSMessage of type kind.
func (b *Broker) Publish(kind string, v interface{}) error {
	payload, err := comm.Encode(kind, v)
	if err != nil {
		log.Errorf("error [Broker.Publish] unable to marshal %s: %s", kind, err)
		return err
	}

	if err := b.Conn.Publish(b.Subject, payload); err != nil {
		log.Errorf("Error publishing to topic %s: %s", b.Subject, err)
		return err
	}
	return nil
}

// Heartbeat announces the instance as a service.heartbeat event until stop
// closes.
func (b *Broker) Heartbeat(instanceID string, every time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case t := <-ticker.C:
			_ = b.Publish("service.heartbeat", comm.ServiceHeartbeat{ID: instanceID, Timestamp: t.UTC()})
		}
	}
}
