package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/troycsc/desk-services/internal/comm"
)

const writeWait = 10 * time.Second

// client serializes writes; gorilla connections allow one writer at a time.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// Ws tracks the staff dashboards connected to this instance.
type Ws struct {
	connMap sync.Map // socketId -> *client
}

func NewWs() *Ws {
	return &Ws{}
}

// handle socket message from web clients
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case "ping":
		s.reply(socketId, "pong", nil)
	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

func (s *Ws) reply(socketId, kind string, v interface{}) {
	payload, err := comm.Encode(kind, v)
	if err != nil {
		log.Errorf("Failed to marshal %s reply: %v", kind, err)
		return
	}
	s.Send(socketId, payload)
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, &client{conn: conn})
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
}

// Send writes one text frame to a single socket.
func (s *Ws) Send(socketId string, payload []byte) {
	c, ok := s.connMap.Load(socketId)
	if !ok {
		return
	}
	if err := c.(*client).write(websocket.TextMessage, payload); err != nil {
		log.Errorf("write to socket %s failed: %v", socketId, err)
	}
}

// Broadcast writes payload to every connected socket. A socket that fails
// the write is closed and forgotten; its read loop then exits.
func (s *Ws) Broadcast(payload []byte) int {
	sent := 0
	s.connMap.Range(func(key, value any) bool {
		c := value.(*client)
		if err := c.write(websocket.TextMessage, payload); err != nil {
			log.Warnf("dropping socket %s: %v", key, err)
			s.connMap.Delete(key)
			c.conn.Close()
			return true
		}
		sent++
		return true
	})
	return sent
}

func (s *Ws) Count() int {
	count := 0
	s.connMap.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}

// Welcome tells a new dashboard its socket id.
func (s *Ws) Welcome(socketId string) {
	s.reply(socketId, "welcome", map[string]string{"socketId": socketId})
}

// Decode parses a client frame.
func Decode(raw []byte) (*comm.WSMessage, error) {
	message := &comm.WSMessage{}
	if err := json.Unmarshal(raw, message); err != nil {
		return nil, err
	}
	return message, nil
}
