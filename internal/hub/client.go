package hub

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Content snapshots ride in
	// these frames, so the limit is generous.
	maxMessageSize = 64 * 1024

	// Per-client outbound queue size.
	sendQueueSize = 256
)

// sessionRoom is the typed join state of a connection: the zero value is
// Unjoined, and a connection is joined to at most one room at a time.
// It is read and written only from the connection's read goroutine, which
// is what makes room-scoped validation race-free per connection.
type sessionRoom struct {
	roomID uint
}

func joinedRoom(id uint) sessionRoom { return sessionRoom{roomID: id} }

func (s sessionRoom) joined() bool { return s.roomID != 0 }

func (s sessionRoom) is(roomID uint) bool { return s.joined() && s.roomID == roomID }

// Client is one authenticated websocket connection. The user identity is
// set at handshake time and never changes for the life of the connection.
type Client struct {
	id      string
	user    domain.User
	hub     *Hub
	session *SessionManager
	conn    *websocket.Conn
	room    sessionRoom

	sendMu sync.Mutex
	closed bool
	send   chan []byte
}

// NewClient wraps an upgraded, authenticated connection.
func NewClient(hub *Hub, session *SessionManager, conn *websocket.Conn, user domain.User) *Client {
	return &Client{
		id:      uuid.NewString(),
		user:    user,
		hub:     hub,
		session: session,
		conn:    conn,
		send:    make(chan []byte, sendQueueSize),
	}
}

// ID returns the connection identifier.
func (c *Client) ID() string { return c.id }

// User returns the authenticated identity behind the connection.
func (c *Client) User() domain.User { return c.user }

// Run starts the read and write pumps. It returns immediately; the
// connection lives until the peer goes away or a write fails.
func (c *Client) Run() {
	go c.writePump()
	go c.readPump()
}

// trySend queues a frame for this connection without blocking. It
// reports false when the frame was dropped: either the queue is full or
// the connection is already shutting down. The mutex serializes sends
// against closeSend so a broadcast that raced the disconnect lands on a
// drop instead of a closed channel.
func (c *Client) trySend(frame []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// closeSend marks the connection closed and releases the write pump.
// Idempotent; frames offered after this point are silently dropped.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.sendMu.Unlock()
}

// sendEvent queues an event frame for this connection without blocking.
func (c *Client) sendEvent(event string, data interface{}) {
	frame, err := EncodeEvent(event, data)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"conn_id": c.id,
			"event":   event,
		}).WithError(err).Error("Failed to encode event")
		return
	}
	if !c.trySend(frame) {
		logrus.WithFields(logrus.Fields{
			"conn_id": c.id,
			"user_id": c.user.ID,
			"event":   event,
		}).Warn("Client send queue full, dropping event")
	}
}

// readPump reads frames off the wire and hands each to the session
// manager. Events of one connection are processed strictly in order;
// events of different connections interleave freely.
func (c *Client) readPump() {
	defer func() {
		c.session.HandleDisconnect(c)
		c.closeSend()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithFields(logrus.Fields{
					"conn_id": c.id,
					"user_id": c.user.ID,
				}).WithError(err).Warn("Unexpected websocket close")
			}
			return
		}
		c.session.Dispatch(c, raw)
	}
}

// writePump drains the send queue onto the wire and keeps the connection
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
