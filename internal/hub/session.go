package hub

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/domain"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/service"
)

// RoomSessions is the slice of the session service the manager drives.
// Implemented by *service.RoomSessionService.
type RoomSessions interface {
	JoinRoom(ctx context.Context, roomID uint, user *domain.User, connID string) (*service.JoinResult, error)
	LeaveRoom(ctx context.Context, roomID, userID uint) error
	ApplyContentChange(ctx context.Context, roomID, userID uint, content string) error
	ComposeMessage(user *domain.User, message string) (*domain.RoomMessage, error)
	ListPublicRooms(ctx context.Context) ([]service.RoomSummary, error)
}

// Display messages sent to clients in room-error events. Internal details
// never leave the server.
const (
	msgInvalidFormat  = "Invalid message format"
	msgAlreadyInRoom  = "Already in another room"
	msgOperationError = "Operation failed"
)

// SessionManager is the per-connection state machine for room events.
// Each connection moves Unjoined -> Joined(room) -> Unjoined and nothing
// else; room-scoped events naming any other room are rejected with an
// explicit error event. Every handler is defensively wrapped: no event,
// however malformed, may take the connection down.
type SessionManager struct {
	hub      *Hub
	presence *PresenceIndex
	sessions RoomSessions
}

// NewSessionManager creates a SessionManager.
func NewSessionManager(hub *Hub, presence *PresenceIndex, sessions RoomSessions) *SessionManager {
	if hub == nil {
		panic("Hub cannot be nil for SessionManager")
	}
	if presence == nil {
		panic("PresenceIndex cannot be nil for SessionManager")
	}
	if sessions == nil {
		panic("RoomSessions cannot be nil for SessionManager")
	}
	return &SessionManager{hub: hub, presence: presence, sessions: sessions}
}

// Dispatch routes one inbound frame. Called from the connection's read
// goroutine, so per-connection ordering is inherent.
func (m *SessionManager) Dispatch(client *Client, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"conn_id": client.id,
				"user_id": client.user.ID,
				"panic":   r,
			}).Error("Recovered panic in event handler")
			client.sendEvent(EventRoomError, errorPayload{Message: msgOperationError})
		}
	}()

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		client.sendEvent(EventRoomError, errorPayload{Message: msgInvalidFormat})
		return
	}

	switch env.Event {
	case EventJoinRoom:
		m.handleJoinRoom(client, env.Data)
	case EventLeaveRoom:
		m.handleLeaveRoom(client, env.Data)
	case EventContentChange:
		m.handleContentChange(client, env.Data)
	case EventCursorPosition:
		m.handleCursorPosition(client, env.Data)
	case EventRoomMessage:
		m.handleRoomMessage(client, env.Data)
	case EventGetRooms:
		m.handleGetRooms(client)
	default:
		logrus.WithFields(logrus.Fields{
			"conn_id": client.id,
			"event":   env.Event,
		}).Warn("Ignoring unknown event")
	}
}

// HandleDisconnect runs the leave sequence for whatever room the
// connection was in and drops it from the presence index. There is no
// grace period: a reconnect is a fresh join.
func (m *SessionManager) HandleDisconnect(client *Client) {
	if client.room.joined() {
		m.leave(client)
	}
	m.presence.Remove(client)
	logrus.WithFields(logrus.Fields{
		"conn_id": client.id,
		"user_id": client.user.ID,
	}).Info("Connection closed")
}

func (m *SessionManager) handleJoinRoom(client *Client, data json.RawMessage) {
	var req joinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == 0 {
		client.sendEvent(EventRoomError, errorPayload{Message: msgInvalidFormat})
		return
	}

	rejoin := false
	if client.room.joined() {
		if !client.room.is(req.RoomID) {
			client.sendEvent(EventRoomError, errorPayload{Message: msgAlreadyInRoom})
			return
		}
		// Re-affirmation of the current room: refresh state, no
		// duplicate membership or user-joined broadcast.
		rejoin = true
	}

	// Subscribe before the presence write so a user-joined broadcast for
	// a concurrent join is never missed by someone already listed in the
	// room's presence. A rejected join rolls the subscription back.
	if !rejoin {
		m.hub.Subscribe(req.RoomID, client)
	}

	user := client.user
	result, err := m.sessions.JoinRoom(context.Background(), req.RoomID, &user, client.id)
	if err != nil {
		if !rejoin {
			m.hub.Unsubscribe(req.RoomID, client)
		}
		m.reportError(client, "join-room", err)
		return
	}

	if !rejoin {
		client.room = joinedRoom(req.RoomID)
	}

	// The joiner's ack is queued before the user-joined broadcast so it
	// is always causally first.
	client.sendEvent(EventRoomJoined, roomJoinedPayload{
		Room: roomDetails{
			ID:          result.Room.ID,
			Name:        result.Room.Name,
			Description: result.Room.Description,
			Topic:       result.Room.Topic,
			Content:     result.Content,
		},
		Users: result.Users,
	})

	if !rejoin {
		m.broadcastEvent(req.RoomID, EventUserJoined, userJoinedPayload{
			UserID:       user.ID,
			Username:     user.Username,
			FirstName:    user.FirstName,
			ProfileImage: user.ProfileImage,
		}, client)
	}
}

func (m *SessionManager) handleLeaveRoom(client *Client, data json.RawMessage) {
	var req leaveRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		client.sendEvent(EventRoomError, errorPayload{Message: msgInvalidFormat})
		return
	}
	if !client.room.joined() {
		// Leaving while unjoined is a harmless no-op.
		return
	}
	if !client.room.is(req.RoomID) {
		m.reportError(client, "leave-room", service.ErrNotInRoom)
		return
	}
	m.leave(client)
}

// leave runs the full departure sequence: unsubscribe, clear ephemeral
// and durable state, notify the remaining members, reset the connection
// state. Each step proceeds even if an earlier one failed so no phantom
// member is ever left behind.
func (m *SessionManager) leave(client *Client) {
	roomID := client.room.roomID

	m.hub.Unsubscribe(roomID, client)
	if err := m.sessions.LeaveRoom(context.Background(), roomID, client.user.ID); err != nil {
		logrus.WithFields(logrus.Fields{
			"conn_id": client.id,
			"room_id": roomID,
			"user_id": client.user.ID,
		}).WithError(err).Error("Leave cleanup reported errors")
	}
	m.broadcastEvent(roomID, EventUserLeft, userLeftPayload{
		UserID:   client.user.ID,
		Username: client.user.Username,
	}, client)
	client.room = sessionRoom{}
}

func (m *SessionManager) handleContentChange(client *Client, data json.RawMessage) {
	var req contentChangeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		client.sendEvent(EventRoomError, errorPayload{Message: msgInvalidFormat})
		return
	}
	if !client.room.is(req.RoomID) {
		m.reportError(client, "content-change", service.ErrNotInRoom)
		return
	}

	if err := m.sessions.ApplyContentChange(context.Background(), req.RoomID, client.user.ID, req.Content); err != nil {
		m.reportError(client, "content-change", err)
		return
	}

	// The author never receives their own content echo.
	m.broadcastEvent(req.RoomID, EventContentUpdated, contentUpdatedPayload{
		Content:   req.Content,
		Operation: req.Operation,
		UserID:    client.user.ID,
		Username:  client.user.Username,
		Timestamp: time.Now().UTC(),
	}, client)
}

func (m *SessionManager) handleCursorPosition(client *Client, data json.RawMessage) {
	var req cursorPositionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		client.sendEvent(EventRoomError, errorPayload{Message: msgInvalidFormat})
		return
	}
	// Cursor spam after a join/leave race is harmless: ignore silently
	// rather than error.
	if !client.room.is(req.RoomID) {
		return
	}
	m.broadcastEvent(req.RoomID, EventCursorUpdated, cursorUpdatedPayload{
		UserID:    client.user.ID,
		Username:  client.user.Username,
		Position:  req.Position,
		Selection: req.Selection,
		Timestamp: time.Now().UTC(),
	}, client)
}

func (m *SessionManager) handleRoomMessage(client *Client, data json.RawMessage) {
	var req roomMessageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		client.sendEvent(EventRoomError, errorPayload{Message: msgInvalidFormat})
		return
	}
	if !client.room.is(req.RoomID) {
		m.reportError(client, "room-message", service.ErrNotInRoom)
		return
	}

	user := client.user
	message, err := m.sessions.ComposeMessage(&user, req.Message)
	if err != nil {
		m.reportError(client, "room-message", err)
		return
	}

	// Chat messages echo back to the sender, unlike content and cursor
	// updates.
	m.broadcastEvent(req.RoomID, EventRoomMessage, message, nil)
}

func (m *SessionManager) handleGetRooms(client *Client) {
	rooms, err := m.sessions.ListPublicRooms(context.Background())
	if err != nil {
		m.reportError(client, "get-rooms", err)
		return
	}
	client.sendEvent(EventRoomsList, roomsListPayload{Rooms: rooms})
}

// broadcastEvent encodes once and fans out to the room's group.
func (m *SessionManager) broadcastEvent(roomID uint, event string, data interface{}, exclude *Client) {
	frame, err := EncodeEvent(event, data)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"room_id": roomID,
			"event":   event,
		}).WithError(err).Error("Failed to encode broadcast event")
		return
	}
	m.hub.Broadcast(roomID, frame, exclude)
}

// reportError maps an error to its client-facing message and emits a
// room-error to the originating connection only. Infrastructure failures
// collapse to a generic message and are logged in full here.
func (m *SessionManager) reportError(client *Client, operation string, err error) {
	message := displayMessage(err)
	if message == msgOperationError {
		logrus.WithFields(logrus.Fields{
			"conn_id":   client.id,
			"user_id":   client.user.ID,
			"operation": operation,
		}).WithError(err).Error("Room operation failed")
	}
	client.sendEvent(EventRoomError, errorPayload{Message: message})
}

func displayMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		return "Room not found or inactive"
	case errors.Is(err, service.ErrRoomPrivate):
		return "Room is private"
	case errors.Is(err, service.ErrRoomFull):
		return "Room is full"
	case errors.Is(err, service.ErrNotInRoom):
		return "Not in this room"
	case errors.Is(err, service.ErrEmptyMessage):
		return "Message cannot be empty"
	default:
		return msgOperationError
	}
}
