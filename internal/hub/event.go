package hub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/domain"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/service"
)

// Client-to-server event names.
const (
	EventJoinRoom       = "join-room"
	EventLeaveRoom      = "leave-room"
	EventContentChange  = "content-change"
	EventCursorPosition = "cursor-position"
	EventRoomMessage    = "room-message"
	EventGetRooms       = "get-rooms"
)

// Server-to-client event names.
const (
	EventRoomJoined     = "room-joined"
	EventRoomError      = "room-error"
	EventUserJoined     = "user-joined"
	EventUserLeft       = "user-left"
	EventContentUpdated = "content-updated"
	EventCursorUpdated  = "cursor-updated"
	EventRoomsList      = "rooms-list"
)

// Envelope is the wire frame carried in every websocket message, both
// directions: a named event plus its payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// EncodeEvent marshals an outbound event frame.
func EncodeEvent(event string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("hub: marshal %s payload: %w", event, err)
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		return nil, fmt.Errorf("hub: marshal %s envelope: %w", event, err)
	}
	return frame, nil
}

// --- Inbound payloads. Parsed strictly before any business logic runs;
// malformed data is rejected at this boundary. ---

type joinRoomRequest struct {
	RoomID uint `json:"roomId"`
}

type leaveRoomRequest struct {
	RoomID uint `json:"roomId"`
}

type contentChangeRequest struct {
	RoomID    uint   `json:"roomId"`
	Content   string `json:"content"`
	Operation string `json:"operation"`
}

type cursorPositionRequest struct {
	RoomID    uint            `json:"roomId"`
	Position  json.RawMessage `json:"position"`
	Selection json.RawMessage `json:"selection"`
}

type roomMessageRequest struct {
	RoomID  uint   `json:"roomId"`
	Message string `json:"message"`
}

// --- Outbound payloads ---

type roomDetails struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Topic       string `json:"topic"`
	Content     string `json:"content"`
}

type roomJoinedPayload struct {
	Room  roomDetails                `json:"room"`
	Users map[string]domain.Presence `json:"users"`
}

type userJoinedPayload struct {
	UserID       uint   `json:"userId"`
	Username     string `json:"username"`
	FirstName    string `json:"firstName"`
	ProfileImage string `json:"profileImage"`
}

type userLeftPayload struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
}

type contentUpdatedPayload struct {
	Content   string    `json:"content"`
	Operation string    `json:"operation"`
	UserID    uint      `json:"userId"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

type cursorUpdatedPayload struct {
	UserID    uint            `json:"userId"`
	Username  string          `json:"username"`
	Position  json.RawMessage `json:"position"`
	Selection json.RawMessage `json:"selection"`
	Timestamp time.Time       `json:"timestamp"`
}

type roomsListPayload struct {
	Rooms []service.RoomSummary `json:"rooms"`
}

type errorPayload struct {
	Message string `json:"message"`
}
