package domain

import "time"

// Presence is the cache-resident record that a user is currently active
// in a room. It is a routing/availability optimization only: losing it
// degrades the room to empty and clients resynchronize by re-joining.
type Presence struct {
	UserID       uint      `json:"userId"`
	Username     string    `json:"username"`
	FirstName    string    `json:"firstName"`
	ProfileImage string    `json:"profileImage"`
	JoinedAt     time.Time `json:"joinedAt"`
	ConnectionID string    `json:"connectionId"`
}

// RoomMessage is an in-room chat message. Chat history is not persisted
// by this service; the record exists only for the broadcast.
type RoomMessage struct {
	ID           string    `json:"id"`
	UserID       uint      `json:"userId"`
	Username     string    `json:"username"`
	FirstName    string    `json:"firstName"`
	ProfileImage string    `json:"profileImage"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}
