package repository

import (
	"context"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/domain"
)

// StateRepository is the ephemeral room store, backed by Redis. Nothing
// written through this interface is durable: eviction or a restart
// degrades a room to "empty" and clients resynchronize by re-joining.
// It holds no business rules — capacity and visibility judgments belong
// to the session service, never here.
type StateRepository interface {
	// SetRoomMeta stores room metadata fields in the room's meta hash.
	SetRoomMeta(ctx context.Context, roomID uint, meta map[string]string) error

	// GetRoomMeta returns the room's meta hash; empty map if absent.
	GetRoomMeta(ctx context.Context, roomID uint) (map[string]string, error)

	// AddPresence writes or overwrites a member's presence record in the
	// room's presence hash.
	AddPresence(ctx context.Context, roomID uint, presence domain.Presence) error

	// RemovePresence deletes a member's presence record. A no-op when the
	// record is already gone.
	RemovePresence(ctx context.Context, roomID, userID uint) error

	// GetPresence returns all presence records for a room keyed by the
	// decimal user id. Records that fail to decode are logged and
	// skipped, never abort the read.
	GetPresence(ctx context.Context, roomID uint) (map[string]domain.Presence, error)

	// SetContent overwrites the room's current collaborative content.
	// Last write wins; no merge is attempted.
	SetContent(ctx context.Context, roomID uint, content string) error

	// GetContent returns the room's current content, or an empty string
	// if none has been written. Absence is not an error.
	GetContent(ctx context.Context, roomID uint) (string, error)

	// ClearRoomState deletes every key associated with the room. Called
	// when the room is ended.
	ClearRoomState(ctx context.Context, roomID uint) error
}
