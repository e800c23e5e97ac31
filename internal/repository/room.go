package repository

import (
	"context"
	"time"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/domain"
)

// RoomRepository stores and retrieves durable room records. Lifecycle
// decisions (capacity, visibility, ended state) are made by the services
// on top of these reads; the repository itself enforces nothing.
type RoomRepository interface {
	// FindByID returns the room or ErrRoomNotFound. Ended rooms are still
	// returned; callers check IsActive.
	FindByID(ctx context.Context, id uint) (*domain.Room, error)

	// FindByCode looks a room up by its human-enterable room code.
	FindByCode(ctx context.Context, code string) (*domain.Room, error)

	// FindPublicActive lists public, active rooms newest-first with the
	// owner preloaded, capped at limit.
	FindPublicActive(ctx context.Context, limit int) ([]domain.Room, error)

	// FindEndedSince returns ids of rooms ended at or after the given
	// time. Used by the background sweep that reconciles ephemeral state.
	FindEndedSince(ctx context.Context, since time.Time) ([]uint, error)

	// Save creates the room if it has no ID yet, otherwise updates it.
	Save(ctx context.Context, room *domain.Room) error

	// IsCodeTaken reports whether a room code is already in use.
	IsCodeTaken(ctx context.Context, code string) (bool, error)
}

// MemberRepository stores durable membership rows. The unique
// (room, user) constraint is owned by the schema; reactivation versus
// creation is decided by the session service.
type MemberRepository interface {
	// FindByRoomAndUser returns the membership row (active or not) or
	// ErrMemberNotFound.
	FindByRoomAndUser(ctx context.Context, roomID, userID uint) (*domain.RoomMember, error)

	// FindActiveByRoom returns all active membership rows for a room.
	FindActiveByRoom(ctx context.Context, roomID uint) ([]domain.RoomMember, error)

	// CountActiveByRooms returns the active member count per room id.
	CountActiveByRooms(ctx context.Context, roomIDs []uint) (map[uint]int64, error)

	// Save creates or updates a membership row.
	Save(ctx context.Context, member *domain.RoomMember) error

	// Deactivate marks the active row for (room, user) inactive with
	// leftAt set. A no-op if no active row exists.
	Deactivate(ctx context.Context, roomID, userID uint, leftAt time.Time) error

	// DeactivateAll marks every active row of the room inactive. Used
	// when a room is ended.
	DeactivateAll(ctx context.Context, roomID uint, leftAt time.Time) error

	// IncrementContribution adds one to the contribution counter of the
	// active membership row.
	IncrementContribution(ctx context.Context, roomID, userID uint) error
}
