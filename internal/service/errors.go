package service

import "errors"

// Domain-rule errors. These are reported to the originating client only
// and never crash a connection.
var (
	// ErrAuthenticationFailed covers every handshake rejection: missing
	// token, bad signature, expired token, unknown or inactive user.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrRoomNotFound is returned for absent rooms and for rooms that
	// have ended; clients cannot distinguish the two.
	ErrRoomNotFound = errors.New("room not found or inactive")

	// ErrRoomPrivate is returned when a non-member joins a private room.
	ErrRoomPrivate = errors.New("room is private")

	// ErrRoomFull is returned when active membership has reached the
	// room's capacity.
	ErrRoomFull = errors.New("room is full")

	// ErrNotInRoom is returned for room-scoped events from a connection
	// that is not joined to that room.
	ErrNotInRoom = errors.New("not in this room")

	// ErrEmptyMessage is returned for chat messages that trim to nothing.
	ErrEmptyMessage = errors.New("message cannot be empty")

	// ErrNotRoomOwner is returned when a non-owner tries to update or
	// end a room.
	ErrNotRoomOwner = errors.New("only the room owner can perform this action")

	// ErrValidation is wrapped around field-level validation failures on
	// room create/update.
	ErrValidation = errors.New("validation failed")
)
