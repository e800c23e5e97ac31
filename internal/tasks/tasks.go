// Package tasks defines the asynq task types and payloads exchanged
// between the event path and the background worker.
package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names registered with the worker mux.
const (
	// TypeContributionIncrement persists one accepted content change into
	// the member's contribution counter.
	TypeContributionIncrement = "room:contribution_increment"

	// TypeRoomStateCleanup deletes a room's ephemeral state after the
	// room has ended.
	TypeRoomStateCleanup = "room:state_cleanup"

	// TypeRoomStateSweep periodically clears ephemeral state left behind
	// by recently ended rooms, in case a cleanup task was lost.
	TypeRoomStateSweep = "room:state_sweep"
)

// ContributionIncrementPayload identifies the membership row to bump.
type ContributionIncrementPayload struct {
	RoomID uint `json:"room_id"`
	UserID uint `json:"user_id"`
}

// NewContributionIncrementTask builds the contribution increment task.
func NewContributionIncrementTask(roomID, userID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(ContributionIncrementPayload{RoomID: roomID, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("tasks: marshal contribution payload: %w", err)
	}
	return asynq.NewTask(TypeContributionIncrement, payload), nil
}

// RoomStateCleanupPayload identifies the room whose cache keys to delete.
type RoomStateCleanupPayload struct {
	RoomID uint `json:"room_id"`
}

// NewRoomStateCleanupTask builds the room state cleanup task.
func NewRoomStateCleanupTask(roomID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(RoomStateCleanupPayload{RoomID: roomID})
	if err != nil {
		return nil, fmt.Errorf("tasks: marshal cleanup payload: %w", err)
	}
	return asynq.NewTask(TypeRoomStateCleanup, payload), nil
}

// NewRoomStateSweepTask builds the periodic sweep task. It carries no
// payload; the handler derives its work from the durable registry.
func NewRoomStateSweepTask() *asynq.Task {
	return asynq.NewTask(TypeRoomStateSweep, nil)
}
