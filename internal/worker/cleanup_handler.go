package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/repository"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/tasks"
)

// sweepWindow bounds how far back the periodic sweep looks for ended
// rooms. Cleanup tasks older than this have either run or their state
// keys have already been removed by an earlier sweep.
const sweepWindow = 24 * time.Hour

// CleanupHandler removes the ephemeral cache state of ended rooms, both
// for targeted cleanup tasks and the periodic reconciliation sweep.
type CleanupHandler struct {
	roomRepo  repository.RoomRepository
	stateRepo repository.StateRepository
}

// NewCleanupHandler creates a CleanupHandler.
func NewCleanupHandler(roomRepo repository.RoomRepository, stateRepo repository.StateRepository) *CleanupHandler {
	if roomRepo == nil {
		panic("RoomRepository cannot be nil for CleanupHandler")
	}
	if stateRepo == nil {
		panic("StateRepository cannot be nil for CleanupHandler")
	}
	return &CleanupHandler{roomRepo: roomRepo, stateRepo: stateRepo}
}

// ProcessCleanup implements asynq.Handler for single-room cleanup tasks
// enqueued when a room ends.
func (h *CleanupHandler) ProcessCleanup(ctx context.Context, t *asynq.Task) error {
	var payload tasks.RoomStateCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logrus.WithError(err).WithField("task_type", t.Type()).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"task_type": t.Type(),
		"room_id":   payload.RoomID,
	})

	if err := h.stateRepo.ClearRoomState(ctx, payload.RoomID); err != nil {
		logCtx.WithError(err).Error("Failed to clear room state")
		return fmt.Errorf("clear state for room %d: %w", payload.RoomID, err)
	}

	logCtx.Info("Room state cleared")
	return nil
}

// ProcessSweep implements asynq.Handler for the periodic sweep. It clears
// the cache state of every room that ended within the sweep window, which
// reconciles rooms whose targeted cleanup task was lost.
func (h *CleanupHandler) ProcessSweep(ctx context.Context, t *asynq.Task) error {
	logCtx := logrus.WithField("task_type", t.Type())

	roomIDs, err := h.roomRepo.FindEndedSince(ctx, time.Now().Add(-sweepWindow))
	if err != nil {
		logCtx.WithError(err).Error("Failed to list recently ended rooms")
		return fmt.Errorf("list ended rooms: %w", err)
	}
	if len(roomIDs) == 0 {
		logCtx.Debug("No recently ended rooms, sweep complete")
		return nil
	}

	failed := 0
	for _, roomID := range roomIDs {
		if err := h.stateRepo.ClearRoomState(ctx, roomID); err != nil {
			logCtx.WithError(err).WithField("room_id", roomID).Error("Sweep failed to clear room state")
			failed++
		}
	}

	logCtx.WithFields(logrus.Fields{
		"swept":  len(roomIDs) - failed,
		"failed": failed,
	}).Info("Room state sweep complete")
	// Partial failures are retried on the next scheduled sweep rather
	// than failing the whole task.
	return nil
}
