package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/repository"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/tasks"
)

// ContributionHandler persists contribution counter increments enqueued
// by the realtime path.
type ContributionHandler struct {
	memberRepo repository.MemberRepository
}

// NewContributionHandler creates a ContributionHandler.
func NewContributionHandler(memberRepo repository.MemberRepository) *ContributionHandler {
	if memberRepo == nil {
		panic("MemberRepository cannot be nil for ContributionHandler")
	}
	return &ContributionHandler{memberRepo: memberRepo}
}

// ProcessTask implements asynq.Handler for contribution increment tasks.
func (h *ContributionHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.ContributionIncrementPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logrus.WithError(err).WithField("task_type", t.Type()).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"task_type": t.Type(),
		"room_id":   payload.RoomID,
		"user_id":   payload.UserID,
	})

	if err := h.memberRepo.IncrementContribution(ctx, payload.RoomID, payload.UserID); err != nil {
		logCtx.WithError(err).Error("Failed to increment contribution count")
		return fmt.Errorf("increment contribution for user %d in room %d: %w", payload.UserID, payload.RoomID, err)
	}

	logCtx.Debug("Contribution increment processed")
	return nil
}
