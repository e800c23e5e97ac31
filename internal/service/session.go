package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/domain"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/repository"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/tasks"
)

// RoomSessionService is the domain half of the realtime room subsystem:
// it decides whether a join is allowed, keeps the durable membership rows
// and the ephemeral store in step, and shapes the records the hub
// broadcasts. Transport concerns (subscriptions, fan-out, connection
// state) stay in the hub.
type RoomSessionService struct {
	roomRepo   repository.RoomRepository
	memberRepo repository.MemberRepository
	stateRepo  repository.StateRepository
	queue      TaskQueue
}

// NewRoomSessionService creates a RoomSessionService.
func NewRoomSessionService(
	roomRepo repository.RoomRepository,
	memberRepo repository.MemberRepository,
	stateRepo repository.StateRepository,
	queue TaskQueue,
) *RoomSessionService {
	if roomRepo == nil || memberRepo == nil || stateRepo == nil {
		panic("repositories cannot be nil for RoomSessionService")
	}
	if queue == nil {
		panic("TaskQueue cannot be nil for RoomSessionService")
	}
	return &RoomSessionService{
		roomRepo:   roomRepo,
		memberRepo: memberRepo,
		stateRepo:  stateRepo,
		queue:      queue,
	}
}

// JoinResult is everything the joining connection needs to render the
// room: metadata, the current content snapshot, and the presence map
// (which already includes the joiner).
type JoinResult struct {
	Room    domain.Room
	Content string
	Users   map[string]domain.Presence
}

// JoinRoom validates the join against the durable registry, creates or
// reactivates the membership row, and writes the joiner's presence into
// the ephemeral store. Capacity and visibility checks apply only to
// non-members; existing members always re-enter.
func (s *RoomSessionService) JoinRoom(ctx context.Context, roomID uint, user *domain.User, connID string) (*JoinResult, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": user.ID})

	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("join: find room %d: %w", roomID, err)
	}
	if !room.IsActive {
		return nil, ErrRoomNotFound
	}

	members, err := s.memberRepo.FindActiveByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("join: load members of room %d: %w", roomID, err)
	}
	isMember := false
	for _, m := range members {
		if m.UserID == user.ID {
			isMember = true
			break
		}
	}

	if !isMember {
		if !room.IsPublic {
			return nil, ErrRoomPrivate
		}
		if len(members) >= room.MaxParticipants {
			return nil, ErrRoomFull
		}
		if err := s.activateMembership(ctx, roomID, user.ID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	presence := domain.Presence{
		UserID:       user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		ProfileImage: user.ProfileImage,
		JoinedAt:     now,
		ConnectionID: connID,
	}
	if err := s.stateRepo.AddPresence(ctx, roomID, presence); err != nil {
		return nil, fmt.Errorf("join: write presence: %w", err)
	}

	content, err := s.stateRepo.GetContent(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("join: read content: %w", err)
	}
	users, err := s.stateRepo.GetPresence(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("join: read presence map: %w", err)
	}

	logCtx.Info("User joined room")
	return &JoinResult{Room: *room, Content: content, Users: users}, nil
}

// activateMembership reactivates an inactive row or creates a fresh
// participant row. At most one row per (room, user) ever exists.
func (s *RoomSessionService) activateMembership(ctx context.Context, roomID, userID uint) error {
	now := time.Now().UTC()

	member, err := s.memberRepo.FindByRoomAndUser(ctx, roomID, userID)
	switch {
	case err == nil:
		if member.IsActive {
			return nil
		}
		member.IsActive = true
		member.LeftAt = nil
		member.JoinedAt = now
		if err := s.memberRepo.Save(ctx, member); err != nil {
			return fmt.Errorf("join: reactivate membership (room %d, user %d): %w", roomID, userID, err)
		}
		return nil
	case errors.Is(err, repository.ErrMemberNotFound):
		member = &domain.RoomMember{
			RoomID:   roomID,
			UserID:   userID,
			Role:     domain.RoleParticipant,
			JoinedAt: now,
			IsActive: true,
		}
		if err := s.memberRepo.Save(ctx, member); err != nil {
			return fmt.Errorf("join: create membership (room %d, user %d): %w", roomID, userID, err)
		}
		return nil
	default:
		return fmt.Errorf("join: look up membership (room %d, user %d): %w", roomID, userID, err)
	}
}

// LeaveRoom removes the user's presence and deactivates the membership
// row. Both steps always run: a registry failure must never leave a
// phantom presence entry behind, and vice versa.
func (s *RoomSessionService) LeaveRoom(ctx context.Context, roomID, userID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID})

	var errs []error
	if err := s.stateRepo.RemovePresence(ctx, roomID, userID); err != nil {
		logCtx.WithError(err).Error("Failed to remove presence on leave")
		errs = append(errs, err)
	}
	if err := s.memberRepo.Deactivate(ctx, roomID, userID, time.Now().UTC()); err != nil {
		logCtx.WithError(err).Error("Failed to deactivate membership on leave")
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	logCtx.Info("User left room")
	return nil
}

// ApplyContentChange overwrites the room's content in the ephemeral store
// (last write wins) and records the contribution. The contribution
// counter is persisted through the worker; if the queue is unavailable
// the row is updated inline so no accepted change goes uncounted.
func (s *RoomSessionService) ApplyContentChange(ctx context.Context, roomID, userID uint, content string) error {
	if err := s.stateRepo.SetContent(ctx, roomID, content); err != nil {
		return fmt.Errorf("content change: %w", err)
	}

	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID})
	task, err := tasks.NewContributionIncrementTask(roomID, userID)
	if err == nil {
		_, err = s.queue.EnqueueContext(ctx, task)
	}
	if err != nil {
		logCtx.WithError(err).Warn("Contribution task enqueue failed, incrementing inline")
		if err := s.memberRepo.IncrementContribution(ctx, roomID, userID); err != nil {
			logCtx.WithError(err).Error("Inline contribution increment failed")
		}
	}
	return nil
}

// ComposeMessage validates and shapes a chat message for broadcast.
// Nothing is persisted; chat history is not part of this service.
func (s *RoomSessionService) ComposeMessage(user *domain.User, message string) (*domain.RoomMessage, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}
	return &domain.RoomMessage{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		ProfileImage: user.ProfileImage,
		Message:      trimmed,
		Timestamp:    time.Now().UTC(),
	}, nil
}

// ListPublicRooms serves the get-rooms socket event. Same query and page
// size as the REST listing.
func (s *RoomSessionService) ListPublicRooms(ctx context.Context) ([]RoomSummary, error) {
	return listPublicRooms(ctx, s.roomRepo, s.memberRepo)
}
